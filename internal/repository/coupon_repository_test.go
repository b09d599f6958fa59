package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/repository"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/testutil"
)

func TestCouponRepository_DeletePendingCoupons(t *testing.T) {
	t.Run("deletes pending coupons and keeps paid ones", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCouponRepository(db)
		_, tranche := testutil.CreateQuarterlyTranche(t, db)
		sub := testutil.CreateSubscription(t, db, tranche.ID, "100000", false)

		testutil.NewCoupon(sub.ID, testutil.Date(2024, time.April, 1)).Paid().Build(t, db)
		testutil.NewCoupon(sub.ID, testutil.Date(2024, time.July, 1)).Build(t, db)
		testutil.NewCoupon(sub.ID, testutil.Date(2024, time.October, 1)).Build(t, db)

		deleted, err := repo.DeletePendingCoupons(context.Background(), []string{sub.ID})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if deleted != 2 {
			t.Errorf("Expected 2 deleted coupons, got %d", deleted)
		}

		testutil.AssertRowCount(t, db, "coupons", 1)
	})

	t.Run("leaves other subscriptions untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCouponRepository(db)
		_, tranche := testutil.CreateQuarterlyTranche(t, db)
		sub1 := testutil.CreateSubscription(t, db, tranche.ID, "100000", false)
		sub2 := testutil.CreateSubscription(t, db, tranche.ID, "50000", true)

		testutil.NewCoupon(sub1.ID, testutil.Date(2024, time.April, 1)).Build(t, db)
		testutil.NewCoupon(sub2.ID, testutil.Date(2024, time.April, 1)).Build(t, db)

		deleted, err := repo.DeletePendingCoupons(context.Background(), []string{sub1.ID})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if deleted != 1 {
			t.Errorf("Expected 1 deleted coupon, got %d", deleted)
		}
		testutil.AssertRowCount(t, db, "coupons", 1)
	})

	t.Run("returns zero for empty input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCouponRepository(db)

		deleted, err := repo.DeletePendingCoupons(context.Background(), nil)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if deleted != 0 {
			t.Errorf("Expected 0 deleted coupons, got %d", deleted)
		}
	})
}

func TestCouponRepository_InsertAndRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCouponRepository(db)
	_, tranche := testutil.CreateQuarterlyTranche(t, db)
	sub := testutil.CreateSubscription(t, db, tranche.ID, "100000", false)

	created := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	coupons := []model.Coupon{
		{
			ID:             testutil.MakeID(),
			SubscriptionID: sub.ID,
			DueDate:        testutil.Date(2024, time.April, 1),
			GrossAmount:    decimal.RequireFromString("1500"),
			NetAmount:      decimal.RequireFromString("1050"),
			Status:         model.CouponStatusPending,
			CreatedAt:      created,
		},
		{
			ID:             testutil.MakeID(),
			SubscriptionID: sub.ID,
			DueDate:        testutil.Date(2024, time.July, 1),
			GrossAmount:    decimal.RequireFromString("1234.56"),
			NetAmount:      decimal.RequireFromString("864.19"),
			Status:         model.CouponStatusPending,
			CreatedAt:      created,
		},
	}

	if err := repo.InsertCoupons(context.Background(), coupons); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	t.Run("lists coupons of the tranche by due date", func(t *testing.T) {
		got, err := repo.GetCouponsForTranche(context.Background(), tranche.ID, "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 coupons, got %d", len(got))
		}
		if got[0].DueDate != testutil.Date(2024, time.April, 1) {
			t.Errorf("Expected first due date 2024-04-01, got %s", got[0].DueDate)
		}
		if !got[1].GrossAmount.Equal(decimal.RequireFromString("1234.56")) {
			t.Errorf("Expected gross 1234.56, got %s", got[1].GrossAmount)
		}
		if !got[1].NetAmount.Equal(decimal.RequireFromString("864.19")) {
			t.Errorf("Expected net 864.19, got %s", got[1].NetAmount)
		}
		if !got[0].CreatedAt.Equal(created) {
			t.Errorf("Expected created_at %v, got %v", created, got[0].CreatedAt)
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		got, err := repo.GetCouponsForTranche(context.Background(), tranche.ID, model.CouponStatusPaid)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected 0 paid coupons, got %d", len(got))
		}
	})

	t.Run("rejects a duplicate due date for the same subscription", func(t *testing.T) {
		dup := coupons[0]
		dup.ID = testutil.MakeID()
		if err := repo.InsertCoupons(context.Background(), []model.Coupon{dup}); err == nil {
			t.Error("Expected unique constraint violation")
		}
	})
}

func TestCouponRepository_GetPaidCoupons(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCouponRepository(db)
	_, tranche := testutil.CreateQuarterlyTranche(t, db)
	sub := testutil.CreateSubscription(t, db, tranche.ID, "100000", false)

	paid := testutil.NewCoupon(sub.ID, testutil.Date(2024, time.April, 1)).WithAmounts("1500", "1050").Paid().Build(t, db)
	testutil.NewCoupon(sub.ID, testutil.Date(2024, time.July, 1)).Build(t, db)

	got, err := repo.GetPaidCoupons(context.Background(), []string{sub.ID})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 paid coupon, got %d", len(got))
	}
	if got[0].ID != paid.ID {
		t.Errorf("Expected coupon %s, got %s", paid.ID, got[0].ID)
	}
	if got[0].PaymentDate == nil || *got[0].PaymentDate != paid.DueDate {
		t.Errorf("Expected payment date %s, got %v", paid.DueDate, got[0].PaymentDate)
	}
	if !got[0].PaidAmount.Valid || !got[0].PaidAmount.Decimal.Equal(decimal.RequireFromString("1050")) {
		t.Errorf("Expected paid amount 1050, got %v", got[0].PaidAmount)
	}
}

func TestCouponRepository_MarkCouponPaid(t *testing.T) {
	t.Run("marks a pending coupon as paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCouponRepository(db)
		_, tranche := testutil.CreateQuarterlyTranche(t, db)
		sub := testutil.CreateSubscription(t, db, tranche.ID, "100000", false)
		coupon := testutil.NewCoupon(sub.ID, testutil.Date(2024, time.April, 1)).Build(t, db)

		err := repo.MarkCouponPaid(context.Background(), coupon.ID, testutil.Date(2024, time.April, 3), decimal.RequireFromString("70"))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		got, err := repo.GetCoupon(context.Background(), coupon.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !got.IsPaid() {
			t.Errorf("Expected status paid, got %s", got.Status)
		}
		if got.PaymentDate == nil || *got.PaymentDate != testutil.Date(2024, time.April, 3) {
			t.Errorf("Expected payment date 2024-04-03, got %v", got.PaymentDate)
		}
	})

	t.Run("refuses to pay a coupon twice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCouponRepository(db)
		_, tranche := testutil.CreateQuarterlyTranche(t, db)
		sub := testutil.CreateSubscription(t, db, tranche.ID, "100000", false)
		coupon := testutil.NewCoupon(sub.ID, testutil.Date(2024, time.April, 1)).Paid().Build(t, db)

		err := repo.MarkCouponPaid(context.Background(), coupon.ID, testutil.Date(2024, time.May, 1), decimal.RequireFromString("70"))
		if !errors.Is(err, apperrors.ErrCouponAlreadyPaid) {
			t.Errorf("Expected ErrCouponAlreadyPaid, got %v", err)
		}
	})

	t.Run("returns not found for unknown coupon", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCouponRepository(db)

		err := repo.MarkCouponPaid(context.Background(), testutil.MakeID(), testutil.Date(2024, time.May, 1), decimal.Zero)
		if !errors.Is(err, apperrors.ErrCouponNotFound) {
			t.Errorf("Expected ErrCouponNotFound, got %v", err)
		}
	})
}

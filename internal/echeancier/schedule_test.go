package echeancier_test

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/echeancier"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
)

func quarterlyParams(t *testing.T) echeancier.Parameters {
	t.Helper()
	return echeancier.Parameters{
		NominalRate:    decimal.NewFromInt(6),
		Frequency:      echeancier.Quarterly,
		IssuanceDate:   date(t, "2024-01-01"),
		DurationMonths: 12,
		DayCountBasis:  360,
	}
}

func physical(id string, amount int64) model.Subscription {
	return model.Subscription{ID: id, InvestorType: model.InvestorTypePhysical, InvestedAmount: decimal.NewFromInt(amount)}
}

func TestGenerate_QuarterlyScenario(t *testing.T) {
	sched := echeancier.Generate(quarterlyParams(t), []model.Subscription{physical("s1", 100000)}, nil)

	if len(sched.Entries) != 4 {
		t.Fatalf("Expected 4 coupons, got %d", len(sched.Entries))
	}

	wantDates := []string{"2024-04-01", "2024-07-01", "2024-10-01", "2025-01-01"}
	for i, e := range sched.Entries {
		if e.DueDate != date(t, wantDates[i]) {
			t.Errorf("Coupon %d: expected due date %s, got %s", i+1, wantDates[i], e.DueDate)
		}
		if !e.GrossAmount.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("Coupon %d: expected gross 1500, got %s", i+1, e.GrossAmount)
		}
		if !e.NetAmount.Equal(decimal.NewFromInt(1050)) {
			t.Errorf("Coupon %d: expected net 1050, got %s", i+1, e.NetAmount)
		}
		if e.Extension {
			t.Errorf("Coupon %d: expected base coupon", i+1)
		}
	}

	if sched.FinalMaturityDate != date(t, "2025-01-01") {
		t.Errorf("Expected final maturity 2025-01-01, got %s", sched.FinalMaturityDate)
	}
	if sched.BasePaymentCount != 4 || sched.TotalPaymentCount != 4 {
		t.Errorf("Expected 4/4 payments, got %d/%d", sched.BasePaymentCount, sched.TotalPaymentCount)
	}
}

func TestGenerate_PaymentCountRoundsUp(t *testing.T) {
	params := quarterlyParams(t)
	params.DurationMonths = 10

	sched := echeancier.Generate(params, []model.Subscription{physical("s1", 1000)}, nil)

	if sched.TotalPaymentCount != 4 {
		t.Errorf("Expected ceil(10/3)=4 payments, got %d", sched.TotalPaymentCount)
	}
	if sched.FinalMaturityDate != date(t, "2025-01-01") {
		t.Errorf("Expected final maturity 2025-01-01, got %s", sched.FinalMaturityDate)
	}
}

func TestGenerate_PreservesPaidCoupons(t *testing.T) {
	paid := []model.Coupon{
		{ID: "c1", SubscriptionID: "s1", DueDate: date(t, "2024-04-01"), Status: model.CouponStatusPaid},
		// pending rows are not reconciliation input
		{ID: "c2", SubscriptionID: "s1", DueDate: date(t, "2024-07-01"), Status: model.CouponStatusPending},
		// same date, other subscription
		{ID: "c3", SubscriptionID: "s2", DueDate: date(t, "2024-10-01"), Status: model.CouponStatusPaid},
	}
	subs := []model.Subscription{physical("s1", 100000), physical("s2", 50000)}

	sched := echeancier.Generate(quarterlyParams(t), subs, paid)

	if len(sched.Entries) != 6 {
		t.Fatalf("Expected 6 pending coupons, got %d", len(sched.Entries))
	}
	if sched.PreservedPaid != 2 {
		t.Errorf("Expected 2 preserved paid dates, got %d", sched.PreservedPaid)
	}
	for _, e := range sched.Entries {
		if e.SubscriptionID == "s1" && e.DueDate == date(t, "2024-04-01") {
			t.Error("Generated a pending coupon on a paid date for s1")
		}
		if e.SubscriptionID == "s2" && e.DueDate == date(t, "2024-10-01") {
			t.Error("Generated a pending coupon on a paid date for s2")
		}
	}
}

func TestGenerate_ExtensionActivation(t *testing.T) {
	params := quarterlyParams(t)
	params.Extension = echeancier.Extension{
		Active:      true,
		ExtraMonths: 6,
		StepUpRate:  decimal.RequireFromString("1.5"),
	}

	sched := echeancier.Generate(params, []model.Subscription{physical("s1", 100000)}, nil)

	if len(sched.Entries) != 6 {
		t.Fatalf("Expected 6 coupons, got %d", len(sched.Entries))
	}
	if !sched.ExtensionActive {
		t.Error("Expected extension to be reported active")
	}

	base := echeancier.Generate(quarterlyParams(t), []model.Subscription{physical("s1", 100000)}, nil)
	if want := echeancier.AddMonths(base.FinalMaturityDate, 6); sched.FinalMaturityDate != want {
		t.Errorf("Expected final maturity %s, got %s", want, sched.FinalMaturityDate)
	}

	for _, e := range sched.Entries {
		wantGross := decimal.NewFromInt(1500)
		if e.Index > 4 {
			wantGross = decimal.NewFromInt(1875) // 7.5% on the quarter
			if !e.Extension {
				t.Errorf("Coupon %d: expected extension coupon", e.Index)
			}
		}
		if !e.GrossAmount.Equal(wantGross) {
			t.Errorf("Coupon %d: expected gross %s, got %s", e.Index, wantGross, e.GrossAmount)
		}
	}
}

func TestGenerate_InactiveExtensionIsIgnored(t *testing.T) {
	params := quarterlyParams(t)
	params.Extension = echeancier.Extension{Active: false, ExtraMonths: 6, StepUpRate: decimal.NewFromInt(2)}

	sched := echeancier.Generate(params, []model.Subscription{physical("s1", 100000)}, nil)

	if len(sched.Entries) != 4 {
		t.Errorf("Expected 4 coupons, got %d", len(sched.Entries))
	}
	if sched.FinalMaturityDate != date(t, "2025-01-01") {
		t.Errorf("Expected final maturity 2025-01-01, got %s", sched.FinalMaturityDate)
	}
}

func TestGenerate_RoundsAtEmission(t *testing.T) {
	params := quarterlyParams(t)
	params.Frequency = echeancier.Monthly
	params.DayCountBasis = 365

	sched := echeancier.Generate(params, []model.Subscription{physical("s1", 12345)}, nil)

	for _, e := range sched.Entries {
		if !e.GrossAmount.Equal(e.GrossAmount.Round(2)) || !e.NetAmount.Equal(e.NetAmount.Round(2)) {
			t.Fatalf("Expected amounts rounded to cents, got %s / %s", e.GrossAmount, e.NetAmount)
		}
	}

	// Net is derived from the unrounded gross, then rounded.
	a := sched.Amounts["s1"]
	if !sched.Entries[0].NetAmount.Equal(a.BaseGross.Mul(decimal.RequireFromString("0.7")).Round(2)) {
		t.Errorf("Unexpected net amount %s", sched.Entries[0].NetAmount)
	}
}

func TestGenerate_IsDeterministic(t *testing.T) {
	subs := []model.Subscription{
		physical("s1", 100000),
		{ID: "s2", InvestorType: model.InvestorTypeCorporate, InvestedAmount: decimal.NewFromInt(250000)},
	}
	paid := []model.Coupon{{SubscriptionID: "s2", DueDate: date(t, "2024-04-01"), Status: model.CouponStatusPaid}}

	first := echeancier.Generate(quarterlyParams(t), subs, paid)
	second := echeancier.Generate(quarterlyParams(t), subs, paid)

	if !reflect.DeepEqual(first.Entries, second.Entries) {
		t.Error("Expected identical entries across runs")
	}
}

func TestGenerate_NoSubscriptions(t *testing.T) {
	sched := echeancier.Generate(quarterlyParams(t), nil, nil)

	if len(sched.Entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(sched.Entries))
	}
	if sched.FinalMaturityDate != date(t, "2025-01-01") {
		t.Errorf("Expected final maturity to be computed, got %s", sched.FinalMaturityDate)
	}
}

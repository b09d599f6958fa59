package service

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/repository"
)

// CouponService handles coupon ledger operations.
type CouponService struct {
	trancheRepo *repository.TrancheRepository
	couponRepo  *repository.CouponRepository
	logger      *zap.Logger
}

// NewCouponService creates a new CouponService with the provided repository dependencies.
func NewCouponService(
	trancheRepo *repository.TrancheRepository,
	couponRepo *repository.CouponRepository,
	logger *zap.Logger,
) *CouponService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CouponService{
		trancheRepo: trancheRepo,
		couponRepo:  couponRepo,
		logger:      logger,
	}
}

// GetCouponsForTranche retrieves the coupons of a tranche, optionally filtered by status.
//
// Returns:
//   - apperrors.ErrInvalidStatus if status is neither empty, pending nor paid
//   - apperrors.ErrTrancheNotFound if the tranche doesn't exist
func (s *CouponService) GetCouponsForTranche(ctx context.Context, trancheID, status string) ([]model.Coupon, error) {
	switch status {
	case "", model.CouponStatusPending, model.CouponStatusPaid:
	default:
		return nil, apperrors.ErrInvalidStatus
	}

	if _, err := s.trancheRepo.GetTrancheWithProject(ctx, trancheID); err != nil {
		return nil, err
	}

	coupons, err := s.couponRepo.GetCouponsForTranche(ctx, trancheID, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveCoupons, err)
	}
	return coupons, nil
}

// RecordPayment marks a pending coupon as paid. A paid coupon is immutable.
// When amount is not set the coupon's net amount is recorded.
//
// Returns:
//   - apperrors.ErrNegativeAmount if amount is below zero
//   - apperrors.ErrCouponNotFound if the coupon doesn't exist
//   - apperrors.ErrCouponAlreadyPaid if the coupon was already paid
func (s *CouponService) RecordPayment(
	ctx context.Context,
	couponID string,
	paymentDate civil.Date,
	amount decimal.NullDecimal,
) (model.Coupon, error) {
	if amount.Valid && amount.Decimal.IsNegative() {
		return model.Coupon{}, apperrors.ErrNegativeAmount
	}

	coupon, err := s.couponRepo.GetCoupon(ctx, couponID)
	if err != nil {
		return model.Coupon{}, err
	}
	if coupon.IsPaid() {
		return model.Coupon{}, apperrors.ErrCouponAlreadyPaid
	}

	paidAmount := coupon.NetAmount
	if amount.Valid {
		paidAmount = amount.Decimal
	}

	if err := s.couponRepo.MarkCouponPaid(ctx, couponID, paymentDate, paidAmount); err != nil {
		return model.Coupon{}, err
	}

	coupon, err = s.couponRepo.GetCoupon(ctx, couponID)
	if err != nil {
		return model.Coupon{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordPayment, err)
	}

	s.logger.Info("coupon payment recorded",
		zap.String("coupon_id", couponID),
		zap.String("subscription_id", coupon.SubscriptionID),
		zap.Stringer("due_date", coupon.DueDate),
		zap.Stringer("payment_date", paymentDate),
		zap.String("amount", paidAmount.StringFixed(2)),
	)
	return coupon, nil
}

package model

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Coupon statuses. A paid coupon is never deleted or recomputed by schedule
// regeneration.
const (
	CouponStatusPending = "pending"
	CouponStatusPaid    = "paid"
)

// Coupon represents one scheduled or historical coupon payment obligation
// (an échéance) of a subscription.
type Coupon struct {
	ID             string              `json:"id"`
	SubscriptionID string              `json:"subscriptionId"`
	DueDate        civil.Date          `json:"dueDate"`
	GrossAmount    decimal.Decimal     `json:"grossAmount"`
	NetAmount      decimal.Decimal     `json:"netAmount"`
	Status         string              `json:"status"`
	PaymentDate    *civil.Date         `json:"paymentDate,omitempty"`
	PaidAmount     decimal.NullDecimal `json:"paidAmount"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// IsPaid reports whether the coupon has been paid.
func (c Coupon) IsPaid() bool {
	return c.Status == CouponStatusPaid
}

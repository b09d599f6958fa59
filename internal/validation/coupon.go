package validation

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/model"
)

// ValidateRecordPayment validates a coupon payment request.
//
// Required fields:
//   - paymentDate: Must be in YYYY-MM-DD format
//
// Optional fields (validated if provided):
//   - paidAmount: Must be a decimal number, zero or positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateRecordPayment(req request.RecordPaymentRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.PaymentDate) == "" {
		errors["paymentDate"] = "date is required"
	} else if _, err := civil.ParseDate(req.PaymentDate); err != nil {
		errors["paymentDate"] = err.Error()
	}

	if req.PaidAmount != "" {
		amount, err := decimal.NewFromString(req.PaidAmount)
		switch {
		case err != nil:
			errors["paidAmount"] = "paidAmount must be a decimal number"
		case amount.IsNegative():
			errors["paidAmount"] = "paidAmount must not be negative"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateCouponStatus checks an optional coupon status filter.
func ValidateCouponStatus(status string) error {
	switch status {
	case "", model.CouponStatusPending, model.CouponStatusPaid:
		return nil
	}
	return &Error{Fields: map[string]string{"status": "status must be pending or paid"}}
}

package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTrancheNotFound indicates that a tranche with the given ID does not exist.
	ErrTrancheNotFound = errors.New("tranche not found")

	// ErrProjectNotFound indicates that the parent project of a tranche does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrCouponNotFound indicates that a coupon with the given ID does not exist.
	ErrCouponNotFound = errors.New("coupon not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrCouponAlreadyPaid indicates that a payment was recorded on a coupon that is already paid.
	// Paid coupons are immutable.
	ErrCouponAlreadyPaid = errors.New("coupon already paid")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidStatus indicates an unknown coupon status filter.
	ErrInvalidStatus = errors.New("invalid coupon status")

	// Validation errors for required fields
	ErrInvalidTrancheID = errors.New("tranche ID is required")
	ErrInvalidCouponID  = errors.New("coupon ID is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveTranches   = errors.New("failed to retrieve tranches")
	ErrFailedToRetrieveTranche    = errors.New("failed to retrieve tranche")
	ErrFailedToRetrieveCoupons    = errors.New("failed to retrieve coupons")
	ErrFailedToRegenerateSchedule = errors.New("failed to regenerate coupon schedule")
	ErrFailedToRecordPayment      = errors.New("failed to record coupon payment")
	ErrFailedToResolveParameters  = errors.New("tranche parameters cannot be resolved")
	ErrFailedToRegenerateTranches = errors.New("failed to regenerate tranches")
)

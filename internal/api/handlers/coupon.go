package handlers

import (
	"errors"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/service"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/validation"
)

// CouponHandler handles HTTP requests for coupon ledger endpoints.
type CouponHandler struct {
	couponService *service.CouponService
}

// NewCouponHandler creates a new CouponHandler with the provided service dependency.
func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// CouponsForTranche handles GET requests to list the coupons of a tranche.
//
// Endpoint: GET /api/tranche/{uuid}/coupons?status=pending|paid
// Response: 200 OK with array of Coupon
// Error: 400 Bad Request if status is not pending or paid
// Error: 404 Not Found if tranche not found
// Error: 500 Internal Server Error if retrieval fails
func (h *CouponHandler) CouponsForTranche(w http.ResponseWriter, r *http.Request) {
	trancheID := chi.URLParam(r, "uuid")
	status := r.URL.Query().Get("status")

	if err := validation.ValidateCouponStatus(status); err != nil {
		response.RespondValidationError(w, apperrors.ErrInvalidStatus.Error(), err)
		return
	}

	coupons, err := h.couponService.GetCouponsForTranche(r.Context(), trancheID, status)
	if err != nil {
		if errors.Is(err, apperrors.ErrTrancheNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTrancheNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCoupons.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, coupons)
}

// RecordPayment handles POST requests to mark a pending coupon as paid.
//
// Endpoint: POST /api/coupon/{uuid}/payment
// Request Body: RecordPaymentRequest (paymentDate, and optionally paidAmount)
// Response: 200 OK with the paid Coupon
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if coupon not found
// Error: 409 Conflict if the coupon is already paid
// Error: 500 Internal Server Error if the update fails
func (h *CouponHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	couponID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.RecordPaymentRequest](r)
	if err != nil {
		response.RespondValidationError(w, "invalid request body", err)
		return
	}

	if err := validation.ValidateRecordPayment(req); err != nil {
		response.RespondValidationError(w, "validation failed", err)
		return
	}

	// Both values were checked by ValidateRecordPayment.
	paymentDate, _ := civil.ParseDate(req.PaymentDate)
	var amount decimal.NullDecimal
	if req.PaidAmount != "" {
		amount = decimal.NewNullDecimal(decimal.RequireFromString(req.PaidAmount))
	}

	coupon, err := h.couponService.RecordPayment(r.Context(), couponID, paymentDate, amount)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCouponNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrCouponNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrCouponAlreadyPaid):
			response.RespondError(w, http.StatusConflict, apperrors.ErrCouponAlreadyPaid.Error(), err.Error())
		case errors.Is(err, apperrors.ErrNegativeAmount):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrNegativeAmount.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRecordPayment.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, coupon)
}

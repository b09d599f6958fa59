package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/echeancier"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/service"
)

// ScheduleHandler handles HTTP requests that regenerate coupon schedules.
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler with the provided service dependency.
func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

// Regenerate handles POST requests to rebuild the pending coupons of a tranche.
// Paid coupons are kept; every other coupon is recomputed from the current parameters.
//
// Endpoint: POST /api/tranche/{uuid}/echeancier
// Response: 200 OK with RegenerationResult
// Error: 404 Not Found with RegenerationFailure if tranche not found
// Error: 422 Unprocessable Entity with RegenerationFailure listing missing or invalid parameters
// Error: 500 Internal Server Error with RegenerationFailure if data access fails
func (h *ScheduleHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	trancheID := chi.URLParam(r, "uuid")

	result, err := h.scheduleService.Regenerate(r.Context(), trancheID)
	if err != nil {
		failure := service.FailureFromError(err)
		switch {
		case errors.Is(err, apperrors.ErrTrancheNotFound):
			response.RespondJSON(w, http.StatusNotFound, failure)
		case echeancier.IsConfigError(err):
			response.RespondJSON(w, http.StatusUnprocessableEntity, failure)
		default:
			response.RespondJSON(w, http.StatusInternalServerError, failure)
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// RegenerateAll handles POST requests to regenerate every tranche.
// Individual tranche failures are reported in the summary and do not fail the request.
//
// Endpoint: POST /api/echeancier/regenerate-all
// Response: 200 OK with SweepSummary
// Error: 500 Internal Server Error if tranches cannot be listed
func (h *ScheduleHandler) RegenerateAll(w http.ResponseWriter, r *http.Request) {
	summary, err := h.scheduleService.RegenerateAll(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRegenerateTranches.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

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

// TrancheHandler handles HTTP requests for tranche endpoints.
type TrancheHandler struct {
	trancheService *service.TrancheService
}

// NewTrancheHandler creates a new TrancheHandler with the provided service dependency.
func NewTrancheHandler(trancheService *service.TrancheService) *TrancheHandler {
	return &TrancheHandler{
		trancheService: trancheService,
	}
}

// Tranches handles GET requests to list all tranches.
//
// Endpoint: GET /api/tranche
// Response: 200 OK with array of Tranche
// Error: 500 Internal Server Error if retrieval fails
func (h *TrancheHandler) Tranches(w http.ResponseWriter, r *http.Request) {
	tranches, err := h.trancheService.GetTranches(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTranches.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, tranches)
}

// Tranche handles GET requests to retrieve one tranche with its project.
//
// Endpoint: GET /api/tranche/{uuid}
// Response: 200 OK with TrancheWithProject
// Error: 400 Bad Request if tranche ID is invalid (validated by middleware)
// Error: 404 Not Found if tranche not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TrancheHandler) Tranche(w http.ResponseWriter, r *http.Request) {
	trancheID := chi.URLParam(r, "uuid")

	tranche, err := h.trancheService.GetTranche(r.Context(), trancheID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTrancheNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTrancheNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTranche.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, tranche)
}

// Parameters handles GET requests to preview the effective schedule parameters of a tranche.
//
// Endpoint: GET /api/tranche/{uuid}/parameters
// Response: 200 OK with service.ResolvedParameters
// Error: 404 Not Found if tranche not found
// Error: 422 Unprocessable Entity with the missing or invalid parameter names
// Error: 500 Internal Server Error if retrieval fails
func (h *TrancheHandler) Parameters(w http.ResponseWriter, r *http.Request) {
	trancheID := chi.URLParam(r, "uuid")

	params, err := h.trancheService.GetParameters(r.Context(), trancheID)
	if err != nil {
		var cfgErr *echeancier.ConfigError
		switch {
		case errors.Is(err, apperrors.ErrTrancheNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTrancheNotFound.Error(), err.Error())
		case errors.As(err, &cfgErr):
			response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrFailedToResolveParameters.Error(), cfgErr)
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTranche.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, params)
}

// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/validation"
)

// ValidateUUIDMiddleware rejects requests whose uuid route parameter is missing
// or malformed with 400 Bad Request, before any tranche or coupon lookup.
//
//	r.Route("/{uuid}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDMiddleware)
//	    r.Get("/", handler.Tranche)
//	})
func ValidateUUIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "uuid")

		switch err := validation.ValidateUUID(id); {
		case id == "":
			response.RespondError(w, http.StatusBadRequest, "valid UUID is required", "")
		case err != nil:
			response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
		default:
			next.ServeHTTP(w, r)
		}
	})
}

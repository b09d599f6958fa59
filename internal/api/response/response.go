// Package response writes the JSON bodies of the HTTP API.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/validation"
)

// ErrorResponse is the body of every error returned by the API.
// Details holds a string, a field map or a structured payload such as a ConfigError.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON encodes data with the given status code. A nil data writes
// only the status. Encoding failures are logged, the status is already sent.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode JSON response", zap.Int("status", status), zap.Error(err))
	}
}

// RespondError sends an ErrorResponse.
//
//	response.RespondError(w, http.StatusNotFound, apperrors.ErrTrancheNotFound.Error(), err.Error())
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// RespondValidationError sends 400 Bad Request. A *validation.Error is
// reported field by field, any other error as its message.
func RespondValidationError(w http.ResponseWriter, message string, err error) {
	var valErr *validation.Error
	if errors.As(err, &valErr) {
		RespondError(w, http.StatusBadRequest, message, valErr.Fields)
		return
	}
	RespondError(w, http.StatusBadRequest, message, err.Error())
}

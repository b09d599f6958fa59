package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/api/middleware"
)

func TestAPIKeyMiddleware(t *testing.T) {
	const testAPIKey = "test-api-key-12345"

	tests := []struct {
		name       string
		configured string
		key        string
		token      string
		wantStatus int
		wantDetail string
	}{
		{
			name:       "rejects request without API key",
			configured: testAPIKey,
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Missing API key",
		},
		{
			name:       "rejects request with invalid API key",
			configured: testAPIKey,
			key:        "invalid",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Invalid API key",
		},
		{
			name:       "rejects request without time token",
			configured: testAPIKey,
			key:        testAPIKey,
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Missing Time token",
		},
		{
			name:       "rejects request with invalid time token",
			configured: testAPIKey,
			key:        testAPIKey,
			token:      "invalid",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Time token is invalid or expired",
		},
		{
			name:       "rejects a token signed with another key",
			configured: testAPIKey,
			key:        testAPIKey,
			token:      middleware.GenerateTimeToken("other-key"),
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Time token is invalid or expired",
		},
		{
			name:       "allows request with valid API key and time token",
			configured: testAPIKey,
			key:        testAPIKey,
			token:      middleware.GenerateTimeToken(testAPIKey),
			wantStatus: http.StatusOK,
		},
		{
			name:       "fails when no API key is configured",
			configured: "",
			key:        testAPIKey,
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Authentication not loaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/echeancier/regenerate-all", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			if tt.token != "" {
				req.Header.Set("X-Time-Token", tt.token)
			}
			w := httptest.NewRecorder()

			middleware.APIKeyMiddleware(tt.configured)(next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
			if handlerCalled != (tt.wantStatus == http.StatusOK) {
				t.Errorf("Expected handler called=%v", tt.wantStatus == http.StatusOK)
			}
			if tt.wantDetail == "" {
				return
			}

			var response map[string]string
			//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
			json.NewDecoder(w.Body).Decode(&response)

			if response["details"] != tt.wantDetail {
				t.Errorf("Expected %q, got %q", tt.wantDetail, response["details"])
			}
		})
	}
}

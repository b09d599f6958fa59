package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/api/middleware"
)

func TestLogger(t *testing.T) {
	serve := func(t *testing.T, status int, path string) []observer.LoggedEntry {
		t.Helper()
		core, logs := observer.New(zapcore.DebugLevel)

		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		})
		mw := middleware.Logger(zap.New(core))(next)

		req := httptest.NewRequest(http.MethodGet, path, nil)
		mw.ServeHTTP(httptest.NewRecorder(), req)

		return logs.All()
	}

	t.Run("logs method, path and status", func(t *testing.T) {
		entries := serve(t, http.StatusOK, "/api/tranche")

		if len(entries) != 1 {
			t.Fatalf("Expected 1 log entry, got %d", len(entries))
		}
		fields := entries[0].ContextMap()
		if fields["method"] != http.MethodGet {
			t.Errorf("Expected method GET, got %v", fields["method"])
		}
		if fields["path"] != "/api/tranche" {
			t.Errorf("Expected path /api/tranche, got %v", fields["path"])
		}
		if fields["status"] != int64(http.StatusOK) {
			t.Errorf("Expected status 200, got %v", fields["status"])
		}
		if entries[0].Level != zapcore.InfoLevel {
			t.Errorf("Expected info level, got %s", entries[0].Level)
		}
	})

	t.Run("client errors are logged as warnings", func(t *testing.T) {
		entries := serve(t, http.StatusNotFound, "/api/tranche/x")

		if entries[0].Level != zapcore.WarnLevel {
			t.Errorf("Expected warn level, got %s", entries[0].Level)
		}
	})

	t.Run("server errors are logged as errors", func(t *testing.T) {
		entries := serve(t, http.StatusInternalServerError, "/api/echeancier/regenerate-all")

		if entries[0].Level != zapcore.ErrorLevel {
			t.Errorf("Expected error level, got %s", entries[0].Level)
		}
	})
}

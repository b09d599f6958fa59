package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LogConfig
		debug bool
	}{
		{"json info", config.LogConfig{Level: zapcore.InfoLevel, Format: "json"}, false},
		{"console debug", config.LogConfig{Level: zapcore.DebugLevel, Format: "console"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := zap.ReplaceGlobals(zap.NewNop())
			defer restore()

			logger, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Errorf("Expected debug enabled=%v, got %v", tt.debug, got)
			}
			if zap.L() != logger {
				t.Error("Expected logger to be installed globally")
			}
		})
	}
}

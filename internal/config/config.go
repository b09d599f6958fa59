package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/ndewijer/Bond-Coupon-Manager-Backend/internal/echeancier"
)

const defaultScheduleCron = "0 2 * * *"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Schedule ScheduleConfig
	Security SecurityConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  zapcore.Level
	Format string // "json" or "console"
}

// ScheduleConfig holds coupon schedule settings
type ScheduleConfig struct {
	// Cron is the spec of the nightly regeneration sweep. Set SCHEDULE_CRON to an empty value to disable it.
	Cron string
	// FrequencyPolicy decides how an unrecognized payment frequency is handled.
	FrequencyPolicy echeancier.FrequencyPolicy
}

// SecurityConfig holds the key protecting mutating endpoints
type SecurityConfig struct {
	InternalAPIKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/coupon_manager.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Schedule: ScheduleConfig{
			Cron: lookupEnv("SCHEDULE_CRON", defaultScheduleCron),
		},
		Security: SecurityConfig{
			InternalAPIKey: os.Getenv("INTERNAL_API_KEY"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	level, err := zapcore.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	config.Log.Level = level

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: expected json or console", config.Log.Format)
	}

	policy, err := echeancier.ParsePolicy(os.Getenv("COUPON_FREQUENCY_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid COUPON_FREQUENCY_POLICY: %w", err)
	}
	config.Schedule.FrequencyPolicy = policy

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// lookupEnv is like getEnv but keeps an explicitly empty value.
func lookupEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

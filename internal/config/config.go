package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds server configuration loaded from environment variables.
// Database settings are resolved inside internal/database (DATABASE_URL / DB_*).
type Config struct {
	Port        string
	Environment string

	LogLevel string
	LogFile  string

	JWTSecret []byte

	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Tracing
	TracingEnabled bool
	OTLPEndpoint   string
	SamplingRate   float64

	CORSOrigins []string
}

// Load reads configuration from environment variables.
// JWT_SECRET is required - fail fast if missing.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8686"),
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  getEnvOrDefault("LOG_FILE", "atelier.log"),

		JWTSecret: []byte(secret),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		TracingEnabled: os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:   getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		SamplingRate:   getEnvFloat("OTEL_SAMPLING_RATE", 0.1),

		CORSOrigins: []string{getEnvOrDefault("CORS_ORIGIN", "*")},
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat returns a float environment variable or default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

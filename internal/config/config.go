package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// External services
	BackendAPIURL   string
	IdentityAPIURL  string
	IdentityAPIKey  string
	ProcessorAPIURL string
	ProcessorAPIKey string

	// HTTP client
	HTTPTimeout time.Duration

	// Session manager
	ReconcileTimeout time.Duration // bounded backend login during sign-in
	SessionDBPath    string
	SessionTTL       time.Duration
	JWTSecret        string

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BackendAPIURL:   getEnv("BACKEND_API_URL", "http://localhost:5000"),
		IdentityAPIURL:  getEnv("IDENTITY_API_URL", "https://identitytoolkit.googleapis.com"),
		IdentityAPIKey:  getEnv("IDENTITY_API_KEY", ""),
		ProcessorAPIURL: getEnv("PROCESSOR_API_URL", "https://api.stripe.com"),
		ProcessorAPIKey: getEnv("PROCESSOR_API_KEY", ""),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 15*time.Second),

		ReconcileTimeout: getEnvDuration("RECONCILE_TIMEOUT", 3*time.Second),
		SessionDBPath:    getEnv("SESSION_DB_PATH", "sessions.db"),
		SessionTTL:       getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		JWTSecret:        getEnv("JWT_SECRET", "homenest-default-dev-secret-change-me"),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		CacheTTL: getEnvDuration("CACHE_TTL", 2*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

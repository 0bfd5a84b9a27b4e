// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Gemini provider. The API key stays server-side; it must never be
	// echoed in responses or logs.
	GeminiKey        string
	GeminiModel      string
	GeminiModelImage string
	GeminiBaseURL    string

	// Valkey (Redis-compatible) — optional. When set, it backs the rate
	// limiter and the storyboard session store across instances.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// PostgreSQL — optional. When set, storyboard sessions survive
	// restarts.
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Rate limiter bucket parameters.
	RateLimitCapacity int
	RateLimitRefill   float64 // tokens per second

	// Google OAuth for the browser's Drive flow. Only the client id and
	// redirect URI exist — the implicit grant has no server-side secret.
	OAuthClientID    string
	OAuthRedirectURI string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		GeminiKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiModelImage: envOrDefault("GEMINI_MODEL_IMAGE", "gemini-2.5-flash-image"),
		GeminiBaseURL:    os.Getenv("GEMINI_BASE_URL"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		DBHost:     os.Getenv("POSTGRES_HOST"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "quoteforge"),
		DBPassword: os.Getenv("POSTGRES_PASSWORD"),
		DBName:     envOrDefault("POSTGRES_DB", "quoteforge"),

		RateLimitCapacity: envIntOrDefault("RATE_LIMIT_CAPACITY", 60),
		RateLimitRefill:   envFloatOrDefault("RATE_LIMIT_REFILL", 1),

		OAuthClientID:    os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
		OAuthRedirectURI: os.Getenv("GOOGLE_OAUTH_REDIRECT_URI"),
	}

	// The model key is the one secret the whole service depends on.
	// Failing here beats failing on the first request.
	if cfg.GeminiKey == "" && cfg.Env == "production" {
		return nil, fmt.Errorf("GEMINI_API_KEY must be set in production")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasValkey reports whether a Valkey backing is configured.
func (c *Config) HasValkey() bool {
	return c.ValkeyHost != ""
}

// HasPostgres reports whether a PostgreSQL backing is configured.
func (c *Config) HasPostgres() bool {
	return c.DBHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

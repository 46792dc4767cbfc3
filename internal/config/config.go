// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Public base URL of this API, used to build OAuth callback URLs
	// (e.g. https://api.pulseboard.app)
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`

	// Dashboard origin the OAuth callbacks redirect back to
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:5173"`

	// OAuth app credentials
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	FacebookClientID   string `env:"FB_CLIENT_ID"`
	FacebookClientSec  string `env:"FB_CLIENT_SECRET"`

	// Gemini augmentation; empty key disables it
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`

	// Stripe billing; empty key disables it
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	StripePriceID   string `env:"STRIPE_PRICE_ID"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting for the refresh endpoint
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"2"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"5"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
// The dashboard origin is always included so cookie-credentialed requests work
// without repeating it in CORS_ALLOWED_ORIGINS.
func (c *Config) GetCORSAllowedOrigins() []string {
	result := make([]string, 0, 4)
	if c.ClientURL != "" {
		result = append(result, c.ClientURL)
	}

	if c.CORSAllowedOrigins == "" {
		return result
	}

	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" && trimmed != c.ClientURL {
			result = append(result, trimmed)
		}
	}

	return result
}

// GoogleRedirectURL is the registered Google OAuth callback.
func (c *Config) GoogleRedirectURL() string {
	return c.APIBaseURL + "/auth/google/callback"
}

// FacebookRedirectURL is the registered Facebook OAuth callback.
func (c *Config) FacebookRedirectURL() string {
	return c.APIBaseURL + "/auth/instagram/callback"
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Package config loads the development admin API settings from the environment
package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/jub0bs/cors"
	leadadmin "github.com/leadroute/leadadmin"
)

// ServerEnvironment holds the environment variables (with defaults) used by the stub server
type ServerEnvironment struct {
	Environment       string        `env:"ENVIRONMENT,default=dev"`
	Host              string        `env:"HOST,default=127.0.0.1"`
	Port              int           `env:"PORT,default=8787"`
	AdminToken        string        `env:"ADMIN_API_TOKEN"` // bearer token required on /admin routes
	LogLevel          string        `env:"LOG_LEVEL,default=info"`
	EnvelopeStyle     string        `env:"ENVELOPE_STYLE,default=current"` // current or legacy response shapes
	ReadTimeout       time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS,separator=|"`
	MaxAPIRequestSize int64         `env:"MAX_API_REQUEST_SIZE,default=65536"` // 64KB
	RateLimitRPS      int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst    int32         `env:"RATE_LIMIT_BURST,default=20"`
	SeedData          bool          `env:"SEED_DATA,default=true"`
}

// NewServerConfig loads environment variables and returns the validated config and the CORS middleware
func NewServerConfig() (*ServerEnvironment, *cors.Middleware, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, nil, err
	}

	corsMiddleware, err := NewCORS(cfg.AllowedOrigins)
	if err != nil {
		return nil, nil, fmt.Errorf("CORS configuration failed: %w", err)
	}

	return &cfg, corsMiddleware, nil
}

// ValidateConfig checks the settings and fills in the derived defaults
func ValidateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !leadadmin.ValidEnvironment(cfg.Environment) {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if !leadadmin.ValidEnvelopeStyles[cfg.EnvelopeStyle] {
		return fmt.Errorf("invalid ENVELOPE_STYLE: %s (use current or legacy)", cfg.EnvelopeStyle)
	}
	if cfg.MaxAPIRequestSize < 1 {
		return fmt.Errorf("MAX_API_REQUEST_SIZE must be at least 1")
	}

	if cfg.Environment == "prod" || cfg.Environment == "staging" {
		if cfg.AdminToken == "" {
			return fmt.Errorf("ADMIN_API_TOKEN is required in %s environment", cfg.Environment)
		}
		if len(cfg.AllowedOrigins) == 0 {
			return fmt.Errorf("ALLOWED_ORIGINS must be set in %v", cfg.Environment)
		}
		if cfg.AllowedOrigins[0] == "*" {
			return fmt.Errorf("ALLOWED_ORIGINS must not be set to '*' in %v", cfg.Environment)
		}
	}

	// default to all origins when not in prod/staging
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return nil
}

// NewCORS builds the CORS middleware for the admin routes, so browser dashboards served from another
// origin can call the API
func NewCORS(allowedOrigins []string) (*cors.Middleware, error) {
	origins := make([]string, len(allowedOrigins))
	for i, origin := range allowedOrigins {
		origins[i] = strings.TrimSpace(origin)
	}

	return cors.NewMiddleware(cors.Config{
		Origins: origins,
		Methods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		RequestHeaders: []string{
			"Content-Type",
			"Authorization",
		},
		MaxAgeInSeconds: leadadmin.CORSMaxAgeInSeconds,
	})
}

package config

import (
	"fmt"
	"net/url"

	"github.com/Netflix/go-env"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/ui/auth"
)

// Config for the admin client, read from the environment. Command line flags override these values.
type Config struct {
	Environment string `env:"ENVIRONMENT,default=dev"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	APIBaseURL  string `env:"API_BASE_URL,default=http://127.0.0.1:8787"`
	PageSize    int    `env:"PAGE_SIZE,default=20"`
	TokenFile   string `env:"ADMIN_TOKEN_FILE"` // defaults to <user config dir>/leadadmin/credentials.json
	AdminToken  string `env:"ADMIN_API_TOKEN"`  // takes precedence over the stored token when set
	Output      string `env:"OUTPUT_FORMAT,default=table"`
}

var validOutputs = map[string]bool{
	"table": true,
	"json":  true,
}

func NewConfig() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if cfg.TokenFile == "" {
		path, err := auth.DefaultStorePath()
		if err != nil {
			return nil, err
		}
		cfg.TokenFile = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the values that can also be changed by command line flags
func (cfg *Config) Validate() error {
	if !leadadmin.ValidEnvironment(cfg.Environment) {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, staging, prod", cfg.Environment)
	}

	if cfg.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL cannot be empty")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", cfg.APIBaseURL)
	}

	if cfg.PageSize < 1 {
		return fmt.Errorf("page size must be positive, got %d", cfg.PageSize)
	}

	if !validOutputs[cfg.Output] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: table, json", cfg.Output)
	}

	return nil
}

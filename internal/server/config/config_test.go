package config

import (
	"testing"
)

func TestValidateConfig(t *testing.T) {
	valid := func() ServerEnvironment {
		return ServerEnvironment{
			Environment:       "dev",
			Port:              8787,
			EnvelopeStyle:     "current",
			MaxAPIRequestSize: 65536,
		}
	}

	tests := []struct {
		name    string
		modify  func(*ServerEnvironment)
		wantErr bool
	}{
		{name: "defaults", modify: func(*ServerEnvironment) {}},
		{name: "legacy envelope", modify: func(c *ServerEnvironment) { c.EnvelopeStyle = "legacy" }},
		{name: "unknown envelope", modify: func(c *ServerEnvironment) { c.EnvelopeStyle = "v3" }, wantErr: true},
		{name: "bad port", modify: func(c *ServerEnvironment) { c.Port = 70000 }, wantErr: true},
		{name: "bad environment", modify: func(c *ServerEnvironment) { c.Environment = "qa" }, wantErr: true},
		{
			name:    "prod without token",
			modify:  func(c *ServerEnvironment) { c.Environment = "prod"; c.AllowedOrigins = []string{"https://admin.example.com"} },
			wantErr: true,
		},
		{
			name: "prod with wildcard origin",
			modify: func(c *ServerEnvironment) {
				c.Environment = "prod"
				c.AdminToken = "s3cret"
				c.AllowedOrigins = []string{"*"}
			},
			wantErr: true,
		},
		{
			name: "prod complete",
			modify: func(c *ServerEnvironment) {
				c.Environment = "prod"
				c.AdminToken = "s3cret"
				c.AllowedOrigins = []string{"https://admin.example.com"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := ValidateConfig(&cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(cfg.AllowedOrigins) == 0 {
				t.Error("expected AllowedOrigins to default to *")
			}
		})
	}
}

func TestNewServerConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENVELOPE_STYLE", "legacy")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com|https://b.example.com")
	t.Setenv("ADMIN_API_TOKEN", "s3cret")

	cfg, corsMiddleware, err := NewServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if corsMiddleware == nil {
		t.Fatal("expected a CORS middleware")
	}
	if cfg.Port != 9999 || cfg.EnvelopeStyle != "legacy" || cfg.AdminToken != "s3cret" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

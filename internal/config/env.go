// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// OTel controls trace export. Tracing stays off until an endpoint is set.
type OTel struct {
	Endpoint    string  `env:"PORTFOLIO_OTEL_ENDPOINT"`
	Enabled     bool    `env:"PORTFOLIO_OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"PORTFOLIO_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Dashboard configures the admin dashboard binary. Debug logs every project
// store state change.
type Dashboard struct {
	HTTPAddr   string        `env:"PORTFOLIO_ADMIN_HTTP_ADDR" envDefault:":8080"`
	APIBaseURL string        `env:"PORTFOLIO_ADMIN_API_BASE_URL" envDefault:"http://localhost:3000/api"`
	APITimeout time.Duration `env:"PORTFOLIO_ADMIN_API_TIMEOUT" envDefault:"10s"`
	Debug      bool          `env:"PORTFOLIO_ADMIN_DEBUG"`
	OTel       OTel
}

// DevAPI configures the local REST API binary.
type DevAPI struct {
	HTTPAddr string `env:"PORTFOLIO_DEVAPI_HTTP_ADDR" envDefault:":3000"`
	DBPath   string `env:"PORTFOLIO_DEVAPI_DB_PATH" envDefault:"data/devapi.db"`
	OTel     OTel
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDashboard reads the dashboard configuration.
func LoadDashboard() (Dashboard, error) {
	var cfg Dashboard
	if err := ParseEnv(&cfg); err != nil {
		return Dashboard{}, err
	}
	if cfg.APITimeout <= 0 {
		return Dashboard{}, fmt.Errorf("PORTFOLIO_ADMIN_API_TIMEOUT must be positive, got %s", cfg.APITimeout)
	}
	return cfg, nil
}

// LoadDevAPI reads the dev API configuration.
func LoadDevAPI() (DevAPI, error) {
	var cfg DevAPI
	if err := ParseEnv(&cfg); err != nil {
		return DevAPI{}, err
	}
	return cfg, nil
}

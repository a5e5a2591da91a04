// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (provider client, Redis) via constructors.
  - Optional Infrastructure: An empty REDIS_URL selects the in-process cache and hub.
*/
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Stories web server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Read the client address from X-Forwarded-For / X-Real-IP. Only enable
	// behind a reverse proxy that overwrites those headers.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Identity provider (better-auth compatible REST API)
	AuthBaseURL  string        `env:"AUTH_BASE_URL"  envDefault:"http://localhost:3000"`
	AuthBasePath string        `env:"AUTH_BASE_PATH" envDefault:"/api/auth"`
	AuthTimeout  time.Duration `env:"AUTH_TIMEOUT"   envDefault:"10s"`

	// Key-Value Cache (Redis). Optional.
	RedisURL string `env:"REDIS_URL"`

	// Session handling
	SessionCacheTTL time.Duration `env:"SESSION_CACHE_TTL" envDefault:"5m"`
	SessionWait     time.Duration `env:"SESSION_WAIT"      envDefault:"3s"`
	FormTTL         time.Duration `env:"FORM_TTL"          envDefault:"15m"`

	// Throttling of the credential endpoints
	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS"   envDefault:"1"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"5"`

	// Observability
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// validate rejects combinations env tags cannot express.
func (c *Config) validate() error {
	parsed, err := url.Parse(c.AuthBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("AUTH_BASE_URL must be an absolute URL, got %q", c.AuthBaseURL)
	}

	if !strings.HasPrefix(c.AuthBasePath, "/") {
		return fmt.Errorf("AUTH_BASE_PATH must start with '/', got %q", c.AuthBasePath)
	}

	if c.AuthTimeout <= 0 || c.SessionWait <= 0 || c.FormTTL <= 0 || c.SessionCacheTTL <= 0 {
		return fmt.Errorf("durations must be positive")
	}

	if c.AuthRateLimitRPS <= 0 || c.AuthRateLimitBurst <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT_RPS and AUTH_RATE_LIMIT_BURST must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SecureCookies reports whether cookies must carry the Secure attribute.
//
// It mirrors the provider's own switch, which also adds the "__Secure-" prefix to
// its session cookie in production.
func (c *Config) SecureCookies() bool {
	return c.IsProduction()
}

// ProviderURL returns the absolute root of the provider's REST API.
func (c *Config) ProviderURL() (*url.URL, error) {
	return url.Parse(strings.TrimRight(c.AuthBaseURL, "/") + c.AuthBasePath)
}

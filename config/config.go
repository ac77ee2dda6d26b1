package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - http.go: HTTP server configuration
//   - session.go: Session gate and cookie configuration
//   - services.go: Backend service endpoint configuration
//   - observability.go: Logging and metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (per-service backend URLs,
	// non-secure cookies). Set DEV=true or NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Session gate configuration
	Session SessionConfig

	// Backend service endpoints
	Services ServicesConfig

	// Redis connection for the login rate limiter.
	// Leave REDIS_ADDR empty to disable rate limiting.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Login rate limiter configuration
	LoginLimit LoginLimitConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.Services.Sanitize()
	c.LoginLimit.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// RedisConfig describes the optional Redis connection used by the login
// rate limiter. An empty Addr disables the limiter entirely.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Enabled reports whether a Redis connection should be established.
func (r *RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

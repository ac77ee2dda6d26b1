package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// SlowRequestThreshold is the duration above which a completed request
	// is logged as a slow-request warning.
	SlowRequestThreshold time.Duration `env:"HTTP_SLOW_REQUEST_THRESHOLD" envDefault:"3s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.SlowRequestThreshold <= 0 {
		h.SlowRequestThreshold = 3 * time.Second
	}
}

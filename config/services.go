package config

import (
	"strings"
	"time"
)

// ServiceEndpoint describes how to reach one backend service.
//
// In development each service is addressed directly via its own BaseURL.
// In production all services sit behind a shared API gateway and only the
// per-service Endpoint path differs.
type ServiceEndpoint struct {
	// BaseURL is the direct service URL used in development mode.
	BaseURL string `env:"BASE_URL"`

	// Endpoint is the path prefix that identifies the service behind the
	// API gateway (e.g. "/ims").
	Endpoint string `env:"ENDPOINT"`
}

// Resolve returns the full base URL for the service given the gateway URL
// and the current environment mode.
func (e ServiceEndpoint) Resolve(gatewayURL string, isDev bool) string {
	base := gatewayURL
	if isDev {
		base = e.BaseURL
	}
	return strings.TrimRight(base, "/") + e.Endpoint
}

// ServicesConfig contains backend service endpoint configuration.
type ServicesConfig struct {
	// IMS is the identity service (login, logout, token refresh).
	IMS ServiceEndpoint `envPrefix:"API_IMS_"`

	// WHS is the warehouse service (planogram operations).
	WHS ServiceEndpoint `envPrefix:"API_WHS_"`

	// GatewayURL is the shared API gateway URL used in production.
	GatewayURL string `env:"API_GATEWAY_URL"`

	// APIKey is the static key sent with planogram proxy calls.
	APIKey string `env:"API_KEY"`

	// IdentityTimeout bounds every identity service call, including the
	// per-request token verification performed by the session gate.
	IdentityTimeout time.Duration `env:"IDENTITY_TIMEOUT" envDefault:"10s"`

	// BackendTimeout bounds planogram proxy calls.
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`

	// ZonaRakExpr is an optional JMESPath expression applied to the decoded
	// zonarak response payload to normalize its shape. Empty means passthrough.
	ZonaRakExpr string `env:"API_WHS_ZONARAK_EXPR"`

	// LineRakExpr is an optional JMESPath expression for the linerak payload.
	LineRakExpr string `env:"API_WHS_LINERAK_EXPR"`
}

// Sanitize applies guardrails to service configuration values.
func (s *ServicesConfig) Sanitize() {
	if s.IdentityTimeout <= 0 {
		s.IdentityTimeout = 10 * time.Second
	}
	if s.BackendTimeout <= 0 {
		s.BackendTimeout = 15 * time.Second
	}
}

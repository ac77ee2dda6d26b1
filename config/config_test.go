package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.SlowRequestThreshold)
	assert.Equal(t, "token", cfg.Session.TokenCookie)
	assert.Equal(t, "user", cfg.Session.UserCookie)
	assert.Equal(t, 24*time.Hour, cfg.Session.MaxAge)
	assert.Equal(t, []string{"/dashboard", "/planogram", "/profile"}, cfg.Session.ProtectedPrefixes)
	assert.Equal(t, 10*time.Second, cfg.Services.IdentityTimeout)
	assert.Equal(t, 15*time.Second, cfg.Services.BackendTimeout)
	assert.Equal(t, 5, cfg.LoginLimit.MaxAttempts)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestSessionConfigSanitizeNormalizesPrefixes(t *testing.T) {
	cfg := SessionConfig{
		TokenCookie:       " ",
		UserCookie:        "",
		MaxAge:            -1,
		ProtectedPrefixes: []string{" /dashboard ", "planogram", "", "/profile"},
	}
	cfg.Sanitize()

	assert.Equal(t, "token", cfg.TokenCookie)
	assert.Equal(t, "user", cfg.UserCookie)
	assert.Equal(t, 24*time.Hour, cfg.MaxAge)
	assert.Equal(t, []string{"/dashboard", "/planogram", "/profile"}, cfg.ProtectedPrefixes)
}

func TestServiceEndpointResolve(t *testing.T) {
	ep := ServiceEndpoint{
		BaseURL:  "http://ims.local:3001",
		Endpoint: "/ims",
	}

	tests := []struct {
		name     string
		isDev    bool
		gateway  string
		expected string
	}{
		{
			name:     "development uses per-service base URL",
			isDev:    true,
			gateway:  "https://gateway.example.com",
			expected: "http://ims.local:3001/ims",
		},
		{
			name:     "production uses gateway",
			isDev:    false,
			gateway:  "https://gateway.example.com",
			expected: "https://gateway.example.com/ims",
		},
		{
			name:     "trailing slash on gateway is trimmed",
			isDev:    false,
			gateway:  "https://gateway.example.com/",
			expected: "https://gateway.example.com/ims",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ep.Resolve(tt.gateway, tt.isDev))
		})
	}
}

func TestDetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}

func TestObservabilityMetricsDisabledWithoutAddress(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "  "}
	cfg.Sanitize()
	assert.False(t, cfg.IsEnabled())
}

func TestLoginLimitSanitize(t *testing.T) {
	cfg := LoginLimitConfig{MaxAttempts: 0, Window: 0}
	cfg.Sanitize()
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Window)
}

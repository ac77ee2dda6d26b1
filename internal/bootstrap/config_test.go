package bootstrap

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.level))
		})
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SESSION_PROTECTED_PREFIXES", "/dashboard,/reports")
	t.Setenv("IDENTITY_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, []string{"/dashboard", "/reports"}, cfg.Session.ProtectedPrefixes)
	assert.Equal(t, 3*time.Second, cfg.Services.IdentityTimeout)
}

func TestLoadConfigToleratesMissingDotenv(t *testing.T) {
	// No .env file exists in the test working directory; LoadConfig must
	// fall through to plain environment parsing.
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.Session.TokenCookie)
}

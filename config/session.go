package config

import (
	"strings"
	"time"
)

// SessionConfig contains session gate and cookie configuration.
type SessionConfig struct {
	// TokenCookie is the name of the cookie holding the opaque bearer token.
	TokenCookie string `env:"SESSION_TOKEN_COOKIE" envDefault:"token"`

	// UserCookie is the name of the cookie holding the JSON-encoded profile.
	UserCookie string `env:"SESSION_USER_COOKIE" envDefault:"user"`

	// MaxAge is the lifetime of both session cookies.
	MaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"24h"`

	// ProtectedPrefixes lists the path prefixes that require a valid session.
	// Paths outside this list (other than /login and /logout) are public.
	ProtectedPrefixes []string `env:"SESSION_PROTECTED_PREFIXES" envSeparator:"," envDefault:"/dashboard,/planogram,/profile"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if strings.TrimSpace(s.TokenCookie) == "" {
		s.TokenCookie = "token"
	}
	if strings.TrimSpace(s.UserCookie) == "" {
		s.UserCookie = "user"
	}
	if s.MaxAge <= 0 {
		s.MaxAge = 24 * time.Hour
	}

	prefixes := make([]string, 0, len(s.ProtectedPrefixes))
	for _, p := range s.ProtectedPrefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		prefixes = append(prefixes, p)
	}
	s.ProtectedPrefixes = prefixes
}

// LoginLimitConfig contains login rate limiter configuration.
// The limiter only takes effect when Redis is configured.
type LoginLimitConfig struct {
	// MaxAttempts is the number of login attempts allowed per username+IP
	// within Window before further attempts are rejected.
	MaxAttempts int `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`

	// Window is the sliding window for attempt counting.
	Window time.Duration `env:"LOGIN_ATTEMPT_WINDOW" envDefault:"5m"`
}

// Sanitize applies guardrails to login limiter configuration values.
func (l *LoginLimitConfig) Sanitize() {
	if l.MaxAttempts < 1 {
		l.MaxAttempts = 1
	}
	if l.Window <= 0 {
		l.Window = 5 * time.Minute
	}
}

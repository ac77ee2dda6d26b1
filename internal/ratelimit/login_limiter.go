// Package ratelimit throttles login attempts with a Redis counter keyed by
// username and client IP. The limiter is optional: without a Redis client
// every attempt is allowed, and a Redis outage fails open so the identity
// service stays the authority on credentials.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts login attempts per username+IP within a sliding
// window and rejects attempts over the limit.
type LoginLimiter struct {
	client      redis.UniversalClient
	maxAttempts int
	window      time.Duration
	logger      *slog.Logger
}

// LoginLimiterOptions groups dependencies for LoginLimiter.
type LoginLimiterOptions struct {
	// Client is the Redis connection. Nil disables the limiter.
	Client redis.UniversalClient
	// MaxAttempts per window. Defaults to 5.
	MaxAttempts int
	// Window is the counting window. Defaults to 5m.
	Window time.Duration
	// Logger is optional.
	Logger *slog.Logger
}

// NewLoginLimiter constructs a LoginLimiter.
func NewLoginLimiter(opts LoginLimiterOptions) *LoginLimiter {
	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	window := opts.Window
	if window <= 0 {
		window = 5 * time.Minute
	}
	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "login_limiter")
	} else {
		logger = slog.Default()
	}
	return &LoginLimiter{
		client:      opts.Client,
		maxAttempts: maxAttempts,
		window:      window,
		logger:      logger,
	}
}

// Enabled reports whether attempts are actually counted.
func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.client != nil
}

// Allow records one attempt and reports whether it is within the limit.
// The counter's TTL is set on the first attempt of a window, so the window
// slides from the first failure rather than refreshing on every try.
func (l *LoginLimiter) Allow(ctx context.Context, username, ip string) bool {
	if !l.Enabled() {
		return true
	}

	key := attemptKey(username, ip)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.WarnContext(ctx, "attempt counter unavailable, allowing login", "error", err)
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.WarnContext(ctx, "attempt counter expiry failed", "error", err)
		}
	}

	if count > int64(l.maxAttempts) {
		l.logger.InfoContext(ctx, "login attempt over limit",
			"username", username, "ip", ip, "attempts", count)
		return false
	}
	return true
}

// Reset clears the counter after a successful login so a remembered
// password does not stay penalized by earlier typos.
func (l *LoginLimiter) Reset(ctx context.Context, username, ip string) {
	if !l.Enabled() {
		return
	}
	if err := l.client.Del(ctx, attemptKey(username, ip)).Err(); err != nil {
		l.logger.WarnContext(ctx, "attempt counter reset failed", "error", err)
	}
}

func attemptKey(username, ip string) string {
	return fmt.Sprintf("login_attempts:%s:%s", strings.ToLower(strings.TrimSpace(username)), ip)
}

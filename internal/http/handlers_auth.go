package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/retailops/plano-ui/internal/identity"
	"github.com/retailops/plano-ui/internal/observability/statsd"
	"github.com/retailops/plano-ui/internal/ratelimit"
	"github.com/retailops/plano-ui/internal/session"
)

// IdentityService is the slice of the identity client the auth handlers use.
type IdentityService interface {
	Login(ctx context.Context, username, password string) identity.LoginResult
	Logout(ctx context.Context, token string) error
}

// AuthHandlers serves the login page, the login action, and logout.
type AuthHandlers struct {
	Identity IdentityService
	Cookies  *session.CookieStore
	Limiter  *ratelimit.LoginLimiter
	Renderer *TemplateRenderer
	Logger   *slog.Logger
	Metrics  statsd.Sink
	Now      func() time.Time
}

func (h *AuthHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// LoginPage renders the login form. The session gate has already bounced
// authenticated visitors to the dashboard before this runs.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := NewPageData(r, "Login")
	if err := h.Renderer.RenderPage(w, "login", data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Login is the login form action: validate, rate-limit, authenticate
// against the identity service, establish the session, redirect.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, http.StatusBadRequest, "invalid form submission")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.renderLoginError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	ip := ClientIP(r)
	if !h.Limiter.Allow(r.Context(), username, ip) {
		h.count("login.rate_limited")
		h.renderLoginError(w, r, http.StatusTooManyRequests, "too many attempts, try again later")
		return
	}

	res := h.Identity.Login(r.Context(), username, password)
	if !res.Success {
		h.logger().InfoContext(r.Context(), "login rejected", "username", username, "reason", res.Message)
		message := res.Message
		if message == "" {
			message = "login failed"
		}
		h.renderLoginError(w, r, http.StatusUnauthorized, message)
		return
	}

	var user session.User
	if res.User != nil {
		user = session.BuildUser(res.User, username, h.now())
	} else {
		// The service authenticated but sent no profile; a minimal one
		// keeps the dashboard usable.
		user = session.BasicUser(username, h.now())
	}

	if err := h.Cookies.WriteSession(w, res.Token, user); err != nil {
		h.count("session.write_failure")
		h.logger().ErrorContext(r.Context(), "session write failed", "error", err)
		h.renderLoginError(w, r, http.StatusInternalServerError, "could not establish session")
		return
	}

	h.Limiter.Reset(r.Context(), username, ip)
	h.logger().InfoContext(r.Context(), "login succeeded", "username", username)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout ends the session: best-effort remote logout, then an unconditional
// local purge. Reachable even with a broken session.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.Cookies.ReadToken(r); token != "" {
		if err := h.Identity.Logout(r.Context(), token); err != nil {
			// The local session is cleared regardless; the remote token
			// expires on its own.
			h.logger().WarnContext(r.Context(), "remote logout failed", "error", err)
		}
	}

	h.Cookies.Purge(w)
	h.logger().InfoContext(r.Context(), "session cleared")

	target := safeRedirectPath(r.URL.Query().Get("redirect"))
	if target == "" {
		target = "/login"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *AuthHandlers) renderLoginError(w http.ResponseWriter, r *http.Request, code int, message string) {
	data := NewPageData(r, "Login")
	data.Error = message
	w.WriteHeader(code)
	if err := h.Renderer.RenderPage(w, "login", data); err != nil {
		h.logger().ErrorContext(r.Context(), "login page render failed", "error", err)
	}
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) count(name string) {
	if h.Metrics != nil {
		h.Metrics.Count(name, 1, nil)
	}
}

// safeRedirectPath accepts only same-site relative paths: it must start
// with a single "/" and carry no scheme or host.
func safeRedirectPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return ""
	}
	if strings.ContainsAny(raw, "\r\n") {
		return ""
	}
	return raw
}

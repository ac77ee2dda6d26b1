package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/retailops/plano-ui/internal/identity"
	"github.com/retailops/plano-ui/internal/observability/statsd"
)

// Gate is the request-gating middleware. It runs before every handler and
// decides, per route class, whether to verify the session against the
// identity service, redirect, or let the request through. Handlers behind
// the gate read the established identity from request context and never
// re-verify.
type Gate struct {
	verifier   identity.Verifier
	cookies    *CookieStore
	classifier *Classifier
	logger     *slog.Logger
	metrics    statsd.Sink
	now        func() time.Time
}

// GateOptions groups dependencies for Gate.
type GateOptions struct {
	// Verifier checks tokens against the identity service (required).
	Verifier identity.Verifier
	// Cookies reads and writes the session cookie pair (required).
	Cookies *CookieStore
	// Classifier maps paths to route classes (required).
	Classifier *Classifier
	// Logger is optional.
	Logger *slog.Logger
	// Metrics is optional.
	Metrics statsd.Sink
	// Now is optional; overridden in tests.
	Now func() time.Time
}

// NewGate constructs a Gate.
func NewGate(opts GateOptions) *Gate {
	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "session_gate")
	} else {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Gate{
		verifier:   opts.Verifier,
		cookies:    opts.Cookies,
		classifier: opts.Classifier,
		logger:     logger,
		metrics:    opts.Metrics,
		now:        now,
	}
}

// Middleware returns the gate as standard middleware.
func (g *Gate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := g.classifier.Classify(r.URL.Path)
			switch class {
			case RouteLogout:
				// Logout must stay reachable with a broken or expired
				// session, so it is never gated.
				next.ServeHTTP(w, r)
			case RouteAuthTransition:
				g.serveAuthTransition(w, r, next)
			case RouteProtected:
				g.serveProtected(w, r, next)
			default:
				g.servePublic(w, r, next)
			}
		})
	}
}

// serveAuthTransition handles the login page: an already valid session is
// bounced to the dashboard without touching its cookies; a rejected or
// unverifiable one is purged so the visitor starts clean.
func (g *Gate) serveAuthTransition(w http.ResponseWriter, r *http.Request, next http.Handler) {
	token := g.cookies.ReadToken(r)
	if token == "" {
		next.ServeHTTP(w, r)
		return
	}

	res := g.verifier.Verify(r.Context(), token)
	g.count("gate.verify."+res.Outcome.String(), RouteAuthTransition)

	if res.Outcome == identity.OutcomeValid {
		http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
		return
	}

	// Invalid or unreachable: either way the presented session is not
	// usable, so clear it before showing the login form.
	g.cookies.Purge(w)
	next.ServeHTTP(w, r)
}

// serveProtected enforces the session on protected routes and extends it
// when the identity service rotates the token.
func (g *Gate) serveProtected(w http.ResponseWriter, r *http.Request, next http.Handler) {
	token := g.cookies.ReadToken(r)
	if token == "" {
		g.count("gate.redirect.anonymous", RouteProtected)
		g.cookies.Purge(w)
		http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
		return
	}

	res := g.verifier.Verify(r.Context(), token)
	g.count("gate.verify."+res.Outcome.String(), RouteProtected)

	switch res.Outcome {
	case identity.OutcomeInvalid:
		g.logger.InfoContext(r.Context(), "session rejected",
			"path", r.URL.Path, "reason", res.Message)
		g.cookies.Purge(w)
		http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
		return

	case identity.OutcomeNetworkError:
		// Fail safe: an unreachable identity service must not lock every
		// user out, so the request proceeds on the unverified session.
		g.logger.WarnContext(r.Context(), "identity service unreachable, continuing with stale session",
			"path", r.URL.Path, "error", res.Err)
		existing, _ := g.cookies.ReadUser(w, r)
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), token, existing)))
		return
	}

	existing, err := g.cookies.ReadUser(w, r)
	if err != nil {
		g.logger.WarnContext(r.Context(), "discarding malformed user cookie", "error", err)
	}

	if res.Token == "" {
		// Session still current: attach identity only, no cookie writes,
		// so repeating the request leaves the session byte-identical.
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), token, existing)))
		return
	}

	// Token rotated: rewrite both cookies together so they never diverge.
	user := g.mergedUser(res.User, existing)
	if err := g.cookies.WriteSession(w, res.Token, user); err != nil {
		// The rotated session could not be persisted; the request still
		// proceeds on the fresh token it was just granted.
		g.logger.ErrorContext(r.Context(), "session rewrite failed", "error", err)
	}
	g.count("gate.session_extended", RouteProtected)
	next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), res.Token, &user)))
}

// servePublic attaches an existing identity opportunistically. Public pages
// never verify, so the attached identity is advisory only.
func (g *Gate) servePublic(w http.ResponseWriter, r *http.Request, next http.Handler) {
	token := g.cookies.ReadToken(r)
	if token == "" {
		next.ServeHTTP(w, r)
		return
	}
	user, err := g.cookies.ReadUser(w, r)
	if err != nil {
		g.logger.WarnContext(r.Context(), "discarding malformed user cookie", "error", err)
	}
	next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), token, user)))
}

// mergedUser folds the refreshed profile from the identity service over the
// one already on the session, always stamping a fresh login time.
func (g *Gate) mergedUser(raw map[string]any, existing *User) User {
	if raw != nil {
		fallback := ""
		if existing != nil {
			fallback = existing.Username
		}
		return BuildUser(raw, fallback, g.now())
	}
	if existing != nil {
		user := *existing
		user.LoginTime = g.now().UTC()
		return user
	}
	return User{LoginTime: g.now().UTC()}
}

func (g *Gate) count(name string, class RouteClass) {
	if g.metrics != nil {
		g.metrics.Count(name, 1, map[string]string{"route": class.String()})
	}
}

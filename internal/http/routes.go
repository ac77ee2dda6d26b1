package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/retailops/plano-ui/internal/backend"
	"github.com/retailops/plano-ui/internal/observability/statsd"
	"github.com/retailops/plano-ui/internal/ratelimit"
	"github.com/retailops/plano-ui/internal/session"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Identity   IdentityService
	Gate       *session.Gate
	Cookies    *session.CookieStore
	Planogroup backend.PlanogroupAPI
	Limiter    *ratelimit.LoginLimiter
	Renderer   *TemplateRenderer

	CookieDomain string
	IsDev        bool

	// SlowRequestThreshold promotes slow request logs to warnings.
	SlowRequestThreshold time.Duration

	Logger  *slog.Logger
	Metrics statsd.Sink
}

// NewRouter wires handlers and the middleware chain. Order matters: Recover
// outermost, then request IDs and logging, then the session gate so every
// route decision is logged, then CSRF guarding the form actions.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Identity: services.Identity,
		Cookies:  services.Cookies,
		Limiter:  services.Limiter,
		Renderer: services.Renderer,
		Logger:   services.Logger,
		Metrics:  services.Metrics,
	}
	pageHandlers := &PageHandlers{Renderer: services.Renderer, Logger: services.Logger}
	planogramHandlers := &PlanogramHandlers{
		API:      services.Planogroup,
		Renderer: services.Renderer,
		Logger:   services.Logger,
	}

	mux.HandleFunc("GET /login", authHandlers.LoginPage)
	mux.HandleFunc("POST /login", authHandlers.Login)
	mux.HandleFunc("GET /logout", authHandlers.Logout)

	mux.HandleFunc("GET /dashboard", pageHandlers.Dashboard)
	mux.HandleFunc("GET /profile", pageHandlers.Profile)

	mux.HandleFunc("GET /planogram/grup-pertemanan", planogramHandlers.GrupPertemananPage)
	mux.HandleFunc("POST /planogram/grup-pertemanan/tablokplano", planogramHandlers.TableLokPlano)
	mux.HandleFunc("POST /planogram/grup-pertemanan/zonarak", planogramHandlers.ZonaRak)
	mux.HandleFunc("POST /planogram/grup-pertemanan/linerak", planogramHandlers.LineRak)
	mux.HandleFunc("POST /planogram/grup-pertemanan/submit", planogramHandlers.Submit)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	mux.HandleFunc("GET /", pageHandlers.Home)

	return Chain(mux,
		Recover(services.Logger),
		RequestID(),
		Logging(LoggingConfig{
			Logger:               services.Logger,
			SlowRequestThreshold: services.SlowRequestThreshold,
		}),
		services.Gate.Middleware(),
		CSRFProtection(CSRFConfig{
			CookieDomain: services.CookieDomain,
			Secure:       !services.IsDev,
		}),
	)
}

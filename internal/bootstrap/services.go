package bootstrap

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/redis/go-redis/v9"

	planoui "github.com/retailops/plano-ui"
	"github.com/retailops/plano-ui/config"
	"github.com/retailops/plano-ui/internal/backend"
	httpx "github.com/retailops/plano-ui/internal/http"
	"github.com/retailops/plano-ui/internal/identity"
	"github.com/retailops/plano-ui/internal/observability/statsd"
	"github.com/retailops/plano-ui/internal/ratelimit"
	"github.com/retailops/plano-ui/internal/session"
)

// ServiceContainer holds the wired application services.
type ServiceContainer struct {
	Identity   *identity.Client
	Planogroup *backend.PlanogroupClient
	Cookies    *session.CookieStore
	Gate       *session.Gate
	Limiter    *ratelimit.LoginLimiter
	Renderer   *httpx.TemplateRenderer
	Metrics    *statsd.Client
	Redis      redis.UniversalClient
}

// ServiceDeps groups inputs for NewServices.
type ServiceDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// NewServices builds every application service from configuration.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  cfg.Observability.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	identityClient, err := identity.NewClient(identity.Options{
		BaseURL: cfg.Services.IMS.Resolve(cfg.Services.GatewayURL, cfg.IsDev),
		Timeout: cfg.Services.IdentityTimeout,
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("init identity client: %w", err)
	}

	planogroupClient, err := backend.NewPlanogroupClient(backend.PlanogroupOptions{
		BaseURL:     cfg.Services.WHS.Resolve(cfg.Services.GatewayURL, cfg.IsDev),
		APIKey:      cfg.Services.APIKey,
		Timeout:     cfg.Services.BackendTimeout,
		ZonaRakExpr: cfg.Services.ZonaRakExpr,
		LineRakExpr: cfg.Services.LineRakExpr,
		Logger:      logger,
		Metrics:     metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("init planogroup client: %w", err)
	}

	cookies := session.NewCookieStore(session.CookieStoreOptions{
		TokenName: cfg.Session.TokenCookie,
		UserName:  cfg.Session.UserCookie,
		MaxAge:    cfg.Session.MaxAge,
		Domain:    cfg.HTTP.CookieDomain,
		Secure:    !cfg.IsDev,
		Logger:    logger,
	})

	gate := session.NewGate(session.GateOptions{
		Verifier:   identityClient,
		Cookies:    cookies,
		Classifier: session.NewClassifier(cfg.Session.ProtectedPrefixes),
		Logger:     logger,
		Metrics:    metrics,
	})

	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	limiter := ratelimit.NewLoginLimiter(ratelimit.LoginLimiterOptions{
		Client:      redisClient,
		MaxAttempts: cfg.LoginLimit.MaxAttempts,
		Window:      cfg.LoginLimit.Window,
		Logger:      logger,
	})

	templateFS, err := fs.Sub(planoui.TemplateFS, "web/templates")
	if err != nil {
		return nil, fmt.Errorf("template fs: %w", err)
	}
	renderer, err := httpx.NewTemplateRenderer(httpx.TemplateRendererConfig{
		TemplateFS: templateFS,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	return &ServiceContainer{
		Identity:   identityClient,
		Planogroup: planogroupClient,
		Cookies:    cookies,
		Gate:       gate,
		Limiter:    limiter,
		Renderer:   renderer,
		Metrics:    metrics,
		Redis:      redisClient,
	}, nil
}

// Close releases service resources.
func (c *ServiceContainer) Close(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if c.Metrics != nil {
		if err := c.Metrics.Close(); err != nil {
			logger.Error("close metrics failed", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("close redis failed", "error", err)
		}
	}
}

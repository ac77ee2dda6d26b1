package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/retailops/plano-ui/config"
	"github.com/retailops/plano-ui/internal/bootstrap"
)

func main() {
	ctx := context.Background()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	logger := bootstrap.InitLogger(cfg.Observability.LogLevel)
	logger.InfoContext(ctx, "starting planoweb",
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev,
		"protected_prefixes", cfg.Session.ProtectedPrefixes)

	if err := run(ctx, &cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer services.Close(logger)

	server := bootstrap.NewHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   cfg,
		Services: services,
		Logger:   logger,
	})

	return bootstrap.RunHTTPServer(ctx, server, logger)
}

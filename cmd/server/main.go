// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/plainwiki/internal/api"
	"github.com/tomtom215/plainwiki/internal/config"
	"github.com/tomtom215/plainwiki/internal/logging"
	"github.com/tomtom215/plainwiki/internal/supervisor"
	"github.com/tomtom215/plainwiki/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger; config is not available yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("auth_mode", cfg.Security.AuthMode).
		Str("articles_path", cfg.Wiki.ArticlesPath).
		Str("accounts_path", cfg.Security.AccountsPath).
		Msg("Starting Plainwiki")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wiki, err := buildApp(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddWorkerService(wiki.pool)

	router := api.NewRouter(wiki.handler, api.NewChiMiddleware(middlewareConfig(cfg)))
	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Str("pool", wiki.pool.String()).Msg("Supervisor tree starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	logging.Info().Msg("Plainwiki stopped")
}

// middlewareConfig maps server and security settings onto the HTTP middleware.
func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mw.LoginRateLimit = cfg.Security.LoginRateLimit
	mw.LoginRateWindow = cfg.Security.LoginRateWindow
	if cfg.Security.LoginRateLimit <= 0 {
		logging.Warn().Msg("Login rate limiting is disabled (LOGIN_RATE_LIMIT <= 0)")
		mw.RateLimitDisabled = true
	}
	return mw
}

// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/plainwiki/internal/api"
	"github.com/tomtom215/plainwiki/internal/article"
	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/config"
	"github.com/tomtom215/plainwiki/internal/credentials"
	"github.com/tomtom215/plainwiki/internal/logging"
	"github.com/tomtom215/plainwiki/internal/password"
	"github.com/tomtom215/plainwiki/internal/secret"
)

// app holds the components main hands to the supervisor tree.
type app struct {
	pool    *password.Pool
	handler *api.Handler
}

// buildApp wires the access-control core and the HTTP handler. Every error
// it returns is a startup failure.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	flags, err := cfg.Security.Flags()
	if err != nil {
		return nil, err
	}
	mode := flags.Mode

	key, err := secret.InitializeFromConfig(cfg.Security.SecretKey)
	if err != nil {
		return nil, err
	}

	pool, err := password.NewPool(cfg.Security.PasswordParams(), password.PoolConfig{
		Workers:   cfg.Security.HashWorkers,
		QueueSize: cfg.Security.HashQueue,
	})
	if err != nil {
		return nil, fmt.Errorf("password pool: %w", err)
	}

	store := credentials.NewStore(cfg.Security.AccountsPath)
	set, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	logging.Info().Int("accounts", len(set.Accounts)).Str("path", store.Path()).Msg("Credentials loaded")

	if mode == auth.ModeSingle {
		// The pool is not serving yet, so hash synchronously.
		if err := ensureSinglePassword(ctx, store, password.Direct{P: pool.Params()}); err != nil {
			return nil, err
		}
	}
	if mode == auth.ModeAnonymous {
		logging.Warn().Bool("anonymous_editing", flags.AnonymousEditing).Msg("Authentication is disabled (AUTH_MODE=anonymous); nobody can log in")
	}

	tokens, err := auth.NewTokenIssuer(key, mode, cfg.Security.SessionTimeout)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	service, err := auth.NewService(mode, store, pool, tokens)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	handler, err := api.NewHandler(api.Dependencies{
		Service:        service,
		Resolver:       auth.NewResolver(mode, tokens, store),
		Accounts:       store,
		Articles:       article.NewStore(cfg.Wiki.ArticlesPath),
		Flags:          flags,
		SessionTimeout: cfg.Security.SessionTimeout,
		CookieSecure:   cfg.Security.CookieSecure,
	})
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("mode", mode.String()).
		Str("page_creation", flags.PageCreation.String()).
		Str("administration", flags.Administration.String()).
		Str("discovery", flags.Discovery.String()).
		Msg("Access control initialized")

	return &app{pool: pool, handler: handler}, nil
}

// ensureSinglePassword generates the single-user password on first start
// and shows it to the operator exactly once.
func ensureSinglePassword(ctx context.Context, store *credentials.Store, hasher password.Hasher) error {
	plain, generated, err := store.EnsureSinglePassword(ctx, hasher)
	if err != nil {
		return fmt.Errorf("single-user password: %w", err)
	}
	if generated {
		logging.Warn().
			Str("password", plain).
			Str("path", store.Path()).
			Msg("Generated a password for single-user mode; it is shown only once, note it now")
	}
	return nil
}

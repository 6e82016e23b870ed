// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/plainwiki/internal/article"
	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/authz"
)

// AccountLister lists account names for the admin overview.
type AccountLister interface {
	Usernames(ctx context.Context) ([]string, error)
}

// Dependencies are the collaborators a Handler needs.
type Dependencies struct {
	Service  *auth.Service
	Resolver *auth.Resolver
	Accounts AccountLister
	Articles *article.Store
	Flags    authz.GlobalFlags

	// SessionTimeout sets the cookie lifetime; it should match the token
	// issuer's timeout.
	SessionTimeout time.Duration
	CookieSecure   bool
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response and request helpers
//   - handlers_auth.go: login, logout, whoami, change password
//   - handlers_admin.go: account administration
//   - handlers_articles.go: article read, edit, create and tree
//   - session.go: session middleware and cookie handling
type Handler struct {
	service        *auth.Service
	resolver       *auth.Resolver
	accounts       AccountLister
	articles       *article.Store
	flags          authz.GlobalFlags
	sessionTimeout time.Duration
	cookieSecure   bool
}

// NewHandler creates a Handler. Every dependency is required.
func NewHandler(deps Dependencies) (*Handler, error) {
	switch {
	case deps.Service == nil:
		return nil, errors.New("api: auth service is required")
	case deps.Resolver == nil:
		return nil, errors.New("api: session resolver is required")
	case deps.Accounts == nil:
		return nil, errors.New("api: account lister is required")
	case deps.Articles == nil:
		return nil, errors.New("api: article store is required")
	}
	timeout := deps.SessionTimeout
	if timeout <= 0 {
		timeout = auth.DefaultSessionTimeout
	}
	return &Handler{
		service:        deps.Service,
		resolver:       deps.Resolver,
		accounts:       deps.Accounts,
		articles:       deps.Articles,
		flags:          deps.Flags,
		sessionTimeout: timeout,
		cookieSecure:   deps.CookieSecure,
	}, nil
}

// Flags returns the site-wide access flags the handler enforces.
func (h *Handler) Flags() authz.GlobalFlags {
	return h.flags
}

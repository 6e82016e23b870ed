// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/plainwiki/internal/authz"
	"github.com/tomtom215/plainwiki/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	access        *authz.Middleware
}

// NewRouter creates a Router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		access:        authz.NewMiddleware(handler.Flags(), respondDenied),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight
	r.Use(h.Session)

	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Session Endpoints
	// ========================
	r.With(router.chiMiddleware.RateLimitLogin()).Post("/special:login", h.Login)
	r.Post("/special:logout", h.Logout)
	r.Get("/special:whoami", h.WhoAmI)
	r.With(router.chiMiddleware.RateLimitLogin()).Post("/special:change_password", h.ChangePassword)

	// ========================
	// Administration
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(router.access.Require(authz.Administer))
		r.Get("/special:admin", h.AdminOverview)
		r.Post("/special:admin:add_account", h.AdminAddAccount)
		r.Post("/special:admin:change_password", h.AdminChangePassword)
	})

	// ========================
	// Articles
	// ========================
	r.With(router.access.Require(authz.Discover)).Get("/special:tree", h.Tree)
	r.With(router.access.Require(authz.Create)).Post("/special:create", h.CreateArticle)
	r.Get("/*", h.GetArticle)
	r.Post("/*", h.EditArticle)

	return r
}

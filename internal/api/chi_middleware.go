// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/plainwiki/internal/logging"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	// CORS configuration. An empty origin list disables CORS entirely.
	CORSAllowedOrigins []string
	CORSMaxAge         int // seconds

	// Login throttling, per client IP.
	LoginRateLimit    int
	LoginRateWindow   time.Duration
	RateLimitDisabled bool
}

// DefaultChiMiddlewareConfig returns a secure default configuration.
// CORS origins default to empty, requiring explicit configuration.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSMaxAge:         86400,
		LoginRateLimit:     10,
		LoginRateWindow:    time.Minute,
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a new Chi middleware factory with the given configuration.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	m := &ChiMiddleware{config: config, cors: passthrough}
	if len(config.CORSAllowedOrigins) > 0 {
		// Credentials are allowed so browser clients on a listed origin
		// can send the session cookie.
		m.cors = cors.Handler(cors.Options{
			AllowedOrigins:   config.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           config.CORSMaxAge,
		})
	}
	return m
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// CORS returns a Chi-compatible CORS middleware using go-chi/cors.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimitLogin limits password attempts per client IP using go-chi/httprate.
// Throttling lives here, at the HTTP boundary, rather than in auth.Service.
// Each call returns an independent limiter, so every route that verifies a
// password gets its own budget.
func (m *ChiMiddleware) RateLimitLogin() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return passthrough
	}

	return httprate.Limit(
		m.config.LoginRateLimit,
		m.config.LoginRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logging.Ctx(r.Context()).Warn().
				Str("remote_addr", sanitizeLogValue(r.RemoteAddr)).
				Str("path", sanitizeLogValue(r.URL.Path)).
				Msg("Password rate limit exceeded")
			respondError(w, r, http.StatusTooManyRequests, CodeRateLimited, "Too many password attempts, try again later", nil)
		}),
	)
}

// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package authz

import (
	"net/http"

	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/logging"
)

// DenyFunc writes the response for a denied request.
type DenyFunc func(w http.ResponseWriter, r *http.Request, d Decision)

// Middleware gates routes on site-wide capabilities (Administer, Discover
// and Create). Per-article checks need the article and happen in handlers.
type Middleware struct {
	flags GlobalFlags
	deny  DenyFunc
}

// NewMiddleware creates a Middleware. A nil deny writes a plain 401 or 403.
func NewMiddleware(flags GlobalFlags, deny DenyFunc) *Middleware {
	if deny == nil {
		deny = defaultDeny
	}
	return &Middleware{flags: flags, deny: deny}
}

// Flags returns the site-wide flags the middleware enforces.
func (m *Middleware) Flags() GlobalFlags {
	return m.flags
}

// Require returns middleware allowing the request only when the principal
// in the request context holds c.
func (m *Middleware) Require(c Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := auth.PrincipalFromContext(r.Context())
			d := Authorize(p, c, nil, m.flags)
			if !d.Allowed {
				logging.Ctx(r.Context()).Debug().
					Str("capability", c.String()).
					Str("principal", p.String()).
					Str("reason", d.Reason).
					Msg("Request denied")
				m.deny(w, r, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func defaultDeny(w http.ResponseWriter, _ *http.Request, d Decision) {
	if d.AuthenticationRequired {
		http.Error(w, "Unauthorized: "+d.Reason, http.StatusUnauthorized)
		return
	}
	http.Error(w, "Forbidden: "+d.Reason, http.StatusForbidden)
}

// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/plainwiki/internal/auth"
)

func TestMiddlewareRequire(t *testing.T) {
	flags := flagsFor(auth.ModeMulti)
	flags.Administration = UsersLevel("root")
	m := NewMiddleware(flags, nil)

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := m.Require(Administer)(ok)

	tests := []struct {
		name string
		p    auth.Principal
		want int
	}{
		{"anonymous", auth.Anonymous(), http.StatusUnauthorized},
		{"unlisted", auth.NamedUser("alice"), http.StatusForbidden},
		{"listed", auth.NamedUser("root"), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/special:admin", nil)
			req = req.WithContext(auth.ContextWithPrincipal(req.Context(), tt.p))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

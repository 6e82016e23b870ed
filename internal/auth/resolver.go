// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package auth

import (
	"context"

	"github.com/tomtom215/plainwiki/internal/logging"
)

// AccountLookup reports whether a named account still exists.
type AccountLookup interface {
	HasAccount(ctx context.Context, username string) (bool, error)
}

// Resolver turns a session token into a Principal. It never fails: any
// token it cannot fully trust resolves to Anonymous.
type Resolver struct {
	mode     Mode
	tokens   *TokenIssuer
	accounts AccountLookup
}

// NewResolver creates a Resolver. accounts is consulted only in multi mode
// and may be nil otherwise.
func NewResolver(mode Mode, tokens *TokenIssuer, accounts AccountLookup) *Resolver {
	return &Resolver{mode: mode, tokens: tokens, accounts: accounts}
}

// Mode returns the mode the resolver enforces.
func (r *Resolver) Mode() Mode {
	return r.mode
}

// Resolve returns the principal token identifies.
func (r *Resolver) Resolve(ctx context.Context, token string) Principal {
	if r.mode == ModeAnonymous || token == "" {
		return Anonymous()
	}

	claims, err := r.tokens.Parse(token)
	if err != nil {
		SessionResolutions.WithLabelValues("invalid").Inc()
		return Anonymous()
	}
	// A token minted under another mode is never honored, even though it
	// carries a valid signature.
	if claims.Mode != r.mode.String() {
		SessionResolutions.WithLabelValues("mode_mismatch").Inc()
		return Anonymous()
	}

	switch r.mode {
	case ModeSingle:
		if claims.Kind != KindSingleUser.String() {
			SessionResolutions.WithLabelValues("mode_mismatch").Inc()
			return Anonymous()
		}
		SessionResolutions.WithLabelValues("valid").Inc()
		return SingleUser()

	case ModeMulti:
		if claims.Kind != KindNamedUser.String() || claims.Subject == "" || r.accounts == nil {
			SessionResolutions.WithLabelValues("mode_mismatch").Inc()
			return Anonymous()
		}
		ok, err := r.accounts.HasAccount(ctx, claims.Subject)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Account lookup failed while resolving session")
			SessionResolutions.WithLabelValues("lookup_error").Inc()
			return Anonymous()
		}
		if !ok {
			SessionResolutions.WithLabelValues("revoked").Inc()
			return Anonymous()
		}
		SessionResolutions.WithLabelValues("valid").Inc()
		return NamedUser(claims.Subject)
	}
	return Anonymous()
}

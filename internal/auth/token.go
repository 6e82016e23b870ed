// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/plainwiki/internal/secret"
)

// DefaultSessionTimeout is the token lifetime when none is configured.
const DefaultSessionTimeout = 7 * 24 * time.Hour

// tokenKeyPurpose selects the HKDF subkey used for session tokens.
const tokenKeyPurpose = "session-token"

// Claims are the session token claims. Subject holds the username for
// named users and is empty for the single user.
type Claims struct {
	Kind string `json:"kind"`
	Mode string `json:"mode"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and parses HS512 session tokens.
type TokenIssuer struct {
	key     *secret.Key
	mode    Mode
	timeout time.Duration
	now     func() time.Time
}

// NewTokenIssuer derives the token key from the site key.
func NewTokenIssuer(key *secret.Key, mode Mode, timeout time.Duration) (*TokenIssuer, error) {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	k, err := key.Subkey(tokenKeyPurpose)
	if err != nil {
		return nil, err
	}
	return &TokenIssuer{key: k, mode: mode, timeout: timeout, now: time.Now}, nil
}

// Timeout returns the token lifetime.
func (ti *TokenIssuer) Timeout() time.Duration {
	return ti.timeout
}

// Issue mints a token for p. Anonymous principals get no token.
func (ti *TokenIssuer) Issue(p Principal) (string, error) {
	if p.IsAnonymous() {
		return "", fmt.Errorf("%w: anonymous principal", ErrInvalidToken)
	}
	now := ti.now()
	claims := &Claims{
		Kind: p.Kind.String(),
		Mode: ti.mode.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.timeout)),
		},
	}
	signed, err := jwt.NewWithClaims(sessionSigningMethod, claims).SignedString(ti.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature, algorithm and lifetime and returns the claims.
// It does not check the claims against the current mode; Resolver does.
func (ti *TokenIssuer) Parse(token string) (*Claims, error) {
	parser := jwt.NewParser()
	claims := &Claims{}
	parsed, parts, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if alg := parsed.Method.Alg(); alg != sessionSigningMethod.Alg() {
		return nil, fmt.Errorf("%w: unexpected signing method %q", ErrInvalidToken, alg)
	}
	sig, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := sessionSigningMethod.Verify(parts[0]+"."+parts[1], sig, ti.key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	validator := jwt.NewValidator(
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(ti.now),
	)
	if err := validator.Validate(claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

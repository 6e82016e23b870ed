// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/plainwiki/internal/secret"
)

// keySigningMethod is HS512 computed by a *secret.Key, so the raw token key
// never leaves the secret package. It is not registered with jwt globally;
// TokenIssuer.Parse selects it explicitly.
type keySigningMethod struct{}

var sessionSigningMethod jwt.SigningMethod = keySigningMethod{}

func (keySigningMethod) Alg() string {
	return jwt.SigningMethodHS512.Alg()
}

func (keySigningMethod) Sign(signingString string, key any) ([]byte, error) {
	k, ok := key.(*secret.Key)
	if !ok || k == nil {
		return nil, fmt.Errorf("%w: want *secret.Key, got %T", jwt.ErrInvalidKeyType, key)
	}
	return k.Sign([]byte(signingString)), nil
}

func (keySigningMethod) Verify(signingString string, sig []byte, key any) error {
	k, ok := key.(*secret.Key)
	if !ok || k == nil {
		return fmt.Errorf("%w: want *secret.Key, got %T", jwt.ErrInvalidKeyType, key)
	}
	if !k.Verify([]byte(signingString), sig) {
		return jwt.ErrSignatureInvalid
	}
	return nil
}

// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package auth

import "errors"

var (
	// ErrInvalidCredentials is the single failure returned for a wrong
	// password, an unknown username or an unauthenticated caller. It never
	// says which of those it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrLoginUnavailable is returned by Login in anonymous mode.
	ErrLoginUnavailable = errors.New("login is not available in anonymous mode")

	// ErrWeakPassword is returned when a new password is too short.
	ErrWeakPassword = errors.New("password is too short")

	// ErrModeMismatch is returned by account operations that the current
	// mode does not support, such as adding accounts in single mode.
	ErrModeMismatch = errors.New("operation not supported in this auth mode")

	// ErrInvalidToken is returned by ParseToken for any token that must not
	// be trusted.
	ErrInvalidToken = errors.New("invalid session token")
)

// MinPasswordLength is the shortest password accepted for new credentials.
const MinPasswordLength = 8

// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login attempts.
	// Labels:
	//   - mode: "single", "multi", "anonymous"
	//   - outcome: "success", "failure", "error"
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"mode", "outcome"},
	)

	// SessionResolutions counts session token resolutions by outcome.
	// Labels:
	//   - outcome: "valid", "invalid", "mode_mismatch", "revoked", "lookup_error"
	SessionResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_session_resolutions_total",
			Help: "Total number of session tokens resolved, by outcome",
		},
		[]string{"outcome"},
	)

	// PasswordChanges counts password changes and admin resets.
	// Labels:
	//   - kind: "self", "admin", "account_added"
	//   - outcome: "success", "failure"
	PasswordChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_password_changes_total",
			Help: "Total number of password changes",
		},
		[]string{"kind", "outcome"},
	)
)

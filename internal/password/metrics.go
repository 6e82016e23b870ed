// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package password

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HashDuration measures argon2 computation time.
	// Labels:
	//   - op: "hash", "verify"
	HashDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_password_hash_duration_seconds",
			Help:    "Duration of argon2id password operations in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"op"},
	)

	// PoolRejected counts submissions refused because the queue was full.
	PoolRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_password_pool_rejected_total",
			Help: "Total number of password operations rejected because the hashing queue was full",
		},
	)
)

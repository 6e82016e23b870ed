// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package authz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DecisionsTotal counts authorization decisions.
// Labels:
//   - capability: "view", "edit", "create", "administer", "discover"
//   - outcome: "allow", "deny"
var DecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authz_decisions_total",
		Help: "Total number of authorization decisions",
	},
	[]string{"capability", "outcome"},
)

// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

/*
Package middleware provides HTTP infrastructure middleware for the chi router.

Key Components:

  - RequestID: UUID request IDs, propagated into the logging context
  - PrometheusMetrics: request counts, latency and in-flight gauge per route
  - AccessLog: debug-level request log through zerolog

Session resolution and permission checks live in internal/api and
internal/authz; nothing here looks at credentials.

Order matters:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog)
*/
package middleware

// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

/*
Package metrics holds the Prometheus metrics for Plainwiki's file-backed
storage: article reads and writes, the accounts file, the front matter
cache and discovery tree walks.

Metrics that belong to a single package stay next to their code
(auth_login_attempts_total in internal/auth, authz_decisions_total in
internal/authz, the password pool in internal/password, HTTP request
metrics in internal/middleware). Everything is registered through promauto
on the default registry and served at /metrics.

# Available Metrics

	plainwiki_storage_write_duration_seconds{store}
	plainwiki_storage_writes_total{store,outcome}
	plainwiki_article_reads_total{outcome}
	plainwiki_article_metadata_cache_total{result}
	plainwiki_tree_walk_duration_seconds
	plainwiki_tree_walk_errors_total

store is "articles" or "accounts".
*/
package metrics

// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

// Package main is the entry point for the Plainwiki server.
//
// Plainwiki stores articles as markdown files with TOML front matter and
// keeps accounts in a TOML file; there is no database.
//
// # Startup
//
//  1. Configuration: defaults, then config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog at the configured level and format
//  3. Secret key: SECRET_KEY, or an ephemeral key logged once for the operator
//  4. Credentials: accounts.toml is loaded; duplicate usernames are fatal
//  5. Single mode: a missing password is generated and logged once
//  6. HTTP: chi router with session, rate limiting and access checks
//  7. Supervision: password pool and HTTP server under a suture tree
//
// # Authentication Modes
//
//	AUTH_MODE=anonymous  # nobody logs in; ANONYMOUS_EDITING opens editing
//	AUTH_MODE=single     # one password, no usernames (default)
//	AUTH_MODE=multi      # named accounts from ACCOUNTS_PATH
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server gets
// SHUTDOWN_TIMEOUT to finish in-flight requests.
//
// # Example Usage
//
//	export AUTH_MODE=multi
//	export SECRET_KEY=$(head -c 64 /dev/urandom | base64 -w0)
//	export ARTICLES_PATH=/srv/wiki
//	./plainwiki
package main

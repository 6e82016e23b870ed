// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

// Package models defines the JSON shapes returned by the HTTP API.
//
// Every response is wrapped in APIResponse. Access levels in Article are
// rendered the way article metadata stores them: "Public",
// "Authenticated", "Disabled" or a list of usernames.
package models

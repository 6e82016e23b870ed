// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package models

import (
	"time"
)

// APIResponse is the envelope for every JSON response.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "request_id": "…"},
//	  "error": {"code": "AUTHENTICATION_REQUIRED", "message": "Log in to view this article"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes the response itself.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid request body
//   - INVALID_CREDENTIALS: Login or password check failed
//   - AUTHENTICATION_REQUIRED: Denied, logging in could help
//   - FORBIDDEN: Denied for the current principal
//   - NOT_FOUND: Article or account does not exist
//   - RATE_LIMIT_EXCEEDED: Too many password attempts
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

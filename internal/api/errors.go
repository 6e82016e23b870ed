// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/plainwiki/internal/article"
	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/credentials"
	"github.com/tomtom215/plainwiki/internal/password"
)

// Error codes used in responses.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidPath      = "INVALID_PATH"
	CodeInvalidCreds     = "INVALID_CREDENTIALS"
	CodeAuthRequired     = "AUTHENTICATION_REQUIRED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeLoginUnavailable = "LOGIN_UNAVAILABLE"
	CodeWeakPassword     = "WEAK_PASSWORD"
	CodeModeMismatch     = "MODE_MISMATCH"
	CodeBusy             = "SERVICE_BUSY"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeInternal         = "INTERNAL_ERROR"
)

// errorMapping is one row of the service error table.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// serviceErrors maps core errors to responses. Order matters: the first
// match wins.
var serviceErrors = []errorMapping{
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCreds, "Invalid username or password"},
	{auth.ErrLoginUnavailable, http.StatusForbidden, CodeLoginUnavailable, "Login is not available on this wiki"},
	{auth.ErrWeakPassword, http.StatusBadRequest, CodeWeakPassword, "Password must be at least 8 characters"},
	{auth.ErrModeMismatch, http.StatusConflict, CodeModeMismatch, "Not supported in the current authentication mode"},
	{credentials.ErrInvalidUsername, http.StatusBadRequest, CodeInvalidRequest, "Invalid username"},
	{credentials.ErrAccountExists, http.StatusConflict, CodeConflict, "Account already exists"},
	{credentials.ErrAccountNotFound, http.StatusNotFound, CodeNotFound, "Account not found"},
	{password.ErrPoolBusy, http.StatusServiceUnavailable, CodeBusy, "Server is busy, try again"},
	{article.ErrInvalidPath, http.StatusBadRequest, CodeInvalidPath, "Invalid article path"},
	{article.ErrNotFound, http.StatusNotFound, CodeNotFound, "Article not found"},
	{article.ErrExists, http.StatusConflict, CodeConflict, "Article already exists"},
}

// writeServiceError maps err to a response. Unknown errors are logged and
// become a 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			if m.status == http.StatusServiceUnavailable {
				w.Header().Set("Retry-After", "1")
			}
			respondError(w, r, m.status, m.code, m.message, nil)
			return
		}
	}
	respondError(w, r, http.StatusInternalServerError, CodeInternal, "Internal server error", err)
}

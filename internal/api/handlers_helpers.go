// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/authz"
	"github.com/tomtom215/plainwiki/internal/logging"
	"github.com/tomtom215/plainwiki/internal/middleware"
	"github.com/tomtom215/plainwiki/internal/models"
	"github.com/tomtom215/plainwiki/internal/validation"
)

const (
	// maxAuthBody bounds login and account request bodies.
	maxAuthBody = 16 << 10
	// maxArticleBody bounds article create and edit bodies.
	maxArticleBody = 4 << 20
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers. Responses depend
// on the caller's session, so nothing is cacheable.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Vary", "Cookie, Authorization")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func metadata(r *http.Request) models.Metadata {
	return models.Metadata{
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetRequestID(r.Context()),
	}
}

// respondSuccess sends data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: metadata(r),
	})
}

// respondError sends an error response. err is logged, never sent.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: metadata(r),
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondDenied turns a negative decision into 401 or 403. It doubles as
// the authz middleware's DenyFunc.
func respondDenied(w http.ResponseWriter, r *http.Request, d authz.Decision) {
	if d.AuthenticationRequired {
		respondError(w, r, http.StatusUnauthorized, CodeAuthRequired, "Log in to continue", nil)
		return
	}
	respondError(w, r, http.StatusForbidden, CodeForbidden, "You do not have access: "+d.Reason, nil)
}

// decodeRequest reads a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler may continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, CodeInvalidRequest, "Request body too large", nil)
			return false
		}
		respondError(w, r, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", nil)
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: metadata(r),
			Error: &models.APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: map[string]interface{}{"fields": apiErr.Fields},
			},
		})
		return false
	}
	return true
}

// principalModel renders p for clients.
func principalModel(p auth.Principal) models.Principal {
	return models.Principal{
		Kind:          p.Kind.String(),
		Username:      p.Username,
		Authenticated: !p.IsAnonymous(),
	}
}

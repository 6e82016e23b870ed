// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

// Package validation validates decoded API request bodies with
// go-playground/validator v10.
//
// A single validator instance is shared (it caches struct metadata) and
// carries three custom tags:
//
//   - username: credentials.ValidateUsername
//   - accesslevel: a keyword or comma-separated user list
//   - articlepath: article.ValidatePath
//
// Field names in messages are taken from the json tag. Rejected values are
// never included in errors because request bodies carry passwords.
//
// Example usage:
//
//	type loginRequest struct {
//	    Username string `json:"username" validate:"omitempty,username"`
//	    Password string `json:"password" validate:"required,max=1024"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message)
//	    return
//	}
package validation

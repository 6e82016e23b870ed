// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package api

import (
	"net/http"

	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/models"
)

// Admin handlers are mounted behind authz.Middleware.Require(authz.Administer).

// AdminOverview lists the accounts an administrator manages.
func (h *Handler) AdminOverview(w http.ResponseWriter, r *http.Request) {
	overview := models.AdminOverview{Mode: h.flags.Mode.String(), Accounts: []string{}}
	if h.flags.Mode == auth.ModeMulti {
		names, err := h.accounts.Usernames(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		overview.Accounts = names
	}
	respondSuccess(w, r, http.StatusOK, overview)
}

// AdminAddAccount creates a named account.
func (h *Handler) AdminAddAccount(w http.ResponseWriter, r *http.Request) {
	var req addAccountRequest
	if !decodeRequest(w, r, maxAuthBody, &req) {
		return
	}
	if err := h.service.AddAccount(r.Context(), req.Username, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusCreated, principalModel(auth.NamedUser(req.Username)))
}

// AdminChangePassword resets a password. Without a username it targets the
// single-user password.
func (h *Handler) AdminChangePassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordRequest
	if !decodeRequest(w, r, maxAuthBody, &req) {
		return
	}
	if err := h.service.SetPassword(r.Context(), req.Username, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	target := auth.SingleUser()
	if req.Username != "" {
		target = auth.NamedUser(req.Username)
	}
	respondSuccess(w, r, http.StatusOK, principalModel(target))
}

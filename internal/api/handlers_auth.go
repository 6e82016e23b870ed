// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package api

import (
	"net/http"

	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/authz"
	"github.com/tomtom215/plainwiki/internal/models"
)

// Login checks the submitted credentials and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeRequest(w, r, maxAuthBody, &req) {
		return
	}

	token, p, err := h.service.Login(r.Context(), auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	respondSuccess(w, r, http.StatusOK, models.LoginResponse{
		Principal: principalModel(p),
		Token:     token,
		ExpiresIn: int64(h.sessionTimeout.Seconds()),
	})
}

// Logout clears the session cookie. Tokens are stateless, so a copied token
// stays usable until it expires.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	respondSuccess(w, r, http.StatusOK, principalModel(auth.Anonymous()))
}

// WhoAmI reports the current principal and what it may do site-wide.
func (h *Handler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	respondSuccess(w, r, http.StatusOK, models.SessionInfo{
		Principal:    principalModel(p),
		Mode:         h.flags.Mode.String(),
		CanCreate:    authz.Authorize(p, authz.Create, nil, h.flags).Allowed,
		CanAdmin:     authz.Authorize(p, authz.Administer, nil, h.flags).Allowed,
		CanDiscover:  authz.Authorize(p, authz.Discover, nil, h.flags).Allowed,
		LoginEnabled: h.flags.Mode != auth.ModeAnonymous,
	})
}

// ChangePassword changes the caller's own password after checking the old
// one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeRequest(w, r, maxAuthBody, &req) {
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	if err := h.service.ChangePassword(r.Context(), p, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, principalModel(p))
}

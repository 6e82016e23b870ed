// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package api

// Request bodies. Password lengths are capped to bound argon2 input; the
// minimum length is enforced by auth.Service so every caller gets it.

type loginRequest struct {
	Username string `json:"username" validate:"max=64"`
	Password string `json:"password" validate:"required,max=1024"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required,max=1024"`
	NewPassword string `json:"new_password" validate:"required,max=1024,nefield=OldPassword"`
}

type addAccountRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,max=1024"`
}

type setPasswordRequest struct {
	Username string `json:"username" validate:"omitempty,username"`
	Password string `json:"password" validate:"required,max=1024"`
}

type createArticleRequest struct {
	Path       string `json:"path" validate:"required,articlepath"`
	Title      string `json:"title" validate:"required,max=256"`
	ViewAccess string `json:"view_access" validate:"omitempty,accesslevel"`
	EditAccess string `json:"edit_access" validate:"omitempty,accesslevel"`
	Markdown   string `json:"markdown"`
}

type editArticleRequest struct {
	Title      string  `json:"title" validate:"max=256"`
	ViewAccess string  `json:"view_access" validate:"omitempty,accesslevel"`
	EditAccess string  `json:"edit_access" validate:"omitempty,accesslevel"`
	Markdown   *string `json:"markdown"`
}

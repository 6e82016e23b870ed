// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package models

// Principal is the caller identity as shown to clients.
type Principal struct {
	Kind          string `json:"kind"`
	Username      string `json:"username,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// LoginResponse is returned by a successful login. The token is also set as
// the session cookie; API clients may send it as a bearer token instead.
type LoginResponse struct {
	Principal Principal `json:"principal"`
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
}

// SessionInfo describes the current request's identity and site-wide
// capabilities.
type SessionInfo struct {
	Principal    Principal `json:"principal"`
	Mode         string    `json:"mode"`
	CanCreate    bool      `json:"can_create"`
	CanAdmin     bool      `json:"can_admin"`
	CanDiscover  bool      `json:"can_discover"`
	LoginEnabled bool      `json:"login_enabled"`
}

// Article is an article with its access metadata.
type Article struct {
	Path       string      `json:"path"`
	Title      string      `json:"title"`
	ViewAccess interface{} `json:"view_access"`
	EditAccess interface{} `json:"edit_access"`
	Markdown   string      `json:"markdown"`
	CanEdit    bool        `json:"can_edit"`
}

// AdminOverview lists what an administrator can manage.
type AdminOverview struct {
	Mode     string   `json:"mode"`
	Accounts []string `json:"accounts"`
}

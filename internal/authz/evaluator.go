// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package authz

import (
	"github.com/tomtom215/plainwiki/internal/auth"
)

// Capability is an action a principal may request.
type Capability int

const (
	// View reads an article.
	View Capability = iota
	// Edit saves changes to an existing article.
	Edit
	// Create writes a new article.
	Create
	// Administer manages accounts.
	Administer
	// Discover lists articles.
	Discover
)

// String returns the metric label for c.
func (c Capability) String() string {
	switch c {
	case View:
		return "view"
	case Edit:
		return "edit"
	case Create:
		return "create"
	case Administer:
		return "administer"
	case Discover:
		return "discover"
	default:
		return "unknown"
	}
}

// GlobalFlags are the site-wide settings the rules consult.
type GlobalFlags struct {
	Mode             auth.Mode
	AnonymousEditing bool
	PageCreation     AccessLevel
	Administration   AccessLevel
	Discovery        AccessLevel
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  string
	// AuthenticationRequired is set on denials that logging in could lift.
	AuthenticationRequired bool
}

// Denial reasons.
const (
	ReasonAllowed          = "allowed"
	ReasonDisabled         = "disabled"
	ReasonNotAuthenticated = "authentication required"
	ReasonNotListed        = "not in the allowed user list"
	ReasonAnonymousEditing = "anonymous editing is disabled"
	ReasonArticleExists    = "article already exists"
	ReasonArticleMissing   = "article does not exist"
	ReasonAnonymousAdmin   = "administration requires an account"
	ReasonUnknown          = "unknown capability"
)

// Authorize decides whether p may exercise c. perm is the target article's
// permission, or nil when it does not exist.
func Authorize(p auth.Principal, c Capability, perm *ArticlePermission, f GlobalFlags) Decision {
	d := authorize(normalize(p, f.Mode), c, perm, f)
	if f.Mode == auth.ModeAnonymous {
		// Nobody can log in, so no denial is lifted by logging in.
		d.AuthenticationRequired = false
	}
	outcome := "deny"
	if d.Allowed {
		outcome = "allow"
	}
	DecisionsTotal.WithLabelValues(c.String(), outcome).Inc()
	return d
}

func authorize(p auth.Principal, c Capability, perm *ArticlePermission, f GlobalFlags) Decision {
	switch c {
	case Administer:
		if p.IsAnonymous() {
			return deny(p, ReasonAnonymousAdmin)
		}
		return check(p, f.Administration)

	case Discover:
		return check(p, f.Discovery)

	case Create:
		if perm != nil {
			return Decision{Reason: ReasonArticleExists}
		}
		if f.Mode == auth.ModeAnonymous {
			if !f.AnonymousEditing {
				return Decision{Reason: ReasonAnonymousEditing}
			}
		}
		return check(p, f.PageCreation)

	case View, Edit:
		if perm == nil {
			// Nothing to protect yet; a missing article is handled as
			// Authenticated until the caller decides on not-found.
			return check(p, AuthenticatedLevel())
		}
		level := perm.View
		if c == Edit {
			level = perm.Edit
		}
		d := check(p, level)
		if d.Allowed && c == Edit && f.Mode == auth.ModeAnonymous && !f.AnonymousEditing {
			return Decision{Reason: ReasonAnonymousEditing}
		}
		return d
	}
	return Decision{Reason: ReasonUnknown}
}

// check evaluates one access level against p.
func check(p auth.Principal, level AccessLevel) Decision {
	switch level.Kind {
	case Public:
		return allow()
	case Disabled:
		return Decision{Reason: ReasonDisabled}
	case Authenticated:
		if p.IsAnonymous() {
			return deny(p, ReasonNotAuthenticated)
		}
		return allow()
	case SpecificUsers:
		switch p.Kind {
		case auth.KindSingleUser:
			// Single mode has no usernames; the list reduces to
			// Authenticated.
			return allow()
		case auth.KindNamedUser:
			if level.Contains(p.Username) {
				return allow()
			}
			return Decision{Reason: ReasonNotListed}
		default:
			return deny(p, ReasonNotAuthenticated)
		}
	}
	return Decision{Reason: ReasonUnknown}
}

// normalize demotes principals the mode cannot produce to Anonymous.
func normalize(p auth.Principal, mode auth.Mode) auth.Principal {
	switch {
	case p.Kind == auth.KindSingleUser && mode == auth.ModeSingle:
		return p
	case p.Kind == auth.KindNamedUser && mode == auth.ModeMulti && p.Username != "":
		return p
	default:
		return auth.Anonymous()
	}
}

func allow() Decision {
	return Decision{Allowed: true, Reason: ReasonAllowed}
}

// deny builds a denial that logging in could lift when p is anonymous.
func deny(p auth.Principal, reason string) Decision {
	return Decision{Reason: reason, AuthenticationRequired: p.IsAnonymous()}
}

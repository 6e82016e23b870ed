// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

// Package authz decides what a principal may do.
//
// Authorize is a pure function of four inputs: the principal, the requested
// capability, the article's permission (nil when the article does not
// exist) and the site-wide flags. It keeps no state, so it is safe to call
// from any goroutine and needs no cache.
//
// # Access levels
//
// Every article carries a view level and an edit level:
//
//	Public          anyone, including anonymous visitors
//	Authenticated   any logged-in principal
//	SpecificUsers   named accounts only (the single user always qualifies)
//	Disabled        nobody, not even the owner
//
// An article whose level is missing or unparsable is treated as
// Authenticated. That keeps a broken file private without locking the
// owner out of fixing it.
//
// # Rule order
//
//  1. The principal is normalized: a kind the site mode cannot produce is
//     treated as Anonymous.
//  2. Administer and Discover are decided by the site-wide flags alone.
//  3. Create needs a missing article and the page-creation level; in
//     anonymous mode it needs anonymous editing as well.
//  4. View and Edit are decided by the article's levels. In anonymous mode
//     Edit also needs anonymous editing.
//  5. Anything else is denied.
//
// A denial is a Decision value, never an error. AuthenticationRequired
// tells the HTTP layer to answer 401 instead of 403.
package authz

// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package auth

import "context"

// Kind distinguishes the three kinds of principal.
type Kind int

const (
	// KindAnonymous is an unauthenticated visitor.
	KindAnonymous Kind = iota
	// KindSingleUser is the owner in single-user mode.
	KindSingleUser
	// KindNamedUser is an account holder in multi-user mode.
	KindNamedUser
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSingleUser:
		return "single"
	case KindNamedUser:
		return "user"
	default:
		return "anonymous"
	}
}

// Principal is the identity a request acts as. It is a plain value and is
// compared with ==. Username is set only for KindNamedUser.
type Principal struct {
	Kind     Kind
	Username string
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{Kind: KindAnonymous}
}

// SingleUser returns the single-mode owner.
func SingleUser() Principal {
	return Principal{Kind: KindSingleUser}
}

// NamedUser returns the principal for account username.
func NamedUser(username string) Principal {
	return Principal{Kind: KindNamedUser, Username: username}
}

// IsAnonymous reports whether p is unauthenticated.
func (p Principal) IsAnonymous() bool {
	return p.Kind == KindAnonymous
}

// String returns a display name.
func (p Principal) String() string {
	switch p.Kind {
	case KindSingleUser:
		return "Single User"
	case KindNamedUser:
		return p.Username
	default:
		return "Anonymous"
	}
}

type principalKey struct{}

// ContextWithPrincipal stores p in ctx.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored in ctx, or Anonymous.
func PrincipalFromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Anonymous()
}

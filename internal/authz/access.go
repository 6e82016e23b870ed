// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// LevelKind enumerates the access level variants.
type LevelKind int

const (
	// Authenticated admits any logged-in principal. It is the zero value so
	// that an unset level is restrictive.
	Authenticated LevelKind = iota
	// Public admits everyone.
	Public
	// SpecificUsers admits the listed accounts.
	SpecificUsers
	// Disabled admits nobody.
	Disabled
)

// String returns the canonical spelling used in article metadata.
func (k LevelKind) String() string {
	switch k {
	case Public:
		return "Public"
	case SpecificUsers:
		return "SpecificUsers"
	case Disabled:
		return "Disabled"
	default:
		return "Authenticated"
	}
}

// ErrInvalidAccessLevel is returned for values that are not access levels.
var ErrInvalidAccessLevel = errors.New("invalid access level")

// AccessLevel is a tagged access level. Users is meaningful only for
// SpecificUsers and is kept sorted and free of duplicates.
type AccessLevel struct {
	Kind  LevelKind
	Users []string
}

// PublicLevel returns the Public level.
func PublicLevel() AccessLevel { return AccessLevel{Kind: Public} }

// AuthenticatedLevel returns the Authenticated level.
func AuthenticatedLevel() AccessLevel { return AccessLevel{Kind: Authenticated} }

// DisabledLevel returns the Disabled level.
func DisabledLevel() AccessLevel { return AccessLevel{Kind: Disabled} }

// UsersLevel returns a SpecificUsers level for names.
func UsersLevel(names ...string) AccessLevel {
	set := make(map[string]struct{}, len(names))
	users := make([]string, 0, len(names))
	for _, n := range names {
		if _, dup := set[n]; dup {
			continue
		}
		set[n] = struct{}{}
		users = append(users, n)
	}
	sort.Strings(users)
	return AccessLevel{Kind: SpecificUsers, Users: users}
}

// Contains reports whether username is listed. Matching is case-sensitive.
func (a AccessLevel) Contains(username string) bool {
	if a.Kind != SpecificUsers {
		return false
	}
	i := sort.SearchStrings(a.Users, username)
	return i < len(a.Users) && a.Users[i] == username
}

// String renders the level for logs and configuration.
func (a AccessLevel) String() string {
	if a.Kind == SpecificUsers {
		return strings.Join(a.Users, ",")
	}
	return a.Kind.String()
}

// TOMLValue returns the value to store in article metadata: a string for
// fixed levels, a list of names for SpecificUsers.
func (a AccessLevel) TOMLValue() any {
	if a.Kind == SpecificUsers {
		out := make([]string, len(a.Users))
		copy(out, a.Users)
		return out
	}
	return a.Kind.String()
}

func parseKeyword(s string) (AccessLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public", "anonymous":
		return PublicLevel(), true
	case "authenticated":
		return AuthenticatedLevel(), true
	case "disabled":
		return DisabledLevel(), true
	}
	return AccessLevel{}, false
}

// ParseAccessLevel reads a decoded TOML value. Accepted forms:
//
//	"Public" | "Anonymous" | "Authenticated" | "Disabled"   (any case)
//	["alice", "bob"]
//	{ Accounts = ["alice", "bob"] }
func ParseAccessLevel(v any) (AccessLevel, error) {
	switch t := v.(type) {
	case string:
		if lvl, ok := parseKeyword(t); ok {
			return lvl, nil
		}
		return AccessLevel{}, fmt.Errorf("%w: %q", ErrInvalidAccessLevel, t)
	case []string:
		return usersFrom(t)
	case []any:
		names := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return AccessLevel{}, fmt.Errorf("%w: user list contains %T", ErrInvalidAccessLevel, e)
			}
			names = append(names, s)
		}
		return usersFrom(names)
	case map[string]any:
		if len(t) != 1 {
			return AccessLevel{}, fmt.Errorf("%w: table must have exactly one key", ErrInvalidAccessLevel)
		}
		for k, inner := range t {
			if !strings.EqualFold(k, "accounts") {
				return AccessLevel{}, fmt.Errorf("%w: unknown key %q", ErrInvalidAccessLevel, k)
			}
			return ParseAccessLevel(inner)
		}
	case nil:
		return AccessLevel{}, fmt.Errorf("%w: missing", ErrInvalidAccessLevel)
	}
	return AccessLevel{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidAccessLevel, v)
}

func usersFrom(names []string) (AccessLevel, error) {
	clean := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return AccessLevel{}, fmt.Errorf("%w: empty username", ErrInvalidAccessLevel)
		}
		clean = append(clean, n)
	}
	// An empty list is valid and admits no named user.
	return UsersLevel(clean...), nil
}

// ParseAccessLevelString reads a configuration or form value: a keyword, or
// a comma-separated list of usernames.
func ParseAccessLevelString(s string) (AccessLevel, error) {
	if strings.TrimSpace(s) == "" {
		return AccessLevel{}, fmt.Errorf("%w: empty", ErrInvalidAccessLevel)
	}
	if lvl, ok := parseKeyword(s); ok {
		return lvl, nil
	}
	return usersFrom(strings.Split(s, ","))
}

// AccessLevelOrRestrictive parses v and falls back to Authenticated.
func AccessLevelOrRestrictive(v any) AccessLevel {
	lvl, err := ParseAccessLevel(v)
	if err != nil {
		return AuthenticatedLevel()
	}
	return lvl
}

// ArticlePermission is the pair of levels stored with each article.
type ArticlePermission struct {
	View AccessLevel
	Edit AccessLevel
}

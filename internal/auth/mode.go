// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the site-wide authentication mode. It is fixed at startup.
type Mode string

const (
	// ModeAnonymous disables login entirely.
	ModeAnonymous Mode = "anonymous"

	// ModeSingle has one password and no usernames.
	ModeSingle Mode = "single"

	// ModeMulti has named accounts, each with its own password.
	ModeMulti Mode = "multi"
)

// ErrInvalidMode is returned by ParseMode for unknown values.
var ErrInvalidMode = errors.New("invalid auth mode")

// ParseMode converts a configuration string to a Mode, ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anonymous":
		return ModeAnonymous, nil
	case "single":
		return ModeSingle, nil
	case "multi":
		return ModeMulti, nil
	default:
		return "", fmt.Errorf("%w: %q (want anonymous, single or multi)", ErrInvalidMode, s)
	}
}

// String returns the string representation of Mode.
func (m Mode) String() string {
	return string(m)
}

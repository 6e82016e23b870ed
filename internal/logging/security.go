// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package logging

import (
	"context"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// SecurityEvent describes an authentication or authorization event worth auditing.
type SecurityEvent struct {
	// Event names what happened ("login_success", "password_changed", ...).
	Event string
	// Username is the claimed or resolved account name, if any.
	Username string
	// Mode is the site authentication mode in effect.
	Mode string
	// IPAddress is the client address as seen by the HTTP layer.
	IPAddress string
	Success   bool
	// Reason is a short, non-sensitive explanation for failures.
	Reason string
}

// SecurityLogger writes SecurityEvents under the "security" component.
// Passwords, hashes and tokens must never be placed in an event.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger returns a SecurityLogger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("security")}
}

// NewSecurityLoggerWithLogger returns a SecurityLogger writing to logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "security").Logger()}
}

// Log writes event, enriched with the ids carried by ctx.
func (l *SecurityLogger) Log(ctx context.Context, event *SecurityEvent) {
	e := l.logger.Info()
	if !event.Success {
		e = l.logger.Warn()
	}
	e = e.Str("event", event.Event).Bool("success", event.Success)

	if id := RequestIDFromContext(ctx); id != "" {
		e = e.Str("request_id", id)
	}
	if event.Username != "" {
		e = e.Str("username", SanitizeUsername(event.Username))
	}
	if event.Mode != "" {
		e = e.Str("auth_mode", event.Mode)
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Reason != "" && !event.Success {
		e = e.Str("reason", event.Reason)
	}
	e.Send()
}

// SanitizeUsername strips control characters and truncates so that a
// hostile login form cannot forge log lines.
func SanitizeUsername(username string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, username)
	const maxLen = 64
	if len(cleaned) > maxLen {
		return cleaned[:maxLen] + "..."
	}
	return cleaned
}

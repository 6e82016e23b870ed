// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/authz"
	"github.com/tomtom215/plainwiki/internal/password"
)

// Validate checks the configuration for values the server cannot run with.
// A weak secret key is not an error here; the secret package replaces it.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateWiki(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	return nil
}

func (c *Config) validateWiki() error {
	if strings.TrimSpace(c.Wiki.ArticlesPath) == "" {
		return fmt.Errorf("wiki.articles_path is required")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := &c.Security

	if _, err := auth.ParseMode(s.AuthMode); err != nil {
		return fmt.Errorf("security.auth_mode: %w", err)
	}
	if strings.TrimSpace(s.AccountsPath) == "" {
		return fmt.Errorf("security.accounts_path is required")
	}
	if s.SessionTimeout < time.Minute {
		return fmt.Errorf("security.session_timeout must be at least 1m, got %s", s.SessionTimeout)
	}

	levels := map[string]string{
		"security.page_creation_access":  s.PageCreationAccess,
		"security.administration_access": s.AdministrationAccess,
		"security.discovery_access":      s.DiscoveryAccess,
	}
	for key, raw := range levels {
		if _, err := authz.ParseAccessLevelString(raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	if s.LoginRateLimit < 1 {
		return fmt.Errorf("security.login_rate_limit must be at least 1")
	}
	if s.LoginRateWindow <= 0 {
		return fmt.Errorf("security.login_rate_window must be positive")
	}
	if err := s.PasswordParams().Validate(); err != nil {
		return fmt.Errorf("security.argon2: %w", err)
	}
	if s.HashWorkers < 0 || s.HashQueue < 0 {
		return fmt.Errorf("security.hash_workers and security.hash_queue must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	return nil
}

// PasswordParams converts the argon2 section into hashing parameters.
func (s *SecurityConfig) PasswordParams() password.Params {
	return password.Params{
		Time:       s.Argon2.Time,
		MemoryKiB:  s.Argon2.MemoryKiB,
		Threads:    s.Argon2.Threads,
		KeyLength:  s.Argon2.KeyLength,
		SaltLength: s.Argon2.SaltLength,
	}
}

// Flags resolves the site-wide access levels. Validate has already checked
// that they parse.
func (s *SecurityConfig) Flags() (authz.GlobalFlags, error) {
	mode, err := auth.ParseMode(s.AuthMode)
	if err != nil {
		return authz.GlobalFlags{}, err
	}
	create, err := authz.ParseAccessLevelString(s.PageCreationAccess)
	if err != nil {
		return authz.GlobalFlags{}, fmt.Errorf("page_creation_access: %w", err)
	}
	admin, err := authz.ParseAccessLevelString(s.AdministrationAccess)
	if err != nil {
		return authz.GlobalFlags{}, fmt.Errorf("administration_access: %w", err)
	}
	discover, err := authz.ParseAccessLevelString(s.DiscoveryAccess)
	if err != nil {
		return authz.GlobalFlags{}, fmt.Errorf("discovery_access: %w", err)
	}
	return authz.GlobalFlags{
		Mode:             mode,
		AnonymousEditing: s.AnonymousEditing,
		PageCreation:     create,
		Administration:   admin,
		Discovery:        discover,
	}, nil
}

// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/authz"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Security.SessionTimeout != 7*24*time.Hour {
		t.Errorf("SessionTimeout = %v, want 168h", cfg.Security.SessionTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad mode", func(c *Config) { c.Security.AuthMode = "ldap" }, "security.auth_mode"},
		{"empty accounts path", func(c *Config) { c.Security.AccountsPath = " " }, "accounts_path"},
		{"short session", func(c *Config) { c.Security.SessionTimeout = time.Second }, "session_timeout"},
		{"bad admin level", func(c *Config) { c.Security.AdministrationAccess = "" }, "administration_access"},
		{"zero argon2 time", func(c *Config) { c.Security.Argon2.Time = 0 }, "security.argon2"},
		{"negative workers", func(c *Config) { c.Security.HashWorkers = -1 }, "hash_workers"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"zero rate limit", func(c *Config) { c.Security.LoginRateLimit = 0 }, "login_rate_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWeakSecretKeyIsNotAConfigError(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.SecretKey = "c2hvcnQ="
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
security:
  auth_mode: multi
  administration_access: alice, bob
  anonymous_editing: true
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Security.AuthMode != "multi" {
		t.Errorf("AuthMode = %q, want multi", cfg.Security.AuthMode)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}

	flags, err := cfg.Security.Flags()
	if err != nil {
		t.Fatalf("Flags: %v", err)
	}
	if flags.Mode != auth.ModeMulti {
		t.Errorf("Mode = %v, want multi", flags.Mode)
	}
	if !flags.AnonymousEditing {
		t.Error("AnonymousEditing = false, want true")
	}
	if flags.Administration.Kind != authz.SpecificUsers || !flags.Administration.Contains("bob") {
		t.Errorf("Administration = %+v, want SpecificUsers{alice,bob}", flags.Administration)
	}
	if flags.Discovery.Kind != authz.Public {
		t.Errorf("Discovery = %+v, want Public", flags.Discovery)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"AUTH_MODE":     "security.auth_mode",
		"SECRET_KEY":    "security.secret_key",
		"ARGON2_MEMORY": "security.argon2.memory_kib",
		"LOG_LEVEL":     "logging.level",
		"PATH":          "",
		"HOME":          "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

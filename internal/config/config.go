// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

// Package config loads Plainwiki's configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (CONFIG_PATH, config.yaml, /etc/plainwiki/config.yaml)
//  3. Environment Variables: explicit mapping table in envTransformFunc
//
// Config is immutable after Load and safe for concurrent reads. Changing the
// authentication mode or the secret key requires a restart.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Wiki     WikiConfig     `koanf:"wiki"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
//
// Environment Variables:
//   - HTTP_HOST (default: 127.0.0.1)
//   - HTTP_PORT (default: 8080)
//   - HTTP_TIMEOUT: read/write timeout (default: 30s)
//   - SHUTDOWN_TIMEOUT: graceful shutdown budget (default: 10s)
//   - CORS_ORIGINS: comma-separated allowed origins (default: none, same-origin only)
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// Address returns host:port for net/http.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// WikiConfig locates the article tree.
//
// Environment Variables:
//   - ARTICLES_PATH (default: articles)
type WikiConfig struct {
	ArticlesPath string `koanf:"articles_path"`
}

// SecurityConfig holds everything the access-control core consumes.
//
// Environment Variables:
//   - AUTH_MODE: anonymous, single or multi (default: single)
//   - SECRET_KEY: base64 signing key, at least 64 decoded bytes. When absent or
//     weak an ephemeral key is generated and logged once.
//   - ACCOUNTS_PATH: TOML credential file (default: accounts.toml)
//   - SESSION_TIMEOUT: session token lifetime (default: 168h)
//   - COOKIE_SECURE: mark the session cookie Secure (default: false)
//   - ANONYMOUS_EDITING: allow edits and page creation in anonymous mode (default: false)
//   - PAGE_CREATION_ACCESS, ADMINISTRATION_ACCESS, DISCOVERY_ACCESS:
//     Public, Authenticated, Disabled or a comma-separated list of usernames
//   - LOGIN_RATE_LIMIT / LOGIN_RATE_WINDOW: login attempts per IP per window
//   - ARGON2_TIME, ARGON2_MEMORY (KiB), ARGON2_THREADS: password hashing cost
//   - HASH_WORKERS, HASH_QUEUE: password hashing pool sizing (0 = automatic)
type SecurityConfig struct {
	AuthMode             string        `koanf:"auth_mode"`
	SecretKey            string        `koanf:"secret_key"`
	AccountsPath         string        `koanf:"accounts_path"`
	SessionTimeout       time.Duration `koanf:"session_timeout"`
	CookieSecure         bool          `koanf:"cookie_secure"`
	AnonymousEditing     bool          `koanf:"anonymous_editing"`
	PageCreationAccess   string        `koanf:"page_creation_access"`
	AdministrationAccess string        `koanf:"administration_access"`
	DiscoveryAccess      string        `koanf:"discovery_access"`
	LoginRateLimit       int           `koanf:"login_rate_limit"`
	LoginRateWindow      time.Duration `koanf:"login_rate_window"`
	Argon2               Argon2Config  `koanf:"argon2"`
	HashWorkers          int           `koanf:"hash_workers"`
	HashQueue            int           `koanf:"hash_queue"`
}

// Argon2Config holds argon2id cost parameters. Existing hashes keep the
// parameters they were created with; only new hashes use these values.
type Argon2Config struct {
	Time       uint32 `koanf:"time"`
	MemoryKiB  uint32 `koanf:"memory_kib"`
	Threads    uint8  `koanf:"threads"`
	KeyLength  uint32 `koanf:"key_length"`
	SaltLength uint32 `koanf:"salt_length"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

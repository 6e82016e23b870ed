// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/plainwiki/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{},
		},
		Wiki: WikiConfig{
			ArticlesPath: "articles",
		},
		Security: SecurityConfig{
			AuthMode:             "single",
			SecretKey:            "",
			AccountsPath:         "accounts.toml",
			SessionTimeout:       7 * 24 * time.Hour,
			CookieSecure:         false,
			AnonymousEditing:     false,
			PageCreationAccess:   "Authenticated",
			AdministrationAccess: "Authenticated",
			DiscoveryAccess:      "Public",
			LoginRateLimit:       10,
			LoginRateWindow:      time.Minute,
			Argon2: Argon2Config{
				Time:       2,
				MemoryKiB:  19 * 1024,
				Threads:    1,
				KeyLength:  32,
				SaltLength: 16,
			},
			HashWorkers: 0,
			HashQueue:   0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf layers defaults, the config file and environment variables.
func LoadWithKoanf() (*Config, error) {
	return loadFrom(findConfigFile())
}

func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps environment variables to koanf keys. Unmapped
// variables return "" and are skipped.
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		"http_host":        "server.host",
		"http_port":        "server.port",
		"http_timeout":     "server.timeout",
		"shutdown_timeout": "server.shutdown_timeout",
		"cors_origins":     "server.cors_origins",

		"articles_path": "wiki.articles_path",

		"auth_mode":             "security.auth_mode",
		"secret_key":            "security.secret_key",
		"accounts_path":         "security.accounts_path",
		"session_timeout":       "security.session_timeout",
		"cookie_secure":         "security.cookie_secure",
		"anonymous_editing":     "security.anonymous_editing",
		"page_creation_access":  "security.page_creation_access",
		"administration_access": "security.administration_access",
		"discovery_access":      "security.discovery_access",
		"login_rate_limit":      "security.login_rate_limit",
		"login_rate_window":     "security.login_rate_window",
		"argon2_time":           "security.argon2.time",
		"argon2_memory":         "security.argon2.memory_kib",
		"argon2_threads":        "security.argon2.threads",
		"hash_workers":          "security.hash_workers",
		"hash_queue":            "security.hash_queue",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

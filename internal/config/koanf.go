// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/masterfood/config.yaml",
	"/etc/masterfood/config.yml",
}

const (
	// ConfigPathEnvVar overrides the config file path.
	ConfigPathEnvVar = "CONFIG_PATH"

	// DotEnvPathEnvVar overrides the .env file path.
	DotEnvPathEnvVar = "DOTENV_PATH"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        3000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Upstream: UpstreamConfig{
			Timeout:              20 * time.Second,
			MaxRequestsPerSecond: 0,
			CoalesceReads:        true,
			RequireAPIKey:        false,
			APIKeyHeader:         "x-api-key",
		},
		Security: SecurityConfig{
			SessionTTL:             3 * time.Hour,
			SessionStore:           "memory",
			SessionStorePath:       "/data/sessions",
			SessionCleanupInterval: 10 * time.Minute,
			CookieName:             "masterfood_session",
			CookieSecure:           false,
			RateLimitReqs:          100,
			RateLimitWindow:        time.Minute,
			RateLimitDisabled:      false,
			CORSOrigins:            []string{},
			LoginMaxAttempts:       5,
			LoginLockoutWindow:     15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:           true,
			MaxEvents:         10000,
			BufferSize:        1000,
			Retention:         30 * 24 * time.Hour,
			RetentionInterval: time.Hour,
			LogToStdout:       false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// the environment, in increasing priority.
func LoadWithKoanf() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
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

// loadDotEnv populates the process environment from a .env file. Variables
// already present in the environment win over the file. A missing file is
// not an error.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists keys that may arrive as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored so that unrelated environment does not leak
// into the configuration.
var envMappings = map[string]string{
	// Server
	"port":         "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Upstream food API
	"upstream_base_url":                "upstream.base_url",
	"vite_api_base_url":                "upstream.legacy_base_url",
	"upstream_login_base_url":          "upstream.login_base_url",
	"upstream_timeout":                 "upstream.timeout",
	"upstream_max_requests_per_second": "upstream.max_requests_per_second",
	"upstream_coalesce_reads":          "upstream.coalesce_reads",
	"upstream_require_api_key":         "upstream.require_api_key",
	"upstream_api_key_header":          "upstream.api_key_header",

	// Security
	"session_ttl":              "security.session_ttl",
	"session_store":            "security.session_store",
	"session_store_path":       "security.session_store_path",
	"session_cleanup_interval": "security.session_cleanup_interval",
	"session_cookie_name":      "security.cookie_name",
	"cookie_secure":            "security.cookie_secure",
	"rate_limit_requests":      "security.rate_limit_reqs",
	"rate_limit_window":        "security.rate_limit_window",
	"disable_rate_limit":       "security.rate_limit_disabled",
	"cors_origins":             "security.cors_origins",
	"login_max_attempts":       "security.login_max_attempts",
	"login_lockout_window":     "security.login_lockout_window",

	// Audit trail
	"audit_enabled":            "audit.enabled",
	"audit_max_events":         "audit.max_events",
	"audit_buffer_size":        "audit.buffer_size",
	"audit_retention":          "audit.retention",
	"audit_retention_interval": "audit.retention_interval",
	"audit_log_to_stdout":      "audit.log_to_stdout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

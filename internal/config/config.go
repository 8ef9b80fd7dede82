// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

// Package config loads and validates MasterFood Admin configuration.
//
// Configuration is layered, later layers overriding earlier ones:
//
//  1. Built-in defaults
//  2. YAML file (CONFIG_PATH or one of DefaultConfigPaths)
//  3. Environment variables, after an optional .env file has been loaded
//
// The upstream base URL loaded here is only the startup default. The value
// actually used for upstream calls lives in a BaseURLStore, which operators
// can change at runtime through the settings endpoint.
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Security SecurityConfig `koanf:"security"`
	Audit    AuditConfig    `koanf:"audit"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds the local HTTP server configuration.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// UpstreamConfig holds the configuration of the external food API.
type UpstreamConfig struct {
	// BaseURL is the default base URL used until an operator overrides it.
	BaseURL string `koanf:"base_url"`

	// LegacyBaseURL carries the value of VITE_API_BASE_URL, the variable name
	// used by earlier dashboard builds. It only applies when BaseURL is empty.
	LegacyBaseURL string `koanf:"legacy_base_url"`

	// LoginBaseURL optionally points the /admin login call at a different
	// deployment. Empty means "use the current base URL".
	LoginBaseURL string `koanf:"login_base_url"`

	// Timeout bounds every upstream request.
	Timeout time.Duration `koanf:"timeout"`

	// MaxRequestsPerSecond throttles outbound calls. 0 disables throttling.
	MaxRequestsPerSecond float64 `koanf:"max_requests_per_second"`

	// CoalesceReads merges identical concurrent GET requests into one call.
	CoalesceReads bool `koanf:"coalesce_reads"`

	// RequireAPIKey makes login fail when /admin does not return an API key.
	RequireAPIKey bool `koanf:"require_api_key"`

	// APIKeyHeader is the header carrying the API key issued at login.
	APIKeyHeader string `koanf:"api_key_header"`

	// Headers are static headers sent with every upstream call. An empty
	// value removes a default header such as Accept.
	Headers map[string]string `koanf:"headers"`
}

// SecurityConfig holds session and request limiting configuration.
type SecurityConfig struct {
	SessionTTL             time.Duration `koanf:"session_ttl"`
	SessionStore           string        `koanf:"session_store"`
	SessionStorePath       string        `koanf:"session_store_path"`
	SessionCleanupInterval time.Duration `koanf:"session_cleanup_interval"`
	CookieName             string        `koanf:"cookie_name"`
	CookieSecure           bool          `koanf:"cookie_secure"`
	RateLimitReqs          int           `koanf:"rate_limit_reqs"`
	RateLimitWindow        time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled      bool          `koanf:"rate_limit_disabled"`
	CORSOrigins            []string      `koanf:"cors_origins"`
	LoginMaxAttempts       int           `koanf:"login_max_attempts"`
	LoginLockoutWindow     time.Duration `koanf:"login_lockout_window"`
}

// AuditConfig holds the operator audit trail configuration.
type AuditConfig struct {
	Enabled           bool          `koanf:"enabled"`
	MaxEvents         int           `koanf:"max_events"`
	BufferSize        int           `koanf:"buffer_size"`
	Retention         time.Duration `koanf:"retention"`
	RetentionInterval time.Duration `koanf:"retention_interval"`
	LogToStdout       bool          `koanf:"log_to_stdout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from all layers and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// DefaultBaseURL returns the upstream base URL to seed the runtime store with.
func (c *Config) DefaultBaseURL() string {
	if c.Upstream.BaseURL != "" {
		return NormalizeBaseURL(c.Upstream.BaseURL)
	}
	return NormalizeBaseURL(c.Upstream.LegacyBaseURL)
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the loaded configuration for consistency.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateAudit(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateUpstream() error {
	if base := c.DefaultBaseURL(); base != "" {
		if err := ValidateBaseURL(base); err != nil {
			return fmt.Errorf("UPSTREAM_BASE_URL: %w", err)
		}
	}
	if c.Upstream.LoginBaseURL != "" {
		if err := ValidateBaseURL(c.Upstream.LoginBaseURL); err != nil {
			return fmt.Errorf("UPSTREAM_LOGIN_BASE_URL: %w", err)
		}
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("UPSTREAM_TIMEOUT must be positive")
	}
	if c.Upstream.MaxRequestsPerSecond < 0 {
		return errors.New("UPSTREAM_MAX_REQUESTS_PER_SECOND must not be negative")
	}
	if strings.TrimSpace(c.Upstream.APIKeyHeader) == "" {
		return errors.New("UPSTREAM_API_KEY_HEADER must not be empty")
	}
	return nil
}

var validSessionStores = map[string]bool{
	"memory": true,
	"badger": true,
}

func (c *Config) validateSecurity() error {
	if c.Security.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if !validSessionStores[c.Security.SessionStore] {
		return fmt.Errorf("SESSION_STORE must be one of: memory, badger, got %q", c.Security.SessionStore)
	}
	if c.Security.SessionStore == "badger" && c.Security.SessionStorePath == "" {
		return errors.New("SESSION_STORE_PATH is required when SESSION_STORE is badger")
	}
	if c.Security.SessionCleanupInterval <= 0 {
		return errors.New("SESSION_CLEANUP_INTERVAL must be positive")
	}
	if c.Security.CookieName == "" {
		return errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	if c.Security.LoginMaxAttempts < 1 {
		return errors.New("LOGIN_MAX_ATTEMPTS must be at least 1")
	}
	if c.Security.LoginLockoutWindow <= 0 {
		return errors.New("LOGIN_LOCKOUT_WINDOW must be positive")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return errors.New("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateAudit() error {
	if !c.Audit.Enabled {
		return nil
	}
	if c.Audit.MaxEvents < 1 {
		return errors.New("AUDIT_MAX_EVENTS must be at least 1")
	}
	if c.Audit.BufferSize < 1 {
		return errors.New("AUDIT_BUFFER_SIZE must be at least 1")
	}
	if c.Audit.Retention <= 0 {
		return errors.New("AUDIT_RETENTION must be positive")
	}
	if c.Audit.RetentionInterval <= 0 {
		return errors.New("AUDIT_RETENTION_INTERVAL must be positive")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return errors.New("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return errors.New("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// ValidateBaseURL checks that rawURL is an absolute http(s) URL without query
// or fragment. A path is allowed since API gateways mount APIs under a stage.
func ValidateBaseURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return errors.New("host is required")
	}
	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return errors.New("must not contain a query or fragment")
	}
	return nil
}

// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package config

import (
	"strings"
	"sync"
)

// NormalizeBaseURL trims surrounding whitespace and strips a single trailing
// slash.
func NormalizeBaseURL(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

// BaseURLStore holds the upstream base URL used for data calls. It is the only
// mutable configuration of the running process: values are replaced whole
// (last writer wins) and are not persisted across restarts.
//
// BaseURLStore is safe for concurrent use.
type BaseURLStore struct {
	mu      sync.RWMutex
	baseURL string
	login   string
}

// NewBaseURLStore creates a store seeded with baseURL. loginBaseURL, when
// non-empty, pins the login call to a separate deployment.
func NewBaseURLStore(baseURL, loginBaseURL string) *BaseURLStore {
	return &BaseURLStore{
		baseURL: NormalizeBaseURL(baseURL),
		login:   NormalizeBaseURL(loginBaseURL),
	}
}

// BaseURL returns the current base URL, or "" when unset.
func (s *BaseURLStore) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

// Set replaces the base URL with the normalized form of raw and returns it.
// An empty (or all-whitespace) value clears the store.
func (s *BaseURLStore) Set(raw string) string {
	normalized := NormalizeBaseURL(raw)
	s.mu.Lock()
	s.baseURL = normalized
	s.mu.Unlock()
	return normalized
}

// Clear unsets the base URL.
func (s *BaseURLStore) Clear() {
	s.Set("")
}

// IsConfigured reports whether a base URL is set.
func (s *BaseURLStore) IsConfigured() bool {
	return s.BaseURL() != ""
}

// LoginBaseURL returns the base URL for the login call: the pinned login URL
// when configured, otherwise the current base URL.
func (s *BaseURLStore) LoginBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.login != "" {
		return s.login
	}
	return s.baseURL
}

// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

// Package auth gates the admin API behind a login against the upstream
// /admin endpoint. A successful login creates a server-side session
// referenced by an opaque cookie; the session may carry an API key issued
// by upstream, which is then attached to every upstream call made on the
// session's behalf.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

// Session-related errors
var (
	// ErrSessionNotFound is returned when a session is not found in the store.
	ErrSessionNotFound = errors.New("session not found")
)

// metadataAPIKey is the Metadata key holding the upstream API key.
const metadataAPIKey = "api_key"

// Session is an authenticated admin session.
type Session struct {
	// ID is the opaque session token stored in the cookie.
	ID string `json:"id"`

	// Username is the name submitted at login, possibly empty.
	Username string `json:"username,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is fixed at creation; sessions do not slide.
	ExpiresAt time.Time `json:"expires_at"`

	// Metadata holds additional session-specific data.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewSession creates a session valid for ttl from now.
func NewSession(username string, ttl time.Duration, now time.Time) *Session {
	return &Session{
		ID:        generateSessionID(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// APIKey returns the upstream credential carried by the session.
func (s *Session) APIKey() string {
	if s == nil || s.Metadata == nil {
		return ""
	}
	return s.Metadata[metadataAPIKey]
}

// SetAPIKey stores the upstream credential on the session.
func (s *Session) SetAPIKey(key string) {
	if key == "" {
		return
	}
	if s.Metadata == nil {
		s.Metadata = make(map[string]string)
	}
	s.Metadata[metadataAPIKey] = key
}

// IsExpiredAt reports whether the session has expired at now.
func (s *Session) IsExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) clone() *Session {
	copied := *s
	if s.Metadata != nil {
		copied.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			copied.Metadata[k] = v
		}
	}
	return &copied
}

// generateSessionID generates a cryptographically secure session ID.
func generateSessionID() string {
	bytes := make([]byte, 32)
	_, _ = rand.Read(bytes) // never returns an error
	return hex.EncodeToString(bytes)
}

// SessionStore persists sessions.
//
// Get returns stored sessions even when expired; expiry is decided by
// CheckValidity and eviction is an explicit Delete by the caller.
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if not found.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session by ID.
	// Does not return error if session doesn't exist.
	Delete(ctx context.Context, id string) error

	// CleanupExpired removes all sessions expired at now and returns how
	// many were removed.
	CleanupExpired(ctx context.Context, now time.Time) (int, error)

	// Close releases the store's resources.
	Close() error
}

// MemorySessionStore is an in-memory implementation of SessionStore.
// Sessions do not survive a restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
	}
}

// Create stores a copy of session.
func (s *MemorySessionStore) Create(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session.clone()
	return nil
}

// Get retrieves a copy of the session.
func (s *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.clone(), nil
}

// Delete removes a session by ID.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// CleanupExpired removes all expired sessions.
func (s *MemorySessionStore) CleanupExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, session := range s.sessions {
		if session.IsExpiredAt(now) {
			delete(s.sessions, id)
			count++
		}
	}
	return count, nil
}

// Len returns the number of stored sessions, expired or not.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close implements SessionStore.
func (s *MemorySessionStore) Close() error { return nil }

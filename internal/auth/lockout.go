// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrTooManyAttempts is returned by Login while the client is locked out.
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// lockoutTrackerSize bounds the number of tracked client addresses.
const lockoutTrackerSize = 10000

// LockoutConfig holds configuration for the login lockout.
type LockoutConfig struct {
	// MaxAttempts is the number of failed attempts before lockout.
	// Zero disables the lockout.
	MaxAttempts int

	// Window is how long failures are remembered after the last one, and
	// how long a lockout lasts.
	Window time.Duration
}

// DefaultLockoutConfig returns the default lockout policy.
func DefaultLockoutConfig() LockoutConfig {
	return LockoutConfig{
		MaxAttempts: 5,
		Window:      15 * time.Minute,
	}
}

type lockoutEntry struct {
	failures    int
	lockedUntil time.Time
}

// Lockout tracks failed logins per client address. Entries expire from the
// LRU once Window has passed since the last failure.
type Lockout struct {
	mu      sync.Mutex
	config  LockoutConfig
	entries *expirable.LRU[string, lockoutEntry]
}

// NewLockout creates a lockout tracker.
func NewLockout(config LockoutConfig) *Lockout {
	if config.Window <= 0 {
		config.Window = DefaultLockoutConfig().Window
	}
	return &Lockout{
		config:  config,
		entries: expirable.NewLRU[string, lockoutEntry](lockoutTrackerSize, nil, config.Window),
	}
}

func (l *Lockout) enabled(subject string) bool {
	return l != nil && l.config.MaxAttempts > 0 && subject != ""
}

// Locked reports whether subject is locked out at now.
func (l *Lockout) Locked(subject string, now time.Time) bool {
	if !l.enabled(subject) {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries.Get(subject)
	return ok && now.Before(entry.lockedUntil)
}

// RecordFailure counts a failed attempt and reports whether subject is now
// locked out.
func (l *Lockout) RecordFailure(subject string, now time.Time) bool {
	if !l.enabled(subject) {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, _ := l.entries.Get(subject)
	entry.failures++
	if entry.failures >= l.config.MaxAttempts {
		entry.lockedUntil = now.Add(l.config.Window)
	}
	l.entries.Add(subject, entry)
	return !entry.lockedUntil.IsZero() && now.Before(entry.lockedUntil)
}

// Reset forgets the failures of subject.
func (l *Lockout) Reset(subject string) {
	if !l.enabled(subject) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries.Remove(subject)
}

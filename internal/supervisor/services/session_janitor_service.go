// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/masterfood/internal/logging"
)

// DefaultJanitorInterval is the sweep interval used when none is given.
const DefaultJanitorInterval = 10 * time.Minute

// SessionCleaner removes expired sessions. Satisfied by *auth.Gate.
type SessionCleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// GarbageCollector reclaims storage after deletions. Satisfied by
// *auth.BadgerSessionStore.
type GarbageCollector interface {
	RunGC() error
}

// SessionJanitorService periodically sweeps expired sessions out of the
// session store. Expiry is already enforced on every request; the sweep
// only bounds the size of the store.
type SessionJanitorService struct {
	cleaner  SessionCleaner
	gc       GarbageCollector
	interval time.Duration
	name     string
}

// NewSessionJanitorService creates the janitor. A non-positive interval
// selects DefaultJanitorInterval.
func NewSessionJanitorService(cleaner SessionCleaner, interval time.Duration) *SessionJanitorService {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	return &SessionJanitorService{
		cleaner:  cleaner,
		interval: interval,
		name:     "session-janitor",
	}
}

// WithGarbageCollector runs gc after every sweep that removed sessions.
func (s *SessionJanitorService) WithGarbageCollector(gc GarbageCollector) *SessionJanitorService {
	s.gc = gc
	return s
}

// Serve implements suture.Service. A failed sweep is returned so that the
// supervisor restarts the janitor with backoff.
func (s *SessionJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.sweep(ctx); err != nil {
				return err
			}
		}
	}
}

func (s *SessionJanitorService) sweep(ctx context.Context) error {
	removed, err := s.cleaner.CleanupExpired(ctx)
	if err != nil {
		return fmt.Errorf("session cleanup failed: %w", err)
	}
	if removed == 0 {
		return nil
	}

	logging.Debug().Int("removed", removed).Msg("Expired sessions removed")
	if s.gc != nil {
		if err := s.gc.RunGC(); err != nil {
			// Non-fatal: the next sweep retries.
			logging.Warn().Err(err).Msg("Session store garbage collection failed")
		}
	}
	return nil
}

// String identifies the service in supervisor logs.
func (s *SessionJanitorService) String() string {
	return s.name
}

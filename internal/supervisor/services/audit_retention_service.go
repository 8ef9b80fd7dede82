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

// AuditPruner deletes audit events older than a cutoff. Satisfied by
// *audit.Logger.
type AuditPruner interface {
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}

// AuditRetentionService drops audit events older than the retention
// period on every tick.
type AuditRetentionService struct {
	pruner    AuditPruner
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	name      string
}

// NewAuditRetentionService creates the service.
func NewAuditRetentionService(pruner AuditPruner, retention, interval time.Duration) *AuditRetentionService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &AuditRetentionService{
		pruner:    pruner,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		name:      "audit-retention",
	}
}

// Serve implements suture.Service.
func (s *AuditRetentionService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cutoff := s.now().Add(-s.retention)
			n, err := s.pruner.Prune(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("audit retention failed: %w", err)
			}
			if n > 0 {
				logging.Info().Int64("count", n).Time("cutoff", cutoff).Msg("Pruned audit events")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (s *AuditRetentionService) String() string {
	return s.name
}

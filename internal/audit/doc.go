// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

// Package audit records an audit trail of operator actions: logins and
// logouts, base URL changes, and every ingredient, nickname and migration
// mutation forwarded to the food API.
//
// # Event Types
//
// Authentication:
//   - auth.login_success, auth.login_failure, auth.logout
//
// Configuration:
//   - config.changed, config.cleared
//
// Dataset mutations:
//   - food.created, food.modified, food.deleted
//   - nickname.created, nickname.modified, nickname.deleted
//   - migration.new_food, migration.nickname
//
// # Architecture
//
// Events flow through a buffered channel to a background writer:
//
//	Logger.Log() -> Event Buffer (chan) -> Async Writer -> Store
//
// Log never blocks the request; when the buffer is full the event is
// dropped and counted in audit_events_dropped_total.
//
// The MemoryStore keeps a bounded window of recent events. Retention is
// enforced by the audit retention service of the supervisor tree, which
// calls Logger.Prune periodically.
//
// # Usage
//
//	logger := audit.NewLogger(audit.NewMemoryStore(10000), audit.DefaultConfig())
//	defer logger.Close()
//
//	logger.Record(r, session.Username, audit.EventTypeFoodModified, err,
//	    map[string]any{"rows": len(rows)})
//
// # Security
//
// Events never carry passwords, API keys or session ids. Error messages
// pass through logging.SanitizeError before they are stored.
package audit

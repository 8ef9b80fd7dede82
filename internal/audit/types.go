// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package audit

import (
	"context"
	"time"
)

// EventType categorizes audit events.
type EventType string

const (
	// Authentication events
	EventTypeLoginSuccess EventType = "auth.login_success"
	EventTypeLoginFailure EventType = "auth.login_failure"
	EventTypeLogout       EventType = "auth.logout"

	// Configuration events
	EventTypeConfigChanged EventType = "config.changed"
	EventTypeConfigCleared EventType = "config.cleared"

	// Ingredient events
	EventTypeFoodCreated  EventType = "food.created"
	EventTypeFoodModified EventType = "food.modified"
	EventTypeFoodDeleted  EventType = "food.deleted"

	// Nickname events
	EventTypeNicknameCreated  EventType = "nickname.created"
	EventTypeNicknameModified EventType = "nickname.modified"
	EventTypeNicknameDeleted  EventType = "nickname.deleted"

	// Migration events
	EventTypeMigrationNewFood  EventType = "migration.new_food"
	EventTypeMigrationNickname EventType = "migration.nickname"
)

// Outcome indicates whether an action succeeded or failed.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is one operator action.
type Event struct {
	// ID is a unique identifier for this event.
	ID string `json:"id"`

	// Timestamp when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	Type    EventType `json:"type"`
	Outcome Outcome   `json:"outcome"`

	// Actor is the session username. Password-only logins have none.
	Actor string `json:"actor,omitempty"`

	Source Source `json:"source"`

	// Error is the failure message for OutcomeFailure events.
	Error string `json:"error,omitempty"`

	// Metadata contains event-specific details such as row counts.
	Metadata map[string]any `json:"metadata,omitempty"`

	// RequestID from the originating HTTP request.
	RequestID string `json:"request_id,omitempty"`
}

// Source represents where a request originated.
type Source struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Store defines the interface for audit event persistence.
type Store interface {
	// Save persists an audit event.
	Save(ctx context.Context, event *Event) error

	// Query retrieves events matching the filter, most recent first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Count returns the number of events matching the filter.
	Count(ctx context.Context, filter QueryFilter) (int64, error)

	// Delete removes events older than the given time.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter defines filtering options for audit queries. Zero fields
// match everything.
type QueryFilter struct {
	Types    []EventType `json:"types,omitempty"`
	Outcomes []Outcome   `json:"outcomes,omitempty"`
	Actor    string      `json:"actor,omitempty"`

	// Since excludes events before this time.
	Since time.Time `json:"since,omitempty"`

	// Limit is the maximum number of results.
	Limit int `json:"limit,omitempty"`
}

// DefaultQueryLimit is the result limit used when a query sets none.
const DefaultQueryLimit = 100

// MaxQueryLimit caps the result limit of a query.
const MaxQueryLimit = 1000

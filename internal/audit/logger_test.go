// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package audit

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLogger_Log(t *testing.T) {
	store := NewMemoryStore(100)
	logger := NewLogger(store, Config{Enabled: true, BufferSize: 10})

	logger.Log(&Event{
		Type:    EventTypeFoodCreated,
		Outcome: OutcomeSuccess,
		Actor:   "admin",
		Source:  Source{IPAddress: "192.168.1.1"},
	})

	// Close drains the buffer.
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events, err := store.Query(context.Background(), QueryFilter{Limit: 10})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != EventTypeFoodCreated || events[0].Actor != "admin" {
		t.Errorf("event = %+v", events[0])
	}
	if events[0].ID == "" {
		t.Error("ID was not generated")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("Timestamp was not set")
	}
}

func TestLogger_Disabled(t *testing.T) {
	store := NewMemoryStore(100)
	logger := NewLogger(store, Config{Enabled: false, Synchronous: true})

	logger.Log(&Event{Type: EventTypeLogout})
	if store.Len() != 0 {
		t.Errorf("disabled logger stored %d events", store.Len())
	}
	if logger.Enabled() {
		t.Error("Enabled() = true")
	}
}

func TestLogger_NilIsNoop(t *testing.T) {
	var logger *Logger
	logger.Log(&Event{Type: EventTypeLogout})
	if logger.Enabled() {
		t.Error("nil logger reports enabled")
	}
}

func TestLogger_KeepsGivenIDAndTimestamp(t *testing.T) {
	store := NewMemoryStore(10)
	logger := NewLogger(store, Config{Enabled: true, Synchronous: true})

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	logger.Log(&Event{ID: "fixed", Timestamp: ts, Type: EventTypeLogout})

	events, _ := store.Query(context.Background(), QueryFilter{})
	if len(events) != 1 || events[0].ID != "fixed" || !events[0].Timestamp.Equal(ts) {
		t.Errorf("events = %+v", events)
	}
}

func TestLogger_Record(t *testing.T) {
	store := NewMemoryStore(10)
	logger := NewLogger(store, Config{Enabled: true, Synchronous: true})

	r := httptest.NewRequest("PATCH", "/api/fooditem", nil)
	r.RemoteAddr = "203.0.113.9:5123"
	r.Header.Set("User-Agent", "dashboard")

	logger.Record(r, "admin", EventTypeFoodModified, nil, map[string]any{"rows": 2})
	logger.Record(r, "admin", EventTypeFoodDeleted, errors.New("404: no such thing"), nil)

	events, _ := store.Query(context.Background(), QueryFilter{})
	if len(events) != 2 {
		t.Fatalf("got %d events", len(events))
	}

	failed, ok := events[0], events[1]
	if failed.Outcome != OutcomeFailure || failed.Error != "404: no such thing" {
		t.Errorf("failed event = %+v", failed)
	}
	if ok.Outcome != OutcomeSuccess || ok.Metadata["rows"] != 2 {
		t.Errorf("success event = %+v", ok)
	}
	if ok.Source.IPAddress != "203.0.113.9" || ok.Source.UserAgent != "dashboard" {
		t.Errorf("source = %+v", ok.Source)
	}
}

func TestLogger_RecordSanitizesErrors(t *testing.T) {
	store := NewMemoryStore(10)
	logger := NewLogger(store, Config{Enabled: true, Synchronous: true})

	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	logger.Record(r, "", EventTypeLoginFailure, errors.New("401: Invalid password"), nil)

	events, _ := store.Query(context.Background(), QueryFilter{})
	if events[0].Error != "authentication error" {
		t.Errorf("Error = %q", events[0].Error)
	}
}

func TestLogger_QueryLimits(t *testing.T) {
	store := NewMemoryStore(2000)
	logger := NewLogger(store, Config{Enabled: true, Synchronous: true})
	for i := 0; i < 1500; i++ {
		logger.Log(&Event{Type: EventTypeFoodModified})
	}

	ctx := context.Background()
	events, _ := logger.Query(ctx, QueryFilter{})
	if len(events) != DefaultQueryLimit {
		t.Errorf("default limit: got %d", len(events))
	}
	events, _ = logger.Query(ctx, QueryFilter{Limit: 5000})
	if len(events) != MaxQueryLimit {
		t.Errorf("capped limit: got %d", len(events))
	}
	if n, _ := logger.Count(ctx, QueryFilter{}); n != 1500 {
		t.Errorf("Count = %d", n)
	}
}

func TestLogger_CloseIsIdempotent(t *testing.T) {
	logger := NewLogger(NewMemoryStore(10), DefaultConfig())
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestMemoryStore_Query(t *testing.T) {
	store := NewMemoryStore(100)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	seed := []Event{
		{ID: "1", Type: EventTypeLoginSuccess, Outcome: OutcomeSuccess, Actor: "alice", Timestamp: base},
		{ID: "2", Type: EventTypeFoodCreated, Outcome: OutcomeSuccess, Actor: "alice", Timestamp: base.Add(time.Minute)},
		{ID: "3", Type: EventTypeFoodCreated, Outcome: OutcomeFailure, Actor: "bob", Timestamp: base.Add(2 * time.Minute)},
		{ID: "4", Type: EventTypeNicknameDeleted, Outcome: OutcomeSuccess, Actor: "bob", Timestamp: base.Add(3 * time.Minute)},
	}
	for i := range seed {
		if err := store.Save(ctx, &seed[i]); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		filter QueryFilter
		want   []string
	}{
		{"all, recent first", QueryFilter{}, []string{"4", "3", "2", "1"}},
		{"by type", QueryFilter{Types: []EventType{EventTypeFoodCreated}}, []string{"3", "2"}},
		{"by outcome", QueryFilter{Outcomes: []Outcome{OutcomeFailure}}, []string{"3"}},
		{"by actor", QueryFilter{Actor: "alice"}, []string{"2", "1"}},
		{"since", QueryFilter{Since: base.Add(2 * time.Minute)}, []string{"4", "3"}},
		{"limit", QueryFilter{Limit: 1}, []string{"4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, e := range events {
				got = append(got, e.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMemoryStore_EmptyQueryIsNotNil(t *testing.T) {
	events, err := NewMemoryStore(10).Query(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if events == nil {
		t.Error("empty result is nil; it must encode as []")
	}
}

func TestMemoryStore_Eviction(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		_ = store.Save(ctx, &Event{Type: EventTypeFoodModified})
	}
	if store.Len() > 10 {
		t.Errorf("Len = %d, want at most 10", store.Len())
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()
	now := time.Now()

	_ = store.Save(ctx, &Event{ID: "old", Timestamp: now.Add(-48 * time.Hour)})
	_ = store.Save(ctx, &Event{ID: "new", Timestamp: now})

	n, err := store.Delete(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || store.Len() != 1 {
		t.Errorf("deleted %d, remaining %d", n, store.Len())
	}
}

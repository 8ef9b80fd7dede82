// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/masterfood/internal/audit"
)

func newAuditedServer(t *testing.T) *testServer {
	t.Helper()
	logger := audit.NewLogger(audit.NewMemoryStore(100), audit.Config{Enabled: true, Synchronous: true})
	t.Cleanup(func() { _ = logger.Close() })
	return newTestServerWithAudit(t, logger)
}

// auditEvents fetches path and returns the events and total it lists.
func auditEvents(t *testing.T, s *testServer, path string) ([]map[string]interface{}, float64) {
	t.Helper()
	rec, resp := s.do(t, http.MethodGet, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: code = %d, body = %s", path, rec.Code, rec.Body.String())
	}
	data, _ := resp.Data.(map[string]interface{})
	raw, _ := data["events"].([]interface{})
	events := make([]map[string]interface{}, 0, len(raw))
	for _, e := range raw {
		m, _ := e.(map[string]interface{})
		events = append(events, m)
	}
	total, _ := data["total"].(float64)
	return events, total
}

func TestAuditTrail(t *testing.T) {
	t.Parallel()
	s := newAuditedServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: code = %d", rec.Code)
	}
	rec, _ = s.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: code = %d", rec.Code)
	}
	rec, _ = s.do(t, http.MethodPatch, "/api/fooditem", `{"id":7,"master_name":"Leek"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: code = %d", rec.Code)
	}

	events, total := auditEvents(t, s, "/api/audit")
	if total != 3 || len(events) != 3 {
		t.Fatalf("events = %v, total = %v", events, total)
	}

	latest := events[0]
	if latest["type"] != string(audit.EventTypeFoodModified) || latest["outcome"] != "success" {
		t.Errorf("latest event = %v", latest)
	}
	if latest["actor"] != "admin" {
		t.Errorf("actor = %v, want admin", latest["actor"])
	}

	failed := events[2]
	if failed["type"] != string(audit.EventTypeLoginFailure) || failed["outcome"] != "failure" {
		t.Errorf("oldest event = %v", failed)
	}
	if failed["error"] != "authentication error" {
		t.Errorf("error = %v, want sanitized message", failed["error"])
	}

	events, total = auditEvents(t, s, "/api/audit?type=auth.login_success,auth.login_failure")
	if total != 2 || len(events) != 2 {
		t.Errorf("type filter: events = %v, total = %v", events, total)
	}
	events, _ = auditEvents(t, s, "/api/audit?outcome=failure")
	if len(events) != 1 {
		t.Errorf("outcome filter: events = %v", events)
	}
	events, total = auditEvents(t, s, "/api/audit?limit=1")
	if len(events) != 1 || total != 3 {
		t.Errorf("limit: events = %v, total = %v", events, total)
	}
}

func TestAuditRequiresSession(t *testing.T) {
	t.Parallel()
	s := newAuditedServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/audit", "")
	if rec.Code != http.StatusUnauthorized || errorCode(resp) != ErrCodeUnauthorized {
		t.Errorf("code = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestAuditInvalidFilter(t *testing.T) {
	t.Parallel()
	s := newAuditedServer(t)
	s.login(t)

	tests := []struct {
		name    string
		query   string
		message string
	}{
		{"bad since", "since=yesterday", "Invalid since timestamp"},
		{"bad limit", "limit=ten", "Invalid limit"},
		{"zero limit", "limit=0", "Invalid limit"},
		{"bad outcome", "outcome=maybe", "Invalid outcome"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := s.do(t, http.MethodGet, "/api/audit?"+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("code = %d, want 400", rec.Code)
			}
			if resp.Error == nil || resp.Error.Message != tt.message {
				t.Errorf("error = %+v, want %q", resp.Error, tt.message)
			}
		})
	}
}

func TestAuditDisabledListsNothing(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.login(t)

	s.do(t, http.MethodPatch, "/api/fooditem", `{"id":7,"master_name":"Leek"}`)

	events, total := auditEvents(t, s, "/api/audit")
	if len(events) != 0 || total != 0 {
		t.Errorf("events = %v, total = %v", events, total)
	}
}

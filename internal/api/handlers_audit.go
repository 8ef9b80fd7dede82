// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/masterfood/internal/audit"
	"github.com/tomtom215/masterfood/internal/upstream"
)

// AuditEventsResponse is the body of GET /api/audit.
type AuditEventsResponse struct {
	Events []audit.Event `json:"events"`
	Total  int64         `json:"total"`
}

// AuditEvents lists recent audit events, most recent first.
//
// Query parameters:
//   - type: comma-separated event types
//   - outcome: success or failure
//   - actor: session username
//   - since: RFC 3339 timestamp
//   - limit: maximum number of events (default 100, at most 1000)
func (h *Handler) AuditEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAuditFilter(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if !h.audit.Enabled() {
		WriteSuccess(w, r, AuditEventsResponse{Events: []audit.Event{}})
		return
	}

	events, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	total, err := h.audit.Count(r.Context(), filter)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteSuccess(w, r, AuditEventsResponse{Events: events, Total: total})
}

func parseAuditFilter(r *http.Request) (audit.QueryFilter, error) {
	q := r.URL.Query()
	var filter audit.QueryFilter

	for _, t := range strings.Split(q.Get("type"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			filter.Types = append(filter.Types, audit.EventType(t))
		}
	}

	switch outcome := audit.Outcome(q.Get("outcome")); outcome {
	case "":
	case audit.OutcomeSuccess, audit.OutcomeFailure:
		filter.Outcomes = []audit.Outcome{outcome}
	default:
		return filter, upstream.NewValidationError("Invalid outcome", "outcome must be success or failure")
	}

	filter.Actor = strings.TrimSpace(q.Get("actor"))

	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, upstream.NewValidationError("Invalid since timestamp", "since must be an RFC 3339 timestamp")
		}
		filter.Since = since
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, upstream.NewValidationError("Invalid limit", "limit must be a positive integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

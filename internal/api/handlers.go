// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/masterfood/internal/audit"
	"github.com/tomtom215/masterfood/internal/auth"
	"github.com/tomtom215/masterfood/internal/config"
	"github.com/tomtom215/masterfood/internal/translator"
	"github.com/tomtom215/masterfood/internal/upstream"
)

// maxRequestBodyBytes bounds decoded JSON request bodies.
const maxRequestBodyBytes = 10 << 20

// Upstream is the part of *upstream.Client the handlers depend on.
type Upstream interface {
	BreakerState() string
	Configured() bool
	Forward(onError upstream.ErrorWriter) http.Handler
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, request helpers (this file)
//   - handlers_auth.go: login, logout and session status
//   - handlers_config.go: upstream base URL settings
//   - handlers_food.go: ingredient reads and mutations
//   - handlers_nickname.go: nickname reads, mutations and migrations
//   - handlers_health.go: liveness and readiness probes
//   - handlers_audit.go: operator audit trail
type Handler struct {
	translator *translator.Translator
	gate       *auth.Gate
	sessions   *auth.SessionMiddleware
	baseURL    *config.BaseURLStore
	upstream   Upstream
	audit      *audit.Logger
	startTime  time.Time
}

// HandlerDeps groups the collaborators of a Handler.
type HandlerDeps struct {
	Translator *translator.Translator
	Gate       *auth.Gate
	Cookie     auth.CookieConfig
	BaseURL    *config.BaseURLStore
	Upstream   Upstream

	// Audit records operator actions. Nil disables the audit trail.
	Audit *audit.Logger
}

// NewHandler creates the API handler.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		translator: deps.Translator,
		gate:       deps.Gate,
		sessions:   auth.NewSessionMiddleware(deps.Gate, deps.Cookie, WriteError),
		baseURL:    deps.BaseURL,
		upstream:   deps.Upstream,
		audit:      deps.Audit,
		startTime:  time.Now(),
	}
}

// decodeJSON decodes the request body into dst. On failure it writes the
// 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, r, upstream.NewValidationError("Request body too large"))
			return false
		}
		WriteBadRequest(w, r, msgInvalidBody)
		return false
	}
	return true
}

// respond writes the result of a translator call.
func respond(w http.ResponseWriter, r *http.Request, data interface{}, err error) {
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteSuccess(w, r, data)
}

// mutation decodes a body of type T, hands it to op and records the
// outcome in the audit trail as event.
func mutation[T any](h *Handler, w http.ResponseWriter, r *http.Request, event audit.EventType, op func(context.Context, T) (any, error)) {
	var in T
	if !decodeJSON(w, r, &in) {
		return
	}
	data, err := op(r.Context(), in)
	h.record(r, event, err, nil)
	respond(w, r, data, err)
}

// record adds an audit event attributed to the session user of r.
func (h *Handler) record(r *http.Request, event audit.EventType, err error, metadata map[string]any) {
	h.audit.Record(r, sessionUser(r), event, err, metadata)
}

// rowsMetadata describes a batch mutation of n rows.
func rowsMetadata(n int) map[string]any {
	return map[string]any{"rows": n}
}

// sessionUser returns the username of the session bound to r, if any.
func sessionUser(r *http.Request) string {
	if session := auth.SessionFromContext(r.Context()); session != nil {
		return session.Username
	}
	return ""
}

// clientIP returns the client address without port. chi's RealIP has
// already replaced RemoteAddr when forwarding headers are present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

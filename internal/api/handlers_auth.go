// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/masterfood/internal/audit"
	"github.com/tomtom215/masterfood/internal/auth"
	"github.com/tomtom215/masterfood/internal/upstream"
)

// LoginRequest is the body of POST /api/auth/login and POST /api/admin.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// OKResponse acknowledges an operation without payload.
type OKResponse struct {
	OK bool `json:"ok"`
}

// SessionStatus is the body of GET /api/auth/me.
type SessionStatus struct {
	Authenticated bool       `json:"authenticated"`
	Username      string     `json:"username,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// Login verifies the credentials upstream and starts a session. A session
// presented with the request is replaced.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.gate.Login(r.Context(), auth.LoginRequest{
		Username:          req.Username,
		Password:          req.Password,
		PreviousSessionID: h.sessions.SessionID(r),
		ClientIP:          clientIP(r),
		UserAgent:         r.UserAgent(),
	})
	if err != nil {
		h.audit.Record(r, req.Username, audit.EventTypeLoginFailure, err, nil)
		WriteError(w, r, err)
		return
	}
	h.audit.Record(r, session.Username, audit.EventTypeLoginSuccess, nil, nil)

	h.sessions.SetSessionCookie(w, session)
	WriteSuccess(w, r, OKResponse{OK: true})
}

// Me reports whether the request carries a valid session.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, err := h.gate.Authenticate(r.Context(), h.sessions.SessionID(r))
	if err != nil {
		if !upstream.IsKind(err, upstream.KindAuth) {
			WriteError(w, r, err)
			return
		}
		h.sessions.ClearSessionCookie(w)
		WriteSuccess(w, r, SessionStatus{Authenticated: false})
		return
	}

	expiresAt := session.ExpiresAt
	WriteSuccess(w, r, SessionStatus{
		Authenticated: true,
		Username:      session.Username,
		ExpiresAt:     &expiresAt,
	})
}

// Logout destroys the session. It succeeds whether or not a session exists.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessions.SessionID(r)
	if h.audit.Enabled() {
		if session, err := h.gate.Authenticate(r.Context(), sessionID); err == nil {
			h.audit.Record(r, session.Username, audit.EventTypeLogout, nil, nil)
		}
	}
	h.gate.Logout(r.Context(), sessionID, clientIP(r))
	h.sessions.ClearSessionCookie(w)
	WriteSuccess(w, r, OKResponse{OK: true})
}

// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/masterfood/internal/logging"
	"github.com/tomtom215/masterfood/internal/metrics"
	"github.com/tomtom215/masterfood/internal/upstream"
)

// DefaultSessionTTL is the lifetime of a session.
const DefaultSessionTTL = 3 * time.Hour

const (
	loginPath         = "/admin"
	notAuthenticated  = "Not authenticated"
	missingAPIKey     = "Login response did not include an API key"
	passwordRequired  = "Password is required"
	verifyCredentials = "Unable to verify credentials"
)

// Caller performs one upstream request. *upstream.Client implements it.
type Caller interface {
	Do(ctx context.Context, req upstream.Request) (*upstream.Response, error)
}

// GateConfig configures a Gate.
type GateConfig struct {
	// SessionTTL is the fixed session lifetime. Defaults to DefaultSessionTTL.
	SessionTTL time.Duration

	// RequireAPIKey rejects logins whose response carries no API key.
	RequireAPIKey bool

	// Lockout limits failed logins per client address.
	Lockout LockoutConfig
}

// LoginRequest is one login attempt.
type LoginRequest struct {
	Username string
	Password string

	// PreviousSessionID is the session presented with the request, if
	// any. It is destroyed on successful login.
	PreviousSessionID string

	ClientIP  string
	UserAgent string
}

// Gate owns the session lifecycle: login against upstream, per-request
// authentication and logout.
type Gate struct {
	store    SessionStore
	login    Caller
	config   GateConfig
	lockout  *Lockout
	security *logging.SecurityLogger
	now      func() time.Time
}

// NewGate creates a Gate that verifies credentials through login and keeps
// sessions in store.
func NewGate(store SessionStore, login Caller, config GateConfig) *Gate {
	if config.SessionTTL <= 0 {
		config.SessionTTL = DefaultSessionTTL
	}
	return &Gate{
		store:    store,
		login:    login,
		config:   config,
		lockout:  NewLockout(config.Lockout),
		security: logging.NewSecurityLogger(),
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (g *Gate) SetClock(now func() time.Time) {
	g.now = now
}

// Store returns the session store.
func (g *Gate) Store() SessionStore {
	return g.store
}

type credentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// Login verifies the credentials against upstream and creates a session.
// A rejected login fails with an auth error carrying the upstream message;
// no session is created.
func (g *Gate) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if req.Password == "" {
		return nil, upstream.NewValidationError(passwordRequired)
	}

	now := g.now()
	if g.lockout.Locked(req.ClientIP, now) {
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		g.security.LogLoginLocked(req.ClientIP)
		return nil, ErrTooManyAttempts
	}

	resp, err := g.login.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   loginPath,
		Body:   credentials{Username: req.Username, Password: req.Password},
	})
	if err != nil {
		return nil, g.loginFailed(req, err, now)
	}

	apiKey := extractAPIKey(upstream.DecodeBody(resp.Body))
	if apiKey == "" && g.config.RequireAPIKey {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		g.security.LogLoginFailure(req.Username, req.ClientIP, req.UserAgent, missingAPIKey)
		return nil, upstream.NewAuthError(missingAPIKey)
	}

	if req.PreviousSessionID != "" {
		g.evict(ctx, req.PreviousSessionID, "logout")
	}

	session := NewSession(req.Username, g.config.SessionTTL, now)
	session.SetAPIKey(apiKey)
	if err := g.store.Create(ctx, session); err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create session: %w", err)
	}

	g.lockout.Reset(req.ClientIP)
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	metrics.SessionsCreated.Inc()
	g.security.LogLoginSuccess(req.Username, req.ClientIP, req.UserAgent)
	g.security.LogSessionCreated(session.ID, req.Username, req.ClientIP)

	return session, nil
}

func (g *Gate) loginFailed(req LoginRequest, err error, now time.Time) error {
	var e *upstream.Error
	if !errors.As(err, &e) {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return upstream.Wrapf(err, verifyCredentials)
	}

	switch e.Kind {
	case upstream.KindUpstream:
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		g.security.LogLoginFailure(req.Username, req.ClientIP, req.UserAgent, e.Message)
		if g.lockout.RecordFailure(req.ClientIP, now) {
			logging.Warn().Str("ip", req.ClientIP).Msg("Login locked after repeated failures")
		}
		return &upstream.Error{Kind: upstream.KindAuth, Status: e.Status, Message: e.Message, Err: e}
	case upstream.KindTransport:
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return upstream.Wrapf(e, verifyCredentials)
	default:
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return e
	}
}

// extractAPIKey finds an API key in a login response: apiKey or api_key,
// at the top level or under data.
func extractAPIKey(body any) string {
	obj, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	for _, field := range []string{"apiKey", "api_key"} {
		if key, ok := obj[field].(string); ok && key != "" {
			return key
		}
	}
	if data, ok := obj["data"]; ok {
		return extractAPIKey(data)
	}
	return ""
}

// Authenticate resolves sessionID to a valid session. The store is consulted
// on every call so that expiry takes effect without a timer; an expired
// session is evicted before the auth error is returned.
func (g *Gate) Authenticate(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, upstream.NewAuthError(notAuthenticated)
	}

	session, err := g.store.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	validity := CheckValidity(session, g.now())
	if validity.ShouldEvict {
		g.evict(ctx, sessionID, "expired")
		g.security.LogSessionExpired(sessionID)
	}
	if !validity.Valid {
		return nil, upstream.NewAuthError(notAuthenticated)
	}
	return session, nil
}

// Logout destroys the session. It never fails; store errors are logged.
func (g *Gate) Logout(ctx context.Context, sessionID, clientIP string) {
	if sessionID == "" {
		return
	}
	g.evict(ctx, sessionID, "logout")
	g.security.LogLogout(sessionID, clientIP)
}

// CleanupExpired removes every expired session from the store.
func (g *Gate) CleanupExpired(ctx context.Context) (int, error) {
	n, err := g.store.CleanupExpired(ctx, g.now())
	if n > 0 {
		metrics.SessionsEvicted.WithLabelValues("cleanup").Add(float64(n))
	}
	return n, err
}

func (g *Gate) evict(ctx context.Context, sessionID, reason string) {
	if err := g.store.Delete(ctx, sessionID); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("reason", reason).Msg("Failed to delete session")
		return
	}
	metrics.SessionsEvicted.WithLabelValues(reason).Inc()
}

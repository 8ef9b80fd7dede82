// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/masterfood/internal/upstream"
)

// DefaultCookieName is the default session cookie name.
const DefaultCookieName = "masterfood_session"

// CookieConfig holds the session cookie attributes.
type CookieConfig struct {
	// Name is the name of the session cookie.
	Name string

	// Path is the path for the session cookie.
	Path string

	// Secure sets the Secure flag on the cookie.
	Secure bool

	// SameSite sets the SameSite attribute.
	SameSite http.SameSite
}

// DefaultCookieConfig returns the default cookie attributes.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Name:     DefaultCookieName,
		Path:     "/",
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

type sessionContextKey struct{}

// ContextWithSession returns a context carrying session and its upstream
// credential.
func ContextWithSession(ctx context.Context, session *Session) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey{}, session)
	return upstream.WithAPIKey(ctx, session.APIKey())
}

// SessionFromContext returns the session attached by RequireSession.
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionContextKey{}).(*Session)
	return session
}

// SessionMiddleware binds HTTP requests to gate sessions through a cookie.
type SessionMiddleware struct {
	gate    *Gate
	cookie  CookieConfig
	onError func(w http.ResponseWriter, r *http.Request, err error)
}

// NewSessionMiddleware creates the middleware. onError renders
// authentication failures.
func NewSessionMiddleware(gate *Gate, cookie CookieConfig, onError func(http.ResponseWriter, *http.Request, error)) *SessionMiddleware {
	if cookie.Name == "" {
		cookie.Name = DefaultCookieName
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &SessionMiddleware{gate: gate, cookie: cookie, onError: onError}
}

// RequireSession rejects requests without a valid session. Validity is
// re-derived from the store on every request.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.gate.Authenticate(r.Context(), m.SessionID(r))
		if err != nil {
			if upstream.IsKind(err, upstream.KindAuth) {
				m.ClearSessionCookie(w)
			}
			m.onError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
	})
}

// SessionID returns the session id presented by the request.
func (m *SessionMiddleware) SessionID(r *http.Request) string {
	cookie, err := r.Cookie(m.cookie.Name)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// SetSessionCookie sets the session cookie on the response. The cookie
// expires with the session.
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    session.ID,
		Path:     m.cookie.Path,
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		Secure:   m.cookie.Secure,
		HttpOnly: true,
		SameSite: m.cookie.SameSite,
	})
}

// ClearSessionCookie clears the session cookie.
func (m *SessionMiddleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     m.cookie.Path,
		MaxAge:   -1,
		Secure:   m.cookie.Secure,
		HttpOnly: true,
		SameSite: m.cookie.SameSite,
	})
}

// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/masterfood/internal/auth"
	"github.com/tomtom215/masterfood/internal/logging"
	"github.com/tomtom215/masterfood/internal/upstream"
)

const (
	msgInvalidBody     = "Invalid request body"
	msgTooManyAttempts = "Too many failed login attempts. Try again later."
	msgInternal        = "An internal error occurred"
)

// WriteError maps err to a status code and error envelope. It is the only
// place where failures of the translator, the upstream client and the auth
// gate become HTTP responses.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	if errors.Is(err, auth.ErrTooManyAttempts) {
		rw.TooManyRequests(msgTooManyAttempts)
		return
	}

	var e *upstream.Error
	if !errors.As(err, &e) {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled API error")
		rw.InternalError(msgInternal)
		return
	}

	status := upstream.HTTPStatus(e)
	switch e.Kind {
	case upstream.KindConfiguration:
		rw.Error(status, ErrCodeNotConfigured, e.Message)
	case upstream.KindValidation:
		var details interface{}
		if len(e.Details) > 0 {
			details = e.Details
		}
		rw.ErrorWithDetails(status, ErrCodeValidationError, e.Message, details)
	case upstream.KindAuth:
		rw.Error(status, ErrCodeUnauthorized, e.Message)
	case upstream.KindUpstream:
		logging.Ctx(r.Context()).Warn().Int("upstream_status", e.Status).Str("error", e.Message).Msg("Upstream rejected request")
		rw.ErrorWithDetails(status, ErrCodeExternalServiceFail, e.Message, map[string]int{"upstream_status": e.Status})
	default:
		logging.Ctx(r.Context()).Error().Err(e).Msg("Upstream unreachable")
		code := ErrCodeExternalServiceFail
		if status == http.StatusServiceUnavailable {
			code = ErrCodeServiceUnavailable
		}
		rw.Error(status, code, e.Message)
	}
}

// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind int

const (
	// KindConfiguration means the upstream base URL is not set.
	KindConfiguration Kind = iota + 1
	// KindValidation means the input was rejected before any network call.
	KindValidation
	// KindAuth means login was rejected or no valid session exists.
	KindAuth
	// KindUpstream means the upstream API answered with a non-2xx status.
	KindUpstream
	// KindTransport means no usable response was received.
	KindTransport
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindUpstream:
		return "upstream"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is wrapped by transport errors raised while the circuit
// breaker rejects calls.
var ErrCircuitOpen = errors.New("upstream circuit breaker is open")

// Error is the single error type surfaced by the upstream client and the
// request translator. Its message is already normalized for display.
type Error struct {
	Kind Kind

	// Status is the upstream HTTP status for KindUpstream errors.
	Status int

	// Message is the human-readable, normalized message.
	Message string

	// Details optionally lists per-field validation failures.
	Details []string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigurationError reports a missing upstream base URL.
func NewConfigurationError() *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: "API base URL is not configured. Set the upstream base URL in settings.",
	}
}

// NewValidationError reports rejected input.
func NewValidationError(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// NewAuthError reports a rejected login or a missing session.
func NewAuthError(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// NewUpstreamError reports a non-2xx upstream response.
func NewUpstreamError(status int, message string) *Error {
	return &Error{Kind: KindUpstream, Status: status, Message: message}
}

// NewTransportError wraps a network-level failure. The message is the raw
// failure text.
func NewTransportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}

// Wrapf prefixes the message of err, keeping its kind. Errors that are not
// *Error become transport errors.
func Wrapf(err error, format string, args ...any) *Error {
	prefix := fmt.Sprintf(format, args...)
	var e *Error
	if !errors.As(err, &e) {
		e = NewTransportError(err)
	}
	return &Error{
		Kind:    e.Kind,
		Status:  e.Status,
		Message: prefix + ": " + e.Message,
		Details: e.Details,
		Err:     e,
	}
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// HTTPStatus maps err to the status the local API answers with.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindConfiguration, KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindTransport:
		if errors.Is(e, ErrCircuitOpen) {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

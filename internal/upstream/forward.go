// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/tomtom215/masterfood/internal/metrics"
)

// ErrorWriter renders an upstream failure for a local HTTP caller.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

type forwardTargetKey struct{}

// Forward returns a handler that relays requests verbatim to the current
// base URL. The request path is appended to the base URL path, so callers
// mount it behind http.StripPrefix. Cookies are never forwarded; the
// credential in the request context is sent in their place.
//
// Responses, including non-2xx ones, are streamed back unchanged. Failures
// to obtain any response are passed to onError.
func (c *Client) Forward(onError ErrorWriter) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			target, _ := pr.In.Context().Value(forwardTargetKey{}).(*url.URL)
			pr.SetURL(target)
			pr.Out.Header.Del("Cookie")
			pr.Out.Header.Del(c.apiKeyHeader)
			if key := APIKeyFromContext(pr.In.Context()); key != "" {
				pr.Out.Header.Set(c.apiKeyHeader, key)
			}
		},
		Transport: &forwardTransport{client: c},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			var e *Error
			if !errors.As(err, &e) {
				e = NewTransportError(err)
			}
			onError(w, r, e)
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base := c.currentBaseURL()
		if base == "" {
			onError(w, r, NewConfigurationError())
			return
		}
		target, err := url.Parse(base)
		if err != nil {
			onError(w, r, NewConfigurationError())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		defer cancel()
		ctx = context.WithValue(ctx, forwardTargetKey{}, target)
		proxy.ServeHTTP(w, r.WithContext(ctx))
	})
}

// forwardTransport applies the client's rate limit, metrics and circuit
// breaker to streamed requests. A 5xx counts against the breaker but is
// still delivered to the caller.
type forwardTransport struct {
	client *Client
}

func (t *forwardTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c := t.client
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, NewTransportError(err)
		}
	}

	var resp *http.Response
	err := c.breaker.execute(func() error {
		start := time.Now()
		r, err := c.transport.RoundTrip(req)
		if err != nil {
			metrics.RecordUpstreamRequest(c.name, req.Method, 0, time.Since(start))
			return NewTransportError(err)
		}
		metrics.RecordUpstreamRequest(c.name, req.Method, r.StatusCode, time.Since(start))
		resp = r
		if r.StatusCode >= http.StatusInternalServerError {
			return NewUpstreamError(r.StatusCode, http.StatusText(r.StatusCode))
		}
		return nil
	})
	if resp != nil {
		return resp, nil
	}
	return nil, err
}

// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/masterfood/internal/config"
	"github.com/tomtom215/masterfood/internal/logging"
	"github.com/tomtom215/masterfood/internal/metrics"
)

const (
	// DefaultTimeout bounds every upstream call.
	DefaultTimeout = 20 * time.Second

	// DefaultAPIKeyHeader carries the session credential upstream.
	DefaultAPIKeyHeader = "x-api-key"

	// maxResponseBytes caps buffered upstream response bodies.
	maxResponseBytes = 10 << 20
)

// BaseURLSource supplies the upstream base URL at call time.
type BaseURLSource interface {
	BaseURL() string
}

// BaseURLFunc adapts a function to BaseURLSource.
type BaseURLFunc func() string

// BaseURL implements BaseURLSource.
func (f BaseURLFunc) BaseURL() string { return f() }

// Options configures a Client.
type Options struct {
	// Name labels metrics and the circuit breaker ("api", "login").
	Name string

	// BaseURL is read on every call. Required.
	BaseURL BaseURLSource

	// Timeout bounds each call. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Headers are sent with every call. Defaults to NewHeaders().
	Headers *Headers

	// APIKeyHeader names the header carrying the credential found in the
	// request context. Defaults to DefaultAPIKeyHeader.
	APIKeyHeader string

	// MaxRequestsPerSecond limits outbound calls. Zero disables the limit.
	MaxRequestsPerSecond float64

	// CoalesceReads shares one upstream call among identical concurrent GETs.
	CoalesceReads bool

	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

// Request is one logical upstream call.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON-encoded when non-nil.
	Body any
}

// Response is a buffered 2xx upstream response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client performs upstream calls. It never retries; every failure is
// returned once as an *Error.
type Client struct {
	name         string
	baseURL      BaseURLSource
	headers      *Headers
	apiKeyHeader string
	timeout      time.Duration
	httpClient   *http.Client
	transport    http.RoundTripper
	limiter      *rate.Limiter
	coalesce     bool
	group        singleflight.Group
	breaker      *breaker
}

// New builds a Client from opts.
func New(opts Options) *Client {
	if opts.Name == "" {
		opts.Name = "api"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Headers == nil {
		opts.Headers = NewHeaders()
	}
	if opts.APIKeyHeader == "" {
		opts.APIKeyHeader = DefaultAPIKeyHeader
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.BaseURL == nil {
		opts.BaseURL = BaseURLFunc(func() string { return "" })
	}

	c := &Client{
		name:         opts.Name,
		baseURL:      opts.BaseURL,
		headers:      opts.Headers,
		apiKeyHeader: opts.APIKeyHeader,
		timeout:      opts.Timeout,
		httpClient:   &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		transport:    opts.Transport,
		coalesce:     opts.CoalesceReads,
		breaker:      newBreaker("upstream_" + opts.Name),
	}
	if opts.MaxRequestsPerSecond > 0 {
		burst := int(opts.MaxRequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.MaxRequestsPerSecond), burst)
	}
	return c
}

// Name returns the client name.
func (c *Client) Name() string { return c.name }

// Headers returns a copy of the static headers sent with every call.
func (c *Client) Headers() http.Header { return c.headers.Clone() }

// BreakerState returns the circuit breaker state.
func (c *Client) BreakerState() string { return c.breaker.State() }

// Configured reports whether a base URL is currently set.
func (c *Client) Configured() bool {
	return c.currentBaseURL() != ""
}

func (c *Client) currentBaseURL() string {
	return config.NormalizeBaseURL(c.baseURL.BaseURL())
}

// Do performs req and returns the buffered 2xx response. Non-2xx answers
// fail with an upstream error carrying the extracted message.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	base := c.currentBaseURL()
	if base == "" {
		return nil, NewConfigurationError()
	}

	target := base + req.Path
	if len(req.Query) > 0 {
		target += "?" + EncodeQuery(req.Query)
	}

	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("Unable to encode request body: %v", err))
		}
	}

	apiKey := APIKeyFromContext(ctx)

	if req.Method == http.MethodGet && c.coalesce {
		return c.coalesced(ctx, req.Method, target, apiKey)
	}
	return c.send(ctx, req.Method, target, body, apiKey)
}

// coalesced shares one in-flight GET among identical callers. The shared
// call runs detached from any single caller's cancellation; each caller
// still stops waiting when its own context ends.
func (c *Client) coalesced(ctx context.Context, method, target, apiKey string) (*Response, error) {
	key := method + " " + target + " " + apiKey
	ch := c.group.DoChan(key, func() (any, error) {
		return c.send(context.WithoutCancel(ctx), method, target, nil, apiKey)
	})

	select {
	case <-ctx.Done():
		return nil, NewTransportError(ctx.Err())
	case res := <-ch:
		if res.Shared {
			metrics.UpstreamCoalescedRequests.WithLabelValues(c.name).Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Response), nil
	}
}

func (c *Client) send(ctx context.Context, method, target string, body []byte, apiKey string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, NewTransportError(err)
		}
	}

	var out *Response
	err := c.breaker.execute(func() error {
		resp, err := c.roundTrip(ctx, method, target, body, apiKey)
		out = resp
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) roundTrip(ctx context.Context, method, target string, body []byte, apiKey string) (*Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, NewTransportError(err)
	}
	c.headers.applyTo(httpReq.Header)
	if apiKey != "" {
		httpReq.Header.Set(c.apiKeyHeader, apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.RecordUpstreamRequest(c.name, method, 0, time.Since(start))
		logging.Ctx(ctx).Warn().Str("client", c.name).Str("method", method).Err(err).Msg("Upstream request failed")
		return nil, NewTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	metrics.RecordUpstreamRequest(c.name, method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, NewTransportError(err)
	}

	logging.Ctx(ctx).Debug().
		Str("client", c.name).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Upstream request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewUpstreamError(resp.StatusCode, ErrorMessage(resp.StatusCode, data))
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// EncodeQuery encodes values with spaces as %20 rather than "+".
func EncodeQuery(values url.Values) string {
	return strings.ReplaceAll(values.Encode(), "+", "%20")
}

type apiKeyContextKey struct{}

// WithAPIKey returns a context whose upstream calls carry key.
func WithAPIKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, apiKeyContextKey{}, key)
}

// APIKeyFromContext returns the credential attached by WithAPIKey.
func APIKeyFromContext(ctx context.Context) string {
	if key, ok := ctx.Value(apiKeyContextKey{}).(string); ok {
		return key
	}
	return ""
}

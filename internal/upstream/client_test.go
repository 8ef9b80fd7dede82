// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func staticBase(u string) BaseURLSource {
	return BaseURLFunc(func() string { return u })
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", 404, `{"error":"not found"}`, "404: not found"},
		{"message field", 400, `{"message":"bad row"}`, "400: bad row"},
		{"detail field", 422, `{"detail":"missing id"}`, "422: missing id"},
		{"error wins over message", 409, `{"message":"m","error":"e"}`, "409: e"},
		{"empty error falls through", 409, `{"error":"","message":"m"}`, "409: m"},
		{"json string body", 500, `"boom"`, "500: boom"},
		{"plain text body", 502, `Bad Gateway`, "502: Bad Gateway"},
		{"no usable field", 500, `{"code":7}`, "Request failed with status code 500"},
		{"empty body", 503, ``, "Request failed with status code 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ErrorMessage(tt.status, []byte(tt.body)); got != tt.want {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrapData(t *testing.T) {
	t.Parallel()

	got := UnwrapData(DecodeBody([]byte(`{"data":[{"id":1}],"count":1}`)))
	arr, ok := got.([]any)
	if !ok || len(arr) != 1 {
		t.Fatalf("UnwrapData() = %#v, want one-element array", got)
	}

	raw := DecodeBody([]byte(`{"data":{"id":1}}`))
	if obj, ok := UnwrapData(raw).(map[string]any); !ok || obj["data"] == nil {
		t.Errorf("object data should not be unwrapped, got %#v", UnwrapData(raw))
	}

	if got := UnwrapData(DecodeBody([]byte(`[1,2]`))); len(got.([]any)) != 2 {
		t.Errorf("bare array = %#v", got)
	}
}

func TestEncodeQuery(t *testing.T) {
	t.Parallel()

	got := EncodeQuery(url.Values{"q": {"kimchi jjigae+"}})
	if got != "q=kimchi%20jjigae%2B" {
		t.Errorf("EncodeQuery() = %q", got)
	}
}

func TestDoUnconfiguredMakesNoCall(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(Options{Name: "test_unconfigured", BaseURL: staticBase("  ")})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/search"})
	if !IsKind(err, KindConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
	if HTTPStatus(err) != http.StatusBadRequest {
		t.Errorf("HTTPStatus = %d, want 400", HTTPStatus(err))
	}
	if hits.Load() != 0 {
		t.Errorf("upstream hits = %d, want 0", hits.Load())
	}
}

func TestDoUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"not found"}`)
	}))
	defer srv.Close()

	c := New(Options{Name: "test_upstream_error", BaseURL: staticBase(srv.URL)})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/get/nickName/byId", Query: url.Values{"id": {"9"}}})

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if e.Kind != KindUpstream || e.Status != http.StatusNotFound {
		t.Errorf("kind/status = %v/%d", e.Kind, e.Status)
	}
	if e.Error() != "404: not found" {
		t.Errorf("message = %q, want %q", e.Error(), "404: not found")
	}
	if HTTPStatus(err) != http.StatusBadGateway {
		t.Errorf("HTTPStatus = %d, want 502", HTTPStatus(err))
	}
}

func TestDoSendsHeadersBodyAndAPIKey(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotQuery, gotKey, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("x-api-key")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = io.WriteString(w, `{"data":[{"id":3}]}`)
	}))
	defer srv.Close()

	c := New(Options{Name: "test_headers", BaseURL: staticBase(srv.URL + "/stage/")})
	ctx := WithAPIKey(context.Background(), "secret-key")

	resp, err := c.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   "/patch/fooditem",
		Query:  url.Values{"dry": {"a b"}},
		Body:   []map[string]any{{"id": 3}},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	result := UnwrapData(DecodeBody(resp.Body))

	if gotMethod != http.MethodPatch || gotPath != "/stage/patch/fooditem" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotQuery != "dry=a%20b" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotKey != "secret-key" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if gotBody != `[{"id":3}]` {
		t.Errorf("body = %s", gotBody)
	}
	if arr, ok := result.([]any); !ok || len(arr) != 1 {
		t.Errorf("result = %#v, want unwrapped data array", result)
	}
}

func TestDoTimeoutIsTransportError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Options{Name: "test_timeout", BaseURL: staticBase(srv.URL), Timeout: 50 * time.Millisecond})
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/ingredients", Body: []int64{1}})
	if !IsKind(err, KindTransport) {
		t.Fatalf("err = %v, want transport error", err)
	}
	if HTTPStatus(err) != http.StatusBadGateway {
		t.Errorf("HTTPStatus = %d, want 502", HTTPStatus(err))
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(Options{Name: "test_breaker_4xx", BaseURL: staticBase(srv.URL)})
	for i := 0; i < 15; i++ {
		_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/addNickname"})
		if !IsKind(err, KindUpstream) {
			t.Fatalf("call %d: err = %v, want upstream error", i, err)
		}
	}
	if c.BreakerState() != "closed" {
		t.Errorf("breaker state = %s, want closed", c.BreakerState())
	}
	if hits.Load() != 15 {
		t.Errorf("hits = %d, want 15", hits.Load())
	}
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Options{Name: "test_breaker_5xx", BaseURL: staticBase(srv.URL)})
	for i := 0; i < 10; i++ {
		_, _ = c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/addNickname"})
	}
	if c.BreakerState() != "open" {
		t.Fatalf("breaker state = %s, want open", c.BreakerState())
	}

	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/addNickname"})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
	if HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Errorf("HTTPStatus = %d, want 503", HTTPStatus(err))
	}
	if hits.Load() != 10 {
		t.Errorf("hits = %d, want 10", hits.Load())
	}
}

func TestCoalescedReads(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	arrived := make(chan struct{}, 8)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		arrived <- struct{}{}
		<-release
		_, _ = io.WriteString(w, `[{"id":1}]`)
	}))
	defer srv.Close()

	c := New(Options{Name: "test_coalesce", BaseURL: staticBase(srv.URL), CoalesceReads: true})
	req := Request{Method: http.MethodGet, Path: "/search", Query: url.Values{"q": {"tofu"}}}

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	call := func() {
		defer wg.Done()
		_, err := c.Do(context.Background(), req)
		errs <- err
	}

	wg.Add(1)
	go call()
	<-arrived

	wg.Add(callers - 1)
	for i := 1; i < callers; i++ {
		go call()
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Do: %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hits = %d, want 1", hits.Load())
	}
}

func TestForward(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery, gotCookie, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotCookie = r.Header.Get("Cookie")
		gotKey = r.Header.Get("x-api-key")
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, `{"raw":true}`)
	}))
	defer srv.Close()

	c := New(Options{Name: "test_forward", BaseURL: staticBase(srv.URL + "/stage")})
	var failed error
	handler := http.StripPrefix("/api-proxy", c.Forward(func(w http.ResponseWriter, _ *http.Request, err error) {
		failed = err
		w.WriteHeader(HTTPStatus(err))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api-proxy/search?q=egg", http.NoBody)
	req.Header.Set("Cookie", "masterfood_session=abc")
	req = req.WithContext(WithAPIKey(req.Context(), "k1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if failed != nil {
		t.Fatalf("forward failed: %v", failed)
	}
	if rec.Code != http.StatusTeapot || rec.Body.String() != `{"raw":true}` {
		t.Errorf("response = %d %s", rec.Code, rec.Body.String())
	}
	if gotPath != "/stage/search" || gotQuery != "q=egg" {
		t.Errorf("upstream request = %s?%s", gotPath, gotQuery)
	}
	if gotCookie != "" {
		t.Errorf("cookie forwarded: %q", gotCookie)
	}
	if gotKey != "k1" {
		t.Errorf("x-api-key = %q", gotKey)
	}
}

func TestForwardUnconfigured(t *testing.T) {
	t.Parallel()

	c := New(Options{Name: "test_forward_unset", BaseURL: staticBase("")})
	var failed error
	handler := c.Forward(func(w http.ResponseWriter, _ *http.Request, err error) {
		failed = err
		w.WriteHeader(HTTPStatus(err))
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", http.NoBody))

	if !IsKind(failed, KindConfiguration) || rec.Code != http.StatusBadRequest {
		t.Errorf("err = %v, code = %d", failed, rec.Code)
	}
}

func TestWrapfKeepsKind(t *testing.T) {
	t.Parallel()

	err := Wrapf(NewUpstreamError(401, "401: bad password"), "Unable to verify credentials")
	if err.Kind != KindUpstream || err.Status != 401 {
		t.Errorf("kind/status = %v/%d", err.Kind, err.Status)
	}
	if err.Error() != "Unable to verify credentials: 401: bad password" {
		t.Errorf("message = %q", err.Error())
	}

	plain := Wrapf(errors.New("dial tcp: refused"), "Unable to verify credentials")
	if plain.Kind != KindTransport {
		t.Errorf("plain error kind = %v, want transport", plain.Kind)
	}
}

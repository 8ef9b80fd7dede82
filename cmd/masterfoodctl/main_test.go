// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/masterfood/internal/config"
	"github.com/tomtom215/masterfood/internal/upstream"
)

// recordedCall is one request seen by the fake food API.
type recordedCall struct {
	method string
	path   string
	query  string
	apiKey string
	body   string
}

type fakeFoodAPI struct {
	*httptest.Server
	mu    sync.Mutex
	calls []recordedCall
}

func newFakeFoodAPI(t *testing.T) *fakeFoodAPI {
	t.Helper()
	f := &fakeFoodAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, recordedCall{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			apiKey: r.Header.Get("x-api-key"),
			body:   string(body),
		})
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/admin" {
			if !strings.Contains(string(body), `"password":"pw"`) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Invalid password"}`))
				return
			}
			_, _ = w.Write([]byte(`{"apiKey":"key-1"}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":12,"master_name":"Leek"}]}`))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeFoodAPI) recorded() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

// isolateEnv unsets the variables the CLI reads and restores them when the
// test ends.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		passwordEnvVar,
		config.ConfigPathEnvVar,
		"UPSTREAM_BASE_URL",
		"VITE_API_BASE_URL",
		"UPSTREAM_LOGIN_BASE_URL",
	} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv(config.DotEnvPathEnvVar, filepath.Join(t.TempDir(), "missing.env"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchLogsInAndPrintsRows(t *testing.T) {
	isolateEnv(t)
	api := newFakeFoodAPI(t)

	out, err := execute(t, "--base-url", api.URL+"/", "--password", "pw", "search", "leek")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0]["master_name"] != "Leek" {
		t.Errorf("rows = %v", rows)
	}

	calls := api.recorded()
	if len(calls) != 2 {
		t.Fatalf("upstream calls = %d, want login and search", len(calls))
	}
	if calls[0].path != "/admin" {
		t.Errorf("first call = %s, want /admin", calls[0].path)
	}
	if calls[1].path != "/search" || calls[1].query != "q=leek" {
		t.Errorf("search call = %s?%s", calls[1].path, calls[1].query)
	}
	if calls[1].apiKey != "key-1" {
		t.Errorf("search api key = %q, want key-1", calls[1].apiKey)
	}
}

func TestPasswordFromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv(passwordEnvVar, "pw")
	api := newFakeFoodAPI(t)

	if _, err := execute(t, "--base-url", api.URL, "nicknames", "12"); err != nil {
		t.Fatalf("nicknames: %v", err)
	}
	calls := api.recorded()
	last := calls[len(calls)-1]
	if last.path != "/get/nickName" || last.query != "ingredient_id=12" {
		t.Errorf("nicknames call = %s?%s", last.path, last.query)
	}
}

func TestIngredientsPostsIDs(t *testing.T) {
	isolateEnv(t)
	api := newFakeFoodAPI(t)

	if _, err := execute(t, "--base-url", api.URL, "--password", "pw", "ingredients", "12", "13"); err != nil {
		t.Fatalf("ingredients: %v", err)
	}
	calls := api.recorded()
	last := calls[len(calls)-1]
	if last.method != http.MethodPost || last.path != "/ingredients" {
		t.Errorf("call = %s %s", last.method, last.path)
	}
	if last.body != "[12,13]" {
		t.Errorf("body = %s, want [12,13]", last.body)
	}
}

func TestLoginRejected(t *testing.T) {
	isolateEnv(t)
	api := newFakeFoodAPI(t)

	_, err := execute(t, "--base-url", api.URL, "--password", "wrong", "range", "3")
	if err == nil {
		t.Fatal("expected login failure")
	}
	if !upstream.IsKind(err, upstream.KindAuth) {
		t.Errorf("error kind = %v, want auth: %v", upstream.KindOf(err), err)
	}
	if len(api.recorded()) != 1 {
		t.Errorf("calls = %d, want only the login", len(api.recorded()))
	}
}

func TestMissingSettings(t *testing.T) {
	isolateEnv(t)
	api := newFakeFoodAPI(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no base URL", []string{"--password", "pw", "search", "leek"}, "not configured"},
		{"no password", []string{"--base-url", api.URL, "search", "leek"}, "password is required"},
		{"bad range", []string{"--base-url", api.URL, "--password", "pw", "range", "abc"}, "invalid digit number"},
		{"zero id", []string{"--base-url", api.URL, "--password", "pw", "ingredients", "12", "0"}, "invalid ingredient id"},
		{"negative id", []string{"--base-url", api.URL, "--password", "pw", "ingredients", "--", "12", "-1"}, `invalid ingredient id "-1"`},
		{"bad nickname owner", []string{"--base-url", api.URL, "--password", "pw", "nicknames", "abc"}, "invalid ingredient id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(strings.ToLower(err.Error()), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
	if n := len(api.recorded()); n != 0 {
		t.Errorf("upstream calls = %d, want 0", n)
	}
}

func TestCheckConfigFromFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv(passwordEnvVar, "secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "upstream:\n  base_url: https://food.example.com/\n  headers:\n    x-client: token-value\n    Accept: \"\"\n" +
		"security:\n  session_store: memory\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", path, "check-config")
	if err != nil {
		t.Fatalf("check-config: %v", err)
	}
	if strings.Contains(out, "secret") {
		t.Error("check-config printed the password")
	}
	if strings.Contains(out, "token-value") {
		t.Error("check-config printed a header value")
	}

	var report configReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.BaseURL != "https://food.example.com" || report.BaseURLSource != "upstream.base_url" {
		t.Errorf("base URL = %q from %q", report.BaseURL, report.BaseURLSource)
	}
	if !report.PasswordProvided {
		t.Error("password_provided = false")
	}
	if want := []string{"Content-Type", "X-Client"}; !slices.Equal(report.Headers, want) {
		t.Errorf("headers = %v, want %v", report.Headers, want)
	}
}

func TestCheckConfigFlagOverride(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "--base-url", "http://localhost:8080/", "check-config")
	if err != nil {
		t.Fatalf("check-config: %v", err)
	}
	var report configReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if report.BaseURL != "http://localhost:8080" || report.BaseURLSource != "flag" {
		t.Errorf("report = %+v", report)
	}

	if _, err := execute(t, "--base-url", "ftp://files.example.com", "check-config"); err == nil {
		t.Error("expected ftp base URL to be rejected")
	}
}

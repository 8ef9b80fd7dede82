// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package config

import (
	"fmt"
	"sync"
	"testing"
)

func TestNormalizeBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://host/stage/", "https://host/stage"},
		{"https://host/stage", "https://host/stage"},
		{"  https://host/stage/  ", "https://host/stage"},
		{"https://host//", "https://host/"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeBaseURL(tt.in); got != tt.want {
			t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBaseURLStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewBaseURLStore("", "")
	if store.IsConfigured() {
		t.Fatal("new store without default reports configured")
	}

	for i := 0; i < 3; i++ {
		if got := store.Set("https://host/stage/"); got != "https://host/stage" {
			t.Fatalf("Set() = %q, want %q", got, "https://host/stage")
		}
		if got := store.BaseURL(); got != "https://host/stage" {
			t.Fatalf("BaseURL() after %d sets = %q, want %q", i+1, got, "https://host/stage")
		}
	}

	if got := store.Set(store.BaseURL()); got != "https://host/stage" {
		t.Errorf("re-setting the normalized value changed it to %q", got)
	}

	store.Set("")
	if store.IsConfigured() || store.BaseURL() != "" {
		t.Errorf("Set(\"\") left %q", store.BaseURL())
	}
}

func TestBaseURLStoreLoginFallback(t *testing.T) {
	t.Parallel()

	store := NewBaseURLStore("https://data.example.com/", "")
	if got := store.LoginBaseURL(); got != "https://data.example.com" {
		t.Errorf("LoginBaseURL() = %q, want data URL", got)
	}

	pinned := NewBaseURLStore("https://data.example.com", "https://login.example.com/")
	pinned.Set("https://other.example.com")
	if got := pinned.LoginBaseURL(); got != "https://login.example.com" {
		t.Errorf("LoginBaseURL() = %q, want pinned login URL", got)
	}

	pinned.Clear()
	if pinned.IsConfigured() {
		t.Error("Clear() left the store configured")
	}
}

func TestBaseURLStoreConcurrentSet(t *testing.T) {
	t.Parallel()

	store := NewBaseURLStore("", "")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Set(fmt.Sprintf("https://host-%d.example.com/", i))
			_ = store.BaseURL()
		}(i)
	}
	wg.Wait()

	if got := store.BaseURL(); got == "" || got[len(got)-1] == '/' {
		t.Errorf("BaseURL() = %q, want one complete normalized value", got)
	}
}

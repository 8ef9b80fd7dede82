// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package upstream

import (
	"net/http"
	"strings"
	"sync"
)

// Headers is the set of headers the client sends with every upstream call.
// It is fixed when the client is built; per-call credentials travel in the
// request context instead.
//
// Headers is safe for concurrent use.
type Headers struct {
	mu sync.RWMutex
	h  http.Header
}

// NewHeaders returns the default JSON headers.
func NewHeaders() *Headers {
	h := &Headers{h: make(http.Header)}
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	return h
}

// NewHeadersWith returns the default headers with overrides applied. An
// empty override value removes the header.
func NewHeadersWith(overrides map[string]string) *Headers {
	h := NewHeaders()
	for key, value := range overrides {
		if strings.TrimSpace(value) == "" {
			h.Remove(key)
			continue
		}
		h.Set(key, value)
	}
	return h
}

// Set replaces the value of key.
func (h *Headers) Set(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.h.Set(key, value)
}

// Remove deletes key.
func (h *Headers) Remove(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.h.Del(key)
}

// Get returns the value of key.
func (h *Headers) Get(key string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.h.Get(key)
}

// Clone returns an independent copy of the header map.
func (h *Headers) Clone() http.Header {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.h.Clone()
}

// applyTo copies every header onto dst, replacing existing values.
func (h *Headers) applyTo(dst http.Header) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for k, v := range h.h {
		dst[k] = append([]string(nil), v...)
	}
}

// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package api

import (
	"net/http"
	"time"
)

// Readiness is the body of GET /api/health/ready.
type Readiness struct {
	Status         string `json:"status"`
	BaseURLSet     bool   `json:"base_url_configured"`
	CircuitBreaker string `json:"circuit_breaker"`
}

// HealthLive handles liveness probe requests. It returns 200 while the
// process is serving, regardless of the upstream.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests. The service is ready when
// a base URL is configured and the upstream circuit breaker is not open.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	state := h.upstream.BreakerState()
	ready := Readiness{
		Status:         "ready",
		BaseURLSet:     h.upstream.Configured(),
		CircuitBreaker: state,
	}

	statusCode := http.StatusOK
	if !ready.BaseURLSet || state == "open" {
		statusCode = http.StatusServiceUnavailable
		ready.Status = "not_ready"
	}
	NewResponseWriter(w, r).Status(statusCode, ready)
}

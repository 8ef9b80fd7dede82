// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/masterfood/internal/audit"
	"github.com/tomtom215/masterfood/internal/config"
	"github.com/tomtom215/masterfood/internal/logging"
	"github.com/tomtom215/masterfood/internal/upstream"
	"github.com/tomtom215/masterfood/internal/validation"
)

// BaseURLSettings is the body of the /api/config endpoints.
type BaseURLSettings struct {
	BaseURL string `json:"baseUrl"`
}

// GetConfig returns the current upstream base URL.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, BaseURLSettings{BaseURL: h.baseURL.BaseURL()})
}

// SetConfig replaces the upstream base URL. The stored value is normalized.
func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	var req BaseURLSettings
	if !decodeJSON(w, r, &req) {
		return
	}

	raw := strings.TrimSpace(req.BaseURL)
	if raw == "" {
		WriteError(w, r, upstream.NewValidationError("Base URL is required"))
		return
	}
	if verr := validation.ValidateVar("baseUrl", raw, "http_url"); verr != nil {
		WriteError(w, r, upstream.NewValidationError("Base URL must be a valid http or https URL", verr.Details()...))
		return
	}
	if err := config.ValidateBaseURL(config.NormalizeBaseURL(raw)); err != nil {
		WriteError(w, r, upstream.NewValidationError("Base URL must be a valid http or https URL", "baseUrl: "+err.Error()))
		return
	}

	stored := h.baseURL.Set(raw)
	logging.Ctx(r.Context()).Info().Str("base_url", stored).Msg("Upstream base URL updated")
	h.record(r, audit.EventTypeConfigChanged, nil, map[string]any{"base_url": stored})
	WriteSuccess(w, r, BaseURLSettings{BaseURL: stored})
}

// ClearConfig unsets the base URL. Data calls fail with NOT_CONFIGURED
// until a new one is set.
func (h *Handler) ClearConfig(w http.ResponseWriter, r *http.Request) {
	h.baseURL.Clear()
	logging.Ctx(r.Context()).Info().Msg("Upstream base URL cleared")
	h.record(r, audit.EventTypeConfigCleared, nil, nil)
	WriteSuccess(w, r, BaseURLSettings{})
}

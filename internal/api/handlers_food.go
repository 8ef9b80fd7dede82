// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/masterfood/internal/audit"
	"github.com/tomtom215/masterfood/internal/models"
	"github.com/tomtom215/masterfood/internal/upstream"
)

// IngredientIDsRequest is the body of POST /api/ingredients.
type IngredientIDsRequest struct {
	IDs []models.LooseInt `json:"ids"`
}

// pathParam returns the URL parameter key, decoded once. chi matches
// against RawPath when it is set, so only then is the value still escaped.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw
	}
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(pathParam(r, key)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Search finds ingredients by keyword, given as the {query} path segment or
// the q query parameter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := pathParam(r, "query")
	if keyword == "" {
		keyword = r.URL.Query().Get("q")
	}
	data, err := h.translator.Search(r.Context(), keyword)
	respond(w, r, data, err)
}

// SearchByRange lists the ingredients of a digit range bucket.
func (h *Handler) SearchByRange(w http.ResponseWriter, r *http.Request) {
	digit, ok := pathID(r, "digit")
	if !ok {
		WriteError(w, r, upstream.NewValidationError("Invalid digit number"))
		return
	}
	data, err := h.translator.SearchByRange(r.Context(), digit)
	respond(w, r, data, err)
}

// FetchByIDs returns the ingredients listed in the body.
func (h *Handler) FetchByIDs(w http.ResponseWriter, r *http.Request) {
	var req IngredientIDsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	data, err := h.translator.FetchByIDs(r.Context(), req.IDs)
	respond(w, r, data, err)
}

// CreateFood creates a standard, mystery or cuisine ingredient.
func (h *Handler) CreateFood(w http.ResponseWriter, r *http.Request) {
	mutation(h, w, r, audit.EventTypeFoodCreated, h.translator.CreateFood)
}

// PatchFoodItem edits one ingredient.
func (h *Handler) PatchFoodItem(w http.ResponseWriter, r *http.Request) {
	mutation(h, w, r, audit.EventTypeFoodModified, h.translator.PatchFoodItem)
}

// PatchFoodItems edits several ingredients, dropping incomplete rows.
func (h *Handler) PatchFoodItems(w http.ResponseWriter, r *http.Request) {
	var rows models.OneOrMany[models.IngredientPatchInput]
	if !decodeJSON(w, r, &rows) {
		return
	}
	data, err := h.translator.PatchFoodItems(r.Context(), rows)
	h.record(r, audit.EventTypeFoodModified, err, rowsMetadata(len(rows)))
	respond(w, r, data, err)
}

// DeleteIngredients deletes the ingredients selected by {id} or {ids}.
func (h *Handler) DeleteIngredients(w http.ResponseWriter, r *http.Request) {
	mutation(h, w, r, audit.EventTypeFoodDeleted, h.translator.DeleteIngredients)
}

// MigrateNewFood moves ingredients into other digit ranges.
func (h *Handler) MigrateNewFood(w http.ResponseWriter, r *http.Request) {
	var rows models.OneOrMany[models.MigrationNewFoodInput]
	if !decodeJSON(w, r, &rows) {
		return
	}
	data, err := h.translator.MigrateNewFood(r.Context(), rows)
	h.record(r, audit.EventTypeMigrationNewFood, err, rowsMetadata(len(rows)))
	respond(w, r, data, err)
}

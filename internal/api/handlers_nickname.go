// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package api

import (
	"net/http"

	"github.com/tomtom215/masterfood/internal/audit"
	"github.com/tomtom215/masterfood/internal/models"
)

// NicknamesByIngredient lists the nicknames of the ingredient {id}. An id
// that is not a positive integer lists nothing.
func (h *Handler) NicknamesByIngredient(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	data, err := h.translator.NicknamesByIngredient(r.Context(), id)
	respond(w, r, data, err)
}

// NicknameByID returns the nickname {id} as a list of zero or one element.
func (h *Handler) NicknameByID(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	data, err := h.translator.NicknameByID(r.Context(), id)
	respond(w, r, data, err)
}

// SearchNicknames finds nicknames matching the nickname query parameter.
func (h *Handler) SearchNicknames(w http.ResponseWriter, r *http.Request) {
	data, err := h.translator.SearchNicknames(r.Context(), r.URL.Query().Get("nickname"))
	respond(w, r, data, err)
}

// CreateNickname attaches a nickname to an ingredient.
func (h *Handler) CreateNickname(w http.ResponseWriter, r *http.Request) {
	mutation(h, w, r, audit.EventTypeNicknameCreated, h.translator.CreateNickname)
}

// PatchNicknames edits one or many nicknames.
func (h *Handler) PatchNicknames(w http.ResponseWriter, r *http.Request) {
	var rows models.OneOrMany[models.NicknamePatchInput]
	if !decodeJSON(w, r, &rows) {
		return
	}
	data, err := h.translator.PatchNicknames(r.Context(), rows)
	h.record(r, audit.EventTypeNicknameModified, err, rowsMetadata(len(rows)))
	respond(w, r, data, err)
}

// DeleteNicknames deletes the nicknames listed in {ids}.
func (h *Handler) DeleteNicknames(w http.ResponseWriter, r *http.Request) {
	mutation(h, w, r, audit.EventTypeNicknameDeleted, h.translator.DeleteNicknames)
}

// MigrateToNickname merges ingredients into others as nicknames.
func (h *Handler) MigrateToNickname(w http.ResponseWriter, r *http.Request) {
	var rows models.OneOrMany[models.MigrationNicknameInput]
	if !decodeJSON(w, r, &rows) {
		return
	}
	data, err := h.translator.MigrateToNickname(r.Context(), rows)
	h.record(r, audit.EventTypeMigrationNickname, err, rowsMetadata(len(rows)))
	respond(w, r, data, err)
}

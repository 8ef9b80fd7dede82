// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package translator

import (
	"context"
	"net/http"
	"strings"

	"github.com/tomtom215/masterfood/internal/models"
	"github.com/tomtom215/masterfood/internal/upstream"
	"github.com/tomtom215/masterfood/internal/validation"
)

// CreateNickname attaches a synonym to an ingredient. A blank language code
// defaults to Korean.
func (t *Translator) CreateNickname(ctx context.Context, in models.NicknameInput) (any, error) {
	synonym := strings.TrimSpace(in.Synonym)
	if synonym == "" {
		return nil, upstream.NewValidationError("Synonym is required")
	}
	ingredientID, ok := in.IngredientID.Positive()
	if !ok {
		return nil, upstream.NewValidationError("Ingredient ID is required")
	}

	lang := strings.TrimSpace(in.LangCode)
	if lang == "" {
		lang = models.DefaultLangCode
	}
	if verr := validation.ValidateVar("lang_code", lang, "langcode"); verr != nil {
		return nil, upstream.NewValidationError("Language code must be one of the supported language codes", verr.Details()...)
	}

	row := models.NewNicknameRow{IngredientID: ingredientID, LangCode: lang, Synonym: synonym}
	return t.mutate(ctx, "create_nickname", http.MethodPost, pathAddNickname, []models.NewNicknameRow{row}, 1)
}

// PatchNicknames sends the valid rows of a nickname edit. Rows without a
// positive id, synonym or supported language code are dropped.
func (t *Translator) PatchNicknames(ctx context.Context, in []models.NicknamePatchInput) (any, error) {
	rows := make([]models.NicknameRow, 0, len(in))
	for _, raw := range in {
		id, _ := raw.ID.Int64()
		row := models.NicknameRow{
			ID:       id,
			Synonym:  strings.TrimSpace(raw.Synonym),
			LangCode: strings.TrimSpace(raw.LangCode),
		}
		if validation.IsValid(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, upstream.NewValidationError("At least one valid nickname row is required")
	}

	return t.mutate(ctx, "patch_nicknames", http.MethodPatch, pathPatchNickname, rows, len(rows))
}

// DeleteNicknames deletes nicknames by id. Only an id list is accepted.
func (t *Translator) DeleteNicknames(ctx context.Context, sel models.IDSelection) (any, error) {
	var ids []int64
	if sel.IsList {
		ids = sel.PositiveIDs()
	}
	if len(ids) == 0 {
		return nil, upstream.NewValidationError("At least one nickname ID is required")
	}
	return t.mutate(ctx, "delete_nicknames", http.MethodDelete, pathDeleteNickname, idRows(ids), len(ids))
}

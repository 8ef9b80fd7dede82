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

const noMigrationRows = "At least one valid migration row is required"

// MigrateNewFood moves ingredients into other digit ranges.
func (t *Translator) MigrateNewFood(ctx context.Context, in []models.MigrationNewFoodInput) (any, error) {
	rows := make([]models.MigrationNewFoodRow, 0, len(in))
	for _, raw := range in {
		source, _ := raw.SourceID.Int64()
		target, _ := raw.TargetDigitNumber.Int64()
		row := models.MigrationNewFoodRow{SourceID: source, TargetDigitNumber: target}
		if validation.IsValid(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, upstream.NewValidationError(noMigrationRows)
	}

	return t.mutate(ctx, "migrate_new_food", http.MethodPost, pathMigrationNewFood, rows, len(rows))
}

// MigrateToNickname merges source ingredients into target ingredients as
// nicknames. Upstream deletes each source ingredient. A missing language
// code defaults to Korean; a blank synonym is omitted so that upstream uses
// the source ingredient's name.
func (t *Translator) MigrateToNickname(ctx context.Context, in []models.MigrationNicknameInput) (any, error) {
	rows := make([]models.MigrationNicknameRow, 0, len(in))
	for _, raw := range in {
		source, _ := raw.SourceID.Int64()
		ingredient, _ := raw.IngredientID.Int64()

		lang := models.DefaultLangCode
		if raw.LangCode != nil {
			lang = strings.TrimSpace(*raw.LangCode)
		}
		var synonym string
		if raw.Synonym != nil {
			synonym = strings.TrimSpace(*raw.Synonym)
		}

		row := models.MigrationNicknameRow{
			SourceID:     source,
			IngredientID: ingredient,
			LangCode:     lang,
			Synonym:      synonym,
		}
		if validation.IsValid(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, upstream.NewValidationError(noMigrationRows)
	}

	return t.mutate(ctx, "migrate_to_nickname", http.MethodPost, pathMigrationNickname, rows, len(rows))
}

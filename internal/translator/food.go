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

// CreateFood creates one ingredient. Standard foods need a label, a digit
// range and at least one localized name. Mystery and cuisine foods without
// names get every supported language filled with the master name.
func (t *Translator) CreateFood(ctx context.Context, in models.CreateFoodInput) (any, error) {
	if !in.Type.Valid() {
		return nil, upstream.NewValidationError("Food type must be one of standard, mystery, cuisine")
	}

	masterName := strings.TrimSpace(in.MasterName)
	if masterName == "" {
		return nil, upstream.NewValidationError("Master name is required")
	}

	label := strings.TrimSpace(in.Label)
	if label != "" {
		if verr := validation.ValidateVar("label", label, "foodlabel"); verr != nil {
			return nil, upstream.NewValidationError("Label must be one of the supported food labels", verr.Details()...)
		}
	}

	names := normalizeNames(in.Names)

	var row any
	if in.Type == models.FoodTypeStandard {
		if label == "" {
			return nil, upstream.NewValidationError("Label is required for standard food")
		}
		digit, ok := in.DigitNumber.Int64()
		if !ok {
			return nil, upstream.NewValidationError("Digit range is required for standard food")
		}
		if len(names) == 0 {
			return nil, upstream.NewValidationError("Localized names are required for standard food")
		}
		row = models.StandardFoodRow{
			DigitNumber: digit,
			Food:        models.StandardFoodBody{MasterName: masterName, Label: label, Names: names},
		}
	} else {
		if len(names) == 0 {
			names = autoNames(masterName)
		}
		row = models.SimpleFoodRow{MasterName: masterName, Names: names}
	}

	return t.mutate(ctx, "create_food", http.MethodPost, in.Type.CreateEndpoint(), []any{row}, 1)
}

// normalizeNames trims every localized name and drops the empty ones.
func normalizeNames(raw map[string]string) map[string]string {
	out := make(map[string]string, len(raw))
	for lang, value := range raw {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out[lang] = trimmed
		}
	}
	return out
}

func autoNames(masterName string) map[string]string {
	out := make(map[string]string, len(models.SupportedLanguageCodes))
	for _, code := range models.SupportedLanguageCodes {
		out[code] = masterName
	}
	return out
}

// PatchFoodItem forwards a single ingredient edit as given. Only the id is
// checked.
func (t *Translator) PatchFoodItem(ctx context.Context, in models.IngredientPatchInput) (any, error) {
	id, ok := in.ID.Positive()
	if !ok {
		return nil, upstream.NewValidationError("ID is required")
	}

	row := models.IngredientPatch{ID: id, MasterName: in.MasterName, Label: in.Label, Names: in.Names}
	return t.mutate(ctx, "patch_food_item", http.MethodPatch, pathPatchFoodItem, []models.IngredientPatch{row}, 1)
}

// PatchFoodItems sends the fully specified rows of a bulk edit. Rows missing
// an id, label, master name or any localized name are dropped.
func (t *Translator) PatchFoodItems(ctx context.Context, in []models.IngredientPatchInput) (any, error) {
	rows := make([]models.IngredientRow, 0, len(in))
	for _, raw := range in {
		row := normalizeIngredientRow(raw)
		if validation.IsValid(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, upstream.NewValidationError("At least one valid ingredient row is required")
	}

	return t.mutate(ctx, "patch_food_items", http.MethodPatch, pathPatchFoodItem, rows, len(rows))
}

func normalizeIngredientRow(in models.IngredientPatchInput) models.IngredientRow {
	id, _ := in.ID.Int64()
	row := models.IngredientRow{ID: id, Names: make(map[string]string, len(in.Names))}
	if in.Label != nil {
		row.Label = strings.TrimSpace(*in.Label)
	}
	if in.MasterName != nil {
		row.MasterName = strings.TrimSpace(*in.MasterName)
	}
	for lang, value := range in.Names {
		row.Names[lang] = strings.TrimSpace(value)
	}
	return row
}

// DeleteIngredients deletes the selected ingredients. Ids that are not
// positive integers are ignored.
func (t *Translator) DeleteIngredients(ctx context.Context, sel models.IDSelection) (any, error) {
	ids := sel.PositiveIDs()
	if len(ids) == 0 {
		return nil, upstream.NewValidationError("At least one ingredient ID is required")
	}
	return t.mutate(ctx, "delete_ingredients", http.MethodDelete, pathDeleteIngredient, idRows(ids), len(ids))
}

// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package models

// Inputs are decoded from the local API and may be incomplete or malformed.
// Rows are the normalized shapes sent upstream; their validate tags decide
// whether a row survives filtering.

// CreateFoodInput is the request to create an ingredient.
type CreateFoodInput struct {
	Type        FoodType          `json:"type"`
	DigitNumber LooseInt          `json:"digitNumber"`
	Label       string            `json:"label"`
	MasterName  string            `json:"masterName"`
	Names       map[string]string `json:"names"`
}

// StandardFoodRow is the upstream body element for /createNewFood.
type StandardFoodRow struct {
	DigitNumber int64            `json:"digitNumber"`
	Food        StandardFoodBody `json:"food"`
}

// StandardFoodBody is the nested food of a StandardFoodRow.
type StandardFoodBody struct {
	MasterName string            `json:"masterName"`
	Label      string            `json:"label"`
	Names      map[string]string `json:"names"`
}

// SimpleFoodRow is the upstream body element for mystery and cuisine foods.
type SimpleFoodRow struct {
	MasterName string            `json:"masterName"`
	Names      map[string]string `json:"names"`
}

// IngredientPatchInput is one ingredient edit.
type IngredientPatchInput struct {
	ID         LooseInt          `json:"id"`
	MasterName *string           `json:"master_name,omitempty"`
	Label      *string           `json:"label,omitempty"`
	Names      map[string]string `json:"names,omitempty"`
}

// IngredientPatch is a single-row edit forwarded as given.
type IngredientPatch struct {
	ID         int64             `json:"id"`
	MasterName *string           `json:"master_name,omitempty"`
	Label      *string           `json:"label,omitempty"`
	Names      map[string]string `json:"names,omitempty"`
}

// IngredientRow is a fully specified ingredient edit used by bulk patches.
type IngredientRow struct {
	ID         int64             `json:"id" validate:"gt=0"`
	Label      string            `json:"label" validate:"required"`
	MasterName string            `json:"master_name" validate:"required"`
	Names      map[string]string `json:"names" validate:"min=1,dive,required"`
}

// NicknameInput is the request to attach a nickname to an ingredient.
type NicknameInput struct {
	IngredientID LooseInt `json:"ingredient_id"`
	LangCode     string   `json:"lang_code"`
	Synonym      string   `json:"synonym"`
}

// NewNicknameRow is the upstream body element for /addNickname.
type NewNicknameRow struct {
	IngredientID int64  `json:"ingredient_id"`
	LangCode     string `json:"lang_code"`
	Synonym      string `json:"synonym"`
}

// NicknamePatchInput is one nickname edit.
type NicknamePatchInput struct {
	ID       LooseInt `json:"id"`
	Synonym  string   `json:"synonym"`
	LangCode string   `json:"lang_code"`
}

// NicknameRow is a validated nickname edit.
type NicknameRow struct {
	ID       int64  `json:"id" validate:"gt=0"`
	Synonym  string `json:"synonym" validate:"required"`
	LangCode string `json:"lang_code" validate:"required,langcode"`
}

// IDRow is the upstream body element of delete calls.
type IDRow struct {
	ID int64 `json:"id"`
}

// MigrationNewFoodInput moves an ingredient into another digit range.
type MigrationNewFoodInput struct {
	SourceID          LooseInt `json:"source_id"`
	TargetDigitNumber LooseInt `json:"target_digit_number"`
}

// MigrationNewFoodRow is a validated digit-range migration.
type MigrationNewFoodRow struct {
	SourceID          int64 `json:"source_id" validate:"gt=0"`
	TargetDigitNumber int64 `json:"target_digit_number" validate:"gt=0"`
}

// MigrationNicknameInput merges a source ingredient into a target ingredient
// as a nickname. The source ingredient is deleted upstream.
type MigrationNicknameInput struct {
	SourceID     LooseInt `json:"source_id"`
	IngredientID LooseInt `json:"ingredient_id"`
	LangCode     *string  `json:"lang_code,omitempty"`
	Synonym      *string  `json:"synonym,omitempty"`
}

// MigrationNicknameRow is a validated ingredient-to-nickname migration. An
// empty synonym is omitted so that upstream falls back to the source name.
type MigrationNicknameRow struct {
	SourceID     int64  `json:"source_id" validate:"gt=0"`
	IngredientID int64  `json:"ingredient_id" validate:"gt=0"`
	LangCode     string `json:"lang_code" validate:"required,langcode"`
	Synonym      string `json:"synonym,omitempty"`
}

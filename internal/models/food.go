// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

// Package models defines the data transfer objects exchanged with the UI and
// the upstream food API. None of these types is persisted locally.
package models

// FoodType selects the creation endpoint for a new ingredient.
type FoodType string

const (
	FoodTypeStandard FoodType = "standard"
	FoodTypeMystery  FoodType = "mystery"
	FoodTypeCuisine  FoodType = "cuisine"
)

// Valid reports whether t is a known food type.
func (t FoodType) Valid() bool {
	switch t {
	case FoodTypeStandard, FoodTypeMystery, FoodTypeCuisine:
		return true
	}
	return false
}

// CreateEndpoint returns the upstream path that creates foods of type t.
// The mystery endpoint spelling is fixed by the upstream API.
func (t FoodType) CreateEndpoint() string {
	switch t {
	case FoodTypeMystery:
		return "/createMisteryFood"
	case FoodTypeCuisine:
		return "/createCuisineFood"
	default:
		return "/createNewFood"
	}
}

// DefaultLangCode is used for nicknames created without a language.
const DefaultLangCode = "ko"

// SupportedLanguageCodes lists the language codes of localized names, in
// display order.
var SupportedLanguageCodes = []string{"ko", "en", "ja", "zh", "fr", "es", "it", "de", "vi", "th"}

// FoodLabels lists the category labels an ingredient may carry.
var FoodLabels = []string{
	"egg", "fish", "seafood", "meat", "poultry", "processed_meat",
	"dairy", "cheese", "yogurt", "vegetable", "fruit", "legume",
	"nut", "seed", "grain", "rice", "noodle", "bread",
	"oil", "sauce", "spice", "raw", "cooked", "fermented",
	"snack", "dessert", "beverage", "leftover", "other",
}

var (
	foodLabelSet    = toSet(FoodLabels)
	languageCodeSet = toSet(SupportedLanguageCodes)
)

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// IsFoodLabel reports whether label is one of FoodLabels.
func IsFoodLabel(label string) bool {
	_, ok := foodLabelSet[label]
	return ok
}

// IsSupportedLanguage reports whether code is one of SupportedLanguageCodes.
func IsSupportedLanguage(code string) bool {
	_, ok := languageCodeSet[code]
	return ok
}

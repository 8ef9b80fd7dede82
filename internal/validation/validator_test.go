// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/masterfood/internal/models"
)

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator returned different instances")
	}
}

func TestIngredientRowRules(t *testing.T) {
	t.Parallel()

	valid := models.IngredientRow{
		ID:         1,
		Label:      "vegetable",
		MasterName: "carrot",
		Names:      map[string]string{"ko": "당근", "en": "carrot"},
	}

	tests := []struct {
		name   string
		mutate func(*models.IngredientRow)
		want   bool
	}{
		{"valid", func(*models.IngredientRow) {}, true},
		{"zero id", func(r *models.IngredientRow) { r.ID = 0 }, false},
		{"empty label", func(r *models.IngredientRow) { r.Label = "" }, false},
		{"empty master name", func(r *models.IngredientRow) { r.MasterName = "" }, false},
		{"no names", func(r *models.IngredientRow) { r.Names = nil }, false},
		{"blank name value", func(r *models.IngredientRow) { r.Names = map[string]string{"ko": ""} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			row := valid
			row.Names = map[string]string{"ko": "당근", "en": "carrot"}
			tt.mutate(&row)
			if got := IsValid(&row); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateStructDetails(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&models.NicknameRow{ID: 0, Synonym: "", LangCode: "ko"})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	details := err.Details()
	if len(details) != 2 {
		t.Fatalf("Details() = %v, want 2 entries", details)
	}
	if details[0] != "ID: ID must be greater than 0" {
		t.Errorf("Details()[0] = %q", details[0])
	}
	if details[1] != "Synonym: Synonym is required" {
		t.Errorf("Details()[1] = %q", details[1])
	}
	if !strings.Contains(err.Error(), "Synonym is required") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCustomValidators(t *testing.T) {
	t.Parallel()

	if err := ValidateVar("label", "fermented", "foodlabel"); err != nil {
		t.Errorf("foodlabel rejected fermented: %v", err)
	}
	err := ValidateVar("label", "candy", "foodlabel")
	if err == nil {
		t.Fatal("foodlabel accepted candy")
	}
	if got := err.Error(); got != "label must be one of the supported food labels" {
		t.Errorf("Error() = %q", got)
	}

	if err := ValidateVar("lang_code", "vi", "langcode"); err != nil {
		t.Errorf("langcode rejected vi: %v", err)
	}
	if err := ValidateVar("lang_code", "pt", "langcode"); err == nil {
		t.Error("langcode accepted pt")
	}
}

func TestValidateVarHTTPURL(t *testing.T) {
	t.Parallel()

	if err := ValidateVar("baseUrl", "https://api.example.com/prod", "required,http_url"); err != nil {
		t.Errorf("valid URL rejected: %v", err)
	}
	err := ValidateVar("baseUrl", "not-a-url", "required,http_url")
	if err == nil {
		t.Fatal("invalid URL accepted")
	}
	if got := err.Details()[0]; got != "baseUrl: baseUrl must be a valid http or https URL" {
		t.Errorf("Details()[0] = %q", got)
	}
}

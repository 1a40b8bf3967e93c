package validation_test

import (
	"testing"

	"github.com/litebase/sqliteplugin/internal/validation"
)

type input struct {
	Name  string `yaml:"name" validate:"required"`
	Count int    `yaml:"count" validate:"gte=1"`
	Other string `validate:"omitempty,oneof=a b"`
}

func TestValidate(t *testing.T) {
	errors := validation.Validate(input{Name: "x", Count: 1}, nil)

	if errors != nil {
		t.Errorf("Validate() failed, expected nil, got %v", errors)
	}
}

func TestValidateUsesYamlKeys(t *testing.T) {
	errors := validation.Validate(input{Other: "c"}, map[string]string{
		"name.required": "A name is required",
	})

	if len(errors) != 3 {
		t.Fatalf("Validate() failed, expected 3 fields, got %v", errors)
	}

	if errors["name"][0] != "A name is required" {
		t.Errorf("Validate() failed, expected the configured message, got %v", errors["name"])
	}

	if errors["count"][0] != "failed the gte check" {
		t.Errorf("Validate() failed, expected the default message, got %v", errors["count"])
	}

	if len(errors["Other"]) != 1 {
		t.Errorf("Validate() failed, expected an error for Other, got %v", errors)
	}
}

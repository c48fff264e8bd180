package validation

import (
	"errors"
	"testing"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

type sample struct {
	Name  string  `json:"name" validate:"required,max=10"`
	Price float64 `json:"basePrice" validate:"gt=0"`
	Type  string  `json:"type" validate:"omitempty,oneof=landscape portrait"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Type: "square"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var ae *apperr.Error
	errors.As(err, &ae)
	for _, f := range []string{"name", "basePrice", "type"} {
		if ae.Fields[f] == "" {
			t.Fatalf("expected error for %s, got %+v", f, ae.Fields)
		}
	}
	if ae.Fields["name"] != "name is required" {
		t.Fatalf("unexpected message %q", ae.Fields["name"])
	}
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(sample{Name: "Rice", Price: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMerge(t *testing.T) {
	err := Merge(nil, map[string]string{"images": "at least 1 image is required"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error")
	}

	err = Merge(Struct(sample{Price: 1}), map[string]string{"images": "too many"})
	var ae *apperr.Error
	errors.As(err, &ae)
	if ae.Fields["name"] == "" || ae.Fields["images"] == "" {
		t.Fatalf("expected merged fields, got %+v", ae.Fields)
	}

	if Merge(nil, nil) != nil {
		t.Fatalf("expected nil when nothing to report")
	}
}

package validator

import (
	"errors"
	"testing"
)

type probe struct {
	Latitude *float64 `json:"latitude" validate:"required,latitude"`
	Status   string   `form:"status" validate:"omitempty,oneof=APPROVED REQUESTED EXPIRED"`
}

func TestFieldErrorsUsesWireNames(t *testing.T) {
	val := New()
	err := val.Struct(probe{Status: "approved"})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	got := FieldErrors(err)
	if len(got) != 2 {
		t.Fatalf("expected 2 field errors, got %v", got)
	}
	if got[0] != "latitude: required" {
		t.Fatalf("expected latitude: required, got %q", got[0])
	}
	if got[1] != "status: oneof=APPROVED REQUESTED EXPIRED" {
		t.Fatalf("unexpected status error %q", got[1])
	}
}

func TestFieldErrorsPassesThroughOtherErrors(t *testing.T) {
	got := FieldErrors(errors.New("boom"))
	if len(got) != 1 || got[0] != "boom" {
		t.Fatalf("expected passthrough, got %v", got)
	}
}

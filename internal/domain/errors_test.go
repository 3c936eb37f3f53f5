package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidationError_Unwrap(t *testing.T) {
	t.Parallel()

	err := NewValidationError("name", "required")
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should unwrap to ErrValidation")
	}
	if err.Error() != "validation: name: required" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestValidationErrors_Multiple(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "name", Message: "required"},
		{Field: "complexity", Message: "must not be negative"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should unwrap to ErrValidation")
	}
	if err.Error() != "validation: 2 errors" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestConflictError_Unwrap(t *testing.T) {
	t.Parallel()

	existing := uuid.New()
	err := &ConflictError{Field: "slug", ExistingID: existing}

	if !errors.Is(err, ErrAlreadyExists) {
		t.Error("ConflictError should unwrap to ErrAlreadyExists")
	}

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatal("errors.As should match *ConflictError")
	}
	if conflict.Field != "slug" || conflict.ExistingID != existing {
		t.Errorf("conflict detail lost: %+v", conflict)
	}
}

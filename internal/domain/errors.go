package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ConflictError reports a uniqueness collision detected before or during a game
// insert. Field is "bggId" or "slug"; ExistingID is the game that owns the value.
type ConflictError struct {
	Field      string
	ExistingID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists on game %s", e.Field, e.ExistingID)
}

func (e *ConflictError) Unwrap() error { return ErrAlreadyExists }

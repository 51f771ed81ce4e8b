package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors classified by HTTP handlers into response codes.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("operation not permitted")
	ErrUnauthorized = errors.New("authentication required")
	ErrConflict     = errors.New("resource conflict")
	ErrValidation   = errors.New("validation failed")
)

// NotFound wraps ErrNotFound with the resource kind and id
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// Forbidden wraps ErrForbidden with a reason
func Forbidden(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrForbidden)
}

// Conflict wraps ErrConflict with a reason
func Conflict(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

// ValidationError carries per-field messages from request validation
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidation builds a ValidationError from field->message pairs
func NewValidation(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// FieldError builds a single-field ValidationError
func FieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsNotFound reports whether err is classified as a missing resource
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsForbidden reports whether err is classified as a permission failure
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsConflict reports whether err is classified as a uniqueness conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation reports whether err is classified as bad input
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

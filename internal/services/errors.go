package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP statuses.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries field-level detail for malformed or out-of-range
// input. It maps to a 400 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldError builds a single-field ValidationError.
func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// isUniqueConstraintError detects duplicate-key failures across the
// supported dialects. Used as the backstop after optimistic pre-checks.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "Duplicate entry") ||
		strings.Contains(s, "UNIQUE constraint") ||
		strings.Contains(s, "unique constraint")
}

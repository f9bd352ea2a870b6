package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidArgument indicates that a caller supplied an unusable argument,
	// such as a non-positive limit or a malformed URL. It is always raised before any I/O.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateCategory indicates that a category set was declared with the same name twice.
	ErrDuplicateCategory = errors.New("duplicate category")
)

// ValidationError represents a validation error with detailed field information.
// It matches ErrInvalidArgument through errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is reports whether target is ErrInvalidArgument.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

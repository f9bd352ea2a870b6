package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "limit error",
			field:    "limit",
			message:  "limit must be greater than 0, got 0",
			expected: "validation error on field 'limit': limit must be greater than 0, got 0",
		},
		{
			name:     "url error",
			field:    "url",
			message:  "URL is required",
			expected: "validation error on field 'url': URL is required",
		},
		{
			name:     "empty message",
			field:    "category",
			message:  "",
			expected: "validation error on field 'category': ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_IsInvalidArgument(t *testing.T) {
	err := &ValidationError{Field: "limit", Message: "bad"}

	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, errors.Is(err, ErrDuplicateCategory))

	wrapped := fmt.Errorf("fetch category: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidArgument))

	var validationErr *ValidationError
	assert.True(t, errors.As(wrapped, &validationErr))
	assert.Equal(t, "limit", validationErr.Field)
}

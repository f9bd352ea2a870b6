package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name    string
		d       time.Duration
		min     time.Duration
		max     time.Duration
		wantErr string
	}{
		{name: "within range", d: time.Minute, min: time.Second, max: time.Hour},
		{name: "inclusive min", d: time.Second, min: time.Second, max: time.Hour},
		{name: "inclusive max", d: time.Hour, min: time.Second, max: time.Hour},
		{name: "below", d: time.Millisecond, min: time.Second, max: time.Hour, wantErr: "below minimum"},
		{name: "above", d: 2 * time.Hour, min: time.Second, max: time.Hour, wantErr: "exceeds maximum"},
		{name: "inverted range", d: time.Minute, min: time.Hour, max: time.Second, wantErr: "invalid range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(tt.d, tt.min, tt.max)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(1, 1, 50))
	assert.NoError(t, ValidateIntRange(50, 1, 50))
	assert.ErrorContains(t, ValidateIntRange(0, 1, 50), "below minimum")
	assert.ErrorContains(t, ValidateIntRange(51, 1, 50), "exceeds maximum")
	assert.ErrorContains(t, ValidateIntRange(5, 10, 1), "invalid range")
	assert.Error(t, IntRange(1, 3)(4))
	assert.NoError(t, DurationRange(time.Second, time.Minute)(30*time.Second))
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}

func TestValidateOneOf(t *testing.T) {
	v := ValidateOneOf("text", "json")

	assert.NoError(t, v("text"))
	assert.NoError(t, v("json"))
	assert.ErrorContains(t, v("yaml"), `"yaml" is not one of`)
}

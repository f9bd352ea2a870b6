package config

import (
	"fmt"
	"time"
)

// ValidateDuration validates that a duration is within [min, max].
func ValidateDuration(duration, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if duration < min {
		return fmt.Errorf("duration %v is below minimum %v", duration, min)
	}
	if duration > max {
		return fmt.Errorf("duration %v exceeds maximum %v", duration, max)
	}
	return nil
}

// ValidateIntRange validates that an integer value is within [min, max].
//
// Example:
//
//	// parallelism between 1 and 50
//	err := ValidateIntRange(10, 1, 50)
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}
	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}
	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}
	return nil
}

// IntRange returns a validator for LoadEnvInt bound to [min, max].
func IntRange(min, max int) func(int) error {
	return func(v int) error { return ValidateIntRange(v, min, max) }
}

// DurationRange returns a validator for LoadEnvDuration bound to [min, max].
func DurationRange(min, max time.Duration) func(time.Duration) error {
	return func(d time.Duration) error { return ValidateDuration(d, min, max) }
}

// ValidatePositiveDuration validates that a duration is strictly positive.
func ValidatePositiveDuration(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}
	return nil
}

// ValidateOneOf returns a validator accepting only the listed values.
func ValidateOneOf(allowed ...string) func(string) error {
	return func(v string) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("value %q is not one of %v", v, allowed)
	}
}

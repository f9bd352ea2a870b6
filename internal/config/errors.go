package config

import (
	"errors"
	"fmt"
)

// ErrorKind classifies configuration failures.
type ErrorKind int

const (
	// KindMalformed means the document or one of its values could not be understood.
	KindMalformed ErrorKind = iota + 1
	// KindMissing means the file or a required field is absent.
	KindMissing
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindMissing:
		return "missing"
	default:
		return "unknown"
	}
}

var (
	// ErrMalformed matches any ConfigError of kind KindMalformed.
	ErrMalformed = errors.New("malformed configuration")
	// ErrMissing matches any ConfigError of kind KindMissing.
	ErrMissing = errors.New("missing configuration")
)

// ConfigError reports a provider configuration that cannot be used.
// Configuration errors are fatal at start-up.
type ConfigError struct {
	Kind  ErrorKind
	Path  string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config %s: %s", e.Kind, e.Path)
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *ConfigError) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Kind == KindMalformed
	case ErrMissing:
		return e.Kind == KindMissing
	}
	return false
}

func malformed(path, field string, err error) *ConfigError {
	return &ConfigError{Kind: KindMalformed, Path: path, Field: field, Err: err}
}

func missing(path, field string, err error) *ConfigError {
	return &ConfigError{Kind: KindMissing, Path: path, Field: field, Err: err}
}

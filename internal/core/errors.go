package core

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every configuration error via errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError reports a rejected configuration value. It is returned before any
// simulation or rendering work starts.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

// NewConfigError builds a ConfigError for field.
func NewConfigError(field string, value any, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidConfig) match.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

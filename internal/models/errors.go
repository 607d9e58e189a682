package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBlueprint is wrapped by every blueprint construction failure
	ErrInvalidBlueprint = errors.New("invalid blueprint")
	// ErrInvalidHorizon is wrapped when a horizon is out of range
	ErrInvalidHorizon = errors.New("invalid horizon")
)

// ConfigError describes a rejected input value
type ConfigError struct {
	Field  string
	Value  any
	Reason string
	kind   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%v: %s", e.kind, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.kind
}

// BlueprintFieldError reports a rejected blueprint field. It wraps ErrInvalidBlueprint.
func BlueprintFieldError(field string, value any, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: reason, kind: ErrInvalidBlueprint}
}

// MaxHorizon is the largest accepted number of steps. Exact search is
// already out of reach well below it.
const MaxHorizon = 1024

// ValidateHorizon rejects horizons outside [0, MaxHorizon]
func ValidateHorizon(horizon int) error {
	if horizon < 0 {
		return &ConfigError{Field: "horizon", Value: horizon, Reason: "must not be negative", kind: ErrInvalidHorizon}
	}
	if horizon > MaxHorizon {
		return &ConfigError{Field: "horizon", Value: horizon, Reason: fmt.Sprintf("must not exceed %d", MaxHorizon), kind: ErrInvalidHorizon}
	}
	return nil
}

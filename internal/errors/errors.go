// Package errors defines the analytics error taxonomy.
//
// Only genuine upstream contract violations (negative volume, quality outside
// [0,1], NaN reaching arithmetic) become errors and surface to the caller.
// Expected statistical edge cases — empty populations, zero denominators,
// single-element series — are recovered locally by the analytics package and
// encoded as explicit result tags, never as errors and never as a numeric 0.
package errors

import (
	"errors"
	"fmt"
)

// InvalidInputError reports an observation that violates the aggregator
// contract. It indicates an upstream data problem and is always surfaced to
// the caller rather than patched over.
type InvalidInputError struct {
	EntityID string
	Field    string
	Value    float64
	Reason   string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("invalid input: entity %s: %s %v: %s", e.EntityID, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s %v: %s", e.Field, e.Value, e.Reason)
}

// NewInvalidInput creates an InvalidInputError for a named field.
func NewInvalidInput(entityID, field string, value float64, reason string) *InvalidInputError {
	return &InvalidInputError{EntityID: entityID, Field: field, Value: value, Reason: reason}
}

// IsInvalidInput reports whether err is (or wraps) an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// ValidationError aggregates per-field boundary validation failures so a
// caller sees every violated field in one pass instead of the first.
type ValidationError struct {
	Violations []*InvalidInputError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return e.Violations[0].Error()
	}
	return fmt.Sprintf("%d invalid observations (first: %s)", len(e.Violations), e.Violations[0].Error())
}

// Unwrap exposes the first violation for errors.As matching.
func (e *ValidationError) Unwrap() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e.Violations[0]
}

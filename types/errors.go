package types

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousIdentifier is returned when a type declares more than one
	// identifier field. The failure is permanent for that type: the metadata
	// provider caches it and returns it consistently on every lookup.
	ErrAmbiguousIdentifier = errors.New("ambiguous identifier: multiple id fields declared")

	// ErrUnresolvableTargetType is returned when a field carries an explicit
	// target-type hint and the supplied value cannot be coerced to it.
	ErrUnresolvableTargetType = errors.New("value cannot be coerced to target type")

	// ErrTooDeep is returned when a source structure nests beyond the
	// configured recursion limit.
	ErrTooDeep = errors.New("document nesting exceeds depth limit")
)

// ConversionError reports a failed value coercion, naming the field and the
// attempted target type. It wraps ErrUnresolvableTargetType so callers can
// match on the category with errors.Is.
type ConversionError struct {
	Field  string
	Target TargetType
	Value  any
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("field %q: cannot convert value of type %T to %s", e.Field, e.Value, e.Target)
}

func (e *ConversionError) Unwrap() error {
	return ErrUnresolvableTargetType
}

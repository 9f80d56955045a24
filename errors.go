package remap

import (
	"fmt"

	"go.uber.org/multierr"
)

// NullArgumentError reports a nil value passed to a public entry point
// that requires one. It is raised before any destination is touched.
type NullArgumentError struct {
	Name string
}

func (e *NullArgumentError) Error() string {
	return fmt.Sprintf("remap: argument %q must not be nil", e.Name)
}

// MappingNotFoundError reports a mapping request for a pair that was never
// registered.
type MappingNotFoundError struct {
	Pair TypePair
}

func (e *MappingNotFoundError) Error() string {
	return fmt.Sprintf(
		"remap: no mapping registered for %s; register one with CreateMap[%v, %v] before creating the mapper",
		e.Pair, e.Pair.SourceType, e.Pair.DestinationType)
}

// FieldMappingError wraps a failure raised while applying one property map.
// It names the destination field and both shapes; the original failure is
// preserved as the inner cause.
type FieldMappingError struct {
	Field string
	Pair  TypePair
	Inner error
}

func (e *FieldMappingError) Error() string {
	return fmt.Sprintf("remap: mapping field %q (%s): %v", e.Field, e.Pair, e.Inner)
}

func (e *FieldMappingError) Unwrap() error {
	return e.Inner
}

// ConfigurationError reports invalid mapping configuration. Validation
// failures are collected across all type maps and aggregated here, never
// surfaced one at a time.
type ConfigurationError struct {
	Reason   string // set for lifecycle misuse, e.g. mapper created before sealing
	Failures error  // aggregate of per-property validation failures
}

func (e *ConfigurationError) Error() string {
	if e.Failures == nil {
		return "remap: invalid configuration: " + e.Reason
	}
	failures := multierr.Errors(e.Failures)
	msg := fmt.Sprintf("remap: invalid configuration: %d failure(s):", len(failures))
	for _, f := range failures {
		msg += "\n\t" + f.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Failures
}

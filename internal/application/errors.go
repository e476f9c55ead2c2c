package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for per-record and per-run conditions
var (
	ErrMissingIdentifier   = errors.New("missing identifier")
	ErrCorruptIdentifier   = errors.New("corrupt identifier")
	ErrUnresolvableManager = errors.New("unresolvable manager")
	ErrMalformedRecord     = errors.New("malformed record")
	ErrEmptyResultSet      = errors.New("no matching records")
	ErrConfiguration       = errors.New("invalid configuration")
)

// ValidationError represents a configuration failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ResolutionError records why a manager reference could not be turned
// into a security identifier.
type ResolutionError struct {
	Reference string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve manager %q: %v", e.Reference, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrUnresolvableManager
}

// RecordError ties a per-record failure to the entry it came from
type RecordError struct {
	DN  string
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %q: %v", e.DN, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

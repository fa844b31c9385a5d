// Package apperr defines the error taxonomy of the bookkeeping core. Every
// error carries enough context (account path, journal id, counter name) for
// an operator to reconstruct the financial event it concerns.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError rejects bad input before any write. Fully recoverable by
// the caller correcting the request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for a named field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError identifies a missing account, journal or counter.
type NotFoundError struct {
	Kind string // "account", "journal", "counter", ...
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// ConflictError marks a duplicate account code/path or voucher number. The
// registry and counter layers retry internally where the operation is
// idempotent-safe; the caller only sees this once retries are exhausted.
type ConflictError struct {
	Kind string
	Key  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Key)
}

// StateError rejects an operation invalid in the record's current state,
// e.g. voiding an already-voided journal or deleting an account with
// children. No partial effect is left behind.
type StateError struct {
	Kind   string
	Key    string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Key, e.Reason)
}

// ConsistencyError reports a hierarchy invariant violation detected on read
// (e.g. a child path that no longer matches its parent's path). It is
// surfaced to operators, not auto-healed.
type ConsistencyError struct {
	Path   string
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency: %s: %s", e.Path, e.Detail)
}

// ErrSequenceExhausted is returned when a bounded counter retry loop could
// not produce a non-colliding number.
var ErrSequenceExhausted = errors.New("sequence exhausted: no unique number after retries")

// Convenience matchers used by the HTTP layer.

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsState(err error) bool {
	var e *StateError
	return errors.As(err, &e)
}

func IsConsistency(err error) bool {
	var e *ConsistencyError
	return errors.As(err, &e)
}

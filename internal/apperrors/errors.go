// Package apperrors contains the error taxonomy shared by the engine and its surfaces.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable signals a transport or connection failure of the relational store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrQuery signals a malformed query (unknown relation/field, rejected statement).
	ErrQuery = errors.New("query error")
	// ErrValidation signals failed input validation. No write happened.
	ErrValidation = errors.New("validation error")
	// ErrNotFound signals a missing row addressed by id.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals a uniqueness violation reported by the store.
	ErrConflict = errors.New("conflict")
)

// QueryError carries the relation and filter of a failed store call.
type QueryError struct {
	Relation string
	Filter   string
	Err      error
}

func (e *QueryError) Error() string {
	if e.Filter == "" {
		return fmt.Sprintf("query %s: %v", e.Relation, e.Err)
	}
	return fmt.Sprintf("query %s [%s]: %v", e.Relation, e.Filter, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Is reports QueryError as ErrQuery so callers can classify without errors.As.
func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// NewQueryError wraps err for relation and filter.
func NewQueryError(relation, filter string, err error) *QueryError {
	return &QueryError{Relation: relation, Filter: filter, Err: err}
}

// Unavailable wraps err as a store availability failure.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}

// ValidationError describes a rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports ValidationError as ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFound wraps ErrNotFound with the entity and id.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

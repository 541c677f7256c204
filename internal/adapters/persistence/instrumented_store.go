// Package persistence adapts the generic relation store to the typed ports.
package persistence

import (
	"context"
	"errors"

	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/ports/secondary"
)

// InstrumentedStore counts failed store calls by kind.
// It forwards InTx when the wrapped store is a secondary.Transactor.
type InstrumentedStore struct {
	next    secondary.RelationStore
	metrics secondary.MetricsRecorder
}

// NewInstrumentedStore wraps next.
func NewInstrumentedStore(next secondary.RelationStore, metrics secondary.MetricsRecorder) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: metrics}
}

// Read forwards to the wrapped store.
func (s *InstrumentedStore) Read(ctx context.Context, relation string, filters []secondary.Filter, projection []string) ([]secondary.Row, error) {
	rows, err := s.next.Read(ctx, relation, filters, projection)
	s.observe(err)
	return rows, err
}

// Insert forwards to the wrapped store.
func (s *InstrumentedStore) Insert(ctx context.Context, relation string, row secondary.Row) (secondary.Row, error) {
	stored, err := s.next.Insert(ctx, relation, row)
	s.observe(err)
	return stored, err
}

// Update forwards to the wrapped store.
func (s *InstrumentedStore) Update(ctx context.Context, relation string, patch secondary.Row, filters []secondary.Filter) (int64, error) {
	n, err := s.next.Update(ctx, relation, patch, filters)
	s.observe(err)
	return n, err
}

// Delete forwards to the wrapped store.
func (s *InstrumentedStore) Delete(ctx context.Context, relation string, filters []secondary.Filter) (int64, error) {
	n, err := s.next.Delete(ctx, relation, filters)
	s.observe(err)
	return n, err
}

// Transactional reports whether InTx runs a real transaction.
func (s *InstrumentedStore) Transactional() bool {
	_, ok := s.next.(secondary.Transactor)
	return ok
}

// InTx runs fn in a transaction of the wrapped store, or directly against
// the store when it has no transaction support.
func (s *InstrumentedStore) InTx(ctx context.Context, fn func(ctx context.Context, tx secondary.RelationStore) error) error {
	tr, ok := s.next.(secondary.Transactor)
	if !ok {
		return fn(ctx, s)
	}

	var fnErr error
	err := tr.InTx(ctx, func(ctx context.Context, tx secondary.RelationStore) error {
		fnErr = fn(ctx, &InstrumentedStore{next: tx, metrics: s.metrics})
		return fnErr
	})
	// Errors returned by fn were already counted by the inner wrapper.
	if fnErr == nil {
		s.observe(err)
	}
	return err
}

func (s *InstrumentedStore) observe(err error) {
	if kind := ErrorKind(err); kind != "" {
		s.metrics.StoreError(kind)
	}
}

// ErrorKind names the store error class of err, or "" for nil and
// non-store errors.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return "unavailable"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	case errors.Is(err, apperrors.ErrQuery):
		return "query"
	default:
		return ""
	}
}

var (
	_ secondary.RelationStore = (*InstrumentedStore)(nil)
	_ secondary.Transactor    = (*InstrumentedStore)(nil)
)

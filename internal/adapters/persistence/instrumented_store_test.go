package persistence_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/example/paddock/internal/adapters/persistence"
	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/ports/secondary"
)

type countingMetrics struct {
	secondary.NopMetrics
	storeErrors map[string]int
}

func (m *countingMetrics) StoreError(kind string) {
	if m.storeErrors == nil {
		m.storeErrors = map[string]int{}
	}
	m.storeErrors[kind]++
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "unavailable", err: apperrors.Unavailable("read", errors.New("refused")), want: "unavailable"},
		{name: "query", err: apperrors.NewQueryError("teams", "", errors.New("bad")), want: "query"},
		{
			name: "conflict",
			err:  apperrors.NewQueryError("teams", "", fmt.Errorf("%w: dup", apperrors.ErrConflict)),
			want: "conflict",
		},
		{name: "validation is not a store error", err: apperrors.Invalid("date", "required"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := persistence.ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInstrumentedStore_CountsFailures(t *testing.T) {
	metrics := &countingMetrics{}
	store := persistence.NewInstrumentedStore(
		failingStore{err: apperrors.Unavailable("read", errors.New("refused"))}, metrics)

	_, _ = store.Read(context.Background(), secondary.RelationTeams, nil, nil)
	_, _ = store.Delete(context.Background(), secondary.RelationTeams, []secondary.Filter{secondary.Eq("id", "T1")})

	if metrics.storeErrors["unavailable"] != 2 {
		t.Errorf("expected 2 unavailable errors, got %v", metrics.storeErrors)
	}
}

func TestInstrumentedStore_InTxWithoutTransactor(t *testing.T) {
	store := persistence.NewInstrumentedStore(failingStore{}, secondary.NopMetrics{})
	if store.Transactional() {
		t.Error("failingStore has no transaction support")
	}

	called := false
	err := store.InTx(context.Background(), func(ctx context.Context, tx secondary.RelationStore) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("InTx failed: %v", err)
	}
	if !called {
		t.Error("expected fn to run directly against the store")
	}
}

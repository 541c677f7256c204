// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/example/paddock/internal/core/effects"
	"github.com/example/paddock/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place writes happen.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// PlanFunc reads through store and returns the effects to run against it.
type PlanFunc func(ctx context.Context, store secondary.RelationStore) ([]effects.Effect, error)

// PlanningExecutor also runs effects planned from reads on the same store.
type PlanningExecutor interface {
	EffectExecutor
	ExecutePlanned(ctx context.Context, plan PlanFunc) error
}

// transactional is implemented by store decorators that know whether the
// store underneath can actually run transactions.
type transactional interface {
	Transactional() bool
}

// DefaultEffectExecutor runs persist effects against a RelationStore, in
// order, stopping at the first failure. Log effects are emitted only after
// every write succeeded.
type DefaultEffectExecutor struct {
	store  secondary.RelationStore
	atomic bool
	log    *zap.SugaredLogger
}

// NewEffectExecutor creates a new DefaultEffectExecutor. With atomic set and a
// store that implements secondary.Transactor, each Execute call runs in one
// transaction.
func NewEffectExecutor(store secondary.RelationStore, atomic bool, log *zap.SugaredLogger) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		store:  store,
		atomic: atomic,
		log:    log.Named("app.executor"),
	}
}

// Atomic reports whether Execute runs inside a transaction.
func (e *DefaultEffectExecutor) Atomic() bool {
	if !e.atomic {
		return false
	}
	if _, ok := e.store.(secondary.Transactor); !ok {
		return false
	}
	if t, ok := e.store.(transactional); ok {
		return t.Transactional()
	}
	return true
}

// Execute processes a slice of effects.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	return e.ExecutePlanned(ctx, func(context.Context, secondary.RelationStore) ([]effects.Effect, error) {
		return effs, nil
	})
}

// ExecutePlanned calls plan with the store the effects will be written to,
// then runs the effects it returns. When Atomic, the reads made by plan and
// the writes share one transaction.
func (e *DefaultEffectExecutor) ExecutePlanned(ctx context.Context, plan PlanFunc) error {
	var logs []effects.LogEffect

	run := func(ctx context.Context, store secondary.RelationStore) error {
		logs = logs[:0]
		effs, err := plan(ctx, store)
		if err != nil {
			return err
		}
		return e.run(ctx, store, effs, &logs)
	}

	var err error
	if e.Atomic() {
		err = e.store.(secondary.Transactor).InTx(ctx, run)
	} else {
		err = run(ctx, e.store)
	}
	if err != nil {
		return err
	}

	for _, l := range logs {
		e.emit(l)
	}
	return nil
}

func (e *DefaultEffectExecutor) run(ctx context.Context, store secondary.RelationStore, effs []effects.Effect, logs *[]effects.LogEffect) error {
	for _, eff := range effs {
		switch typed := eff.(type) {
		case effects.PersistEffect:
			if err := e.persist(ctx, store, typed); err != nil {
				return fmt.Errorf("failed to %s: %w", typed, err)
			}
		case effects.CompositeEffect:
			if err := e.run(ctx, store, typed.Effects, logs); err != nil {
				return err
			}
		case effects.LogEffect:
			*logs = append(*logs, typed)
		case effects.NoEffect:
		default:
			return fmt.Errorf("unknown effect type: %T", eff)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) persist(ctx context.Context, store secondary.RelationStore, eff effects.PersistEffect) error {
	switch eff.Operation {
	case effects.OpInsert:
		_, err := store.Insert(ctx, eff.Relation, eff.Row)
		return err
	case effects.OpUpdate:
		n, err := store.Update(ctx, eff.Relation, eff.Row, eff.Filters)
		if err == nil {
			e.log.Debugw("rows updated", "relation", eff.Relation, "count", n)
		}
		return err
	case effects.OpDelete:
		n, err := store.Delete(ctx, eff.Relation, eff.Filters)
		if err == nil {
			e.log.Debugw("rows deleted", "relation", eff.Relation, "count", n)
		}
		return err
	default:
		return fmt.Errorf("unknown persist operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) emit(l effects.LogEffect) {
	keys := make([]string, 0, len(l.Fields))
	for k := range l.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, l.Fields[k])
	}

	switch l.Level {
	case "debug":
		e.log.Debugw(l.Message, kv...)
	case "warn":
		e.log.Warnw(l.Message, kv...)
	case "error":
		e.log.Errorw(l.Message, kv...)
	default:
		e.log.Infow(l.Message, kv...)
	}
}

// Ensure DefaultEffectExecutor implements the interface
var _ PlanningExecutor = (*DefaultEffectExecutor)(nil)

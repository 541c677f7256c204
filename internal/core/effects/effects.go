// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

import (
	"fmt"

	"github.com/example/paddock/internal/ports/secondary"
)

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// Persist operations.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string // "debug", "info", "warn"
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// PersistEffect represents one write against a relation.
type PersistEffect struct {
	Relation  string
	Operation string        // OpInsert, OpUpdate or OpDelete
	Row       secondary.Row // inserted row or update patch
	Filters   []secondary.Filter
}

func (e PersistEffect) EffectType() string { return "persist" }

func (e PersistEffect) String() string {
	if len(e.Filters) == 0 {
		return fmt.Sprintf("%s %s", e.Operation, e.Relation)
	}
	return fmt.Sprintf("%s %s where %s", e.Operation, e.Relation, secondary.DescribeFilters(e.Filters))
}

// Insert builds an insert effect.
func Insert(relation string, row secondary.Row) PersistEffect {
	return PersistEffect{Relation: relation, Operation: OpInsert, Row: row}
}

// Update builds a filtered update effect.
func Update(relation string, patch secondary.Row, filters ...secondary.Filter) PersistEffect {
	return PersistEffect{Relation: relation, Operation: OpUpdate, Row: patch, Filters: filters}
}

// Delete builds a filtered delete effect.
func Delete(relation string, filters ...secondary.Filter) PersistEffect {
	return PersistEffect{Relation: relation, Operation: OpDelete, Filters: filters}
}

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }

// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"fmt"
	"strings"
)

// Relation names are a stable contract with the external store.
const (
	RelationCategories               = "categories"
	RelationCompetitors              = "competitors"
	RelationTeams                    = "teams"
	RelationRaces                    = "races"
	RelationParticipations           = "participations"
	RelationPenalties                = "penalties"
	RelationPenaltyCompetitorTargets = "penalty_competitor_targets"
	RelationPenaltyTeamTargets       = "penalty_team_targets"
)

// Row is a single relation row keyed by column name.
// Values are nil, string, int64, float64, bool or []byte depending on the driver.
type Row map[string]any

// Filter is an equality (one value) or membership (In) predicate on a field.
type Filter struct {
	Field  string
	Values []any
	In     bool
}

// Eq builds a `field = value` filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Values: []any{value}}
}

// In builds a `field in [values]` filter. An empty value list matches nothing.
func In(field string, values ...any) Filter {
	return Filter{Field: field, Values: values, In: true}
}

// InStrings builds a membership filter from string ids.
func InStrings(field string, values []string) Filter {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return In(field, vs...)
}

// Empty reports whether the filter can never match.
func (f Filter) Empty() bool {
	return f.In && len(f.Values) == 0
}

func (f Filter) String() string {
	if !f.In {
		if len(f.Values) == 0 {
			return f.Field + " = <nil>"
		}
		return fmt.Sprintf("%s = %v", f.Field, f.Values[0])
	}
	return fmt.Sprintf("%s in %v", f.Field, f.Values)
}

// DescribeFilters renders filters for error messages and logs.
func DescribeFilters(filters []Filter) string {
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.String()
	}
	return strings.Join(parts, " AND ")
}

// RelationStore is the generic query capability of the external store.
// Filters are combined with AND. An empty projection selects every column.
type RelationStore interface {
	// Read returns matching rows; no match is an empty slice, not an error.
	Read(ctx context.Context, relation string, filters []Filter, projection []string) ([]Row, error)

	// Insert persists a row and returns it as stored.
	Insert(ctx context.Context, relation string, row Row) (Row, error)

	// Update applies patch to every matching row and returns the affected count.
	Update(ctx context.Context, relation string, patch Row, filters []Filter) (int64, error)

	// Delete removes every matching row and returns the affected count.
	Delete(ctx context.Context, relation string, filters []Filter) (int64, error)
}

// Transactor is implemented by stores that can run several writes atomically.
type Transactor interface {
	// InTx runs fn against a store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context, tx RelationStore) error) error
}

// Lifecycle describes storage startup/shutdown hooks.
type Lifecycle interface {
	OnStart(ctx context.Context) error
	OnStop(ctx context.Context) error
}

// Store is a relation store with lifecycle hooks, as built by the wiring layer.
type Store interface {
	RelationStore
	Lifecycle
}

package db

import (
	"fmt"

	"github.com/example/paddock/internal/ports/secondary"
)

// Relation describes one relation of the store contract.
type Relation struct {
	Name    string
	Columns []string
	OrderBy string
}

// Catalog lists every relation the engine may touch. Reads, inserts, updates
// and deletes against anything else are rejected before reaching the driver.
var Catalog = map[string]Relation{
	secondary.RelationCategories: {
		Name:    secondary.RelationCategories,
		Columns: []string{"id", "name"},
		OrderBy: "name, id",
	},
	secondary.RelationCompetitors: {
		Name:    secondary.RelationCompetitors,
		Columns: []string{"id", "name", "nationality", "birth_date", "photo_ref", "active"},
		OrderBy: "name, id",
	},
	secondary.RelationTeams: {
		Name:    secondary.RelationTeams,
		Columns: []string{"id", "name", "color", "logo_ref", "active"},
		OrderBy: "name, id",
	},
	secondary.RelationRaces: {
		Name:    secondary.RelationRaces,
		Columns: []string{"id", "name", "place", "date", "category_id"},
		OrderBy: "date, id",
	},
	secondary.RelationParticipations: {
		Name:    secondary.RelationParticipations,
		Columns: []string{"id", "competitor_id", "race_id", "team_id", "points"},
		OrderBy: "id",
	},
	secondary.RelationPenalties: {
		Name:    secondary.RelationPenalties,
		Columns: []string{"id", "race_id", "date", "time", "kind", "description"},
		OrderBy: "date, COALESCE(time, ''), id",
	},
	secondary.RelationPenaltyCompetitorTargets: {
		Name:    secondary.RelationPenaltyCompetitorTargets,
		Columns: []string{"id", "penalty_id", "competitor_id"},
		OrderBy: "id",
	},
	secondary.RelationPenaltyTeamTargets: {
		Name:    secondary.RelationPenaltyTeamTargets,
		Columns: []string{"id", "penalty_id", "team_id"},
		OrderBy: "id",
	},
}

// Lookup returns the relation or an error naming the unknown relation.
func Lookup(name string) (Relation, error) {
	rel, ok := Catalog[name]
	if !ok {
		return Relation{}, fmt.Errorf("unknown relation %q", name)
	}
	return rel, nil
}

// HasColumn reports whether the relation declares column.
func (r Relation) HasColumn(column string) bool {
	for _, c := range r.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// CheckColumns rejects any column the relation does not declare.
func (r Relation) CheckColumns(columns []string) error {
	for _, c := range columns {
		if !r.HasColumn(c) {
			return fmt.Errorf("unknown field %q on relation %s", c, r.Name)
		}
	}
	return nil
}

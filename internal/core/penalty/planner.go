package penalty

import (
	"github.com/example/paddock/internal/core/effects"
	"github.com/example/paddock/internal/ports/secondary"
)

// Plan is an ordered list of writes. Execution stops at the first failure.
type Plan struct {
	PenaltyID   string
	DatabaseOps []effects.PersistEffect
	LogOps      []effects.LogEffect
}

// Effects returns the writes as one CompositeEffect followed by the log
// effects. A plan with nothing to do yields a single NoEffect.
func (p Plan) Effects() []effects.Effect {
	if len(p.DatabaseOps) == 0 && len(p.LogOps) == 0 {
		return []effects.Effect{effects.NoEffect{}}
	}
	result := make([]effects.Effect, 0, 1+len(p.LogOps))
	if len(p.DatabaseOps) > 0 {
		writes := make([]effects.Effect, len(p.DatabaseOps))
		for i, e := range p.DatabaseOps {
			writes[i] = e
		}
		result = append(result, effects.CompositeEffect{Effects: writes})
	}
	for _, e := range p.LogOps {
		result = append(result, e)
	}
	return result
}

// CreatePlanInput contains pre-validated data for penalty creation.
type CreatePlanInput struct {
	PenaltyID string
	LinkID    string
	Data      Data
	Target    Target
}

// GenerateCreatePlan inserts the penalty row, then exactly one link row.
func GenerateCreatePlan(input CreatePlanInput) Plan {
	return Plan{
		PenaltyID: input.PenaltyID,
		DatabaseOps: []effects.PersistEffect{
			effects.Insert(secondary.RelationPenalties, penaltyRow(input.PenaltyID, input.Data)),
			insertLink(input.LinkID, input.PenaltyID, input.Target),
		},
	}
}

// UpdatePlanInput contains pre-validated data for a penalty update.
type UpdatePlanInput struct {
	PenaltyID string
	LinkID    string
	Data      Data
	// Target is nil when the caller supplied no target.
	Target *Target
	// HasTeamLink reports whether a team link exists before the update.
	HasTeamLink bool
}

// GenerateUpdatePlan updates the penalty fields and rewrites the target.
// A new target replaces every existing link of either kind. Without a target
// only the competitor link is removed, which can leave the penalty untargeted.
func GenerateUpdatePlan(input UpdatePlanInput) Plan {
	plan := Plan{PenaltyID: input.PenaltyID}

	patch := penaltyRow(input.PenaltyID, input.Data)
	delete(patch, "id")
	plan.DatabaseOps = append(plan.DatabaseOps,
		effects.Update(secondary.RelationPenalties, patch, secondary.Eq("id", input.PenaltyID)))

	if input.Target == nil {
		plan.DatabaseOps = append(plan.DatabaseOps, deleteCompetitorLinks(input.PenaltyID))
		if !input.HasTeamLink {
			plan.LogOps = append(plan.LogOps, effects.LogEffect{
				Level:   "warn",
				Message: "penalty left without target",
				Fields:  map[string]any{"penalty_id": input.PenaltyID},
			})
		}
		return plan
	}

	plan.DatabaseOps = append(plan.DatabaseOps,
		deleteCompetitorLinks(input.PenaltyID),
		deleteTeamLinks(input.PenaltyID),
		insertLink(input.LinkID, input.PenaltyID, *input.Target),
	)
	return plan
}

// GenerateRemoveTargetPlan deletes both link rows of a penalty.
func GenerateRemoveTargetPlan(penaltyID string) Plan {
	return Plan{
		PenaltyID: penaltyID,
		DatabaseOps: []effects.PersistEffect{
			deleteCompetitorLinks(penaltyID),
			deleteTeamLinks(penaltyID),
		},
	}
}

// GenerateDeletePlan deletes the link rows, then the penalty row.
func GenerateDeletePlan(penaltyID string) Plan {
	return Plan{
		PenaltyID: penaltyID,
		DatabaseOps: []effects.PersistEffect{
			deleteCompetitorLinks(penaltyID),
			deleteTeamLinks(penaltyID),
			effects.Delete(secondary.RelationPenalties, secondary.Eq("id", penaltyID)),
		},
	}
}

func penaltyRow(id string, d Data) secondary.Row {
	return secondary.Row{
		"id":          id,
		"race_id":     d.RaceID,
		"date":        d.Date,
		"time":        nullable(d.Time),
		"kind":        d.Kind,
		"description": nullable(d.Description),
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func insertLink(linkID, penaltyID string, target Target) effects.PersistEffect {
	if target.Kind() == TargetTeam {
		return effects.Insert(secondary.RelationPenaltyTeamTargets, secondary.Row{
			"id":         linkID,
			"penalty_id": penaltyID,
			"team_id":    target.ID(),
		})
	}
	return effects.Insert(secondary.RelationPenaltyCompetitorTargets, secondary.Row{
		"id":            linkID,
		"penalty_id":    penaltyID,
		"competitor_id": target.ID(),
	})
}

func deleteCompetitorLinks(penaltyID string) effects.PersistEffect {
	return effects.Delete(secondary.RelationPenaltyCompetitorTargets, secondary.Eq("penalty_id", penaltyID))
}

func deleteTeamLinks(penaltyID string) effects.PersistEffect {
	return effects.Delete(secondary.RelationPenaltyTeamTargets, secondary.Eq("penalty_id", penaltyID))
}

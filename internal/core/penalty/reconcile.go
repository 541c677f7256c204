package penalty

import (
	"sort"

	"github.com/example/paddock/internal/core/effects"
	"github.com/example/paddock/internal/ports/secondary"
)

// Link is one row of either link relation.
type Link struct {
	ID        string
	PenaltyID string
	TargetID  string
}

// ReconcileInput is a snapshot of penalties, targets and link rows.
type ReconcileInput struct {
	PenaltyIDs      []string
	CompetitorIDs   []string
	TeamIDs         []string
	CompetitorLinks []Link
	TeamLinks       []Link
}

// Report lists penalties and links that break the one-target rule.
// All slices are sorted.
type Report struct {
	Untargeted              []string // penalty ids with no link
	DoubleTargeted          []string // penalty ids with more than one link
	DanglingCompetitorLinks []string // link ids whose penalty or competitor is gone
	DanglingTeamLinks       []string // link ids whose penalty or team is gone
}

// Clean reports whether nothing needs attention.
func (r Report) Clean() bool {
	return len(r.Untargeted) == 0 && len(r.DoubleTargeted) == 0 &&
		len(r.DanglingCompetitorLinks) == 0 && len(r.DanglingTeamLinks) == 0
}

// Scan compares penalties with their link rows. Dangling links do not count
// as targets of the penalty they name.
func Scan(in ReconcileInput) Report {
	penalties := toSet(in.PenaltyIDs)
	competitors := toSet(in.CompetitorIDs)
	teams := toSet(in.TeamIDs)

	report := Report{
		Untargeted:              []string{},
		DoubleTargeted:          []string{},
		DanglingCompetitorLinks: []string{},
		DanglingTeamLinks:       []string{},
	}
	links := make(map[string]int, len(penalties))

	for _, l := range in.CompetitorLinks {
		if !penalties[l.PenaltyID] || !competitors[l.TargetID] {
			report.DanglingCompetitorLinks = append(report.DanglingCompetitorLinks, l.ID)
			continue
		}
		links[l.PenaltyID]++
	}
	for _, l := range in.TeamLinks {
		if !penalties[l.PenaltyID] || !teams[l.TargetID] {
			report.DanglingTeamLinks = append(report.DanglingTeamLinks, l.ID)
			continue
		}
		links[l.PenaltyID]++
	}

	for id := range penalties {
		switch n := links[id]; {
		case n == 0:
			report.Untargeted = append(report.Untargeted, id)
		case n > 1:
			report.DoubleTargeted = append(report.DoubleTargeted, id)
		}
	}

	sort.Strings(report.Untargeted)
	sort.Strings(report.DoubleTargeted)
	sort.Strings(report.DanglingCompetitorLinks)
	sort.Strings(report.DanglingTeamLinks)
	return report
}

// GenerateReconcilePlan removes dangling links first, then untargeted
// penalties. Double-targeted penalties are left alone: there is no way to
// tell which target is intended.
func GenerateReconcilePlan(report Report) Plan {
	var plan Plan
	if len(report.DanglingCompetitorLinks) > 0 {
		plan.DatabaseOps = append(plan.DatabaseOps, effects.Delete(
			secondary.RelationPenaltyCompetitorTargets, secondary.InStrings("id", report.DanglingCompetitorLinks)))
	}
	if len(report.DanglingTeamLinks) > 0 {
		plan.DatabaseOps = append(plan.DatabaseOps, effects.Delete(
			secondary.RelationPenaltyTeamTargets, secondary.InStrings("id", report.DanglingTeamLinks)))
	}
	if len(report.Untargeted) > 0 {
		plan.DatabaseOps = append(plan.DatabaseOps, effects.Delete(
			secondary.RelationPenalties, secondary.InStrings("id", report.Untargeted)))
	}
	for _, id := range report.DoubleTargeted {
		plan.LogOps = append(plan.LogOps, effects.LogEffect{
			Level:   "warn",
			Message: "penalty has more than one target; fix it by updating its target",
			Fields:  map[string]any{"penalty_id": id},
		})
	}
	return plan
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

package penalty

import (
	"testing"

	"github.com/example/paddock/internal/core/effects"
	"github.com/example/paddock/internal/ports/secondary"
)

func describe(ops []effects.PersistEffect) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.String()
	}
	return out
}

func assertOps(t *testing.T, got []effects.PersistEffect, want []string) {
	t.Helper()
	desc := describe(got)
	if len(desc) != len(want) {
		t.Fatalf("ops = %v, want %v", desc, want)
	}
	for i := range want {
		if desc[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, desc[i], want[i])
		}
	}
}

func TestGenerateCreatePlan(t *testing.T) {
	plan := GenerateCreatePlan(CreatePlanInput{
		PenaltyID: "PEN-1",
		LinkID:    "L1",
		Data:      Data{RaceID: "R1", Date: "2024-03-01", Kind: "grid"},
		Target:    TeamTarget("T1"),
	})

	assertOps(t, plan.DatabaseOps, []string{
		"insert penalties",
		"insert penalty_team_targets",
	})

	row := plan.DatabaseOps[0].Row
	if row["time"] != nil || row["description"] != nil {
		t.Errorf("empty optional fields should be NULL, got %v", row)
	}
	link := plan.DatabaseOps[1].Row
	if link["team_id"] != "T1" || link["penalty_id"] != "PEN-1" || link["id"] != "L1" {
		t.Errorf("unexpected link row: %v", link)
	}
	effs := plan.Effects()
	if len(effs) != 1 {
		t.Fatalf("Effects() = %d, want 1", len(effs))
	}
	composite, ok := effs[0].(effects.CompositeEffect)
	if !ok {
		t.Fatalf("Effects()[0] = %T, want CompositeEffect", effs[0])
	}
	if len(composite.Effects) != 2 {
		t.Errorf("composite holds %d writes, want 2", len(composite.Effects))
	}
}

func TestGenerateCreatePlan_Competitor(t *testing.T) {
	plan := GenerateCreatePlan(CreatePlanInput{
		PenaltyID: "PEN-1",
		LinkID:    "L1",
		Data:      Data{RaceID: "R1", Date: "2024-03-01", Time: "14:05", Kind: "grid"},
		Target:    CompetitorTarget("C1"),
	})

	if plan.DatabaseOps[1].Relation != secondary.RelationPenaltyCompetitorTargets {
		t.Errorf("expected competitor link, got %s", plan.DatabaseOps[1].Relation)
	}
	if plan.DatabaseOps[0].Row["time"] != "14:05" {
		t.Errorf("time should be kept verbatim, got %v", plan.DatabaseOps[0].Row["time"])
	}
}

func TestGenerateUpdatePlan(t *testing.T) {
	competitor := CompetitorTarget("C2")
	team := TeamTarget("T2")

	tests := []struct {
		name     string
		input    UpdatePlanInput
		wantOps  []string
		wantWarn bool
	}{
		{
			name:  "new competitor target replaces every link",
			input: UpdatePlanInput{PenaltyID: "PEN-1", LinkID: "L9", Target: &competitor},
			wantOps: []string{
				"update penalties where id = PEN-1",
				"delete penalty_competitor_targets where penalty_id = PEN-1",
				"delete penalty_team_targets where penalty_id = PEN-1",
				"insert penalty_competitor_targets",
			},
		},
		{
			name:  "new team target replaces every link",
			input: UpdatePlanInput{PenaltyID: "PEN-1", LinkID: "L9", Target: &team},
			wantOps: []string{
				"update penalties where id = PEN-1",
				"delete penalty_competitor_targets where penalty_id = PEN-1",
				"delete penalty_team_targets where penalty_id = PEN-1",
				"insert penalty_team_targets",
			},
		},
		{
			name:  "no target keeps team link",
			input: UpdatePlanInput{PenaltyID: "PEN-1", HasTeamLink: true},
			wantOps: []string{
				"update penalties where id = PEN-1",
				"delete penalty_competitor_targets where penalty_id = PEN-1",
			},
		},
		{
			name:  "no target and no team link warns",
			input: UpdatePlanInput{PenaltyID: "PEN-1"},
			wantOps: []string{
				"update penalties where id = PEN-1",
				"delete penalty_competitor_targets where penalty_id = PEN-1",
			},
			wantWarn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := GenerateUpdatePlan(tt.input)
			assertOps(t, plan.DatabaseOps, tt.wantOps)

			if _, ok := plan.DatabaseOps[0].Row["id"]; ok {
				t.Error("update patch must not rewrite the id")
			}
			if got := len(plan.LogOps) == 1; got != tt.wantWarn {
				t.Errorf("warn = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestGenerateRemoveTargetAndDeletePlans(t *testing.T) {
	assertOps(t, GenerateRemoveTargetPlan("PEN-1").DatabaseOps, []string{
		"delete penalty_competitor_targets where penalty_id = PEN-1",
		"delete penalty_team_targets where penalty_id = PEN-1",
	})

	assertOps(t, GenerateDeletePlan("PEN-1").DatabaseOps, []string{
		"delete penalty_competitor_targets where penalty_id = PEN-1",
		"delete penalty_team_targets where penalty_id = PEN-1",
		"delete penalties where id = PEN-1",
	})
}

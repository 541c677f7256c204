package penalty

import "testing"

func validData() Data {
	return Data{RaceID: "R1", Date: "2024-03-01", Time: "14:05", Kind: "time", Description: "+5s"}
}

func TestCanWrite(t *testing.T) {
	tests := []struct {
		name        string
		ctx         WriteContext
		wantAllowed bool
		wantField   string
		wantReason  string
	}{
		{
			name: "valid create with competitor target",
			ctx: WriteContext{
				Data: validData(), Target: CompetitorTarget("C1"), HasTarget: true,
				RaceExists: true, TargetExists: true,
			},
			wantAllowed: true,
		},
		{
			name:        "update keeping current target",
			ctx:         WriteContext{Data: validData(), RaceExists: true},
			wantAllowed: true,
		},
		{
			name: "missing race id",
			ctx: WriteContext{
				Data: Data{Date: "2024-03-01", Kind: "time"}, Target: TeamTarget("T1"), HasTarget: true,
				TargetExists: true,
			},
			wantField:  "race_id",
			wantReason: "race is required",
		},
		{
			name: "unknown race",
			ctx: WriteContext{
				Data: validData(), Target: TeamTarget("T1"), HasTarget: true,
				RaceExists: false, TargetExists: true,
			},
			wantField:  "race_id",
			wantReason: "race R1 not found",
		},
		{
			name: "blank date",
			ctx: WriteContext{
				Data: Data{RaceID: "R1", Date: "  ", Kind: "time"}, Target: TeamTarget("T1"), HasTarget: true,
				RaceExists: true, TargetExists: true,
			},
			wantField:  "date",
			wantReason: "date is required",
		},
		{
			name: "malformed date",
			ctx: WriteContext{
				Data: Data{RaceID: "R1", Date: "01/03/2024", Kind: "time"}, Target: TeamTarget("T1"), HasTarget: true,
				RaceExists: true, TargetExists: true,
			},
			wantField:  "date",
			wantReason: `date "01/03/2024" is not YYYY-MM-DD`,
		},
		{
			name: "malformed time",
			ctx: WriteContext{
				Data: Data{RaceID: "R1", Date: "2024-03-01", Time: "2pm", Kind: "time"}, Target: TeamTarget("T1"), HasTarget: true,
				RaceExists: true, TargetExists: true,
			},
			wantField:  "time",
			wantReason: `time "2pm" is not HH:MM`,
		},
		{
			name: "blank kind",
			ctx: WriteContext{
				Data: Data{RaceID: "R1", Date: "2024-03-01"}, Target: TeamTarget("T1"), HasTarget: true,
				RaceExists: true, TargetExists: true,
			},
			wantField:  "kind",
			wantReason: "kind is required",
		},
		{
			name: "target required on create",
			ctx: WriteContext{
				Data: validData(), HasTarget: true, RaceExists: true,
			},
			wantField:  "target",
			wantReason: "a competitor or team target is required",
		},
		{
			name: "unknown team target",
			ctx: WriteContext{
				Data: validData(), Target: TeamTarget("T9"), HasTarget: true,
				RaceExists: true, TargetExists: false,
			},
			wantField:  "target",
			wantReason: "team T9 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanWrite(tt.ctx)

			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed {
				if result.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", result.Field, tt.wantField)
				}
				if result.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
				}
				if result.Error() == nil {
					t.Error("Error() should be non-nil when not allowed")
				}
			}
		})
	}
}

func TestTarget(t *testing.T) {
	if !(Target{}).IsZero() {
		t.Error("zero Target should be IsZero")
	}
	if !CompetitorTarget("").IsZero() {
		t.Error("target without id should be IsZero")
	}
	if got := TeamTarget("T1").String(); got != "team:T1" {
		t.Errorf("String() = %q, want team:T1", got)
	}
	if CompetitorTarget("C1").Kind() != TargetCompetitor {
		t.Error("expected competitor kind")
	}
}

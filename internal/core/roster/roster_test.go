package roster

import (
	"math"
	"testing"
	"time"
)

func TestDecideRemoval(t *testing.T) {
	tests := []struct {
		name string
		ctx  RemovalContext
		want Removal
	}{
		{name: "unreferenced", ctx: RemovalContext{}, want: RemovalHard},
		{name: "has results", ctx: RemovalContext{Participations: 2}, want: RemovalSoft},
		{name: "has penalties", ctx: RemovalContext{PenaltyLinks: 1}, want: RemovalSoft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideRemoval(tt.ctx); got != tt.want {
				t.Errorf("DecideRemoval() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCanRecordResult(t *testing.T) {
	valid := ResultContext{
		CompetitorID: "C1", RaceID: "R1", TeamID: "T1", Points: 25,
		CompetitorExists: true, CompetitorActive: true, RaceExists: true, TeamExists: true, TeamActive: true,
	}

	tests := []struct {
		name      string
		mutate    func(*ResultContext)
		wantField string
	}{
		{name: "valid", mutate: func(*ResultContext) {}},
		{name: "unknown competitor", mutate: func(c *ResultContext) { c.CompetitorExists = false }, wantField: "competitor_id"},
		{name: "inactive competitor", mutate: func(c *ResultContext) { c.CompetitorActive = false }, wantField: "competitor_id"},
		{name: "unknown race", mutate: func(c *ResultContext) { c.RaceExists = false }, wantField: "race_id"},
		{name: "unknown team", mutate: func(c *ResultContext) { c.TeamExists = false }, wantField: "team_id"},
		{name: "inactive team", mutate: func(c *ResultContext) { c.TeamActive = false }, wantField: "team_id"},
		{name: "negative points", mutate: func(c *ResultContext) { c.Points = -1 }, wantField: "points"},
		{name: "NaN points", mutate: func(c *ResultContext) { c.Points = math.NaN() }, wantField: "points"},
		{name: "positive infinity", mutate: func(c *ResultContext) { c.Points = math.Inf(1) }, wantField: "points"},
		{name: "negative infinity", mutate: func(c *ResultContext) { c.Points = math.Inf(-1) }, wantField: "points"},
		{name: "fractional points", mutate: func(c *ResultContext) { c.Points = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := valid
			tt.mutate(&ctx)
			result := CanRecordResult(ctx)
			if tt.wantField == "" {
				if !result.Allowed {
					t.Errorf("expected allowed, got %q", result.Reason)
				}
				return
			}
			if result.Allowed {
				t.Fatal("expected denial")
			}
			if result.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", result.Field, tt.wantField)
			}
		})
	}
}

func TestCanAdd(t *testing.T) {
	if r := CanAddCategory("  "); r.Allowed || r.Field != "name" {
		t.Errorf("blank category name should be rejected, got %+v", r)
	}
	if r := CanAddCompetitor("", ""); r.Allowed || r.Field != "name" {
		t.Errorf("blank competitor name should be rejected, got %+v", r)
	}
	if r := CanAddCompetitor("Alice", "03/02/1999"); r.Allowed || r.Field != "birth_date" {
		t.Errorf("malformed birth date should be rejected, got %+v", r)
	}
	if r := CanAddTeam("Scuderia", "red"); r.Allowed || r.Field != "color" {
		t.Errorf("malformed color should be rejected, got %+v", r)
	}
	if r := CanAddTeam("Scuderia", "#DC0000"); !r.Allowed {
		t.Errorf("valid team rejected: %s", r.Reason)
	}
	if r := CanAddRace(RaceContext{Name: "Opener", Date: "2024-03-01", CategoryID: "X"}); r.Allowed || r.Field != "category_id" {
		t.Errorf("race in unknown category should be rejected, got %+v", r)
	}
}

func TestAge(t *testing.T) {
	today := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		birth string
		want  int
	}{
		{birth: "2000-03-01", want: 24},
		{birth: "2000-03-02", want: 23},
		{birth: "1999-12-31", want: 24},
		{birth: "", want: -1},
		{birth: "not-a-date", want: -1},
		{birth: "2030-01-01", want: -1},
	}

	for _, tt := range tests {
		if got := Age(tt.birth, today); got != tt.want {
			t.Errorf("Age(%q) = %d, want %d", tt.birth, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	r, g, b, ok := ParseColor("#dc0000")
	if !ok || r != 0xdc || g != 0 || b != 0 {
		t.Errorf("ParseColor(#dc0000) = %d,%d,%d,%v", r, g, b, ok)
	}
	for _, bad := range []string{"", "dc0000", "#dc00", "#gg0000"} {
		if _, _, _, ok := ParseColor(bad); ok {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}

package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/ports/primary"
)

func TestRoster_BuildAndScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	categoryID, err := env.roster.AddCategory(ctx, "Formula Regional")
	require.NoError(t, err)
	raceID, err := env.roster.AddRace(ctx, primary.AddRaceRequest{Name: "Monza", Place: "Italy", Date: "2024-03-01", CategoryID: categoryID})
	require.NoError(t, err)
	competitorID, err := env.roster.AddCompetitor(ctx, primary.AddCompetitorRequest{Name: "Alice", Nationality: "IT", BirthDate: "2001-05-04"})
	require.NoError(t, err)
	teamID, err := env.roster.AddTeam(ctx, primary.AddTeamRequest{Name: "Scuderia", Color: "#DC0000"})
	require.NoError(t, err)

	points := 25.0
	first, err := env.roster.RecordResult(ctx, primary.RecordResultRequest{CompetitorID: competitorID, RaceID: raceID, TeamID: teamID, Points: &points})
	require.NoError(t, err)

	// Recording again updates the same participation.
	points = 18
	second, err := env.roster.RecordResult(ctx, primary.RecordResultRequest{CompetitorID: competitorID, RaceID: raceID, TeamID: teamID, Points: &points})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, env.count(t, `SELECT COUNT(*) FROM participations`))

	got, err := env.standings.ComputeStandings(ctx, categoryID)
	require.NoError(t, err)
	require.Len(t, got.Competitors, 1)
	require.InDelta(t, 18, got.Competitors[0].Points, 1e-9)
	require.Equal(t, "#dc0000", got.Competitors[0].TeamColor)

	require.NoError(t, env.roster.RetractResult(ctx, competitorID, raceID))
	err = env.roster.RetractResult(ctx, competitorID, raceID)
	require.True(t, errors.Is(err, apperrors.ErrNotFound), "got %v", err)
}

func TestRoster_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedGrid(t, env)

	_, err := env.roster.AddCategory(ctx, " ")
	require.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.roster.AddRace(ctx, primary.AddRaceRequest{Name: "Spa", Date: "2024-07-28", CategoryID: "CAT-404"})
	require.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.roster.AddTeam(ctx, primary.AddTeamRequest{Name: "Blue", Color: "blue"})
	require.True(t, errors.Is(err, apperrors.ErrValidation))

	negative := -1.0
	_, err = env.roster.RecordResult(ctx, primary.RecordResultRequest{CompetitorID: "C1", RaceID: "R2", TeamID: "T1", Points: &negative})
	require.True(t, errors.Is(err, apperrors.ErrValidation))

	infinite := math.Inf(1)
	_, err = env.roster.RecordResult(ctx, primary.RecordResultRequest{CompetitorID: "C1", RaceID: "R2", TeamID: "T1", Points: &infinite})
	require.True(t, errors.Is(err, apperrors.ErrValidation), "got %v", err)

	_, err = env.roster.AddCategory(ctx, "GT")
	require.True(t, errors.Is(err, apperrors.ErrConflict), "duplicate category name, got %v", err)
}

func TestRoster_Removal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedGrid(t, env)
	env.seedCompetitor(t, "C3", "Carla")

	removal, err := env.roster.RemoveCompetitor(ctx, "C1")
	require.NoError(t, err)
	require.Equal(t, "soft", removal)
	require.Equal(t, 0, env.count(t, `SELECT COUNT(*) FROM competitors WHERE id = 'C1' AND active`))
	require.Equal(t, 1, env.count(t, `SELECT COUNT(*) FROM competitors WHERE id = 'C1'`))

	removal, err = env.roster.RemoveCompetitor(ctx, "C3")
	require.NoError(t, err)
	require.Equal(t, "hard", removal)
	require.Zero(t, env.count(t, `SELECT COUNT(*) FROM competitors WHERE id = 'C3'`))

	// T3 has no results but a direct penalty.
	env.seedPenalty(t, "PEN-1", "R1", "2024-03-01", "unsafe release")
	env.linkTeam(t, "L1", "PEN-1", "T3")
	removal, err = env.roster.RemoveTeam(ctx, "T3")
	require.NoError(t, err)
	require.Equal(t, "soft", removal)

	_, err = env.roster.RemoveTeam(ctx, "T-404")
	require.True(t, errors.Is(err, apperrors.ErrNotFound))

	// Inactive competitors cannot score.
	points := 1.0
	_, err = env.roster.RecordResult(ctx, primary.RecordResultRequest{CompetitorID: "C1", RaceID: "R2", TeamID: "T1", Points: &points})
	require.True(t, errors.Is(err, apperrors.ErrValidation))
}

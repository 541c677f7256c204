package persistence

import (
	"context"
	"fmt"

	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/ports/secondary"
)

// RelationReader implements secondary.LeagueReader over a RelationStore.
type RelationReader struct {
	store secondary.RelationStore
}

// NewRelationReader creates a new RelationReader.
func NewRelationReader(store secondary.RelationStore) *RelationReader {
	return &RelationReader{store: store}
}

// ReaderFor returns a LeagueReader over store.
func ReaderFor(store secondary.RelationStore) secondary.LeagueReader {
	return NewRelationReader(store)
}

func (r *RelationReader) read(ctx context.Context, relation string, filters ...secondary.Filter) ([]secondary.Row, error) {
	rows, err := r.store.Read(ctx, relation, filters, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", relation, err)
	}
	return rows, nil
}

// CategoryByID retrieves a category by its ID.
func (r *RelationReader) CategoryByID(ctx context.Context, id string) (*secondary.CategoryRecord, error) {
	rows, err := r.read(ctx, secondary.RelationCategories, secondary.Eq("id", id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NotFound("category", id)
	}
	return toCategory(rows[0]), nil
}

// AllCategories lists categories by name.
func (r *RelationReader) AllCategories(ctx context.Context) ([]*secondary.CategoryRecord, error) {
	rows, err := r.read(ctx, secondary.RelationCategories)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toCategory), nil
}

// RacesInCategory lists a category's races by (date, id).
func (r *RelationReader) RacesInCategory(ctx context.Context, categoryID string) ([]*secondary.RaceRecord, error) {
	rows, err := r.read(ctx, secondary.RelationRaces, secondary.Eq("category_id", categoryID))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toRace), nil
}

// RacesByIDs retrieves races by id.
func (r *RelationReader) RacesByIDs(ctx context.Context, ids []string) ([]*secondary.RaceRecord, error) {
	rows, err := r.read(ctx, secondary.RelationRaces, secondary.InStrings("id", ids))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toRace), nil
}

// ParticipationsInRaces lists the participations of every race in raceIDs.
func (r *RelationReader) ParticipationsInRaces(ctx context.Context, raceIDs []string) ([]*secondary.ParticipationRecord, error) {
	rows, err := r.read(ctx, secondary.RelationParticipations, secondary.InStrings("race_id", raceIDs))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toParticipation), nil
}

// ParticipationsFor lists participations in competitorIDs × raceIDs.
func (r *RelationReader) ParticipationsFor(ctx context.Context, competitorIDs, raceIDs []string) ([]*secondary.ParticipationRecord, error) {
	rows, err := r.read(ctx, secondary.RelationParticipations,
		secondary.InStrings("competitor_id", competitorIDs),
		secondary.InStrings("race_id", raceIDs))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toParticipation), nil
}

// ParticipationsOfCompetitor lists every participation of a competitor.
func (r *RelationReader) ParticipationsOfCompetitor(ctx context.Context, competitorID string) ([]*secondary.ParticipationRecord, error) {
	rows, err := r.read(ctx, secondary.RelationParticipations, secondary.Eq("competitor_id", competitorID))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toParticipation), nil
}

// ParticipationsOfTeam lists every participation under a team.
func (r *RelationReader) ParticipationsOfTeam(ctx context.Context, teamID string) ([]*secondary.ParticipationRecord, error) {
	rows, err := r.read(ctx, secondary.RelationParticipations, secondary.Eq("team_id", teamID))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toParticipation), nil
}

// AllTeams lists every team, active or not.
func (r *RelationReader) AllTeams(ctx context.Context) ([]*secondary.TeamRecord, error) {
	rows, err := r.read(ctx, secondary.RelationTeams)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toTeam), nil
}

// TeamsByIDs retrieves teams by id.
func (r *RelationReader) TeamsByIDs(ctx context.Context, ids []string) ([]*secondary.TeamRecord, error) {
	rows, err := r.read(ctx, secondary.RelationTeams, secondary.InStrings("id", ids))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toTeam), nil
}

// CompetitorsByIDs retrieves competitors by id.
func (r *RelationReader) CompetitorsByIDs(ctx context.Context, ids []string) ([]*secondary.CompetitorRecord, error) {
	rows, err := r.read(ctx, secondary.RelationCompetitors, secondary.InStrings("id", ids))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toCompetitor), nil
}

// AllPenalties lists penalties by (date, time, id).
func (r *RelationReader) AllPenalties(ctx context.Context) ([]*secondary.PenaltyRecord, error) {
	rows, err := r.read(ctx, secondary.RelationPenalties)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toPenalty), nil
}

// PenaltiesByIDs retrieves penalties by id.
func (r *RelationReader) PenaltiesByIDs(ctx context.Context, ids []string) ([]*secondary.PenaltyRecord, error) {
	rows, err := r.read(ctx, secondary.RelationPenalties, secondary.InStrings("id", ids))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toPenalty), nil
}

// PenaltiesInRaces lists the penalties of every race in raceIDs.
func (r *RelationReader) PenaltiesInRaces(ctx context.Context, raceIDs []string) ([]*secondary.PenaltyRecord, error) {
	rows, err := r.read(ctx, secondary.RelationPenalties, secondary.InStrings("race_id", raceIDs))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toPenalty), nil
}

// AllCompetitorTargets lists every competitor-target link.
func (r *RelationReader) AllCompetitorTargets(ctx context.Context) ([]*secondary.CompetitorTargetRecord, error) {
	rows, err := r.read(ctx, secondary.RelationPenaltyCompetitorTargets)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toCompetitorTarget), nil
}

// AllTeamTargets lists every team-target link.
func (r *RelationReader) AllTeamTargets(ctx context.Context) ([]*secondary.TeamTargetRecord, error) {
	rows, err := r.read(ctx, secondary.RelationPenaltyTeamTargets)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toTeamTarget), nil
}

// TeamTargetsOfTeam lists the team-target links pointing at a team.
func (r *RelationReader) TeamTargetsOfTeam(ctx context.Context, teamID string) ([]*secondary.TeamTargetRecord, error) {
	rows, err := r.read(ctx, secondary.RelationPenaltyTeamTargets, secondary.Eq("team_id", teamID))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toTeamTarget), nil
}

// CompetitorTargetsOfCompetitor lists the competitor links naming competitorID.
func (r *RelationReader) CompetitorTargetsOfCompetitor(ctx context.Context, competitorID string) ([]*secondary.CompetitorTargetRecord, error) {
	rows, err := r.read(ctx, secondary.RelationPenaltyCompetitorTargets, secondary.Eq("competitor_id", competitorID))
	if err != nil {
		return nil, err
	}
	return mapRows(rows, toCompetitorTarget), nil
}

// TargetLinksForPenalty returns both link relations for one penalty.
func (r *RelationReader) TargetLinksForPenalty(ctx context.Context, penaltyID string) (secondary.PenaltyLinks, error) {
	competitorRows, err := r.read(ctx, secondary.RelationPenaltyCompetitorTargets, secondary.Eq("penalty_id", penaltyID))
	if err != nil {
		return secondary.PenaltyLinks{}, err
	}
	teamRows, err := r.read(ctx, secondary.RelationPenaltyTeamTargets, secondary.Eq("penalty_id", penaltyID))
	if err != nil {
		return secondary.PenaltyLinks{}, err
	}
	return secondary.PenaltyLinks{
		Competitor: mapRows(competitorRows, toCompetitorTarget),
		Team:       mapRows(teamRows, toTeamTarget),
	}, nil
}

// Ensure RelationReader implements the interface
var _ secondary.LeagueReader = (*RelationReader)(nil)

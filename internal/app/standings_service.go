package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/paddock/internal/core/roster"
	"github.com/example/paddock/internal/core/standings"
	"github.com/example/paddock/internal/ctxutil"
	"github.com/example/paddock/internal/ports/primary"
	"github.com/example/paddock/internal/ports/secondary"
)

// StandingsServiceImpl implements the StandingsService interface.
type StandingsServiceImpl struct {
	reader  secondary.LeagueReader
	metrics secondary.MetricsRecorder
	log     *zap.SugaredLogger
	now     func() time.Time
}

// NewStandingsService creates a new StandingsService with injected dependencies.
func NewStandingsService(reader secondary.LeagueReader, metrics secondary.MetricsRecorder, log *zap.SugaredLogger) *StandingsServiceImpl {
	return &StandingsServiceImpl{
		reader:  reader,
		metrics: metrics,
		log:     log.Named("app.standings"),
		now:     time.Now,
	}
}

// ComputeStandings computes competitor and team totals for a category.
// An unknown category has no races and yields empty totals.
func (s *StandingsServiceImpl) ComputeStandings(ctx context.Context, categoryID string) (*primary.Standings, error) {
	start := time.Now()
	result, err := s.compute(ctx, categoryID)
	elapsed := time.Since(start)
	s.metrics.Aggregation("standings", elapsed, err)

	if err != nil {
		return nil, err
	}
	s.log.Debugw("standings computed",
		"category_id", categoryID,
		"competitors", len(result.Competitors),
		"teams", len(result.Teams),
		"duration_ms", elapsed.Milliseconds(),
		"request_id", ctxutil.RequestID(ctx),
	)
	return result, nil
}

func (s *StandingsServiceImpl) compute(ctx context.Context, categoryID string) (*primary.Standings, error) {
	out := &primary.Standings{
		CategoryID:  categoryID,
		Competitors: []primary.CompetitorTotal{},
		Teams:       []primary.TeamTotal{},
	}

	category, err := s.reader.CategoryByID(ctx, categoryID)
	switch {
	case err == nil:
		out.CategoryName = category.Name
	case isNotFound(err):
	default:
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	raceRecords, err := s.reader.RacesInCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load races: %w", err)
	}
	if len(raceRecords) == 0 {
		return out, nil
	}

	races := make([]standings.Race, len(raceRecords))
	raceIDs := make([]string, len(raceRecords))
	for i, r := range raceRecords {
		races[i] = standings.Race{ID: r.ID, Date: r.Date}
		raceIDs[i] = r.ID
	}

	participations, err := s.reader.ParticipationsInRaces(ctx, raceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load participations: %w", err)
	}

	entries := make([]standings.Entry, len(participations))
	for i, p := range participations {
		entries[i] = standings.Entry{
			ID:           p.ID,
			CompetitorID: p.CompetitorID,
			RaceID:       p.RaceID,
			TeamID:       p.TeamID,
			Points:       p.Points,
		}
	}
	result := standings.Compute(races, entries)

	competitors, teams, err := s.displayData(ctx, result)
	if err != nil {
		return nil, err
	}

	today := s.now()
	for _, c := range result.Competitors {
		row := primary.CompetitorTotal{
			Position:     c.Position,
			CompetitorID: c.CompetitorID,
			TeamID:       c.TeamID,
			Races:        c.Races,
			Points:       c.Points,
		}
		if rec, ok := competitors[c.CompetitorID]; ok {
			row.Name = rec.Name
			row.Nationality = rec.Nationality
			row.PhotoRef = rec.PhotoRef
			if age := roster.Age(rec.BirthDate, today); age >= 0 {
				row.Age = age
			}
		}
		if team, ok := teams[c.TeamID]; ok {
			row.TeamName = team.Name
			row.TeamColor = team.Color
		}
		out.Competitors = append(out.Competitors, row)
	}

	for _, t := range result.Teams {
		row := primary.TeamTotal{
			Position: t.Position,
			TeamID:   t.TeamID,
			Points:   t.Points,
		}
		if team, ok := teams[t.TeamID]; ok {
			row.Name = team.Name
			row.Color = team.Color
			row.LogoRef = team.LogoRef
		}
		out.Teams = append(out.Teams, row)
	}

	return out, nil
}

// displayData loads the competitor and team rows named by result. Ids missing
// from the relations are simply absent from the maps.
func (s *StandingsServiceImpl) displayData(ctx context.Context, result standings.Result) (map[string]*secondary.CompetitorRecord, map[string]*secondary.TeamRecord, error) {
	competitorIDs := make([]string, 0, len(result.Competitors))
	for _, c := range result.Competitors {
		competitorIDs = append(competitorIDs, c.CompetitorID)
	}
	teamIDs := make([]string, 0, len(result.Teams))
	for _, t := range result.Teams {
		teamIDs = append(teamIDs, t.TeamID)
	}

	competitorRecords, err := s.reader.CompetitorsByIDs(ctx, competitorIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load competitors: %w", err)
	}
	teamRecords, err := s.reader.TeamsByIDs(ctx, teamIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load teams: %w", err)
	}

	competitors := make(map[string]*secondary.CompetitorRecord, len(competitorRecords))
	for _, c := range competitorRecords {
		competitors[c.ID] = c
	}
	teams := make(map[string]*secondary.TeamRecord, len(teamRecords))
	for _, t := range teamRecords {
		teams[t.ID] = t
	}
	return competitors, teams, nil
}

// Ensure StandingsServiceImpl implements the interface
var _ primary.StandingsService = (*StandingsServiceImpl)(nil)

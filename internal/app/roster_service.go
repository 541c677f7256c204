package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/core/effects"
	"github.com/example/paddock/internal/core/roster"
	"github.com/example/paddock/internal/ports/primary"
	"github.com/example/paddock/internal/ports/secondary"
)

// RosterServiceImpl implements the RosterService interface.
type RosterServiceImpl struct {
	reader   secondary.LeagueReader
	executor EffectExecutor
	log      *zap.SugaredLogger
	newID    func() string
}

// NewRosterService creates a new RosterService with injected dependencies.
func NewRosterService(reader secondary.LeagueReader, executor EffectExecutor, log *zap.SugaredLogger) *RosterServiceImpl {
	return &RosterServiceImpl{
		reader:   reader,
		executor: executor,
		log:      log.Named("app.roster"),
		newID:    func() string { return uuid.NewString() },
	}
}

// AddCategory creates a category.
func (s *RosterServiceImpl) AddCategory(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if result := roster.CanAddCategory(name); !result.Allowed {
		return "", apperrors.Invalid(result.Field, result.Reason)
	}

	id := s.newID()
	if err := s.executor.Execute(ctx, []effects.Effect{
		effects.Insert(secondary.RelationCategories, secondary.Row{"id": id, "name": name}),
	}); err != nil {
		return "", fmt.Errorf("failed to add category: %w", err)
	}
	s.log.Infow("category added", "category_id", id, "name", name)
	return id, nil
}

// AddRace creates a race in an existing category.
func (s *RosterServiceImpl) AddRace(ctx context.Context, req primary.AddRaceRequest) (string, error) {
	guardCtx := roster.RaceContext{
		Name:       strings.TrimSpace(req.Name),
		Date:       strings.TrimSpace(req.Date),
		CategoryID: req.CategoryID,
	}
	if _, err := s.reader.CategoryByID(ctx, req.CategoryID); err == nil {
		guardCtx.CategoryExists = true
	} else if !isNotFound(err) {
		return "", fmt.Errorf("failed to load category: %w", err)
	}
	if result := roster.CanAddRace(guardCtx); !result.Allowed {
		return "", apperrors.Invalid(result.Field, result.Reason)
	}

	id := s.newID()
	if err := s.executor.Execute(ctx, []effects.Effect{
		effects.Insert(secondary.RelationRaces, secondary.Row{
			"id":          id,
			"name":        guardCtx.Name,
			"place":       nullable(req.Place),
			"date":        guardCtx.Date,
			"category_id": req.CategoryID,
		}),
	}); err != nil {
		return "", fmt.Errorf("failed to add race: %w", err)
	}
	s.log.Infow("race added", "race_id", id, "category_id", req.CategoryID, "date", guardCtx.Date)
	return id, nil
}

// AddCompetitor creates an active competitor.
func (s *RosterServiceImpl) AddCompetitor(ctx context.Context, req primary.AddCompetitorRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if result := roster.CanAddCompetitor(name, req.BirthDate); !result.Allowed {
		return "", apperrors.Invalid(result.Field, result.Reason)
	}

	id := s.newID()
	if err := s.executor.Execute(ctx, []effects.Effect{
		effects.Insert(secondary.RelationCompetitors, secondary.Row{
			"id":          id,
			"name":        name,
			"nationality": nullable(req.Nationality),
			"birth_date":  nullable(req.BirthDate),
			"photo_ref":   nullable(req.PhotoRef),
			"active":      true,
		}),
	}); err != nil {
		return "", fmt.Errorf("failed to add competitor: %w", err)
	}
	s.log.Infow("competitor added", "competitor_id", id, "name", name)
	return id, nil
}

// AddTeam creates an active team.
func (s *RosterServiceImpl) AddTeam(ctx context.Context, req primary.AddTeamRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	color := strings.ToLower(strings.TrimSpace(req.Color))
	if result := roster.CanAddTeam(name, color); !result.Allowed {
		return "", apperrors.Invalid(result.Field, result.Reason)
	}

	id := s.newID()
	if err := s.executor.Execute(ctx, []effects.Effect{
		effects.Insert(secondary.RelationTeams, secondary.Row{
			"id":       id,
			"name":     name,
			"color":    nullable(color),
			"logo_ref": nullable(req.LogoRef),
			"active":   true,
		}),
	}); err != nil {
		return "", fmt.Errorf("failed to add team: %w", err)
	}
	s.log.Infow("team added", "team_id", id, "name", name)
	return id, nil
}

// RemoveCompetitor deactivates or deletes a competitor.
func (s *RosterServiceImpl) RemoveCompetitor(ctx context.Context, competitorID string) (string, error) {
	competitors, err := s.reader.CompetitorsByIDs(ctx, []string{competitorID})
	if err != nil {
		return "", fmt.Errorf("failed to load competitor: %w", err)
	}
	if len(competitors) == 0 {
		return "", apperrors.NotFound("competitor", competitorID)
	}

	participations, err := s.reader.ParticipationsOfCompetitor(ctx, competitorID)
	if err != nil {
		return "", fmt.Errorf("failed to load participations: %w", err)
	}
	links, err := s.reader.CompetitorTargetsOfCompetitor(ctx, competitorID)
	if err != nil {
		return "", fmt.Errorf("failed to load penalty targets: %w", err)
	}

	removal := roster.DecideRemoval(roster.RemovalContext{
		Participations: len(participations),
		PenaltyLinks:   len(links),
	})
	if err := s.executor.Execute(ctx, []effects.Effect{
		removalEffect(secondary.RelationCompetitors, competitorID, removal),
	}); err != nil {
		return "", fmt.Errorf("failed to remove competitor: %w", err)
	}
	s.log.Infow("competitor removed", "competitor_id", competitorID, "removal", removal)
	return string(removal), nil
}

// RemoveTeam deactivates or deletes a team.
func (s *RosterServiceImpl) RemoveTeam(ctx context.Context, teamID string) (string, error) {
	teams, err := s.reader.TeamsByIDs(ctx, []string{teamID})
	if err != nil {
		return "", fmt.Errorf("failed to load team: %w", err)
	}
	if len(teams) == 0 {
		return "", apperrors.NotFound("team", teamID)
	}

	participations, err := s.reader.ParticipationsOfTeam(ctx, teamID)
	if err != nil {
		return "", fmt.Errorf("failed to load participations: %w", err)
	}
	links, err := s.reader.TeamTargetsOfTeam(ctx, teamID)
	if err != nil {
		return "", fmt.Errorf("failed to load penalty targets: %w", err)
	}

	removal := roster.DecideRemoval(roster.RemovalContext{
		Participations: len(participations),
		PenaltyLinks:   len(links),
	})
	if err := s.executor.Execute(ctx, []effects.Effect{
		removalEffect(secondary.RelationTeams, teamID, removal),
	}); err != nil {
		return "", fmt.Errorf("failed to remove team: %w", err)
	}
	s.log.Infow("team removed", "team_id", teamID, "removal", removal)
	return string(removal), nil
}

// RecordResult inserts or updates the participation of a competitor in a race.
func (s *RosterServiceImpl) RecordResult(ctx context.Context, req primary.RecordResultRequest) (string, error) {
	guardCtx := roster.ResultContext{
		CompetitorID: req.CompetitorID,
		RaceID:       req.RaceID,
		TeamID:       req.TeamID,
	}
	if req.Points != nil {
		guardCtx.Points = *req.Points
	}

	competitors, err := s.reader.CompetitorsByIDs(ctx, []string{req.CompetitorID})
	if err != nil {
		return "", fmt.Errorf("failed to load competitor: %w", err)
	}
	if len(competitors) > 0 {
		guardCtx.CompetitorExists = true
		guardCtx.CompetitorActive = competitors[0].Active
	}
	races, err := s.reader.RacesByIDs(ctx, []string{req.RaceID})
	if err != nil {
		return "", fmt.Errorf("failed to load race: %w", err)
	}
	guardCtx.RaceExists = len(races) > 0
	teams, err := s.reader.TeamsByIDs(ctx, []string{req.TeamID})
	if err != nil {
		return "", fmt.Errorf("failed to load team: %w", err)
	}
	if len(teams) > 0 {
		guardCtx.TeamExists = true
		guardCtx.TeamActive = teams[0].Active
	}

	if result := roster.CanRecordResult(guardCtx); !result.Allowed {
		return "", apperrors.Invalid(result.Field, result.Reason)
	}

	existing, err := s.reader.ParticipationsFor(ctx, []string{req.CompetitorID}, []string{req.RaceID})
	if err != nil {
		return "", fmt.Errorf("failed to load participation: %w", err)
	}

	var points any
	if req.Points != nil {
		points = *req.Points
	}

	var (
		id  string
		eff effects.PersistEffect
	)
	if len(existing) > 0 {
		id = existing[0].ID
		eff = effects.Update(secondary.RelationParticipations,
			secondary.Row{"team_id": req.TeamID, "points": points},
			secondary.Eq("id", id))
	} else {
		id = s.newID()
		eff = effects.Insert(secondary.RelationParticipations, secondary.Row{
			"id":            id,
			"competitor_id": req.CompetitorID,
			"race_id":       req.RaceID,
			"team_id":       req.TeamID,
			"points":        points,
		})
	}
	if err := s.executor.Execute(ctx, []effects.Effect{eff}); err != nil {
		return "", fmt.Errorf("failed to record result: %w", err)
	}
	s.log.Infow("result recorded",
		"participation_id", id,
		"competitor_id", req.CompetitorID,
		"race_id", req.RaceID,
		"team_id", req.TeamID,
		"updated", len(existing) > 0,
	)
	return id, nil
}

// RetractResult deletes the participation of a competitor in a race.
func (s *RosterServiceImpl) RetractResult(ctx context.Context, competitorID, raceID string) error {
	existing, err := s.reader.ParticipationsFor(ctx, []string{competitorID}, []string{raceID})
	if err != nil {
		return fmt.Errorf("failed to load participation: %w", err)
	}
	if len(existing) == 0 {
		return apperrors.NotFound("participation", competitorID+"@"+raceID)
	}

	if err := s.executor.Execute(ctx, []effects.Effect{
		effects.Delete(secondary.RelationParticipations, secondary.Eq("id", existing[0].ID)),
	}); err != nil {
		return fmt.Errorf("failed to retract result: %w", err)
	}
	s.log.Infow("result retracted", "competitor_id", competitorID, "race_id", raceID)
	return nil
}

func removalEffect(relation, id string, removal roster.Removal) effects.PersistEffect {
	if removal == roster.RemovalSoft {
		return effects.Update(relation, secondary.Row{"active": false}, secondary.Eq("id", id))
	}
	return effects.Delete(relation, secondary.Eq("id", id))
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

func nullable(s string) any {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return s
}

// Ensure RosterServiceImpl implements the interface
var _ primary.RosterService = (*RosterServiceImpl)(nil)

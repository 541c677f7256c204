package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/core/penalty"
	"github.com/example/paddock/internal/ctxutil"
	"github.com/example/paddock/internal/ports/primary"
	"github.com/example/paddock/internal/ports/secondary"
)

// PenaltyServiceImpl implements the PenaltyService interface.
// Writes are planned by core/penalty and executed by the EffectExecutor.
type PenaltyServiceImpl struct {
	reader   secondary.LeagueReader
	executor EffectExecutor
	metrics  secondary.MetricsRecorder
	log      *zap.SugaredLogger
	newID    func() string
}

// NewPenaltyService creates a new PenaltyService with injected dependencies.
func NewPenaltyService(reader secondary.LeagueReader, executor EffectExecutor, metrics secondary.MetricsRecorder, log *zap.SugaredLogger) *PenaltyServiceImpl {
	return &PenaltyServiceImpl{
		reader:   reader,
		executor: executor,
		metrics:  metrics,
		log:      log.Named("app.penalty"),
		newID:    func() string { return uuid.NewString() },
	}
}

// CreatePenalty creates a penalty with exactly one target.
func (s *PenaltyServiceImpl) CreatePenalty(ctx context.Context, req primary.CreatePenaltyRequest) (*primary.CreatePenaltyResponse, error) {
	var penaltyID string
	err := s.record(ctx, "create", func() error {
		target, err := toTarget(req.Target)
		if err != nil {
			return err
		}
		data := toData(req.PenaltyData)

		guardCtx, err := s.writeContext(ctx, data, target, true)
		if err != nil {
			return err
		}
		if result := penalty.CanWrite(guardCtx); !result.Allowed {
			return apperrors.Invalid(result.Field, result.Reason)
		}

		plan := penalty.GenerateCreatePlan(penalty.CreatePlanInput{
			PenaltyID: s.newID(),
			LinkID:    s.newID(),
			Data:      data,
			Target:    target,
		})
		if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
			return fmt.Errorf("failed to create penalty: %w", err)
		}
		penaltyID = plan.PenaltyID
		s.log.Infow("penalty created", "penalty_id", penaltyID, "target", target.String(), "race_id", data.RaceID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &primary.CreatePenaltyResponse{PenaltyID: penaltyID}, nil
}

// UpdatePenalty rewrites a penalty and, optionally, its target.
func (s *PenaltyServiceImpl) UpdatePenalty(ctx context.Context, req primary.UpdatePenaltyRequest) error {
	return s.record(ctx, "update", func() error {
		if err := s.mustExist(ctx, req.PenaltyID); err != nil {
			return err
		}

		var target *penalty.Target
		if req.Target != nil {
			t, err := toTarget(*req.Target)
			if err != nil {
				return err
			}
			target = &t
		}
		data := toData(req.PenaltyData)

		guardTarget := penalty.Target{}
		if target != nil {
			guardTarget = *target
		}
		guardCtx, err := s.writeContext(ctx, data, guardTarget, target != nil)
		if err != nil {
			return err
		}
		if result := penalty.CanWrite(guardCtx); !result.Allowed {
			return apperrors.Invalid(result.Field, result.Reason)
		}

		links, err := s.reader.TargetLinksForPenalty(ctx, req.PenaltyID)
		if err != nil {
			return fmt.Errorf("failed to load penalty targets: %w", err)
		}

		plan := penalty.GenerateUpdatePlan(penalty.UpdatePlanInput{
			PenaltyID:   req.PenaltyID,
			LinkID:      s.newID(),
			Data:        data,
			Target:      target,
			HasTeamLink: len(links.Team) > 0,
		})
		if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
			return fmt.Errorf("failed to update penalty: %w", err)
		}
		s.log.Infow("penalty updated", "penalty_id", req.PenaltyID, "retargeted", target != nil)
		return nil
	})
}

// RemoveTargetFromPenalty deletes both target links of a penalty.
func (s *PenaltyServiceImpl) RemoveTargetFromPenalty(ctx context.Context, penaltyID string) error {
	return s.record(ctx, "remove_target", func() error {
		if err := s.mustExist(ctx, penaltyID); err != nil {
			return err
		}
		plan := penalty.GenerateRemoveTargetPlan(penaltyID)
		if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
			return fmt.Errorf("failed to remove penalty target: %w", err)
		}
		s.log.Infow("penalty target removed", "penalty_id", penaltyID)
		return nil
	})
}

// DeletePenalty deletes a penalty and its links.
func (s *PenaltyServiceImpl) DeletePenalty(ctx context.Context, penaltyID string) error {
	return s.record(ctx, "delete", func() error {
		if err := s.mustExist(ctx, penaltyID); err != nil {
			return err
		}
		plan := penalty.GenerateDeletePlan(penaltyID)
		if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
			return fmt.Errorf("failed to delete penalty: %w", err)
		}
		s.log.Infow("penalty deleted", "penalty_id", penaltyID)
		return nil
	})
}

// GetPenalty retrieves a penalty with its current target. A penalty with
// both links reports the competitor link.
func (s *PenaltyServiceImpl) GetPenalty(ctx context.Context, penaltyID string) (*primary.Penalty, error) {
	records, err := s.reader.PenaltiesByIDs(ctx, []string{penaltyID})
	if err != nil {
		return nil, fmt.Errorf("failed to load penalty: %w", err)
	}
	if len(records) == 0 {
		return nil, apperrors.NotFound("penalty", penaltyID)
	}
	links, err := s.reader.TargetLinksForPenalty(ctx, penaltyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load penalty targets: %w", err)
	}

	rec := records[0]
	out := &primary.Penalty{
		ID: rec.ID,
		PenaltyData: primary.PenaltyData{
			RaceID:      rec.RaceID,
			Date:        rec.Date,
			Time:        rec.Time,
			Kind:        rec.Kind,
			Description: rec.Description,
		},
	}
	switch {
	case len(links.Competitor) > 0:
		out.Target = &primary.Target{Kind: primary.TargetKindCompetitor, ID: links.Competitor[0].CompetitorID}
	case len(links.Team) > 0:
		out.Target = &primary.Target{Kind: primary.TargetKindTeam, ID: links.Team[0].TeamID}
	}
	return out, nil
}

func (s *PenaltyServiceImpl) record(ctx context.Context, op string, fn func() error) error {
	err := fn()
	s.metrics.PenaltyWrite(op, err)
	if err != nil {
		s.log.Debugw("penalty write rejected", "operation", op, "error", err, "request_id", ctxutil.RequestID(ctx))
	}
	return err
}

func (s *PenaltyServiceImpl) mustExist(ctx context.Context, penaltyID string) error {
	records, err := s.reader.PenaltiesByIDs(ctx, []string{penaltyID})
	if err != nil {
		return fmt.Errorf("failed to load penalty: %w", err)
	}
	if len(records) == 0 {
		return apperrors.NotFound("penalty", penaltyID)
	}
	return nil
}

// writeContext fetches the existence facts CanWrite needs.
func (s *PenaltyServiceImpl) writeContext(ctx context.Context, data penalty.Data, target penalty.Target, hasTarget bool) (penalty.WriteContext, error) {
	guardCtx := penalty.WriteContext{Data: data, Target: target, HasTarget: hasTarget}

	if strings.TrimSpace(data.RaceID) != "" {
		races, err := s.reader.RacesByIDs(ctx, []string{data.RaceID})
		if err != nil {
			return guardCtx, fmt.Errorf("failed to load race: %w", err)
		}
		guardCtx.RaceExists = len(races) > 0
	}

	if !hasTarget || target.IsZero() {
		return guardCtx, nil
	}
	switch target.Kind() {
	case penalty.TargetCompetitor:
		competitors, err := s.reader.CompetitorsByIDs(ctx, []string{target.ID()})
		if err != nil {
			return guardCtx, fmt.Errorf("failed to load competitor: %w", err)
		}
		guardCtx.TargetExists = len(competitors) > 0
	case penalty.TargetTeam:
		teams, err := s.reader.TeamsByIDs(ctx, []string{target.ID()})
		if err != nil {
			return guardCtx, fmt.Errorf("failed to load team: %w", err)
		}
		guardCtx.TargetExists = len(teams) > 0
	}
	return guardCtx, nil
}

// toTarget converts the presentation target into the domain variant.
// An empty target converts to the zero Target, which the guard rejects.
func toTarget(t primary.Target) (penalty.Target, error) {
	switch t.Kind {
	case primary.TargetKindCompetitor:
		return penalty.CompetitorTarget(t.ID), nil
	case primary.TargetKindTeam:
		return penalty.TeamTarget(t.ID), nil
	case "":
		return penalty.Target{}, nil
	default:
		return penalty.Target{}, apperrors.Invalid("target", fmt.Sprintf("unknown target kind %q", t.Kind))
	}
}

func toData(d primary.PenaltyData) penalty.Data {
	return penalty.Data{
		RaceID:      strings.TrimSpace(d.RaceID),
		Date:        strings.TrimSpace(d.Date),
		Time:        strings.TrimSpace(d.Time),
		Kind:        strings.TrimSpace(d.Kind),
		Description: d.Description,
	}
}

// Ensure PenaltyServiceImpl implements the interface
var _ primary.PenaltyService = (*PenaltyServiceImpl)(nil)

package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/paddock/internal/core/attribution"
	"github.com/example/paddock/internal/ctxutil"
	"github.com/example/paddock/internal/ports/primary"
	"github.com/example/paddock/internal/ports/secondary"
)

// AttributionServiceImpl implements the AttributionService interface.
type AttributionServiceImpl struct {
	reader  secondary.LeagueReader
	metrics secondary.MetricsRecorder
	log     *zap.SugaredLogger
}

// NewAttributionService creates a new AttributionService with injected dependencies.
func NewAttributionService(reader secondary.LeagueReader, metrics secondary.MetricsRecorder, log *zap.SugaredLogger) *AttributionServiceImpl {
	return &AttributionServiceImpl{
		reader:  reader,
		metrics: metrics,
		log:     log.Named("app.attribution"),
	}
}

// GroupPenaltiesByTeam builds the team-keyed penalty view. Any read failure
// aborts the whole view.
func (s *AttributionServiceImpl) GroupPenaltiesByTeam(ctx context.Context) (*primary.PenaltyGrouping, error) {
	start := time.Now()
	in, teams, err := s.snapshot(ctx)
	if err != nil {
		s.metrics.Aggregation("penalties", time.Since(start), err)
		return nil, err
	}

	grouping := attribution.Group(in)
	s.metrics.Aggregation("penalties", time.Since(start), nil)

	out := &primary.PenaltyGrouping{
		Teams: make([]primary.TeamPenalties, 0, len(grouping.Buckets)),
		Gaps:  make([]primary.AttributionGap, 0, len(grouping.Gaps)),
	}
	for _, b := range grouping.Buckets {
		bucket := primary.TeamPenalties{
			TeamID:    b.TeamID,
			Penalties: make([]primary.AttributedPenalty, 0, len(b.Penalties)),
		}
		if team, ok := teams[b.TeamID]; ok {
			bucket.TeamName = team.Name
			bucket.TeamColor = team.Color
		}
		for _, p := range b.Penalties {
			bucket.Penalties = append(bucket.Penalties, primary.AttributedPenalty{
				PenaltyID:      p.PenaltyID,
				CompetitorName: p.CompetitorName,
				RaceName:       p.RaceName,
				Date:           p.Date,
				Time:           p.Time,
				Kind:           p.Kind,
				Description:    p.Description,
			})
		}
		out.Teams = append(out.Teams, bucket)
	}

	requestID := ctxutil.RequestID(ctx)
	for _, g := range grouping.Gaps {
		s.metrics.AttributionGap(g.Reason)
		s.log.Debugw("penalty not attributed",
			"penalty_id", g.PenaltyID,
			"competitor_id", g.CompetitorID,
			"team_id", g.TeamID,
			"race_id", g.RaceID,
			"reason", g.Reason,
			"request_id", requestID,
		)
		out.Gaps = append(out.Gaps, primary.AttributionGap{
			PenaltyID:    g.PenaltyID,
			CompetitorID: g.CompetitorID,
			TeamID:       g.TeamID,
			RaceID:       g.RaceID,
			Reason:       g.Reason,
		})
	}

	return out, nil
}

// snapshot reads every relation the grouping needs. Independent reads run
// concurrently; each stage waits for the ids the next one filters on.
func (s *AttributionServiceImpl) snapshot(ctx context.Context) (attribution.Input, map[string]*secondary.TeamRecord, error) {
	var (
		teams           []*secondary.TeamRecord
		teamLinks       []*secondary.TeamTargetRecord
		competitorLinks []*secondary.CompetitorTargetRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		teams, err = s.reader.AllTeams(gctx)
		return err
	})
	g.Go(func() (err error) {
		teamLinks, err = s.reader.AllTeamTargets(gctx)
		return err
	})
	g.Go(func() (err error) {
		competitorLinks, err = s.reader.AllCompetitorTargets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return attribution.Input{}, nil, fmt.Errorf("failed to load teams and targets: %w", err)
	}

	penaltyIDs := make([]string, 0, len(teamLinks)+len(competitorLinks))
	competitorIDs := make([]string, 0, len(competitorLinks))
	for _, l := range teamLinks {
		penaltyIDs = append(penaltyIDs, l.PenaltyID)
	}
	for _, l := range competitorLinks {
		penaltyIDs = append(penaltyIDs, l.PenaltyID)
		competitorIDs = append(competitorIDs, l.CompetitorID)
	}

	penalties, err := s.reader.PenaltiesByIDs(ctx, uniq(penaltyIDs))
	if err != nil {
		return attribution.Input{}, nil, fmt.Errorf("failed to load penalties: %w", err)
	}
	raceIDs := make([]string, 0, len(penalties))
	for _, p := range penalties {
		raceIDs = append(raceIDs, p.RaceID)
	}
	raceIDs = uniq(raceIDs)
	competitorIDs = uniq(competitorIDs)

	var (
		races          []*secondary.RaceRecord
		competitors    []*secondary.CompetitorRecord
		participations []*secondary.ParticipationRecord
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		races, err = s.reader.RacesByIDs(gctx, raceIDs)
		return err
	})
	g.Go(func() (err error) {
		competitors, err = s.reader.CompetitorsByIDs(gctx, competitorIDs)
		return err
	})
	g.Go(func() (err error) {
		participations, err = s.reader.ParticipationsFor(gctx, competitorIDs, raceIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return attribution.Input{}, nil, fmt.Errorf("failed to load races and participations: %w", err)
	}

	in := attribution.Input{
		Teams:           make([]attribution.Team, len(teams)),
		Penalties:       make([]attribution.Penalty, len(penalties)),
		Races:           make([]attribution.Race, len(races)),
		Competitors:     make([]attribution.Competitor, len(competitors)),
		Participations:  make([]attribution.Participation, len(participations)),
		TeamLinks:       make([]attribution.TeamLink, len(teamLinks)),
		CompetitorLinks: make([]attribution.CompetitorLink, len(competitorLinks)),
	}
	teamsByID := make(map[string]*secondary.TeamRecord, len(teams))
	for i, t := range teams {
		in.Teams[i] = attribution.Team{ID: t.ID}
		teamsByID[t.ID] = t
	}
	for i, p := range penalties {
		in.Penalties[i] = attribution.Penalty{
			ID:          p.ID,
			RaceID:      p.RaceID,
			Date:        p.Date,
			Time:        p.Time,
			Kind:        p.Kind,
			Description: p.Description,
		}
	}
	for i, r := range races {
		in.Races[i] = attribution.Race{ID: r.ID, Name: r.Name}
	}
	for i, c := range competitors {
		in.Competitors[i] = attribution.Competitor{ID: c.ID, Name: c.Name}
	}
	for i, p := range participations {
		in.Participations[i] = attribution.Participation{
			ID:           p.ID,
			CompetitorID: p.CompetitorID,
			RaceID:       p.RaceID,
			TeamID:       p.TeamID,
		}
	}
	for i, l := range teamLinks {
		in.TeamLinks[i] = attribution.TeamLink{PenaltyID: l.PenaltyID, TeamID: l.TeamID}
	}
	for i, l := range competitorLinks {
		in.CompetitorLinks[i] = attribution.CompetitorLink{PenaltyID: l.PenaltyID, CompetitorID: l.CompetitorID}
	}

	return in, teamsByID, nil
}

// uniq drops repeated ids, keeping first-seen order.
func uniq(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Ensure AttributionServiceImpl implements the interface
var _ primary.AttributionService = (*AttributionServiceImpl)(nil)

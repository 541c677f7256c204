package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/paddock/internal/core/effects"
	"github.com/example/paddock/internal/core/penalty"
	"github.com/example/paddock/internal/ports/primary"
	"github.com/example/paddock/internal/ports/secondary"
)

// ReaderFunc binds a LeagueReader to a store, such as one scoped to a
// transaction.
type ReaderFunc func(store secondary.RelationStore) secondary.LeagueReader

// ReconcileServiceImpl implements the ReconcileService interface.
type ReconcileServiceImpl struct {
	reader    secondary.LeagueReader
	readerFor ReaderFunc
	executor  PlanningExecutor
	log       *zap.SugaredLogger
}

// NewReconcileService creates a new ReconcileService with injected dependencies.
// Apply scans through readerFor so the scan and the repair see the same rows.
func NewReconcileService(reader secondary.LeagueReader, readerFor ReaderFunc, executor PlanningExecutor, log *zap.SugaredLogger) *ReconcileServiceImpl {
	return &ReconcileServiceImpl{
		reader:    reader,
		readerFor: readerFor,
		executor:  executor,
		log:       log.Named("app.reconcile"),
	}
}

// Scan reports inconsistent penalties and links without writing.
func (s *ReconcileServiceImpl) Scan(ctx context.Context) (*primary.ReconcileReport, error) {
	report, err := s.scan(ctx, s.reader, true)
	if err != nil {
		return nil, err
	}
	return toReport(report), nil
}

// Apply repairs what Scan finds, except double-targeted penalties. With an
// atomic executor the scan runs in the same transaction as the deletes.
func (s *ReconcileServiceImpl) Apply(ctx context.Context) (*primary.ReconcileReport, error) {
	var report penalty.Report
	err := s.executor.ExecutePlanned(ctx, func(ctx context.Context, store secondary.RelationStore) ([]effects.Effect, error) {
		var err error
		// A transaction owns a single connection, so reads stay sequential.
		report, err = s.scan(ctx, s.readerFor(store), false)
		if err != nil {
			return nil, err
		}
		return penalty.GenerateReconcilePlan(report).Effects(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply reconciliation: %w", err)
	}
	if report.Clean() {
		return toReport(report), nil
	}

	s.log.Infow("reconciliation applied",
		"untargeted_deleted", len(report.Untargeted),
		"dangling_competitor_links_deleted", len(report.DanglingCompetitorLinks),
		"dangling_team_links_deleted", len(report.DanglingTeamLinks),
		"double_targeted", len(report.DoubleTargeted),
	)
	return toReport(report), nil
}

func (s *ReconcileServiceImpl) scan(ctx context.Context, reader secondary.LeagueReader, parallel bool) (penalty.Report, error) {
	var (
		penalties       []*secondary.PenaltyRecord
		teams           []*secondary.TeamRecord
		competitorLinks []*secondary.CompetitorTargetRecord
		teamLinks       []*secondary.TeamTargetRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	if !parallel {
		g.SetLimit(1)
	}
	g.Go(func() (err error) {
		penalties, err = reader.AllPenalties(gctx)
		return err
	})
	g.Go(func() (err error) {
		teams, err = reader.AllTeams(gctx)
		return err
	})
	g.Go(func() (err error) {
		competitorLinks, err = reader.AllCompetitorTargets(gctx)
		return err
	})
	g.Go(func() (err error) {
		teamLinks, err = reader.AllTeamTargets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return penalty.Report{}, fmt.Errorf("failed to load penalties and targets: %w", err)
	}

	linked := make([]string, 0, len(competitorLinks))
	for _, l := range competitorLinks {
		linked = append(linked, l.CompetitorID)
	}
	competitors, err := reader.CompetitorsByIDs(ctx, uniq(linked))
	if err != nil {
		return penalty.Report{}, fmt.Errorf("failed to load competitors: %w", err)
	}

	in := penalty.ReconcileInput{
		PenaltyIDs:      make([]string, len(penalties)),
		CompetitorIDs:   make([]string, len(competitors)),
		TeamIDs:         make([]string, len(teams)),
		CompetitorLinks: make([]penalty.Link, len(competitorLinks)),
		TeamLinks:       make([]penalty.Link, len(teamLinks)),
	}
	for i, p := range penalties {
		in.PenaltyIDs[i] = p.ID
	}
	for i, c := range competitors {
		in.CompetitorIDs[i] = c.ID
	}
	for i, t := range teams {
		in.TeamIDs[i] = t.ID
	}
	for i, l := range competitorLinks {
		in.CompetitorLinks[i] = penalty.Link{ID: l.ID, PenaltyID: l.PenaltyID, TargetID: l.CompetitorID}
	}
	for i, l := range teamLinks {
		in.TeamLinks[i] = penalty.Link{ID: l.ID, PenaltyID: l.PenaltyID, TargetID: l.TeamID}
	}

	return penalty.Scan(in), nil
}

func toReport(r penalty.Report) *primary.ReconcileReport {
	return &primary.ReconcileReport{
		Untargeted:              r.Untargeted,
		DoubleTargeted:          r.DoubleTargeted,
		DanglingCompetitorLinks: r.DanglingCompetitorLinks,
		DanglingTeamLinks:       r.DanglingTeamLinks,
	}
}

// Ensure ReconcileServiceImpl implements the interface
var _ primary.ReconcileService = (*ReconcileServiceImpl)(nil)

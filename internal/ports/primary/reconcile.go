package primary

import "context"

// ReconcileService defines the primary port for penalty link consistency checks.
type ReconcileService interface {
	// Scan reports penalties and links that break the one-target rule.
	Scan(ctx context.Context) (*ReconcileReport, error)

	// Apply deletes dangling links and untargeted penalties and returns the
	// report it acted on. Double-targeted penalties are only reported.
	Apply(ctx context.Context) (*ReconcileReport, error)
}

// ReconcileReport lists inconsistent penalties and links by id.
type ReconcileReport struct {
	Untargeted              []string `json:"untargeted"`
	DoubleTargeted          []string `json:"double_targeted"`
	DanglingCompetitorLinks []string `json:"dangling_competitor_links"`
	DanglingTeamLinks       []string `json:"dangling_team_links"`
}

// Clean reports whether the report found nothing.
func (r *ReconcileReport) Clean() bool {
	return len(r.Untargeted) == 0 && len(r.DoubleTargeted) == 0 &&
		len(r.DanglingCompetitorLinks) == 0 && len(r.DanglingTeamLinks) == 0
}

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/paddock/internal/ports/primary"
)

// ReconcileAdapter renders reconciliation reports.
type ReconcileAdapter struct {
	service primary.ReconcileService
	out     io.Writer
}

// NewReconcileAdapter creates a new ReconcileAdapter.
func NewReconcileAdapter(service primary.ReconcileService, out io.Writer) *ReconcileAdapter {
	return &ReconcileAdapter{service: service, out: out}
}

// Run scans, or scans and repairs when apply is set.
func (a *ReconcileAdapter) Run(ctx context.Context, apply, asJSON bool) (*primary.ReconcileReport, error) {
	run := a.service.Scan
	if apply {
		run = a.service.Apply
	}
	report, err := run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile penalties: %w", err)
	}
	if asJSON {
		return report, writeJSON(a.out, report)
	}

	if report.Clean() {
		fmt.Fprintf(a.out, "%s Every penalty has exactly one target\n", okMark)
		return report, nil
	}

	verb := "found"
	if apply {
		verb = "removed"
	}
	section(a.out, "Untargeted penalties "+verb, report.Untargeted)
	section(a.out, "Dangling competitor links "+verb, report.DanglingCompetitorLinks)
	section(a.out, "Dangling team links "+verb, report.DanglingTeamLinks)
	section(a.out, "Double-targeted penalties (fix by hand)", report.DoubleTargeted)

	if !apply && (len(report.Untargeted) > 0 || len(report.DanglingCompetitorLinks) > 0 || len(report.DanglingTeamLinks) > 0) {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Run `paddock reconcile --apply` to clean up.")
	}
	return report, nil
}

func section(out io.Writer, title string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(out, "%s (%d):\n", warnColor.Sprint(title), len(ids))
	fmt.Fprintf(out, "  %s\n", strings.Join(ids, ", "))
}

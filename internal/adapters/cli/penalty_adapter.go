package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/paddock/internal/ports/primary"
)

// PenaltyAdapter translates penalty commands to PenaltyService and
// AttributionService calls.
type PenaltyAdapter struct {
	penalties   primary.PenaltyService
	attribution primary.AttributionService
	out         io.Writer
}

// NewPenaltyAdapter creates a new PenaltyAdapter.
func NewPenaltyAdapter(penalties primary.PenaltyService, attribution primary.AttributionService, out io.Writer) *PenaltyAdapter {
	return &PenaltyAdapter{
		penalties:   penalties,
		attribution: attribution,
		out:         out,
	}
}

// Create creates a penalty and prints its id.
func (a *PenaltyAdapter) Create(ctx context.Context, req primary.CreatePenaltyRequest) (string, error) {
	resp, err := a.penalties.CreatePenalty(ctx, req)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(a.out, "%s Created penalty %s (%s %s)\n", okMark, resp.PenaltyID, req.Target.Kind, req.Target.ID)
	return resp.PenaltyID, nil
}

// Update rewrites a penalty.
func (a *PenaltyAdapter) Update(ctx context.Context, req primary.UpdatePenaltyRequest) error {
	if err := a.penalties.UpdatePenalty(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Updated penalty %s\n", okMark, req.PenaltyID)
	if req.Target == nil {
		fmt.Fprintln(a.out, warnColor.Sprint("  competitor link removed; run `paddock reconcile` to find untargeted penalties"))
	}
	return nil
}

// Untarget removes both links of a penalty.
func (a *PenaltyAdapter) Untarget(ctx context.Context, penaltyID string) error {
	if err := a.penalties.RemoveTargetFromPenalty(ctx, penaltyID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Removed target from penalty %s\n", okMark, penaltyID)
	return nil
}

// Delete deletes a penalty and its links.
func (a *PenaltyAdapter) Delete(ctx context.Context, penaltyID string) error {
	if err := a.penalties.DeletePenalty(ctx, penaltyID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Deleted penalty %s\n", okMark, penaltyID)
	return nil
}

// Show displays one penalty.
func (a *PenaltyAdapter) Show(ctx context.Context, penaltyID string, asJSON bool) (*primary.Penalty, error) {
	p, err := a.penalties.GetPenalty(ctx, penaltyID)
	if err != nil {
		return nil, err
	}
	if asJSON {
		return p, writeJSON(a.out, p)
	}

	target := warnColor.Sprint("(none)")
	if p.Target != nil {
		target = fmt.Sprintf("%s %s", p.Target.Kind, p.Target.ID)
	}
	fmt.Fprintf(a.out, "\nPenalty: %s\n", p.ID)
	fmt.Fprintf(a.out, "Race:        %s\n", p.RaceID)
	fmt.Fprintf(a.out, "Date:        %s %s\n", p.Date, p.Time)
	fmt.Fprintf(a.out, "Kind:        %s\n", p.Kind)
	fmt.Fprintf(a.out, "Description: %s\n", orDash(p.Description))
	fmt.Fprintf(a.out, "Target:      %s\n", target)
	fmt.Fprintln(a.out)
	return p, nil
}

// List prints the team-grouped penalty view. Gaps are printed when showGaps
// is set.
func (a *PenaltyAdapter) List(ctx context.Context, showGaps, asJSON bool) (*primary.PenaltyGrouping, error) {
	res, err := a.attribution.GroupPenaltiesByTeam(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group penalties: %w", err)
	}
	if !showGaps {
		res.Gaps = nil
	}
	if asJSON {
		return res, writeJSON(a.out, res)
	}

	if len(res.Teams) == 0 {
		fmt.Fprintln(a.out, "No teams found.")
		return res, nil
	}

	for _, team := range res.Teams {
		fmt.Fprintf(a.out, "\n%s %s (%d)\n", swatch(team.TeamColor), team.TeamName, len(team.Penalties))
		if len(team.Penalties) == 0 {
			fmt.Fprintln(a.out, dimColor.Sprint("  no penalties"))
			continue
		}
		w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "  ID\tCOMPETITOR\tRACE\tDATE\tTIME\tKIND\tDESCRIPTION")
		for _, p := range team.Penalties {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				p.PenaltyID,
				p.CompetitorName,
				orDash(p.RaceName),
				p.Date,
				orDash(p.Time),
				p.Kind,
				orDash(p.Description),
			)
		}
		w.Flush()
	}

	if showGaps && len(res.Gaps) > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, warnColor.Sprintf("%d penalties could not be attributed:", len(res.Gaps)))
		for _, g := range res.Gaps {
			fmt.Fprintf(a.out, "  %s  %s (competitor=%s team=%s race=%s)\n",
				g.PenaltyID, g.Reason, orDash(g.CompetitorID), orDash(g.TeamID), orDash(g.RaceID))
		}
	}
	return res, nil
}

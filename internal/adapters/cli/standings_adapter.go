package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/paddock/internal/ports/primary"
)

// StandingsAdapter renders category standings.
type StandingsAdapter struct {
	service primary.StandingsService
	out     io.Writer
}

// NewStandingsAdapter creates a new StandingsAdapter with the given service.
func NewStandingsAdapter(service primary.StandingsService, out io.Writer) *StandingsAdapter {
	return &StandingsAdapter{
		service: service,
		out:     out,
	}
}

// Show prints the competitor and team tables of a category.
func (a *StandingsAdapter) Show(ctx context.Context, categoryID string, asJSON bool) (*primary.Standings, error) {
	res, err := a.service.ComputeStandings(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute standings: %w", err)
	}
	if asJSON {
		return res, writeJSON(a.out, res)
	}

	title := res.CategoryName
	if title == "" {
		title = categoryID
	}
	fmt.Fprintf(a.out, "\nStandings: %s\n\n", title)

	if len(res.Competitors) == 0 {
		fmt.Fprintln(a.out, "No results recorded.")
		return res, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "POS\tCOMPETITOR\tNAT\tAGE\tTEAM\tRACES\tPOINTS")
	fmt.Fprintln(w, "---\t----------\t---\t---\t----\t-----\t------")
	for _, c := range res.Competitors {
		age := "-"
		if c.Age > 0 {
			age = fmt.Sprint(c.Age)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %s\t%d\t%s\n",
			position(c.Position),
			c.Name,
			orDash(c.Nationality),
			age,
			swatch(c.TeamColor),
			orDash(c.TeamName),
			c.Races,
			points(c.Points),
		)
	}
	w.Flush()

	fmt.Fprintln(a.out)
	w = tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "POS\tTEAM\tPOINTS")
	fmt.Fprintln(w, "---\t----\t------")
	for _, t := range res.Teams {
		fmt.Fprintf(w, "%s\t%s %s\t%s\n",
			position(t.Position),
			swatch(t.Color),
			orDash(t.Name),
			points(t.Points),
		)
	}
	w.Flush()

	return res, nil
}

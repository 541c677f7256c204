package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/paddock/internal/ports/primary"
)

// RosterAdapter translates roster commands to RosterService calls.
type RosterAdapter struct {
	service primary.RosterService
	out     io.Writer
}

// NewRosterAdapter creates a new RosterAdapter.
func NewRosterAdapter(service primary.RosterService, out io.Writer) *RosterAdapter {
	return &RosterAdapter{service: service, out: out}
}

// AddCategory adds a category.
func (a *RosterAdapter) AddCategory(ctx context.Context, name string) (string, error) {
	id, err := a.service.AddCategory(ctx, name)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(a.out, "%s Created category %s: %s\n", okMark, id, name)
	return id, nil
}

// AddRace adds a race to a category.
func (a *RosterAdapter) AddRace(ctx context.Context, req primary.AddRaceRequest) (string, error) {
	id, err := a.service.AddRace(ctx, req)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(a.out, "%s Created race %s: %s (%s)\n", okMark, id, req.Name, req.Date)
	return id, nil
}

// AddCompetitor adds a competitor.
func (a *RosterAdapter) AddCompetitor(ctx context.Context, req primary.AddCompetitorRequest) (string, error) {
	id, err := a.service.AddCompetitor(ctx, req)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(a.out, "%s Created competitor %s: %s\n", okMark, id, req.Name)
	return id, nil
}

// AddTeam adds a team.
func (a *RosterAdapter) AddTeam(ctx context.Context, req primary.AddTeamRequest) (string, error) {
	id, err := a.service.AddTeam(ctx, req)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(a.out, "%s Created team %s: %s %s\n", okMark, id, swatch(req.Color), req.Name)
	return id, nil
}

// RemoveCompetitor removes or deactivates a competitor.
func (a *RosterAdapter) RemoveCompetitor(ctx context.Context, id string) error {
	removal, err := a.service.RemoveCompetitor(ctx, id)
	if err != nil {
		return err
	}
	a.printRemoval("competitor", id, removal)
	return nil
}

// RemoveTeam removes or deactivates a team.
func (a *RosterAdapter) RemoveTeam(ctx context.Context, id string) error {
	removal, err := a.service.RemoveTeam(ctx, id)
	if err != nil {
		return err
	}
	a.printRemoval("team", id, removal)
	return nil
}

func (a *RosterAdapter) printRemoval(entity, id, removal string) {
	if removal == "soft" {
		fmt.Fprintf(a.out, "%s Deactivated %s %s\n", okMark, entity, id)
		fmt.Fprintln(a.out, dimColor.Sprint("  still referenced by results or penalties"))
		return
	}
	fmt.Fprintf(a.out, "%s Deleted %s %s\n", okMark, entity, id)
}

// RecordResult records or updates a result.
func (a *RosterAdapter) RecordResult(ctx context.Context, req primary.RecordResultRequest) (string, error) {
	id, err := a.service.RecordResult(ctx, req)
	if err != nil {
		return "", err
	}
	pts := "-"
	if req.Points != nil {
		pts = points(*req.Points)
	}
	fmt.Fprintf(a.out, "%s Recorded %s in %s for %s: %s points\n", okMark, req.CompetitorID, req.RaceID, req.TeamID, pts)
	return id, nil
}

// RetractResult deletes a result.
func (a *RosterAdapter) RetractResult(ctx context.Context, competitorID, raceID string) error {
	if err := a.service.RetractResult(ctx, competitorID, raceID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Retracted result of %s in %s\n", okMark, competitorID, raceID)
	return nil
}

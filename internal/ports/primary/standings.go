// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI and HTTP surfaces drive the engine.
package primary

import "context"

// StandingsService defines the primary port for category standings.
type StandingsService interface {
	// ComputeStandings folds every participation of the category's races into
	// competitor and team totals. A category without races yields empty totals.
	ComputeStandings(ctx context.Context, categoryID string) (*Standings, error)
}

// Standings is the standings view of one category.
type Standings struct {
	CategoryID   string            `json:"category_id"`
	CategoryName string            `json:"category_name"`
	Competitors  []CompetitorTotal `json:"competitors"`
	Teams        []TeamTotal       `json:"teams"`
}

// CompetitorTotal is one row of the competitor table.
type CompetitorTotal struct {
	Position     int     `json:"position"`
	CompetitorID string  `json:"competitor_id"`
	Name         string  `json:"name"`
	Nationality  string  `json:"nationality,omitempty"`
	Age          int     `json:"age,omitempty"`
	PhotoRef     string  `json:"photo_ref,omitempty"`
	TeamID       string  `json:"team_id"`
	TeamName     string  `json:"team_name"`
	TeamColor    string  `json:"team_color,omitempty"`
	Races        int     `json:"races"`
	Points       float64 `json:"points"`
}

// TeamTotal is one row of the team table.
type TeamTotal struct {
	Position int     `json:"position"`
	TeamID   string  `json:"team_id"`
	Name     string  `json:"name"`
	Color    string  `json:"color,omitempty"`
	LogoRef  string  `json:"logo_ref,omitempty"`
	Points   float64 `json:"points"`
}

package primary

import "context"

// RosterService defines the primary port for roster and result maintenance.
type RosterService interface {
	AddCategory(ctx context.Context, name string) (string, error)
	AddRace(ctx context.Context, req AddRaceRequest) (string, error)
	AddCompetitor(ctx context.Context, req AddCompetitorRequest) (string, error)
	AddTeam(ctx context.Context, req AddTeamRequest) (string, error)

	// RemoveCompetitor deactivates a referenced competitor and deletes an
	// unreferenced one. It returns "soft" or "hard".
	RemoveCompetitor(ctx context.Context, competitorID string) (string, error)

	// RemoveTeam follows the same rule as RemoveCompetitor.
	RemoveTeam(ctx context.Context, teamID string) (string, error)

	// RecordResult keeps one participation per competitor and race, inserting
	// or updating its team and points.
	RecordResult(ctx context.Context, req RecordResultRequest) (string, error)

	// RetractResult deletes the participation of a competitor in a race.
	RetractResult(ctx context.Context, competitorID, raceID string) error
}

// AddRaceRequest contains parameters for adding a race.
type AddRaceRequest struct {
	Name       string `json:"name"`
	Place      string `json:"place,omitempty"`
	Date       string `json:"date"`
	CategoryID string `json:"category_id"`
}

// AddCompetitorRequest contains parameters for adding a competitor.
type AddCompetitorRequest struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality,omitempty"`
	BirthDate   string `json:"birth_date,omitempty"`
	PhotoRef    string `json:"photo_ref,omitempty"`
}

// AddTeamRequest contains parameters for adding a team.
type AddTeamRequest struct {
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
	LogoRef string `json:"logo_ref,omitempty"`
}

// RecordResultRequest contains parameters for recording a race result.
// A nil Points stores NULL, which standings count as zero.
type RecordResultRequest struct {
	CompetitorID string   `json:"competitor_id"`
	RaceID       string   `json:"race_id"`
	TeamID       string   `json:"team_id"`
	Points       *float64 `json:"points"`
}

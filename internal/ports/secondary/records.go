package secondary

import "context"

// CategoryRecord represents a category as stored in persistence.
type CategoryRecord struct {
	ID   string
	Name string
}

// CompetitorRecord represents a competitor as stored in persistence.
type CompetitorRecord struct {
	ID          string
	Name        string
	Nationality string
	BirthDate   string // YYYY-MM-DD, empty if unknown
	PhotoRef    string
	Active      bool
}

// TeamRecord represents a team as stored in persistence.
type TeamRecord struct {
	ID      string
	Name    string
	Color   string // brand color, e.g. "#dc0000"
	LogoRef string
	Active  bool
}

// RaceRecord represents a race as stored in persistence.
type RaceRecord struct {
	ID         string
	Name       string
	Place      string
	Date       string
	CategoryID string
}

// ParticipationRecord links a competitor to a race under a team.
type ParticipationRecord struct {
	ID           string
	CompetitorID string
	RaceID       string
	TeamID       string
	Points       float64 // NULL reads as zero
}

// PenaltyRecord represents a penalty as stored in persistence.
type PenaltyRecord struct {
	ID          string
	RaceID      string
	Date        string
	Time        string // optional
	Kind        string
	Description string
}

// CompetitorTargetRecord is a penalty_competitor_targets row.
type CompetitorTargetRecord struct {
	ID           string
	PenaltyID    string
	CompetitorID string
}

// TeamTargetRecord is a penalty_team_targets row.
type TeamTargetRecord struct {
	ID        string
	PenaltyID string
	TeamID    string
}

// PenaltyLinks holds the target link rows of a single penalty.
type PenaltyLinks struct {
	Competitor []*CompetitorTargetRecord
	Team       []*TeamTargetRecord
}

// Count returns the number of link rows across both relations.
func (l PenaltyLinks) Count() int {
	return len(l.Competitor) + len(l.Team)
}

// LeagueReader is the typed Relation Reader over the store.
// Every method returns an empty slice when nothing matches.
type LeagueReader interface {
	CategoryByID(ctx context.Context, id string) (*CategoryRecord, error)
	AllCategories(ctx context.Context) ([]*CategoryRecord, error)

	RacesInCategory(ctx context.Context, categoryID string) ([]*RaceRecord, error)
	RacesByIDs(ctx context.Context, ids []string) ([]*RaceRecord, error)

	ParticipationsInRaces(ctx context.Context, raceIDs []string) ([]*ParticipationRecord, error)
	ParticipationsFor(ctx context.Context, competitorIDs, raceIDs []string) ([]*ParticipationRecord, error)
	ParticipationsOfCompetitor(ctx context.Context, competitorID string) ([]*ParticipationRecord, error)
	ParticipationsOfTeam(ctx context.Context, teamID string) ([]*ParticipationRecord, error)

	AllTeams(ctx context.Context) ([]*TeamRecord, error)
	TeamsByIDs(ctx context.Context, ids []string) ([]*TeamRecord, error)
	CompetitorsByIDs(ctx context.Context, ids []string) ([]*CompetitorRecord, error)

	AllPenalties(ctx context.Context) ([]*PenaltyRecord, error)
	PenaltiesByIDs(ctx context.Context, ids []string) ([]*PenaltyRecord, error)
	PenaltiesInRaces(ctx context.Context, raceIDs []string) ([]*PenaltyRecord, error)

	AllCompetitorTargets(ctx context.Context) ([]*CompetitorTargetRecord, error)
	AllTeamTargets(ctx context.Context) ([]*TeamTargetRecord, error)
	CompetitorTargetsOfCompetitor(ctx context.Context, competitorID string) ([]*CompetitorTargetRecord, error)
	TeamTargetsOfTeam(ctx context.Context, teamID string) ([]*TeamTargetRecord, error)
	TargetLinksForPenalty(ctx context.Context, penaltyID string) (PenaltyLinks, error)
}

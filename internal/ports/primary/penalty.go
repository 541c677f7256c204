package primary

import "context"

// PenaltyService defines the primary port for penalty writes.
type PenaltyService interface {
	// CreatePenalty validates, then inserts the penalty and exactly one target link.
	CreatePenalty(ctx context.Context, req CreatePenaltyRequest) (*CreatePenaltyResponse, error)

	// UpdatePenalty rewrites the penalty fields and, when a target is given,
	// replaces every existing link with one link to it.
	UpdatePenalty(ctx context.Context, req UpdatePenaltyRequest) error

	// RemoveTargetFromPenalty deletes both link rows of a penalty.
	RemoveTargetFromPenalty(ctx context.Context, penaltyID string) error

	// DeletePenalty deletes the link rows, then the penalty.
	DeletePenalty(ctx context.Context, penaltyID string) error

	// GetPenalty returns one penalty with its current target.
	GetPenalty(ctx context.Context, penaltyID string) (*Penalty, error)
}

// AttributionService defines the primary port for the grouped penalty view.
type AttributionService interface {
	// GroupPenaltiesByTeam lists every team once with its attributed penalties.
	GroupPenaltiesByTeam(ctx context.Context) (*PenaltyGrouping, error)
}

// Target kinds on the presentation boundary.
const (
	TargetKindCompetitor = "competitor"
	TargetKindTeam       = "team"
)

// Target names a competitor or a team.
type Target struct {
	Kind string `json:"kind"` // TargetKindCompetitor or TargetKindTeam
	ID   string `json:"id"`
}

// PenaltyData holds the editable fields of a penalty.
type PenaltyData struct {
	RaceID      string `json:"race_id"`
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
}

// CreatePenaltyRequest contains parameters for creating a penalty.
type CreatePenaltyRequest struct {
	PenaltyData
	Target Target `json:"target"`
}

// CreatePenaltyResponse contains the result of creating a penalty.
type CreatePenaltyResponse struct {
	PenaltyID string `json:"penalty_id"`
}

// UpdatePenaltyRequest contains parameters for updating a penalty.
// A nil Target removes only the competitor link.
type UpdatePenaltyRequest struct {
	PenaltyID string `json:"-"`
	PenaltyData
	Target *Target `json:"target,omitempty"`
}

// Penalty is a penalty with its current target, if any.
type Penalty struct {
	ID string `json:"id"`
	PenaltyData
	Target *Target `json:"target,omitempty"`
}

// PenaltyGrouping is the team-keyed penalty view.
type PenaltyGrouping struct {
	Teams []TeamPenalties  `json:"teams"`
	Gaps  []AttributionGap `json:"gaps,omitempty"`
}

// TeamPenalties lists the penalties attributed to one team.
type TeamPenalties struct {
	TeamID    string              `json:"team_id"`
	TeamName  string              `json:"team_name"`
	TeamColor string              `json:"team_color,omitempty"`
	Penalties []AttributedPenalty `json:"penalties"`
}

// AttributedPenalty is one penalty in a team bucket. CompetitorName is "-"
// for penalties targeting the team directly.
type AttributedPenalty struct {
	PenaltyID      string `json:"penalty_id"`
	CompetitorName string `json:"competitor_name"`
	RaceName       string `json:"race_name"`
	Date           string `json:"date"`
	Time           string `json:"time,omitempty"`
	Kind           string `json:"kind"`
	Description    string `json:"description,omitempty"`
}

// AttributionGap is a penalty link left out of the grouped view.
type AttributionGap struct {
	PenaltyID    string `json:"penalty_id"`
	CompetitorID string `json:"competitor_id,omitempty"`
	TeamID       string `json:"team_id,omitempty"`
	RaceID       string `json:"race_id,omitempty"`
	Reason       string `json:"reason"`
}

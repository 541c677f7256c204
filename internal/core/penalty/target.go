// Package penalty contains the pure business logic for penalty writes.
// A penalty targets exactly one competitor or one team; the target is stored
// as one row in one of two link relations.
package penalty

import "fmt"

// TargetKind tells which link relation a target lives in.
type TargetKind int

const (
	// TargetNone is the zero Target.
	TargetNone TargetKind = iota
	// TargetCompetitor links the penalty to a competitor.
	TargetCompetitor
	// TargetTeam links the penalty to a team.
	TargetTeam
)

func (k TargetKind) String() string {
	switch k {
	case TargetCompetitor:
		return "competitor"
	case TargetTeam:
		return "team"
	default:
		return "none"
	}
}

// Target is either a competitor or a team, never both.
type Target struct {
	kind TargetKind
	id   string
}

// CompetitorTarget targets competitor id.
func CompetitorTarget(id string) Target {
	return Target{kind: TargetCompetitor, id: id}
}

// TeamTarget targets team id.
func TeamTarget(id string) Target {
	return Target{kind: TargetTeam, id: id}
}

// Kind returns the target kind.
func (t Target) Kind() TargetKind { return t.kind }

// ID returns the targeted competitor or team id.
func (t Target) ID() string { return t.id }

// IsZero reports whether no target is set.
func (t Target) IsZero() bool { return t.kind == TargetNone || t.id == "" }

func (t Target) String() string {
	if t.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s:%s", t.kind, t.id)
}

// Data holds the editable fields of a penalty.
type Data struct {
	RaceID      string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM, optional
	Kind        string
	Description string
}

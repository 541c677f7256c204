// Package roster contains the pure rules for maintaining competitors, teams,
// races and results.
package roster

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Removal says how a roster row leaves the league.
type Removal string

const (
	// RemovalSoft deactivates a row that results or penalties still reference.
	RemovalSoft Removal = "soft"
	// RemovalHard deletes an unreferenced row.
	RemovalHard Removal = "hard"
)

// RemovalContext carries reference counts for a competitor or team.
type RemovalContext struct {
	Participations int
	PenaltyLinks   int
}

// DecideRemoval picks soft removal while anything references the row.
func DecideRemoval(ctx RemovalContext) Removal {
	if ctx.Participations > 0 || ctx.PenaltyLinks > 0 {
		return RemovalSoft
	}
	return RemovalHard
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Field   string
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

func deny(field, reason string) GuardResult {
	return GuardResult{Field: field, Reason: reason}
}

// CanAddCategory validates a new category.
func CanAddCategory(name string) GuardResult {
	if strings.TrimSpace(name) == "" {
		return deny("name", "name is required")
	}
	return GuardResult{Allowed: true}
}

// CanAddCompetitor validates a new competitor.
func CanAddCompetitor(name, birthDate string) GuardResult {
	if strings.TrimSpace(name) == "" {
		return deny("name", "name is required")
	}
	if birthDate != "" {
		if _, err := time.Parse(dateLayout, birthDate); err != nil {
			return deny("birth_date", fmt.Sprintf("birth date %q is not YYYY-MM-DD", birthDate))
		}
	}
	return GuardResult{Allowed: true}
}

// CanAddTeam validates a new team. Color, when given, is #rrggbb.
func CanAddTeam(name, color string) GuardResult {
	if strings.TrimSpace(name) == "" {
		return deny("name", "name is required")
	}
	if color != "" {
		if _, _, _, ok := ParseColor(color); !ok {
			return deny("color", fmt.Sprintf("color %q is not #rrggbb", color))
		}
	}
	return GuardResult{Allowed: true}
}

// RaceContext carries pre-fetched facts for race creation.
type RaceContext struct {
	Name           string
	Date           string
	CategoryID     string
	CategoryExists bool
}

// CanAddRace validates a new race.
func CanAddRace(ctx RaceContext) GuardResult {
	if strings.TrimSpace(ctx.Name) == "" {
		return deny("name", "name is required")
	}
	if _, err := time.Parse(dateLayout, ctx.Date); err != nil {
		return deny("date", fmt.Sprintf("date %q is not YYYY-MM-DD", ctx.Date))
	}
	if !ctx.CategoryExists {
		return deny("category_id", fmt.Sprintf("category %s not found", ctx.CategoryID))
	}
	return GuardResult{Allowed: true}
}

// ResultContext carries pre-fetched facts for recording a race result.
type ResultContext struct {
	CompetitorID     string
	RaceID           string
	TeamID           string
	Points           float64
	CompetitorExists bool
	CompetitorActive bool
	RaceExists       bool
	TeamExists       bool
	TeamActive       bool
}

// CanRecordResult validates a participation.
// Rules:
// - Competitor, race and team must exist
// - Competitor and team must be active
// - Points must be finite and not negative
func CanRecordResult(ctx ResultContext) GuardResult {
	if !ctx.CompetitorExists {
		return deny("competitor_id", fmt.Sprintf("competitor %s not found", ctx.CompetitorID))
	}
	if !ctx.CompetitorActive {
		return deny("competitor_id", fmt.Sprintf("competitor %s is inactive", ctx.CompetitorID))
	}
	if !ctx.RaceExists {
		return deny("race_id", fmt.Sprintf("race %s not found", ctx.RaceID))
	}
	if !ctx.TeamExists {
		return deny("team_id", fmt.Sprintf("team %s not found", ctx.TeamID))
	}
	if !ctx.TeamActive {
		return deny("team_id", fmt.Sprintf("team %s is inactive", ctx.TeamID))
	}
	if math.IsNaN(ctx.Points) || math.IsInf(ctx.Points, 0) {
		return deny("points", "points must be a finite number")
	}
	if ctx.Points < 0 {
		return deny("points", "points must not be negative")
	}
	return GuardResult{Allowed: true}
}

// Age returns completed years between birthDate and today, or -1 when the
// birth date is unknown or malformed.
func Age(birthDate string, today time.Time) int {
	born, err := time.Parse(dateLayout, birthDate)
	if err != nil {
		return -1
	}
	years := today.Year() - born.Year()
	if today.Month() < born.Month() || (today.Month() == born.Month() && today.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return -1
	}
	return years
}

// ParseColor parses a #rrggbb brand color.
func ParseColor(s string) (r, g, b uint8, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	var v [3]uint8
	for i := range v {
		hi, okHi := hexDigit(s[1+2*i])
		lo, okLo := hexDigit(s[2+2*i])
		if !okHi || !okLo {
			return 0, 0, 0, false
		}
		v[i] = hi<<4 | lo
	}
	return v[0], v[1], v[2], true
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

package persistence

import (
	"fmt"
	"strconv"

	"github.com/example/paddock/internal/ports/secondary"
)

// Drivers disagree on scalar types (go-sqlite3 returns int64 for BOOLEAN
// without a declared type, pgx returns bool), so every column is read
// through these helpers.

func str(row secondary.Row, col string) string {
	switch v := row[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func float(row secondary.Row, col string) float64 {
	switch v := row[col].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	default:
		return 0
	}
}

// boolean reads a flag column; NULL falls back to def.
func boolean(row secondary.Row, col string, def bool) bool {
	switch v := row[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	default:
		return def
	}
}

func toCategory(row secondary.Row) *secondary.CategoryRecord {
	return &secondary.CategoryRecord{ID: str(row, "id"), Name: str(row, "name")}
}

func toCompetitor(row secondary.Row) *secondary.CompetitorRecord {
	return &secondary.CompetitorRecord{
		ID:          str(row, "id"),
		Name:        str(row, "name"),
		Nationality: str(row, "nationality"),
		BirthDate:   str(row, "birth_date"),
		PhotoRef:    str(row, "photo_ref"),
		Active:      boolean(row, "active", true),
	}
}

func toTeam(row secondary.Row) *secondary.TeamRecord {
	return &secondary.TeamRecord{
		ID:      str(row, "id"),
		Name:    str(row, "name"),
		Color:   str(row, "color"),
		LogoRef: str(row, "logo_ref"),
		Active:  boolean(row, "active", true),
	}
}

func toRace(row secondary.Row) *secondary.RaceRecord {
	return &secondary.RaceRecord{
		ID:         str(row, "id"),
		Name:       str(row, "name"),
		Place:      str(row, "place"),
		Date:       str(row, "date"),
		CategoryID: str(row, "category_id"),
	}
}

func toParticipation(row secondary.Row) *secondary.ParticipationRecord {
	return &secondary.ParticipationRecord{
		ID:           str(row, "id"),
		CompetitorID: str(row, "competitor_id"),
		RaceID:       str(row, "race_id"),
		TeamID:       str(row, "team_id"),
		Points:       float(row, "points"),
	}
}

func toPenalty(row secondary.Row) *secondary.PenaltyRecord {
	return &secondary.PenaltyRecord{
		ID:          str(row, "id"),
		RaceID:      str(row, "race_id"),
		Date:        str(row, "date"),
		Time:        str(row, "time"),
		Kind:        str(row, "kind"),
		Description: str(row, "description"),
	}
}

func toCompetitorTarget(row secondary.Row) *secondary.CompetitorTargetRecord {
	return &secondary.CompetitorTargetRecord{
		ID:           str(row, "id"),
		PenaltyID:    str(row, "penalty_id"),
		CompetitorID: str(row, "competitor_id"),
	}
}

func toTeamTarget(row secondary.Row) *secondary.TeamTargetRecord {
	return &secondary.TeamTargetRecord{
		ID:        str(row, "id"),
		PenaltyID: str(row, "penalty_id"),
		TeamID:    str(row, "team_id"),
	}
}

func mapRows[T any](rows []secondary.Row, fn func(secondary.Row) *T) []*T {
	out := make([]*T, len(rows))
	for i, row := range rows {
		out[i] = fn(row)
	}
	return out
}

// Package standings contains the pure points fold behind category standings.
//
// Fold order: races ascending by (date, id), then participations ascending by
// id within a race. Totals are independent of that order; the team reported
// next to a competitor is not. It is the team of the last folded
// participation, i.e. the competitor's latest race in the category.
//
// Points are summed in thousandths of a point so that equal decimal totals
// compare equal. Finer fractions are rounded to the nearest thousandth.
package standings

import (
	"math"
	"sort"
)

// milli is a points amount in thousandths of a point.
type milli int64

func toMilli(p float64) milli { return milli(math.Round(p * 1000)) }

func (m milli) points() float64 { return float64(m) / 1000 }

// Race is the part of a race the fold needs.
type Race struct {
	ID   string
	Date string // YYYY-MM-DD, compared lexically
}

// Entry is one participation: a competitor scoring for a team in a race.
type Entry struct {
	ID           string
	CompetitorID string
	RaceID       string
	TeamID       string
	Points       float64
}

// CompetitorTotal is a competitor's accumulated points.
type CompetitorTotal struct {
	CompetitorID string
	TeamID       string // last folded team
	Points       float64
	Races        int
	Position     int
}

// TeamTotal is a team's accumulated points across all of its scorers.
type TeamTotal struct {
	TeamID   string
	Points   float64
	Position int
}

// Result holds both sorted totals.
type Result struct {
	Competitors []CompetitorTotal
	Teams       []TeamTotal
}

// Compute folds entries of the given races into competitor and team totals,
// each sorted descending by points. Ties keep first-seen order. Entries whose
// race is not in races are ignored.
func Compute(races []Race, entries []Entry) Result {
	result := Result{Competitors: []CompetitorTotal{}, Teams: []TeamTotal{}}
	if len(races) == 0 {
		return result
	}

	ordered := make([]Race, len(races))
	copy(ordered, races)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date != ordered[j].Date {
			return ordered[i].Date < ordered[j].Date
		}
		return ordered[i].ID < ordered[j].ID
	})

	byRace := make(map[string][]Entry, len(ordered))
	for _, e := range entries {
		byRace[e.RaceID] = append(byRace[e.RaceID], e)
	}

	competitorIdx := map[string]int{}
	teamIdx := map[string]int{}
	var competitorPts, teamPts []milli

	for _, race := range ordered {
		raceEntries := byRace[race.ID]
		sort.SliceStable(raceEntries, func(i, j int) bool { return raceEntries[i].ID < raceEntries[j].ID })
		// A race listed twice must not be folded twice.
		delete(byRace, race.ID)

		for _, e := range raceEntries {
			i, ok := competitorIdx[e.CompetitorID]
			if !ok {
				i = len(result.Competitors)
				competitorIdx[e.CompetitorID] = i
				result.Competitors = append(result.Competitors, CompetitorTotal{CompetitorID: e.CompetitorID})
				competitorPts = append(competitorPts, 0)
			}
			pts := toMilli(e.Points)
			c := &result.Competitors[i]
			competitorPts[i] += pts
			c.Races++
			c.TeamID = e.TeamID

			j, ok := teamIdx[e.TeamID]
			if !ok {
				j = len(result.Teams)
				teamIdx[e.TeamID] = j
				result.Teams = append(result.Teams, TeamTotal{TeamID: e.TeamID})
				teamPts = append(teamPts, 0)
			}
			teamPts[j] += pts
		}
	}

	// Points are exact multiples of 1/1000, so equality below is exact.
	for i := range result.Competitors {
		result.Competitors[i].Points = competitorPts[i].points()
	}
	for j := range result.Teams {
		result.Teams[j].Points = teamPts[j].points()
	}

	sort.SliceStable(result.Competitors, func(i, j int) bool {
		return toMilli(result.Competitors[i].Points) > toMilli(result.Competitors[j].Points)
	})
	sort.SliceStable(result.Teams, func(i, j int) bool {
		return toMilli(result.Teams[i].Points) > toMilli(result.Teams[j].Points)
	})

	for i := range result.Competitors {
		if i > 0 && toMilli(result.Competitors[i].Points) == toMilli(result.Competitors[i-1].Points) {
			result.Competitors[i].Position = result.Competitors[i-1].Position
			continue
		}
		result.Competitors[i].Position = i + 1
	}
	for i := range result.Teams {
		if i > 0 && toMilli(result.Teams[i].Points) == toMilli(result.Teams[i-1].Points) {
			result.Teams[i].Position = result.Teams[i-1].Position
			continue
		}
		result.Teams[i].Position = i + 1
	}

	return result
}

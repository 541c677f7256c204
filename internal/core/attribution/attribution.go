// Package attribution groups penalties under the team they count against.
//
// A team-targeted penalty lands in its team's bucket directly. A
// competitor-targeted penalty lands in the bucket of the team the competitor
// drove for in the penalty's race, found through participations. Anything
// that cannot be placed is reported as a Gap instead of failing the view.
package attribution

import "sort"

// DirectCompetitorName is shown for penalties targeting a team directly.
const DirectCompetitorName = "-"

// Gap reasons.
const (
	ReasonNoParticipation   = "no_participation"
	ReasonMissingPenalty    = "missing_penalty"
	ReasonMissingTeam       = "missing_team"
	ReasonMissingRace       = "missing_race"
	ReasonMissingCompetitor = "missing_competitor"
)

// Team is a bucket key.
type Team struct {
	ID string
}

// Penalty is the part of a penalty row the grouping needs.
type Penalty struct {
	ID          string
	RaceID      string
	Date        string
	Time        string
	Kind        string
	Description string
}

// Race names a race.
type Race struct {
	ID   string
	Name string
}

// Competitor names a competitor.
type Competitor struct {
	ID   string
	Name string
}

// Participation places a competitor under a team for one race.
type Participation struct {
	ID           string
	CompetitorID string
	RaceID       string
	TeamID       string
}

// TeamLink targets a penalty at a team.
type TeamLink struct {
	PenaltyID string
	TeamID    string
}

// CompetitorLink targets a penalty at a competitor.
type CompetitorLink struct {
	PenaltyID    string
	CompetitorID string
}

// Input is a consistent snapshot of every relation the grouping reads.
type Input struct {
	Teams           []Team // bucket order
	Penalties       []Penalty
	Races           []Race
	Competitors     []Competitor
	Participations  []Participation
	TeamLinks       []TeamLink
	CompetitorLinks []CompetitorLink
}

// Attributed is one penalty placed in a team bucket.
type Attributed struct {
	PenaltyID      string
	CompetitorID   string // empty for direct team penalties
	CompetitorName string
	RaceID         string
	RaceName       string
	Date           string
	Time           string
	Kind           string
	Description    string
	Direct         bool
}

// Bucket lists the penalties attributed to one team.
type Bucket struct {
	TeamID    string
	Penalties []Attributed
}

// Gap is a link that could not be attributed.
type Gap struct {
	PenaltyID    string
	CompetitorID string
	TeamID       string
	RaceID       string
	Reason       string
}

// Grouping is the result of Group.
type Grouping struct {
	Buckets []Bucket
	Gaps    []Gap
}

// Group builds one bucket per team, in the order of in.Teams. Within a
// bucket, direct team penalties come first and competitor-derived penalties
// second; each branch is ordered by penalty (date, time, id).
func Group(in Input) Grouping {
	penalties := make(map[string]Penalty, len(in.Penalties))
	for _, p := range in.Penalties {
		penalties[p.ID] = p
	}
	races := make(map[string]Race, len(in.Races))
	for _, r := range in.Races {
		races[r.ID] = r
	}
	competitors := make(map[string]Competitor, len(in.Competitors))
	for _, c := range in.Competitors {
		competitors[c.ID] = c
	}

	grouping := Grouping{Buckets: make([]Bucket, len(in.Teams)), Gaps: []Gap{}}
	bucketIdx := make(map[string]int, len(in.Teams))
	for i, t := range in.Teams {
		grouping.Buckets[i] = Bucket{TeamID: t.ID, Penalties: []Attributed{}}
		bucketIdx[t.ID] = i
	}

	teamLinks := make([]TeamLink, len(in.TeamLinks))
	copy(teamLinks, in.TeamLinks)
	sort.SliceStable(teamLinks, func(i, j int) bool {
		return penaltyLess(penalties, teamLinks[i].PenaltyID, teamLinks[j].PenaltyID)
	})

	competitorLinks := make([]CompetitorLink, len(in.CompetitorLinks))
	copy(competitorLinks, in.CompetitorLinks)
	sort.SliceStable(competitorLinks, func(i, j int) bool {
		return penaltyLess(penalties, competitorLinks[i].PenaltyID, competitorLinks[j].PenaltyID)
	})

	for _, link := range teamLinks {
		gap := Gap{PenaltyID: link.PenaltyID, TeamID: link.TeamID}
		p, ok := penalties[link.PenaltyID]
		if !ok {
			gap.Reason = ReasonMissingPenalty
			grouping.Gaps = append(grouping.Gaps, gap)
			continue
		}
		gap.RaceID = p.RaceID
		race, ok := races[p.RaceID]
		if !ok {
			gap.Reason = ReasonMissingRace
			grouping.Gaps = append(grouping.Gaps, gap)
			continue
		}
		idx, ok := bucketIdx[link.TeamID]
		if !ok {
			gap.Reason = ReasonMissingTeam
			grouping.Gaps = append(grouping.Gaps, gap)
			continue
		}
		a := attributed(p, race)
		a.CompetitorName = DirectCompetitorName
		a.Direct = true
		grouping.Buckets[idx].Penalties = append(grouping.Buckets[idx].Penalties, a)
	}

	teamOf := resolver(in.Participations)

	for _, link := range competitorLinks {
		gap := Gap{PenaltyID: link.PenaltyID, CompetitorID: link.CompetitorID}
		p, ok := penalties[link.PenaltyID]
		if !ok {
			gap.Reason = ReasonMissingPenalty
			grouping.Gaps = append(grouping.Gaps, gap)
			continue
		}
		gap.RaceID = p.RaceID
		race, ok := races[p.RaceID]
		if !ok {
			gap.Reason = ReasonMissingRace
			grouping.Gaps = append(grouping.Gaps, gap)
			continue
		}
		competitor, ok := competitors[link.CompetitorID]
		if !ok {
			gap.Reason = ReasonMissingCompetitor
			grouping.Gaps = append(grouping.Gaps, gap)
			continue
		}
		teamID, ok := teamOf(link.CompetitorID, p.RaceID)
		if !ok {
			gap.Reason = ReasonNoParticipation
			grouping.Gaps = append(grouping.Gaps, gap)
			continue
		}
		gap.TeamID = teamID
		idx, ok := bucketIdx[teamID]
		if !ok {
			gap.Reason = ReasonMissingTeam
			grouping.Gaps = append(grouping.Gaps, gap)
			continue
		}
		a := attributed(p, race)
		a.CompetitorID = competitor.ID
		a.CompetitorName = competitor.Name
		grouping.Buckets[idx].Penalties = append(grouping.Buckets[idx].Penalties, a)
	}

	return grouping
}

func attributed(p Penalty, race Race) Attributed {
	return Attributed{
		PenaltyID:   p.ID,
		RaceID:      race.ID,
		RaceName:    race.Name,
		Date:        p.Date,
		Time:        p.Time,
		Kind:        p.Kind,
		Description: p.Description,
	}
}

// resolver returns the team of the lowest-id participation of a competitor
// in a race.
func resolver(participations []Participation) func(competitorID, raceID string) (string, bool) {
	type key struct{ competitor, race string }
	first := make(map[key]Participation, len(participations))
	for _, p := range participations {
		k := key{p.CompetitorID, p.RaceID}
		if cur, ok := first[k]; !ok || p.ID < cur.ID {
			first[k] = p
		}
	}
	return func(competitorID, raceID string) (string, bool) {
		p, ok := first[key{competitorID, raceID}]
		return p.TeamID, ok
	}
}

// penaltyLess orders by (date, time, id); unknown penalties sort last by id.
func penaltyLess(penalties map[string]Penalty, a, b string) bool {
	pa, okA := penalties[a]
	pb, okB := penalties[b]
	switch {
	case okA && !okB:
		return true
	case !okA && okB:
		return false
	case !okA && !okB:
		return a < b
	}
	if pa.Date != pb.Date {
		return pa.Date < pb.Date
	}
	if pa.Time != pb.Time {
		return pa.Time < pb.Time
	}
	return pa.ID < pb.ID
}

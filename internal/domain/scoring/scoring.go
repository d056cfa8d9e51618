// Package scoring folds event results into per-team statistics and ranks
// the teams into an overall leaderboard.
package scoring

import (
	"math"
	"sort"

	"github.com/okian/scoreboard/internal/domain/model"
)

// Rounding precision of the derived statistics.
const (
	avgRankDecimals      = 1
	overallScoreDecimals = 3
)

// teamBuilder accumulates one team's statistics while events are folded.
// It never leaves this package; finish turns it into an immutable record.
type teamBuilder struct {
	id          string
	name        string
	members     []string
	history     []model.TeamHistoryEntry
	totalPoints float64
	bestRank    int
	relScores   []float64
}

func newTeamBuilder(name string, reg model.Registry) *teamBuilder {
	b := &teamBuilder{
		id:       Slugify(name),
		name:     name,
		members:  []string{},
		bestRank: math.MaxInt, // +inf sentinel, replaced by the first result
	}
	if meta, ok := reg[name]; ok {
		if meta.ID != "" {
			b.id = meta.ID
		}
		if len(meta.Members) > 0 {
			b.members = append([]string(nil), meta.Members...)
		}
	}
	return b
}

func (b *teamBuilder) add(ev *model.Event, res model.EventResult, internalRank, total int) {
	rel := RelativeScore(internalRank, total)
	b.history = append(b.history, model.TeamHistoryEntry{
		EventSlug:          ev.Slug,
		EventName:          ev.Name,
		Date:               ev.Date,
		URL:                ev.URL,
		Rank:               res.Rank,
		Points:             res.Points,
		InternalRank:       internalRank,
		TotalInternalTeams: total,
		RelativeScore:      rel,
	})
	b.relScores = append(b.relScores, rel)
	b.totalPoints += res.Points
	if res.Rank < b.bestRank {
		b.bestRank = res.Rank
	}
}

func (b *teamBuilder) finish() model.TeamRecord {
	history := append([]model.TeamHistoryEntry(nil), b.history...)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})

	rankSum := 0
	for _, h := range history {
		rankSum += h.Rank
	}
	scoreSum := 0.0
	for _, s := range b.relScores {
		scoreSum += s
	}
	n := len(history)

	return model.TeamRecord{
		ID:           b.id,
		Name:         b.name,
		Members:      b.members,
		Results:      history,
		TotalPoints:  b.totalPoints,
		BestRank:     b.bestRank,
		CTFCount:     n,
		AvgRank:      round(float64(rankSum)/float64(n), avgRankDecimals),
		OverallScore: roundScore(scoreSum / float64(n)),
	}
}

// RelativeScore is 1 - internalRank/total: 0 for the last tracked team of
// an event and for any single-team event.
func RelativeScore(internalRank, total int) float64 {
	return 1 - float64(internalRank)/float64(total)
}

// InternalOrder returns a copy of results sorted by rank ascending. Equal
// ranks keep their source order.
func InternalOrder(results []model.EventResult) []model.EventResult {
	sorted := append([]model.EventResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank < sorted[j].Rank
	})
	return sorted
}

// Aggregate folds events into team records. Records are returned in
// first-seen order: events in the given order, then internal placement.
// Registry entries for teams without results are ignored.
func Aggregate(events []model.Event, reg model.Registry) []model.TeamRecord {
	builders := make(map[string]*teamBuilder)
	var order []string

	for i := range events {
		ev := &events[i]
		sorted := InternalOrder(ev.Results)
		total := len(sorted)

		for pos, res := range sorted {
			b, ok := builders[res.Team]
			if !ok {
				b = newTeamBuilder(res.Team, reg)
				builders[res.Team] = b
				order = append(order, res.Team)
			}
			b.add(ev, res, pos+1, total)
		}
	}

	teams := make([]model.TeamRecord, 0, len(order))
	for _, name := range order {
		teams = append(teams, builders[name].finish())
	}
	return teams
}

// roundScore rounds a mean relative score to overallScoreDecimals. The mean
// is always below 1, so a result that rounds up to 1 is truncated instead
// and the score stays in [0,1).
func roundScore(x float64) float64 {
	r := round(x, overallScoreDecimals)
	if r >= 1 {
		p := math.Pow10(overallScoreDecimals)
		return math.Floor(x*p) / p
	}
	return r
}

// round rounds half away from zero to the given number of decimals.
func round(x float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(x*p) / p
}

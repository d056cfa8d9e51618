// Package snapshot packages the results of one build into a Snapshot.
package snapshot

import (
	"time"

	"github.com/okian/scoreboard/internal/domain/model"
)

// Assemble bundles events, teams and leaderboard into one Snapshot stamped
// with at (converted to UTC). It performs no computation of its own; the
// slices are copied so later changes by the caller cannot reach the
// published document.
func Assemble(events []model.Event, teams []model.TeamRecord, leaderboard []model.LeaderboardEntry, at time.Time) *model.Snapshot {
	at = at.UTC()

	byName := make(map[string]model.TeamRecord, len(teams))
	order := make([]string, 0, len(teams))
	for _, t := range teams {
		if _, dup := byName[t.Name]; !dup {
			order = append(order, t.Name)
		}
		byName[t.Name] = t
	}

	evs := append(make([]model.Event, 0, len(events)), events...)
	board := append(make([]model.LeaderboardEntry, 0, len(leaderboard)), leaderboard...)

	return &model.Snapshot{
		Events:      evs,
		Teams:       byName,
		Leaderboard: board,
		LastUpdated: at.Format(model.TimestampLayout),
		TeamOrder:   order,
		GeneratedAt: at,
	}
}

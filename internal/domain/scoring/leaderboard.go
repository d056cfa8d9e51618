package scoring

import (
	"sort"

	"github.com/okian/scoreboard/internal/domain/model"
)

// BuildLeaderboard ranks teams by overall score, highest first.
//
// Ordering: overallScore DESC, then the input order (the stable sort keeps
// first-seen aggregation order for equal scores). Ranks are dense positions
// 1..N, so equal scores still get distinct consecutive ranks.
func BuildLeaderboard(teams []model.TeamRecord) []model.LeaderboardEntry {
	sorted := append([]model.TeamRecord(nil), teams...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OverallScore > sorted[j].OverallScore
	})

	out := make([]model.LeaderboardEntry, len(sorted))
	for i, t := range sorted {
		out[i] = model.LeaderboardEntry{
			Rank:         i + 1,
			ID:           t.ID,
			Name:         t.Name,
			OverallScore: t.OverallScore,
			CTFCount:     t.CTFCount,
			TotalPoints:  t.TotalPoints,
		}
	}
	return out
}

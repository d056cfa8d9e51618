package model

import "github.com/okian/scoreboard/internal/domain/types"

// TeamHistoryEntry is a team's result in one event together with its
// placement among the tracked teams of that event.
type TeamHistoryEntry struct {
	EventSlug          string     `json:"ctfSlug"`
	EventName          string     `json:"ctfName"`
	Date               types.Date `json:"date"`
	URL                string     `json:"url,omitempty"`
	Rank               int        `json:"rank"`
	Points             float64    `json:"points"`
	InternalRank       int        `json:"internalRank"`
	TotalInternalTeams int        `json:"totalInternalTeams"`
	RelativeScore      float64    `json:"relativeScore"`
}

// TeamRecord is the aggregated view of one team.
//
// Invariants: CTFCount == len(Results), BestRank == min(Results[*].Rank),
// Results ordered by date descending.
type TeamRecord struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Members      []string           `json:"members"`
	Results      []TeamHistoryEntry `json:"results"`
	TotalPoints  float64            `json:"totalPoints"`
	BestRank     int                `json:"bestRank"`
	CTFCount     int                `json:"ctfCount"`
	AvgRank      float64            `json:"avgRank"`
	OverallScore float64            `json:"overallScore"`
}

// LeaderboardEntry is one row of the overall ranking.
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	OverallScore float64 `json:"overallScore"`
	CTFCount     int     `json:"ctfCount"`
	TotalPoints  float64 `json:"totalPoints"`
}

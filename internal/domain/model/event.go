// Package model contains domain models passed between layers.
package model

import "github.com/okian/scoreboard/internal/domain/types"

// Event is one competition with the results of the tracked teams.
// Events are immutable once loaded.
type Event struct {
	Slug    string        `json:"slug"`
	Name    string        `json:"name"`
	Date    types.Date    `json:"date"`
	URL     string        `json:"url,omitempty"`
	Results []EventResult `json:"results"`
}

// EventResult is one team's placement in an event. Team is a
// case-sensitive join key; Rank may be a global contest rank.
type EventResult struct {
	Team   string  `json:"team"`
	Rank   int     `json:"rank"`
	Points float64 `json:"points"`
}

// TeamMeta is optional registry information for a team.
type TeamMeta struct {
	Name    string   `json:"name"`
	ID      string   `json:"id,omitempty"`
	Members []string `json:"members,omitempty"`
}

// Registry maps team name to its metadata.
type Registry map[string]TeamMeta

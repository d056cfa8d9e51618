package model

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// TimestampLayout is the ISO-8601 form of Snapshot.LastUpdated.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Snapshot is one complete, published build result. It is the only
// document the renderer consumes and must not be mutated once published.
type Snapshot struct {
	Events      []Event               `json:"ctfs"`
	Teams       map[string]TeamRecord `json:"teams"`
	Leaderboard []LeaderboardEntry    `json:"leaderboard"`
	LastUpdated string                `json:"lastUpdated"`

	// TeamOrder lists team names in first-seen order.
	TeamOrder []string `json:"-"`
	// GeneratedAt is the parsed form of LastUpdated.
	GeneratedAt time.Time `json:"-"`
}

// snapshotDocument is the wire layout of a Snapshot.
type snapshotDocument struct {
	Events      []Event            `json:"ctfs"`
	Teams       json.RawMessage    `json:"teams"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	LastUpdated string             `json:"lastUpdated"`
}

// MarshalJSON writes the teams object keyed in TeamOrder. Teams missing
// from TeamOrder follow in name order.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	teams, err := s.marshalTeams()
	if err != nil {
		return nil, err
	}
	return json.Marshal(snapshotDocument{
		Events:      s.Events,
		Teams:       teams,
		Leaderboard: s.Leaderboard,
		LastUpdated: s.LastUpdated,
	})
}

func (s *Snapshot) marshalTeams() (json.RawMessage, error) {
	if s.Teams == nil {
		return json.RawMessage("null"), nil
	}

	names := make([]string, 0, len(s.Teams))
	seen := make(map[string]struct{}, len(s.Teams))
	for _, name := range s.TeamOrder {
		if _, ok := s.Teams[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	var rest []string
	for name := range s.Teams {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.Teams[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TeamByID returns the first team, in first-seen order, whose display id
// matches id.
func (s *Snapshot) TeamByID(id string) (TeamRecord, bool) {
	if s == nil {
		return TeamRecord{}, false
	}
	for _, name := range s.TeamOrder {
		if t, ok := s.Teams[name]; ok && t.ID == id {
			return t, true
		}
	}
	return TeamRecord{}, false
}

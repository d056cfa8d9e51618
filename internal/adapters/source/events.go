// Package source loads event definitions and the team registry from disk.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/internal/domain/types"
)

// eventExtensions lists the file extensions read as event definitions.
var eventExtensions = []string{".yaml", ".yml"}

// eventFile mirrors one event definition on disk.
type eventFile struct {
	Name    string       `yaml:"name" validate:"required"`
	Date    types.Date   `yaml:"date" validate:"required"`
	URL     string       `yaml:"url"`
	Results []resultFile `yaml:"results" validate:"dive"`
}

type resultFile struct {
	Team   string  `yaml:"team" validate:"required"`
	Rank   int     `yaml:"rank" validate:"min=1"`
	Points float64 `yaml:"points" validate:"min=0"`
}

// LoadEvents reads every event definition in dir and returns the events
// sorted by date, most recent first. Events on the same date keep file name
// order. Any unreadable or invalid file fails the whole load.
func LoadEvents(ctx context.Context, dir string) ([]model.Event, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, loadErr(dir, err)
	}

	var events []model.Event
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load events: %w", err)
		}
		if entry.IsDir() || !isEventFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		ev, err := loadEvent(path)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})
	return events, nil
}

// loadEvent reads a single event definition.
func loadEvent(path string) (model.Event, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Event{}, loadErr(path, err)
	}

	var doc eventFile
	if err := decodeYAML(raw, &doc); err != nil {
		return model.Event{}, loadErr(path, err)
	}
	if err := validate.Struct(doc); err != nil {
		return model.Event{}, loadErr(path, validationError(err))
	}

	results := make([]model.EventResult, len(doc.Results))
	for i, r := range doc.Results {
		results[i] = model.EventResult{Team: r.Team, Rank: r.Rank, Points: r.Points}
	}
	return model.Event{
		Slug:    Slug(path),
		Name:    doc.Name,
		Date:    doc.Date,
		URL:     doc.URL,
		Results: results,
	}, nil
}

// Slug derives an event identifier from its file name.
func Slug(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isEventFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range eventExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// decodeYAML decodes a single document. An empty file decodes to the zero
// value and is left to validation.
func decodeYAML(raw []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

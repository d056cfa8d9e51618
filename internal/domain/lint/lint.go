// Package lint reports input problems that the exact-match team join
// would otherwise hide. It never changes aggregation.
package lint

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/okian/scoreboard/internal/domain/model"
)

// Kind classifies a Finding.
type Kind string

// Finding kinds.
const (
	// KindDuplicateEntry: a team appears more than once in one event.
	KindDuplicateEntry Kind = "duplicate_entry"
	// KindNearDuplicate: two distinct names likely denote the same team.
	KindNearDuplicate Kind = "near_duplicate"
	// KindUnusedRegistry: a registry team has no results.
	KindUnusedRegistry Kind = "unused_registry"
)

// Finding is one reported problem.
type Finding struct {
	Kind    Kind
	Event   string   // event slug, when the finding is tied to one
	Teams   []string // team names involved, sorted
	Message string
}

// Option configures a Checker.
type Option func(*Checker)

// WithMaxDistance sets the Levenshtein distance at or below which two
// names are reported. Zero disables the distance check.
func WithMaxDistance(d int) Option {
	return func(c *Checker) {
		if d >= 0 {
			c.maxDistance = d
		}
	}
}

// WithMinNameLength skips the distance check for names shorter than n
// runes; short names are too close to each other to say anything.
func WithMinNameLength(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.minNameLength = n
		}
	}
}

// Checker runs the lint rules.
type Checker struct {
	maxDistance   int
	minNameLength int
}

// NewChecker creates a Checker with defaults: distance 1, names of at
// least 4 runes.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		maxDistance:   1,
		minNameLength: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var spaceRun = regexp.MustCompile(`[\s\p{Z}]+`)

// fold is the comparison key used for case/whitespace-insensitive matches.
func fold(name string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(cases.Fold().String(name)), " ")
}

// Check runs every rule and returns findings in a stable order.
func (c *Checker) Check(events []model.Event, reg model.Registry) []Finding {
	var out []Finding
	out = append(out, duplicateEntries(events)...)

	seen := make(map[string]struct{})
	var names []string
	for _, ev := range events {
		for _, r := range ev.Results {
			if _, ok := seen[r.Team]; !ok {
				seen[r.Team] = struct{}{}
				names = append(names, r.Team)
			}
		}
	}
	sort.Strings(names)
	out = append(out, c.nearDuplicates(names)...)

	var unused []string
	for name := range reg {
		if _, ok := seen[name]; !ok {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	for _, name := range unused {
		out = append(out, Finding{
			Kind:    KindUnusedRegistry,
			Teams:   []string{name},
			Message: "registry team has no results and is left out of the snapshot",
		})
	}
	return out
}

func duplicateEntries(events []model.Event) []Finding {
	var out []Finding
	for _, ev := range events {
		counts := make(map[string]int, len(ev.Results))
		for _, r := range ev.Results {
			counts[r.Team]++
		}
		var dups []string
		for name, n := range counts {
			if n > 1 {
				dups = append(dups, name)
			}
		}
		sort.Strings(dups)
		for _, name := range dups {
			out = append(out, Finding{
				Kind:    KindDuplicateEntry,
				Event:   ev.Slug,
				Teams:   []string{name},
				Message: "team listed more than once in the same event",
			})
		}
	}
	return out
}

// nearDuplicates compares every pair of sorted names once.
func (c *Checker) nearDuplicates(names []string) []Finding {
	var out []Finding
	folded := make([]string, len(names))
	for i, n := range names {
		folded[i] = fold(n)
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if folded[i] == folded[j] {
				out = append(out, Finding{
					Kind:    KindNearDuplicate,
					Teams:   []string{names[i], names[j]},
					Message: "names differ only in case or whitespace",
				})
				continue
			}
			if c.maxDistance == 0 || !c.longEnough(folded[i]) || !c.longEnough(folded[j]) {
				continue
			}
			if d := levenshtein.ComputeDistance(folded[i], folded[j]); d <= c.maxDistance {
				out = append(out, Finding{
					Kind:    KindNearDuplicate,
					Teams:   []string{names[i], names[j]},
					Message: "names are within edit distance of each other",
				})
			}
		}
	}
	return out
}

func (c *Checker) longEnough(s string) bool {
	return len([]rune(s)) >= c.minNameLength
}

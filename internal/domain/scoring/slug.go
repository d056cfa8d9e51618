package scoring

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespaceRun = regexp.MustCompile(`[\s\x0B\p{Z}\x{FEFF}]+`)

// Slugify derives a display id from a team name: lower-cased, with every
// whitespace run replaced by a single hyphen. Leading and trailing
// whitespace becomes a hyphen as well; nothing else is stripped.
func Slugify(name string) string {
	// Casers are stateful, so each call gets its own.
	lowered := cases.Lower(language.Und).String(name)
	return whitespaceRun.ReplaceAllString(lowered, "-")
}

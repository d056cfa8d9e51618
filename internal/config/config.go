// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors are wrapped with this package's sentinel errors.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`
	// Addr configures the dev server listen address, e.g. ":4000".
	Addr string `koanf:"addr"`
	// EventsDir holds one YAML file per event.
	EventsDir string `koanf:"events_dir"`
	// TeamsFile is the optional team registry.
	TeamsFile string `koanf:"teams_file"`
	// SrcDir holds the static site copied into DistDir on every build.
	SrcDir string `koanf:"src_dir"`
	// DistDir receives the static site and data.json.
	DistDir string `koanf:"dist_dir"`
	// Watch enables rebuilds on file changes in serve mode.
	Watch bool `koanf:"watch"`
	// WatchDebounceMS coalesces bursts of file events into one rebuild.
	WatchDebounceMS int `koanf:"watch_debounce_ms"`
	// NameLintDistance is the Levenshtein distance at or below which two
	// team names are reported as likely duplicates. Zero disables the
	// distance check; case/whitespace-only differences are always reported.
	NameLintDistance int `koanf:"name_lint_distance"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":4000",
		EventsDir:        "ctfs",
		TeamsFile:        "teams/teams.yaml",
		SrcDir:           "src",
		DistDir:          "dist",
		Watch:            true,
		WatchDebounceMS:  200,
		NameLintDistance: 1,
	}
}

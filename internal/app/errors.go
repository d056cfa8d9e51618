package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrBuild wraps every failed build; the previous snapshot stays live.
	ErrBuild = errors.New("build failed")
	// ErrNotReady is returned by lookups before the first successful build.
	ErrNotReady = errors.New("no snapshot published yet")
	// ErrTeamNotFound is returned when no team carries the requested id.
	ErrTeamNotFound = errors.New("team not found")
)

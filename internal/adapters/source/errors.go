package source

import (
	"errors"
	"fmt"
)

// Sentinel kinds for source errors.
var (
	// ErrLoad marks a source that could not be read, decoded or validated.
	// It aborts the build.
	ErrLoad = errors.New("load failed")
	// ErrConfigAbsent marks an optional source that does not exist.
	ErrConfigAbsent = errors.New("optional source absent")
)

// LoadError reports which source failed and why.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrLoad) true for every LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

func loadErr(source string, err error) error {
	return &LoadError{Source: source, Err: err}
}

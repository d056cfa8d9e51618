package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNilSnapshot = errors.New("nil snapshot")
	ErrWrite       = errors.New("snapshot write failed")
)

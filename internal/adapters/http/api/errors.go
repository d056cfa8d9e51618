package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrNotReady         = errors.New("no snapshot published yet")
	ErrNotFound         = errors.New("team not found")
	ErrBadRequest       = errors.New("bad request")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

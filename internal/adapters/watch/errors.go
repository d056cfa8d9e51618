package watch

import "errors"

// Sentinel kinds for watcher errors.
var (
	ErrWatch       = errors.New("watch failed")
	ErrNoPaths     = errors.New("no watchable paths")
	ErrNilCallback = errors.New("nil rebuild callback")
)

// Package repository publishes built snapshots.
package repository

import (
	"context"

	"github.com/okian/scoreboard/internal/domain/model"
)

// Store receives every successfully built snapshot. Implementations must
// replace the previous snapshot atomically: readers see either the old
// document or the new one, never a mix.
type Store interface {
	// Publish makes s the current snapshot. s must not be mutated afterwards.
	Publish(ctx context.Context, s *model.Snapshot) error
	// Name identifies the store in logs and metrics.
	Name() string
}

// Reader exposes the current snapshot.
type Reader interface {
	// Current returns the last published snapshot or nil before the first.
	Current() *model.Snapshot
}

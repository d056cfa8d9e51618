package repository

import (
	"context"
	"sync/atomic"

	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/metrics"
)

// MemoryStore keeps the current snapshot behind an atomic pointer so the
// HTTP layer can read it without locks while rebuilds publish new ones.
type MemoryStore struct {
	current atomic.Pointer[model.Snapshot]
	version atomic.Uint64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Name implements Store.
func (m *MemoryStore) Name() string { return "memory" }

// Publish implements Store.
func (m *MemoryStore) Publish(_ context.Context, s *model.Snapshot) error {
	if s == nil {
		metrics.RecordErrorByComponent("repository", "nil_snapshot")
		return ErrNilSnapshot
	}
	m.current.Store(s)
	m.version.Add(1)
	metrics.RecordSnapshotPublish(m.Name())
	return nil
}

// Current implements Reader.
func (m *MemoryStore) Current() *model.Snapshot {
	return m.current.Load()
}

// Version counts successful publications.
func (m *MemoryStore) Version() uint64 {
	return m.version.Load()
}

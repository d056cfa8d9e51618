package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/metrics"
)

// DefaultFileName is the document the renderer fetches.
const DefaultFileName = "data.json"

// FileStore writes each snapshot as an indented JSON document into a
// directory, replacing the previous file with a rename.
type FileStore struct {
	dir      string
	fileName string
	indent   string
	perm     os.FileMode
}

// NewFileStore creates a store writing into dir.
func NewFileStore(dir string, opts ...Option) *FileStore {
	s := &FileStore{
		dir:      dir,
		fileName: DefaultFileName,
		indent:   "  ",
		perm:     0o644,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Store.
func (s *FileStore) Name() string { return "file" }

// Path returns the location of the published document.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.fileName)
}

// Publish implements Store.
func (s *FileStore) Publish(ctx context.Context, snap *model.Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	data, err := json.MarshalIndent(snap, "", s.indent)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "marshal")
		return fmt.Errorf("%w: marshal: %w", ErrWrite, err)
	}

	if err := writeAtomic(s.dir, s.fileName, data, s.perm); err != nil {
		metrics.RecordErrorByComponent("repository", "write")
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	metrics.UpdateSnapshotBytes(len(data))
	metrics.RecordSnapshotPublish(s.Name())
	return nil
}

// writeAtomic writes data to a temp file in dir and renames it over name.
func writeAtomic(dir, name string, data []byte, perm os.FileMode) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

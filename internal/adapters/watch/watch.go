// Package watch triggers rebuilds when source files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

const defaultDebounce = 200 * time.Millisecond

// RebuildFunc runs one full rebuild.
type RebuildFunc func(ctx context.Context) error

// Watcher coalesces bursts of filesystem events into single rebuilds.
// Rebuilds run on the watcher goroutine, so they never overlap.
type Watcher struct {
	paths    []string
	ignore   []string
	debounce time.Duration
	rebuild  RebuildFunc

	fsw *fsnotify.Watcher

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a watcher over the configured paths. Paths that do not exist
// are skipped with a warning; at least one must be watchable.
func New(rebuild RebuildFunc, opts ...Option) (*Watcher, error) {
	if rebuild == nil {
		return nil, ErrNilCallback
	}
	w := &Watcher{
		debounce: defaultDebounce,
		rebuild:  rebuild,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("watch"),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}
	w.fsw = fsw

	watched := 0
	for _, p := range w.paths {
		n, err := w.addTree(p)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		watched += n
	}
	if watched == 0 {
		_ = fsw.Close()
		return nil, ErrNoPaths
	}
	return w, nil
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(root string) (int, error) {
	added := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				w.logger.Warn(context.Background(), "watch path missing", logger.String("path", root))
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		return added, fmt.Errorf("%w: %s: %w", ErrWatch, root, err)
	}
	return added, nil
}

func (w *Watcher) ignored(path string) bool {
	clean := filepath.Clean(path)
	for _, ig := range w.ignore {
		ig = filepath.Clean(ig)
		if clean == ig || strings.HasPrefix(clean, ig+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run starts the watch loop until ctx is canceled or Shutdown is called.
func (w *Watcher) Run(ctx context.Context) {
	defer func() {
		_ = w.fsw.Close()
		close(w.done)
	}()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug(ctx, "change detected",
				logger.String("path", ev.Name),
				logger.String("op", ev.Op.String()))
			if ev.Has(fsnotify.Create) {
				w.followNewDir(ev.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			metrics.RecordErrorByComponent("watch", "fsnotify")
			w.logger.Warn(ctx, "watch error", logger.Error(err))
		case <-pending:
			pending = nil
			metrics.RecordWatchTrigger()
			if err := w.rebuild(ctx); err != nil {
				w.logger.Error(ctx, "rebuild failed, keeping last snapshot", logger.Error(err))
				continue
			}
			w.logger.Info(ctx, "rebuild complete")
		}
	}
}

// relevant drops permission-only changes and ignored paths.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return !w.ignored(ev.Name)
}

// followNewDir starts watching a directory created after startup.
func (w *Watcher) followNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if _, err := w.addTree(path); err != nil {
		w.logger.Warn(context.Background(), "cannot watch new directory",
			logger.String("path", path),
			logger.Error(err))
	}
}

// Shutdown stops the watch loop and waits for an in-flight rebuild.
func (w *Watcher) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

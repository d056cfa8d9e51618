// Package service runs scoreboard builds and exposes the published
// snapshot to the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/okian/scoreboard/internal/adapters/repository"
	"github.com/okian/scoreboard/internal/adapters/source"
	"github.com/okian/scoreboard/internal/adapters/static"
	"github.com/okian/scoreboard/internal/domain/lint"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/internal/domain/scoring"
	"github.com/okian/scoreboard/internal/domain/snapshot"
	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

// Build stages, used as span names and metric labels.
const (
	stageLoad      = "load"
	stageLint      = "lint"
	stageAggregate = "aggregate"
	stageAssemble  = "assemble"
	stageStatic    = "static"
	stagePublish   = "publish"
)

// Service owns the build pipeline and the live snapshot.
type Service struct {
	// buildMu serialises builds.
	buildMu sync.Mutex
	// mu guards the stats fields below.
	mu sync.RWMutex

	// Configuration
	eventsDir    string
	teamsFile    string
	srcDir       string
	distDir      string
	lintDistance int
	now          func() time.Time

	// Publication
	live   *repository.MemoryStore
	stores []repository.Store

	// Stats
	builds       int
	failures     int
	lastBuildID  string
	lastDuration time.Duration
	lastError    string
	lastFindings int

	tracer trace.Tracer
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		eventsDir:    "ctfs",
		lintDistance: 1,
		now:          time.Now,
		live:         repository.NewMemoryStore(),
		tracer:       otel.Tracer("scoreboard-build"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("build")
	}
	return s
}

// buildResult carries the outputs of the loading stage.
type buildResult struct {
	events   []model.Event
	registry model.Registry
}

// Build runs one complete build and publishes the result. On failure
// nothing is published and the previous snapshot stays live.
func (s *Service) Build(ctx context.Context) (*model.Snapshot, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	buildID := uuid.NewString()
	log := s.logger.With(logger.String("build_id", buildID))

	ctx, span := s.tracer.Start(ctx, "Build",
		trace.WithAttributes(
			attribute.String("build.id", buildID),
			attribute.String("build.events_dir", s.eventsDir),
		),
	)
	defer span.End()

	start := time.Now()
	metrics.RecordBuildStarted()
	log.Info(ctx, "build started", logger.String("events_dir", s.eventsDir))

	snap, stage, findings, err := s.run(ctx, log)
	elapsed := time.Since(start)
	metrics.RecordBuildDuration(float64(elapsed.Milliseconds()))

	s.mu.Lock()
	s.builds++
	s.lastBuildID = buildID
	s.lastDuration = elapsed
	s.lastFindings = findings
	if err != nil {
		s.failures++
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		metrics.RecordBuildFailed(stage)
		metrics.RecordErrorByComponent("build", stage)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error(ctx, "build failed, keeping previous snapshot",
			logger.String("stage", stage),
			logger.Duration("elapsed", elapsed),
			logger.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrBuild, stage, err)
	}

	metrics.UpdateLastSuccess(float64(snap.GeneratedAt.Unix()))
	span.SetStatus(codes.Ok, "")
	log.Info(ctx, "build complete",
		logger.Int("events", len(snap.Events)),
		logger.Int("teams", len(snap.Teams)),
		logger.Int("findings", findings),
		logger.Duration("elapsed", elapsed))
	return snap, nil
}

// run executes the pipeline and reports the failing stage on error.
func (s *Service) run(ctx context.Context, log logger.Logger) (*model.Snapshot, string, int, error) {
	var loaded buildResult
	if err := s.stage(ctx, stageLoad, func(ctx context.Context) error {
		var err error
		loaded, err = s.load(ctx)
		return err
	}); err != nil {
		return nil, stageLoad, 0, err
	}
	log.Info(ctx, "sources loaded",
		logger.Int("events", len(loaded.events)),
		logger.Int("registry_teams", len(loaded.registry)))

	var findings []lint.Finding
	s.step(ctx, stageLint, func(context.Context) {
		findings = lint.NewChecker(lint.WithMaxDistance(s.lintDistance)).Check(loaded.events, loaded.registry)
	})
	for _, f := range findings {
		metrics.RecordLintFinding(string(f.Kind))
		log.Warn(ctx, f.Message,
			logger.String("kind", string(f.Kind)),
			logger.String("event", f.Event),
			logger.Strings("teams", f.Teams))
	}

	var (
		teams []model.TeamRecord
		board []model.LeaderboardEntry
	)
	s.step(ctx, stageAggregate, func(context.Context) {
		teams = scoring.Aggregate(loaded.events, loaded.registry)
		board = scoring.BuildLeaderboard(teams)
	})

	var snap *model.Snapshot
	s.step(ctx, stageAssemble, func(context.Context) {
		snap = snapshot.Assemble(loaded.events, teams, board, s.now())
	})
	metrics.UpdateSnapshotSizes(len(loaded.events), len(loaded.registry), len(teams), len(board))

	if err := s.stage(ctx, stageStatic, func(ctx context.Context) error {
		return s.copyStatic(ctx, log)
	}); err != nil {
		return nil, stageStatic, len(findings), err
	}

	if err := s.stage(ctx, stagePublish, func(ctx context.Context) error {
		return s.publish(ctx, snap)
	}); err != nil {
		return nil, stagePublish, len(findings), err
	}
	return snap, "", len(findings), nil
}

// step wraps fn in a span and records its duration.
func (s *Service) step(ctx context.Context, name string, fn func(context.Context)) {
	ctx, span := s.tracer.Start(ctx, "Build."+name)
	defer span.End()

	start := time.Now()
	fn(ctx)
	metrics.RecordStageDuration(name, float64(time.Since(start).Milliseconds()))
}

// stage is step for a fallible fn; the error is recorded on the span.
func (s *Service) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	var err error
	s.step(ctx, name, func(ctx context.Context) {
		if err = fn(ctx); err != nil {
			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	})
	return err
}

// load reads events and the registry concurrently.
func (s *Service) load(ctx context.Context) (buildResult, error) {
	var res buildResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := source.LoadEvents(gctx, s.eventsDir)
		res.events = events
		return err
	})
	g.Go(func() error {
		reg, err := source.LoadTeams(gctx, s.teamsFile)
		res.registry = reg
		return err
	})
	if err := g.Wait(); err != nil {
		return buildResult{}, err
	}
	return res, nil
}

// copyStatic mirrors src into dist. A missing src is only a warning.
func (s *Service) copyStatic(ctx context.Context, log logger.Logger) error {
	if s.srcDir == "" || s.distDir == "" {
		return nil
	}
	n, err := static.CopyDir(ctx, s.srcDir, s.distDir)
	if errors.Is(err, static.ErrSourceMissing) {
		log.Warn(ctx, "static source missing, skipping copy", logger.String("src", s.srcDir))
		return nil
	}
	if err != nil {
		return err
	}
	metrics.RecordStaticFilesCopied(n)
	log.Debug(ctx, "static files copied", logger.Int("files", n), logger.String("dist", s.distDir))
	return nil
}

// publish hands snap to every configured store, then makes it live. A
// store failure stops publication before the live snapshot changes.
func (s *Service) publish(ctx context.Context, snap *model.Snapshot) error {
	for _, st := range s.stores {
		if err := st.Publish(ctx, snap); err != nil {
			return fmt.Errorf("store %s: %w", st.Name(), err)
		}
	}
	return s.live.Publish(ctx, snap)
}

// Current returns the live snapshot or nil before the first build.
func (s *Service) Current() *model.Snapshot {
	return s.live.Current()
}

// Leaderboard returns the live leaderboard.
func (s *Service) Leaderboard(_ context.Context) ([]model.LeaderboardEntry, error) {
	snap := s.Current()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap.Leaderboard, nil
}

// Events returns the live event list.
func (s *Service) Events(_ context.Context) ([]model.Event, error) {
	snap := s.Current()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap.Events, nil
}

// Team returns the first team, in first-seen order, whose display id is id.
func (s *Service) Team(_ context.Context, id string) (model.TeamRecord, error) {
	snap := s.Current()
	if snap == nil {
		return model.TeamRecord{}, ErrNotReady
	}
	t, ok := snap.TeamByID(id)
	if !ok {
		return model.TeamRecord{}, fmt.Errorf("%w: %s", ErrTeamNotFound, id)
	}
	return t, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"builds":         s.builds,
		"failures":       s.failures,
		"lastBuildId":    s.lastBuildID,
		"lastDurationMs": s.lastDuration.Milliseconds(),
		"lastFindings":   s.lastFindings,
		"ready":          false,
		"goroutines":     runtime.NumGoroutine(),
	}
	if s.lastError != "" {
		stats["lastError"] = s.lastError
	}
	if snap := s.live.Current(); snap != nil {
		stats["ready"] = true
		stats["lastUpdated"] = snap.LastUpdated
		stats["events"] = len(snap.Events)
		stats["teams"] = len(snap.Teams)
		stats["version"] = s.live.Version()
	}
	return stats
}

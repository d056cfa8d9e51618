package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/scoreboard/internal/adapters/http/api"
	"github.com/okian/scoreboard/internal/adapters/http/site"
	"github.com/okian/scoreboard/internal/adapters/http/swagger"
	"github.com/okian/scoreboard/internal/adapters/repository"
	"github.com/okian/scoreboard/internal/adapters/watch"
	app "github.com/okian/scoreboard/internal/app"
	"github.com/okian/scoreboard/internal/config"
	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

// Subcommands.
const (
	cmdBuild = "build"
	cmdServe = "serve"
)

var errUsage = errors.New("usage: scoreboard [build|serve]")

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code.
func run(args []string) int {
	cmd, err := parseCommand(args)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return 2
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, log)

	switch cmd {
	case cmdServe:
		if err := serve(ctx, cfg, svc, log); err != nil {
			log.Error(ctx, "serve failed", logger.Error(err))
			return 1
		}
	default:
		if _, err := svc.Build(ctx); err != nil {
			return 1
		}
	}
	return 0
}

// parseCommand picks the subcommand; build is the default.
func parseCommand(args []string) (string, error) {
	if len(args) == 0 {
		return cmdBuild, nil
	}
	if len(args) > 1 {
		return "", errUsage
	}
	switch args[0] {
	case cmdBuild, cmdServe:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// newService wires the build service from configuration.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log.Named("build")),
		app.WithEventsDir(cfg.EventsDir),
		app.WithTeamsFile(cfg.TeamsFile),
		app.WithStaticDirs(cfg.SrcDir, cfg.DistDir),
		app.WithStores(repository.NewFileStore(cfg.DistDir)),
		app.WithLintDistance(cfg.NameLintDistance),
	)
}

// newMux registers the site, API and docs routes.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	site.Register(ctx, mux, cfg.DistDir)
	return mux
}

// serve builds once, then serves dist and the API until ctx is done.
func serve(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) error {
	if _, err := svc.Build(ctx); err != nil {
		log.Warn(ctx, "initial build failed; serving until a rebuild succeeds", logger.Error(err))
	}

	go startSystemMetricsUpdater(ctx)

	var watcher *watch.Watcher
	if cfg.Watch {
		w, err := newWatcher(cfg, svc, log)
		if err != nil {
			log.Warn(ctx, "file watching disabled", logger.Error(err))
		} else {
			watcher = w
			go watcher.Run(ctx)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "dev server running", logger.String("addr", cfg.Addr), logger.String("dist", cfg.DistDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if watcher != nil {
		if err := watcher.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "watcher shutdown failed", logger.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return serveErr
}

// newWatcher watches the events, registry and static source directories.
func newWatcher(cfg *config.Config, svc *app.Service, log logger.Logger) (*watch.Watcher, error) {
	paths := []string{cfg.EventsDir, cfg.SrcDir}
	if cfg.TeamsFile != "" {
		paths = append(paths, teamsDir(cfg.TeamsFile))
	}
	return watch.New(func(ctx context.Context) error {
		_, err := svc.Build(ctx)
		return err
	},
		watch.WithPaths(paths...),
		watch.WithIgnore(cfg.DistDir),
		watch.WithDebounce(time.Duration(cfg.WatchDebounceMS)*time.Millisecond),
		watch.WithLogger(log.Named("watch")),
	)
}

// teamsDir is the directory watched for registry changes.
func teamsDir(teamsFile string) string {
	return filepath.Dir(teamsFile)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// Package metrics provides Prometheus metrics for the scoreboard builder.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scoreboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Build Metrics
	buildsTotal        prometheus.Counter
	buildsFailed       *prometheus.CounterVec
	buildDuration      prometheus.Histogram
	stageDuration      *prometheus.HistogramVec
	lastSuccessUnix    prometheus.Gauge
	eventsLoaded       prometheus.Gauge
	teamsLoaded        prometheus.Gauge
	teamsRanked        prometheus.Gauge
	leaderboardSize    prometheus.Gauge
	lintFindings       *prometheus.CounterVec
	watchTriggers      prometheus.Counter
	snapshotBytes      prometheus.Gauge
	staticFilesCopied  prometheus.Counter
	snapshotPublishes  *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scoreboard",
		subsystem:        "build",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.buildsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Total number of snapshot builds started",
		ConstLabels: labels,
	})

	m.buildsFailed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "failures_total",
		Help:        "Total number of failed builds by stage",
		ConstLabels: labels,
	}, []string{"stage"})

	m.buildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duration_milliseconds",
		Help:        "Duration of complete builds in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_milliseconds",
		Help:        "Duration of individual build stages in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"stage"})

	m.lastSuccessUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_success_unix",
		Help:        "Unix time of the last published snapshot",
		ConstLabels: labels,
	})

	m.eventsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "events_loaded",
		Help:        "Number of events in the last build",
		ConstLabels: labels,
	})

	m.teamsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "registry_teams",
		Help:        "Number of team definitions in the registry",
		ConstLabels: labels,
	})

	m.teamsRanked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "teams_with_results",
		Help:        "Number of teams with at least one result",
		ConstLabels: labels,
	})

	m.leaderboardSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "leaderboard_size",
		Help:        "Number of leaderboard entries in the last snapshot",
		ConstLabels: labels,
	})

	m.lintFindings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "lint_findings_total",
		Help:        "Team name lint findings by kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.watchTriggers = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "watch_triggers_total",
		Help:        "Rebuilds triggered by file changes",
		ConstLabels: labels,
	})

	m.snapshotBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_bytes",
		Help:        "Size of the last written data.json",
		ConstLabels: labels,
	})

	m.staticFilesCopied = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "static_files_copied_total",
		Help:        "Static site files copied into the output directory",
		ConstLabels: labels,
	})

	m.snapshotPublishes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_publishes_total",
		Help:        "Snapshot publications by store",
		ConstLabels: labels,
	}, []string{"store"})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   "http",
			Name:        "request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "errors",
		Name:        "by_component_total",
		Help:        "Errors by component and type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "errors",
		Name:        "by_endpoint_total",
		Help:        "HTTP errors by endpoint, method and type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_bytes",
		Help:        "Allocated heap memory in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})
}

// Build Metrics Functions.

// RecordBuildStarted increments the build counter.
func RecordBuildStarted() {
	globalManager.buildsTotal.Inc()
}

// RecordBuildFailed increments the failure counter for the given stage.
func RecordBuildFailed(stage string) {
	globalManager.buildsFailed.WithLabelValues(stage).Inc()
}

// RecordBuildDuration records the duration of a complete build.
func RecordBuildDuration(durationMs float64) {
	globalManager.buildDuration.Observe(durationMs)
}

// RecordStageDuration records the duration of one build stage.
func RecordStageDuration(stage string, durationMs float64) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(durationMs)
}

// UpdateLastSuccess sets the unix time of the last published snapshot.
func UpdateLastSuccess(unix float64) {
	globalManager.lastSuccessUnix.Set(unix)
}

// UpdateSnapshotSizes records the cardinalities of the last build.
func UpdateSnapshotSizes(events, registryTeams, teams, leaderboard int) {
	globalManager.eventsLoaded.Set(float64(events))
	globalManager.teamsLoaded.Set(float64(registryTeams))
	globalManager.teamsRanked.Set(float64(teams))
	globalManager.leaderboardSize.Set(float64(leaderboard))
}

// RecordLintFinding increments the lint counter for kind.
func RecordLintFinding(kind string) {
	globalManager.lintFindings.WithLabelValues(kind).Inc()
}

// RecordWatchTrigger increments the watch-triggered rebuild counter.
func RecordWatchTrigger() {
	globalManager.watchTriggers.Inc()
}

// UpdateSnapshotBytes sets the size of the last written snapshot document.
func UpdateSnapshotBytes(n int) {
	globalManager.snapshotBytes.Set(float64(n))
}

// RecordStaticFilesCopied adds n to the copied files counter.
func RecordStaticFilesCopied(n int) {
	globalManager.staticFilesCopied.Add(float64(n))
}

// RecordSnapshotPublish increments the publish counter for a store.
func RecordSnapshotPublish(store string) {
	globalManager.snapshotPublishes.WithLabelValues(store).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

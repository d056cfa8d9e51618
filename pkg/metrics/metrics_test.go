package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the scoreboard namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "scoreboard")
				So(manager.subsystem, ShouldEqual, "build")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.buildsTotal.Inc()

			Convey("Then the metrics should be registered with the custom names", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_ns_test_sub_runs_total")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 5, 10})
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "scoreboard")
				So(manager.subsystem, ShouldEqual, "build")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording build metrics", func() {
			before := testutil.ToFloat64(globalManager.buildsTotal)
			RecordBuildStarted()
			RecordBuildStarted()
			RecordBuildFailed("load")
			RecordBuildDuration(12)
			RecordStageDuration("aggregate", 1)
			UpdateSnapshotSizes(3, 5, 4, 4)
			UpdateLastSuccess(1_700_000_000)

			Convey("Then counters and gauges should reflect the values", func() {
				So(testutil.ToFloat64(globalManager.buildsTotal)-before, ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.buildsFailed.WithLabelValues("load")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.eventsLoaded), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.teamsLoaded), ShouldEqual, 5)
				So(testutil.ToFloat64(globalManager.teamsRanked), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.leaderboardSize), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.lastSuccessUnix), ShouldEqual, 1_700_000_000)
			})
		})

		Convey("When recording lint and watch metrics", func() {
			before := testutil.ToFloat64(globalManager.lintFindings.WithLabelValues("near_duplicate"))
			RecordLintFinding("near_duplicate")
			RecordWatchTrigger()
			RecordStaticFilesCopied(3)
			RecordSnapshotPublish("memory")
			UpdateSnapshotBytes(2048)

			Convey("Then they should be observable", func() {
				So(testutil.ToFloat64(globalManager.lintFindings.WithLabelValues("near_duplicate"))-before, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.snapshotBytes), ShouldEqual, 2048)
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordHTTPRequest("leaderboard", "GET", "200")
					RecordHTTPRequestDuration("leaderboard", "GET", "200", 3)
					RecordErrorByComponent("source", "load")
					RecordErrorByEndpoint("team", "GET", "not_found")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering from the custom registry", func() {
			RecordBuildStarted()
			families, err := GetRegistry().Gather()

			Convey("Then only scoreboard metrics should be exposed", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "scoreboard_"), ShouldBeTrue)
				}
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent metric updates", t, func() {
		before := testutil.ToFloat64(globalManager.watchTriggers)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				RecordWatchTrigger()
			}()
		}
		wg.Wait()

		Convey("Then no update should be lost", func() {
			So(testutil.ToFloat64(globalManager.watchTriggers)-before, ShouldEqual, 20)
		})
	})
}

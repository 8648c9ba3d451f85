package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
			})
		})

		Convey("When applying options to a manager", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("custom"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithRefreshInterval(time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the configuration should stick", func() {
				So(manager.namespace, ShouldEqual, "custom")
				So(manager.subsystem, ShouldEqual, "unit")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 5, 10})
				So(manager.refreshInterval, ShouldEqual, time.Second)
			})
		})

		Convey("When applying empty or invalid option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(0),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults should be preserved", func() {
				So(manager.namespace, ShouldEqual, "lifebridge")
				So(manager.subsystem, ShouldEqual, "matching")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})

			Convey("And all metric families should be registered", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				// Metrics without observations do not gather, so register
				// one observation per kind that needs it.
				So(families, ShouldNotBeNil)
			})
		})

		Convey("When creating two managers on distinct registries", func() {
			first := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))
			second := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then both should be created without duplicate registration panics", func() {
				So(first, ShouldNotBeNil)
				So(second, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording match-run metrics", func() {
			Convey("Then runs and durations should record without panicking", func() {
				So(func() { RecordMatchRun(12.5) }, ShouldNotPanic)
				So(func() { RecordMatchesProduced(3) }, ShouldNotPanic)
				So(func() { RecordCandidatesEvaluated(10) }, ShouldNotPanic)
				So(func() { RecordCandidatesBelowThreshold(7) }, ShouldNotPanic)
				So(func() { RecordDuplicateRunRequest() }, ShouldNotPanic)
				So(func() { RecordMatchingError() }, ShouldNotPanic)
			})

			Convey("Then score observations should record without panicking", func() {
				So(func() { ObserveCompatibilityScore(87.5) }, ShouldNotPanic)
				So(func() { ObserveRankingScore(70.5) }, ShouldNotPanic)
			})
		})

		Convey("When updating registry gauges", func() {
			So(func() { UpdateRegistrySizes(10, 200, 30, 45) }, ShouldNotPanic)
		})

		Convey("When recording queue metrics", func() {
			So(func() { UpdateQueueSize(5) }, ShouldNotPanic)
			So(func() { UpdateQueueCapacity(100) }, ShouldNotPanic)
			So(func() { UpdateQueueUtilization(0.05) }, ShouldNotPanic)
			So(func() { RecordQueueEnqueue() }, ShouldNotPanic)
			So(func() { RecordQueueDequeue() }, ShouldNotPanic)
			So(func() { RecordQueueEnqueueError() }, ShouldNotPanic)
		})

		Convey("When recording worker metrics", func() {
			So(func() { UpdateWorkerCount(4) }, ShouldNotPanic)
			So(func() { RecordWorkerProcessingLatency(3.2) }, ShouldNotPanic)
			So(func() { RecordWorkerError() }, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() { RecordHTTPRequest("/organs", "POST", "201") }, ShouldNotPanic)
			So(func() { RecordHTTPRequestDuration("/organs", "POST", "201", 1.5) }, ShouldNotPanic)
		})

		Convey("When recording error metrics", func() {
			So(func() { RecordErrorByComponent("worker", "match_run_error") }, ShouldNotPanic)
			So(func() { RecordErrorByType("match_run_error", "high") }, ShouldNotPanic)
			So(func() { RecordErrorByEndpoint("/organs", "POST", "bad_request") }, ShouldNotPanic)
			So(func() { RecordErrorLatency("worker", "match_run_error", 4.2) }, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() { UpdateSystemMemoryUsage(1 << 20) }, ShouldNotPanic)
			So(func() { UpdateSystemGoroutineCount(42) }, ShouldNotPanic)
			So(func() { RecordSystemGCPauseTime(0.8) }, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the package-level registry", t, func() {
		registry := GetRegistry()

		Convey("Then it should be non-nil and gatherable", func() {
			So(registry, ShouldNotBeNil)

			RecordMatchRun(1)
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestMatchRunCounterValues(t *testing.T) {
	Convey("Given a manager on an isolated registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("When incrementing counters directly", func() {
			manager.matchRuns.Inc()
			manager.matchRuns.Inc()
			manager.matchesProduced.Add(5)

			Convey("Then gathered values should reflect the increments", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				values := map[string]float64{}
				for _, fam := range families {
					for _, m := range fam.GetMetric() {
						if m.GetCounter() != nil {
							values[fam.GetName()] = m.GetCounter().GetValue()
						}
					}
				}

				So(values["lifebridge_matching_match_runs_total"], ShouldEqual, 2)
				So(values["lifebridge_matching_matches_produced_total"], ShouldEqual, 5)
			})
		})
	})
}

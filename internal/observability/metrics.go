// Package observability holds the logger and Prometheus collectors shared by the CLIs.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	comparisonsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_catalog",
		Subsystem: "diff",
		Name:      "comparisons_total",
		Help:      "Number of catalog comparisons run.",
	})

	differencesGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "exercise_catalog",
		Subsystem: "diff",
		Name:      "structural_differences",
		Help:      "Structural differences found by the most recent comparison, by kind.",
	}, []string{"kind"})

	trackedChangesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_catalog",
		Subsystem: "diff",
		Name:      "tracked_field_changes",
		Help:      "Tracked-field changes found by the most recent comparison.",
	})

	lastComparisonGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_catalog",
		Subsystem: "diff",
		Name:      "last_comparison_timestamp_seconds",
		Help:      "Unix timestamp of the most recent catalog comparison.",
	})

	publishedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_catalog",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Number of change events written to Kafka, by topic.",
	}, []string{"topic"})

	sessionsLoadedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workout_report",
		Subsystem: "exports",
		Name:      "sessions_loaded",
		Help:      "Workout sessions loaded by the most recent report run.",
	})

	exportsSkippedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workout_report",
		Subsystem: "exports",
		Name:      "files_skipped_total",
		Help:      "Number of export files that could not be read or decoded.",
	})

	reportRowsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workout_report",
		Subsystem: "csv",
		Name:      "rows_written",
		Help:      "Exercise rows written by the most recent report run.",
	})
)

func init() {
	prometheus.MustRegister(
		comparisonsCounter,
		differencesGauge,
		trackedChangesGauge,
		lastComparisonGauge,
		publishedCounter,
		sessionsLoadedGauge,
		exportsSkippedCounter,
		reportRowsGauge,
	)
}

// RecordComparison updates the comparison collectors. byKind maps a difference kind to its count.
func RecordComparison(byKind map[string]int, tracked int, ts time.Time) {
	comparisonsCounter.Inc()
	differencesGauge.Reset()
	for kind, n := range byKind {
		differencesGauge.WithLabelValues(kind).Set(float64(n))
	}
	trackedChangesGauge.Set(float64(tracked))
	if !ts.IsZero() {
		lastComparisonGauge.Set(float64(ts.Unix()))
	}
}

// RecordPublished counts events delivered to topic.
func RecordPublished(topic string, n int) {
	publishedCounter.WithLabelValues(topic).Add(float64(n))
}

// RecordSessionsLoaded sets the number of sessions kept from the exports directory.
func RecordSessionsLoaded(n int) {
	sessionsLoadedGauge.Set(float64(n))
}

// RecordExportSkipped counts an unreadable export file.
func RecordExportSkipped() {
	exportsSkippedCounter.Inc()
}

// RecordReportRows sets the number of rows written to the report.
func RecordReportRows(n int) {
	reportRowsGauge.Set(float64(n))
}

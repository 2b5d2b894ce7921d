// internal/telemetry/telemetry.go
// Package telemetry exposes Prometheus instruments for view loads and
// manifest refreshes.
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "greenview"

// Recorder holds the instruments. A nil *Recorder records nothing, so
// callers that do not care about metrics can pass nil.
type Recorder struct {
	registry      *prometheus.Registry
	loads         *prometheus.CounterVec
	loadDuration  *prometheus.HistogramVec
	droppedRows   *prometheus.CounterVec
	sourceErrors  *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
	manifestFiles prometheus.Gauge
}

// New builds a Recorder on its own registry, with the Go and process
// collectors attached.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_loads_total",
			Help:      "View loads by final state.",
		}, []string{"view", "state"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_load_duration_seconds",
			Help:      "Time spent fetching and reshaping a view.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
		droppedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_rows_total",
			Help:      "Rows skipped because a field was missing or not a finite number.",
		}, []string{"view"}),
		sourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_errors_total",
			Help:      "Sources treated as absent after a fetch or parse failure.",
		}, []string{"view"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manifest_refreshes_total",
			Help:      "Manifest regenerations by outcome.",
		}, []string{"ok"}),
		manifestFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "manifest_files",
			Help:      "Files listed in the last written manifest.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.loads,
		r.loadDuration,
		r.droppedRows,
		r.sourceErrors,
		r.refreshes,
		r.manifestFiles,
	)
	return r
}

// Gatherer returns the registry for exposition.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

// ObserveLoad records one finished view load.
func (r *Recorder) ObserveLoad(view, state string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.loads.WithLabelValues(view, state).Inc()
	r.loadDuration.WithLabelValues(view).Observe(elapsed.Seconds())
}

// AddDropped counts skipped rows for a view.
func (r *Recorder) AddDropped(view string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.droppedRows.WithLabelValues(view).Add(float64(n))
}

// SourceFailed counts a source that was treated as absent.
func (r *Recorder) SourceFailed(view string) {
	if r == nil {
		return
	}
	r.sourceErrors.WithLabelValues(view).Inc()
}

// ObserveRefresh records a manifest regeneration.
func (r *Recorder) ObserveRefresh(ok bool, files int) {
	if r == nil {
		return
	}
	r.refreshes.WithLabelValues(strconv.FormatBool(ok)).Inc()
	if ok {
		r.manifestFiles.Set(float64(files))
	}
}

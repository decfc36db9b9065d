// Package metrics exports benchmark results as Prometheus metrics, written to
// a node_exporter textfile so that repeated runs can be scraped.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/utkarsh5026/tripbench/internal/bench"
)

const namespace = "tripbench"

// Recorder collects benchmark reports on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	elapsed *prometheus.GaugeVec
	rows    *prometheus.CounterVec
	runs    *prometheus.CounterVec
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.elapsed = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "elapsed_seconds",
			Help:      "Wall-clock time of the last measured run",
		},
		[]string{"strategy", "data_size", "operation"},
	)
	r.rows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_processed_total",
			Help:      "Values handed to a strategy across all measured runs",
		},
		[]string{"strategy"},
	)
	r.runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Completed benchmark reports",
		},
		[]string{"strategy"},
	)

	r.registry.MustRegister(r.elapsed, r.rows, r.runs)
	return r
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Record adds every row of a report.
func (r *Recorder) Record(report *bench.Report) {
	for _, row := range report.Rows {
		r.elapsed.WithLabelValues(report.Strategy, row.DataSize, row.Operation.String()).
			Set(row.Elapsed.Seconds())
		r.rows.WithLabelValues(report.Strategy).Add(float64(row.Rows))
	}
	r.runs.WithLabelValues(report.Strategy).Inc()
}

// WriteTextfile writes the current metrics in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

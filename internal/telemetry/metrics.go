// Package telemetry records per-run process metrics and writes them in the
// Prometheus text format next to the run outputs.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"evaldriver.dev/pkg/evaldriver/internal/adapter"
	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

// Metrics holds the collectors of one run. Each run gets its own registry so
// the written textfile only contains that run.
type Metrics struct {
	registry *prometheus.Registry

	outcomes  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	launches  *prometheus.CounterVec
}

// NewMetrics creates a fresh registry with the run collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evaldriver_process_outcomes_total",
			Help: "External process runs by pipeline step and outcome",
		}, []string{"step", "outcome"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evaldriver_process_duration_seconds",
			Help:    "External process wall time by pipeline step",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 14),
		}, []string{"step"}),
		launches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evaldriver_process_launch_errors_total",
			Help: "Processes that could not be launched or waited for",
		}, []string{"step"}),
	}
}

// Observe records one finished process.
func (mt *Metrics) Observe(step string, result m.ProcessResult) {
	mt.outcomes.WithLabelValues(step, result.Outcome.String()).Inc()
	mt.durations.WithLabelValues(step).Observe(result.Elapsed.Seconds())
}

// ObserveLaunchError records a process that never produced an outcome.
func (mt *Metrics) ObserveLaunchError(step string) {
	mt.launches.WithLabelValues(step).Inc()
}

// Registry exposes the underlying registry.
func (mt *Metrics) Registry() *prometheus.Registry {
	return mt.registry
}

// WriteTextfile writes the metrics to path in the Prometheus text format.
func (mt *Metrics) WriteTextfile(path m.Path) error {
	if err := prometheus.WriteToTextfile(string(path), mt.registry); err != nil {
		slog.Error("Failed to write metrics", "path", path, "error", err)
		return fmt.Errorf("failed to write metrics: %w", err)
	}

	return nil
}

type instrumentedRunner struct {
	next    adapter.ProcessRunner
	metrics *Metrics
}

// NewInstrumentedRunner wraps a ProcessRunner so every run is recorded in metrics.
func NewInstrumentedRunner(next adapter.ProcessRunner, metrics *Metrics) adapter.ProcessRunner {
	return &instrumentedRunner{next: next, metrics: metrics}
}

func (r *instrumentedRunner) Run(ctx context.Context, spec m.ProcessSpec) (m.ProcessResult, error) {
	result, err := r.next.Run(ctx, spec)
	if err != nil {
		r.metrics.ObserveLaunchError(spec.Step)
		return result, err
	}

	r.metrics.Observe(spec.Step, result)

	return result, nil
}

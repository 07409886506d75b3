// Package metrics exports run statistics in the Prometheus textfile format,
// for node_exporter's textfile collector or CI dashboards.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AndreyAkinshin/xcov/internal/coverage"
	"github.com/AndreyAkinshin/xcov/internal/lcov"
)

// Recorder owns a private registry so that runs (and tests) never share state.
type Recorder struct {
	registry *prometheus.Registry

	StageDurationSeconds *prometheus.GaugeVec
	TestBinaries         prometheus.Gauge
	RawProfiles          prometheus.Gauge
	LinesTotal           prometheus.Gauge
	LinesCovered         prometheus.Gauge
	LineCoverageRatio    prometheus.Gauge
	FunctionsTotal       prometheus.Gauge
	FunctionsCovered     prometheus.Gauge
}

// NewRecorder creates a recorder with every metric registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		StageDurationSeconds: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "xcov_stage_duration_seconds",
				Help: "Wall-clock duration of each pipeline stage in the last run",
			},
			[]string{"stage"},
		),
		TestBinaries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xcov_test_binaries",
			Help: "Number of instrumented test binaries built",
		}),
		RawProfiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xcov_raw_profiles",
			Help: "Number of raw profiles merged",
		}),
		LinesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xcov_lines_total",
			Help: "Number of instrumented source lines",
		}),
		LinesCovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xcov_lines_covered",
			Help: "Number of source lines executed at least once",
		}),
		LineCoverageRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xcov_line_coverage_ratio",
			Help: "Covered lines divided by instrumented lines (0 when nothing is instrumented)",
		}),
		FunctionsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xcov_functions_total",
			Help: "Number of instrumented functions",
		}),
		FunctionsCovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xcov_functions_covered",
			Help: "Number of functions executed at least once",
		}),
	}

	r.registry.MustRegister(
		r.StageDurationSeconds,
		r.TestBinaries,
		r.RawProfiles,
		r.LinesTotal,
		r.LinesCovered,
		r.LineCoverageRatio,
		r.FunctionsTotal,
		r.FunctionsCovered,
	)
	return r
}

// RecordRun sets the pipeline gauges from a run result.
func (r *Recorder) RecordRun(res *coverage.Result) {
	for _, s := range res.Stages {
		r.StageDurationSeconds.WithLabelValues(s.Name).Set(s.Duration.Seconds())
	}
	r.TestBinaries.Set(float64(len(res.Binaries)))
	r.RawProfiles.Set(float64(res.RawProfiles))
}

// RecordSummary sets the coverage gauges from an LCOV summary.
func (r *Recorder) RecordSummary(s *lcov.Summary) {
	r.LinesTotal.Set(float64(s.Lines.Total))
	r.LinesCovered.Set(float64(s.Lines.Covered))
	r.LineCoverageRatio.Set(s.Lines.Ratio())
	r.FunctionsTotal.Set(float64(s.Functions.Total))
	r.FunctionsCovered.Set(float64(s.Functions.Covered))
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile atomically writes every metric to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// SPDX-License-Identifier: MIT

package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "foldflow"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	runDuration       prom.Histogram
	predictorDuration prom.Histogram
	runOutcome        *prom.CounterVec
	steps             prom.Counter
	finalRg           prom.Histogram
	ensembleWorkers   prom.Gauge
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs the collectors and registers them on reg
// (a fresh registry when reg is nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full sampling run",
			Buckets:   prom.DefBuckets,
		}),
		predictorDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "predictor_duration_seconds",
			Help:      "Latency of a single predictor call",
			Buckets:   prom.ExponentialBuckets(1e-5, 4, 10),
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Sampling runs by final status",
		}, []string{"outcome"}),
		steps: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Integration steps completed across all runs",
		}),
		finalRg: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "final_radius_of_gyration",
			Help:      "Radius of gyration of sampled structures",
			Buckets:   prom.LinearBuckets(0, 5, 12),
		}),
		ensembleWorkers: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "ensemble_workers",
			Help:      "Worker limit of the last ensemble run",
		}),
	}
	reg.MustRegister(pr.runDuration, pr.predictorDuration, pr.runOutcome, pr.steps, pr.finalRg, pr.ensembleWorkers)

	return pr
}

// ObserveRunDuration implements Recorder.
func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

// ObservePredictorDuration implements Recorder.
func (p *PrometheusRecorder) ObservePredictorDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.predictorDuration.Observe(d.Seconds())
}

// IncRunOutcome implements Recorder.
func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

// IncSteps implements Recorder. Non-positive n is ignored.
func (p *PrometheusRecorder) IncSteps(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.steps.Add(float64(n))
}

// ObserveFinalRg implements Recorder.
func (p *PrometheusRecorder) ObserveFinalRg(rg float64) {
	if p == nil {
		return
	}
	p.finalRg.Observe(rg)
}

// SetEnsembleWorkers implements Recorder.
func (p *PrometheusRecorder) SetEnsembleWorkers(n int) {
	if p == nil {
		return
	}
	p.ensembleWorkers.Set(float64(n))
}

// HTTPHandler returns an http.Handler that serves the metrics in reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

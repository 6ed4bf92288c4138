// SPDX-License-Identifier: MIT

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveRunDuration(time.Second)
	r.ObservePredictorDuration(time.Millisecond)
	r.IncRunOutcome(OutcomeSuccess)
	r.IncSteps(10)
	r.ObserveFinalRg(12)
	r.SetEnsembleWorkers(4)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.ObservePredictorDuration(150 * time.Microsecond)
	pr.IncRunOutcome(OutcomeSuccess)
	pr.IncRunOutcome(OutcomeFailed)
	pr.IncRunOutcome(OutcomeSuccess)
	pr.IncSteps(100)
	pr.IncSteps(-3)
	pr.ObserveFinalRg(14.2)
	pr.SetEnsembleWorkers(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	byName := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				byName[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				byName[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 3.0, byName["foldflow_run_outcomes_total"])
	assert.Equal(t, 100.0, byName["foldflow_steps_total"])
	assert.Equal(t, 3.0, byName["foldflow_ensemble_workers"])
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveRunDuration(time.Second)
		pr.IncRunOutcome(OutcomeCanceled)
		pr.IncSteps(1)
	})
}

// TestHTTPHandler scrapes the handler and looks for the namespace.
func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncSteps(7)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "foldflow_steps_total 7")
}

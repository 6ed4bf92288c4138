// SPDX-License-Identifier: MIT

package metrics

import "time"

// OutcomeLabel enumerates run outcome categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for sampling runs. Implementations
// must be safe for concurrent use by ensemble workers.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	ObservePredictorDuration(d time.Duration)
	IncRunOutcome(outcome OutcomeLabel)
	IncSteps(n int)
	ObserveFinalRg(rg float64)
	SetEnsembleWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)       {}
func (NoopRecorder) ObservePredictorDuration(time.Duration) {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)             {}
func (NoopRecorder) IncSteps(int)                           {}
func (NoopRecorder) ObserveFinalRg(float64)                 {}
func (NoopRecorder) SetEnsembleWorkers(int)                 {}

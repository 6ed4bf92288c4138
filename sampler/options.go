// SPDX-License-Identifier: MIT

package sampler

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/foldflow/metrics"
)

// Option configures run-time behavior of a Sampler.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	recorder   metrics.Recorder
	trajectory bool
	logEvery   int
}

const panicLogEveryInvalid = "sampler: WithLogEvery: n must be ≥ 0"

func defaultOptions() options {
	return options{
		logger:   zap.NewNop(),
		recorder: metrics.NoopRecorder{},
	}
}

// WithLogger sets the structured logger (nil keeps the no-op logger).
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder (nil keeps the no-op recorder).
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithTrajectory records a deep-copied snapshot after every step.
func WithTrajectory() Option {
	return func(o *options) { o.trajectory = true }
}

// WithLogEvery logs progress at Debug level every n steps (0 disables).
// Panics on negative n.
func WithLogEvery(n int) Option {
	if n < 0 {
		panic(panicLogEveryInvalid)
	}
	return func(o *options) { o.logEvery = n }
}

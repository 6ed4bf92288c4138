// SPDX-License-Identifier: MIT

package sampler

import "context"

// PredictorInput is what the sampler hands the predictor at each step.
// State and SelfCond are owned by the sampler and must be treated as read-only.
type PredictorInput struct {
	State ProteinState
	T     float64
	// SelfCond is the previous step's prediction, nil on the first step or
	// when self-conditioning is disabled.
	SelfCond *Prediction
}

// Predictor estimates the clean state from a noisy one. Implementations
// shared across ensemble workers must be safe for concurrent use.
type Predictor interface {
	Predict(ctx context.Context, in PredictorInput) (*Prediction, error)
}

// PredictorFunc adapts an ordinary function to the Predictor interface.
type PredictorFunc func(ctx context.Context, in PredictorInput) (*Prediction, error)

// Predict calls f(ctx, in).
func (f PredictorFunc) Predict(ctx context.Context, in PredictorInput) (*Prediction, error) {
	return f(ctx, in)
}

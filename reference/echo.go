// SPDX-License-Identifier: MIT

package reference

import (
	"context"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/sampler"
	"github.com/katalvlaran/foldflow/so3"
)

// Echo predicts the current state as clean and flat logits over NumTokens.
type Echo struct {
	NumTokens int
}

// Predict implements sampler.Predictor.
func (e Echo) Predict(ctx context.Context, in sampler.PredictorInput) (*sampler.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := in.State.Len()
	logits := make([][]float64, n)
	for i := range logits {
		logits[i] = make([]float64, e.NumTokens)
	}

	return &sampler.Prediction{
		Rotations:    append([]so3.Rot(nil), in.State.Rotations...),
		Translations: geometry.Clone(in.State.Translations),
		Logits:       logits,
	}, nil
}

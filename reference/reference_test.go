// SPDX-License-Identifier: MIT

package reference_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/reference"
	"github.com/katalvlaran/foldflow/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelixTrace_Geometry checks consecutive Cα spacing is near ideal.
func TestHelixTrace_Geometry(t *testing.T) {
	xs := reference.HelixTrace(40)
	assert.InDelta(t, 0.0, geometry.Centroid(xs).Norm(), 1e-9)
	for i := 1; i < len(xs); i++ {
		assert.InDelta(t, geometry.CaCaDistance, xs[i].Sub(xs[i-1]).Norm(), 0.1)
	}
	assert.Zero(t, geometry.CaCaViolationFraction(xs, geometry.CaCaDistance, geometry.DefaultCaCaTolerance, 1))
}

// TestFrames_AreRotations checks every frame is proper and degenerate input
// falls back to identity.
func TestFrames_AreRotations(t *testing.T) {
	for _, R := range reference.Frames(reference.HelixTrace(12)) {
		assert.True(t, R.IsRotation())
	}
	line := []geometry.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	for _, R := range reference.Frames(line) {
		assert.True(t, R.IsRotation())
	}
	assert.Len(t, reference.Frames(nil), 0)
}

func TestNewHelix_Validation(t *testing.T) {
	_, err := reference.NewHelix(0, 20, nil)
	assert.Error(t, err)
	_, err = reference.NewHelix(3, 20, []int{1, 2})
	assert.Error(t, err)
	_, err = reference.NewHelix(2, 20, []int{1, 20})
	assert.Error(t, err)

	h, err := reference.NewHelix(4, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 7, 14, 1}, h.Sequence())
}

// TestHelix_PredictShapeAndRamp checks output shape and growing confidence.
func TestHelix_PredictShapeAndRamp(t *testing.T) {
	h, err := reference.NewHelix(5, 20, nil)
	require.NoError(t, err)
	tmpl := h.Template()

	early, err := h.Predict(context.Background(), sampler.PredictorInput{State: tmpl, T: 0.1})
	require.NoError(t, err)
	late, err := h.Predict(context.Background(), sampler.PredictorInput{State: tmpl, T: 0.9})
	require.NoError(t, err)

	require.Len(t, early.Logits, 5)
	require.Len(t, early.Logits[0], 20)
	seq := h.Sequence()
	assert.Greater(t, late.Logits[2][seq[2]], early.Logits[2][seq[2]])
	assert.Equal(t, h.Translations(), early.Translations)

	// outputs are private copies
	early.Translations[0] = geometry.Vec3{99, 99, 99}
	assert.NotEqual(t, early.Translations[0], h.Translations()[0])
}

func TestHelix_PredictErrors(t *testing.T) {
	h, err := reference.NewHelix(5, 20, nil)
	require.NoError(t, err)

	_, err = h.Predict(context.Background(), sampler.PredictorInput{State: sampler.ProteinState{Tokens: []int{1}}})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Predict(ctx, sampler.PredictorInput{State: h.Template()})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestEcho_ReturnsState checks Echo copies the input.
func TestEcho_ReturnsState(t *testing.T) {
	h, err := reference.NewHelix(3, 20, nil)
	require.NoError(t, err)
	st := h.Template()
	st.Translations = h.Translations()

	pred, err := reference.Echo{NumTokens: 20}.Predict(context.Background(), sampler.PredictorInput{State: st})
	require.NoError(t, err)
	assert.Equal(t, st.Translations, pred.Translations)
	assert.Equal(t, st.Rotations, pred.Rotations)
	require.Len(t, pred.Logits, 3)
	assert.Len(t, pred.Logits[0], 20)
}

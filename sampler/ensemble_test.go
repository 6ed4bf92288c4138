// SPDX-License-Identifier: MIT

package sampler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/katalvlaran/foldflow/sampler"
)

// TestRunEnsemble_IndependentOfWorkers checks members match across pool sizes.
func TestRunEnsemble_IndependentOfWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHelix(t, 8)
	rec := newCountingRecorder()
	cfg := smallConfig(20)
	cfg.DoSDE = true
	s := newSampler(t, cfg, sampler.WithRecorder(rec))

	serial, err := s.RunEnsemble(context.Background(), h.Template(), h, 99, 6, 1)
	require.NoError(t, err)
	parallel, err := s.RunEnsemble(context.Background(), h.Template(), h, 99, 6, 4)
	require.NoError(t, err)
	require.Len(t, serial, 6)
	require.Len(t, parallel, 6)

	seeds := map[int64]bool{}
	for i := range serial {
		require.NoError(t, serial[i].Err)
		require.NoError(t, parallel[i].Err)
		assert.Equal(t, i, serial[i].Index)
		assert.Equal(t, sampler.SampleSeed(99, i), serial[i].Seed)
		assert.Equal(t, serial[i].Seed, parallel[i].Seed)
		assert.Empty(t, cmp.Diff(serial[i].Result.State, parallel[i].Result.State))
		seeds[serial[i].Seed] = true
	}
	assert.Len(t, seeds, 6)
	assert.Equal(t, 4, rec.workers)
	assert.Equal(t, 12, rec.outcomes["success"])
}

// TestRunEnsemble_FailuresStayLocal checks a failing member leaves siblings intact.
func TestRunEnsemble_FailuresStayLocal(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHelix(t, 6)
	s := newSampler(t, smallConfig(10))
	// fail whenever the first noisy coordinate is positive
	p := sampler.PredictorFunc(func(ctx context.Context, in sampler.PredictorInput) (*sampler.Prediction, error) {
		if in.State.Translations[0][0] > 0 {
			return nil, errors.New("rejected")
		}
		return h.Predict(ctx, in)
	})

	members, err := s.RunEnsemble(context.Background(), h.Template(), p, 5, 10, 3)
	require.NoError(t, err)
	for _, m := range members {
		single, serr := s.Run(context.Background(), h.Template(), p, m.Seed)
		if serr != nil {
			assert.ErrorIs(t, m.Err, sampler.ErrPredictor)
			assert.Nil(t, m.Result)
			continue
		}
		require.NoError(t, m.Err)
		assert.Empty(t, cmp.Diff(single.State, m.Result.State))
	}
}

func TestRunEnsemble_InvalidCount(t *testing.T) {
	h := newHelix(t, 3)
	_, err := newSampler(t, smallConfig(5)).RunEnsemble(context.Background(), h.Template(), h, 1, 0, 2)
	assert.ErrorIs(t, err, sampler.ErrConfiguration)
}

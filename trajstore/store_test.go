// SPDX-License-Identifier: MIT

package trajstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/foldflow/reference"
	"github.com/katalvlaran/foldflow/sampler"
	"github.com/katalvlaran/foldflow/trajstore"
)

func sampleRun(t *testing.T, seed int64) (*sampler.Result, sampler.Summary) {
	t.Helper()
	h, err := reference.NewHelix(6, sampler.DefaultNumTokens, nil)
	require.NoError(t, err)
	cfg := sampler.DefaultConfig()
	cfg.NumTimesteps = 8
	s, err := sampler.New(cfg, sampler.WithTrajectory())
	require.NoError(t, err)
	res, err := s.Run(context.Background(), h.Template(), h, seed)
	require.NoError(t, err)

	return res, sampler.Summarize(res, cfg.NumTokens)
}

// TestStore_RoundTrip saves a run to a file-backed store and reads it back.
func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.sqlite")
	store, err := trajstore.Open(path)
	require.NoError(t, err)
	defer store.Close()

	res, sum := sampleRun(t, 3)
	require.NoError(t, store.SaveRun(ctx, sum, res))

	got, err := store.LoadRun(ctx, res.RunID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(sum, got.Summary))
	assert.Empty(t, cmp.Diff(res.State, got.State))
	require.Len(t, got.Frames, len(res.Trajectory))
	assert.Empty(t, cmp.Diff(res.Trajectory, got.Frames))
	assert.False(t, got.CreatedAt.IsZero())

	// duplicate ids are rejected and leave the first copy intact
	assert.Error(t, store.SaveRun(ctx, sum, res))
	again, err := store.LoadRun(ctx, res.RunID)
	require.NoError(t, err)
	assert.Len(t, again.Frames, len(res.Trajectory))
}

// TestStore_ListRuns returns summaries in insertion order.
func TestStore_ListRuns(t *testing.T) {
	ctx := context.Background()
	store, err := trajstore.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	empty, err := store.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	var ids []string
	for seed := int64(1); seed <= 3; seed++ {
		res, sum := sampleRun(t, seed)
		require.NoError(t, store.SaveRun(ctx, sum, res))
		ids = append(ids, res.RunID)
	}

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for i, r := range runs {
		assert.Equal(t, ids[i], r.RunID)
		assert.Equal(t, int64(i+1), r.Seed)
	}
}

func TestStore_NotFound(t *testing.T) {
	store, err := trajstore.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.LoadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, trajstore.ErrNotFound)
	assert.Error(t, store.SaveRun(context.Background(), sampler.Summary{}, nil))
}

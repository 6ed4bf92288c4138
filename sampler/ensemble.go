// SPDX-License-Identifier: MIT

package sampler

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sample is one member of an ensemble: either Result or Err is set.
type Sample struct {
	Index  int
	Seed   int64
	Result *Result
	Err    error
}

// SampleSeed returns the seed of ensemble member index for baseSeed.
func SampleSeed(baseSeed int64, index int) int64 {
	return deriveSeed(baseSeed, uint64(index))
}

// RunEnsemble draws count independent samples on at most workers goroutines
// (GOMAXPROCS when workers ≤ 0). Member i runs with SampleSeed(baseSeed, i),
// so outputs do not depend on the worker count. A failing member never
// cancels its siblings; its error is reported in Sample.Err.
//
// Errors:
//   - ErrConfiguration when count < 1.
func (s *Sampler) RunEnsemble(ctx context.Context, initial ProteinState, p Predictor, baseSeed int64, count, workers int) ([]Sample, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: ensemble size %d must be ≥ 1", ErrConfiguration, count)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > count {
		workers = count
	}
	s.opts.recorder.SetEnsembleWorkers(workers)
	s.opts.logger.Info("Ensemble started",
		zap.Int("samples", count),
		zap.Int("workers", workers),
		zap.Int64("base_seed", baseSeed))

	out := make([]Sample, count)
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			seed := SampleSeed(baseSeed, i)
			res, err := s.Run(ctx, initial, p, seed)
			out[i] = Sample{Index: i, Seed: seed, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for _, smp := range out {
		if smp.Err != nil {
			failed++
		}
	}
	s.opts.logger.Info("Ensemble finished", zap.Int("samples", count), zap.Int("failed", failed))

	return out, nil
}

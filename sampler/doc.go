// SPDX-License-Identifier: MIT

// Package sampler runs the multi-modal reverse process that turns noise into
// a protein backbone (per-residue rotations and translations) and sequence.
//
// A Sampler is built once from a validated Config:
//
//	cfg := sampler.DefaultConfig()
//	s, err := sampler.New(cfg, sampler.WithLogger(logger))
//	res, err := s.Run(ctx, template, predictor, seed)
//
// Run walks the lifecycle INIT → STEP(1..num_timesteps) → DONE:
//
//   - INIT builds the time grid t_k = min_t + k·(1−min_t)/(num_timesteps−1),
//     derives one random stream per channel from the seed, noises every
//     enabled channel to min_t and empties the self-conditioning cache.
//   - STEP i queries the predictor at t_{i−1} (with the previous prediction
//     as self-conditioning input), validates the output and advances every
//     enabled channel to t_i. The last step snaps continuous channels to
//     the predicted clean values and unmasks any remaining tokens.
//   - DONE returns the final state, with an optional trajectory.
//
// Failures are reported as *StepError values that unwrap to ErrPredictor or
// ErrNumericalInstability; a failed run never returns a partial state.
// RunEnsemble draws independent samples concurrently with derived seeds.
package sampler

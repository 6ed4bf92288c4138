// SPDX-License-Identifier: MIT

// Package interpolant implements the three per-residue channels integrated by
// the sampler: SO(3) rotations, Euclidean translations and discrete tokens.
//
// Every channel exposes the same three phases:
//
//   - Corrupt: noise clean values to time t (used once, at min_t).
//   - Step:    move the state from t0 to t1 toward the predictor's clean
//     estimate, deterministically (ODE) or with injected noise (SDE).
//   - Finalize: produce the values returned at t = 1.
//
// Continuous updates are written in schedule space: with α_i = α(t_i) and
// Δα = α(t1) − α(t0), the state moves by the fraction Δα/(1−α_i) of the way
// toward the estimate, so it reaches the estimate exactly when α = 1. For the
// linear schedule this is the Euler update Δt·(x̂ − x)/(1 − t).
//
// Channels never touch global randomness: callers pass a *rand.Rand that the
// channel owns for the duration of a run. A disabled channel is not stepped;
// the sampler holds its values verbatim.
package interpolant

import "math"

// fraction returns Δα/(1−α0) clamped to [0,1]; 1 when α0 has reached 1.
func fraction(a0, a1 float64) float64 {
	rem := 1 - a0
	if rem <= 0 {
		return 1
	}

	return math.Max(0, math.Min(1, (a1-a0)/rem))
}

// diffusion returns √(Δα·(1−α0)), the SDE noise scale of one step.
func diffusion(a0, a1 float64) float64 {
	return math.Sqrt(math.Max(0, (a1-a0)*(1-a0)))
}

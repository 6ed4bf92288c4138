// SPDX-License-Identifier: MIT

// Package schedule implements the interpolation schedules that drive every
// foldflow channel.
//
// A Schedule maps time t ∈ [minT, 1] to a coefficient α(t) ∈ [0, 1]:
// α(minT) = 0 is pure noise, α(1) = 1 is the clean state. Three families are
// available as a closed tagged variant (Kind + Params):
//
//   - Linear            α = s
//   - Exponential(rate) α = (1 − e^{−rate·(t−minT)}) / (1 − e^{−rate·(1−minT)})
//   - PolynomialWarmup  α = 0 for s ≤ warmup, else ((s−warmup)/(1−warmup))^power
//
// where s = (t−minT)/(1−minT) is normalized time.
//
// Usage:
//
//	s, err := schedule.New(schedule.Params{Kind: schedule.Exponential, Rate: 10}, 0.01)
//	if err != nil {
//	  // errors.Is(err, schedule.ErrInvalidSchedule)
//	}
//	alpha := s.Coefficient(0.5)
//	dalpha := s.Rate(0.5)
//
// Schedules are immutable values and safe for concurrent use.
package schedule

// SPDX-License-Identifier: MIT

package schedule

import (
	"fmt"
	"math"
)

// Schedule is a resolved, immutable interpolation schedule.
// The zero value is not usable; build one with New.
type Schedule struct {
	params Params
	minT   float64
	span   float64 // 1 − minT

	// alpha and dalpha operate on normalized time s ∈ [0,1];
	// dalpha is dα/ds (Rate rescales it by 1/span).
	alpha  func(s float64) float64
	dalpha func(s float64) float64
}

// New validates p against minT and resolves it into a pure function pair.
//
// Errors (all wrap ErrInvalidSchedule):
//   - minT not in the open interval (0, 1) or not finite.
//   - Exponential with Rate ≤ 0 or non-finite.
//   - PolynomialWarmup with Power < 0, non-finite Power, or Warmup ∉ [0, 1).
//   - unknown Kind.
//
// Complexity: O(1).
func New(p Params, minT float64) (Schedule, error) {
	if math.IsNaN(minT) || minT <= 0 || minT >= 1 {
		return Schedule{}, fmt.Errorf("%w: min_t must be in (0,1), got %v", ErrInvalidSchedule, minT)
	}
	s := Schedule{params: p, minT: minT, span: 1 - minT}

	switch p.Kind {
	case Linear:
		s.alpha = func(x float64) float64 { return x }
		s.dalpha = func(float64) float64 { return 1 }

	case Exponential:
		if !(p.Rate > 0) || math.IsInf(p.Rate, 0) {
			return Schedule{}, fmt.Errorf("%w: exponential rate must be finite and > 0, got %v", ErrInvalidSchedule, p.Rate)
		}
		// in normalized time the exponent is rate·span·s
		k := p.Rate * s.span
		z := -math.Expm1(-k) // 1 − e^{−k}, accurate for small k
		s.alpha = func(x float64) float64 { return -math.Expm1(-k*x) / z }
		s.dalpha = func(x float64) float64 { return k * math.Exp(-k*x) / z }

	case PolynomialWarmup:
		power := p.Power
		if power == 0 {
			power = 1
		}
		if !(power > 0) || math.IsInf(power, 0) {
			return Schedule{}, fmt.Errorf("%w: polynomial power must be finite and > 0, got %v", ErrInvalidSchedule, p.Power)
		}
		w := p.Warmup
		if math.IsNaN(w) || w < 0 || w >= 1 {
			return Schedule{}, fmt.Errorf("%w: warmup must be in [0,1), got %v", ErrInvalidSchedule, p.Warmup)
		}
		s.params.Power = power
		s.alpha = func(x float64) float64 {
			if x <= w {
				return 0
			}
			return math.Pow((x-w)/(1-w), power)
		}
		s.dalpha = func(x float64) float64 {
			if x <= w {
				return 0
			}
			return power * math.Pow((x-w)/(1-w), power-1) / (1 - w)
		}

	default:
		return Schedule{}, fmt.Errorf("%w: unknown kind %v", ErrInvalidSchedule, p.Kind)
	}

	return s, nil
}

// MustNew is New for package-level fixtures; it panics on invalid input.
func MustNew(p Params, minT float64) Schedule {
	s, err := New(p, minT)
	if err != nil {
		panic(err)
	}

	return s
}

// Params returns the resolved parameters (Power defaulted for PolynomialWarmup).
func (s Schedule) Params() Params { return s.params }

// MinT returns the lower time bound.
func (s Schedule) MinT() float64 { return s.minT }

// normalize maps t to s ∈ [0,1], clamping out-of-range input.
func (s Schedule) normalize(t float64) float64 {
	x := (t - s.minT) / s.span
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}

	return x
}

// Coefficient returns α(t) ∈ [0,1]. t is clamped to [minT, 1].
// Complexity: O(1).
func (s Schedule) Coefficient(t float64) float64 {
	x := s.normalize(t)
	if x >= 1 {
		return 1
	}
	a := s.alpha(x)
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}

	return a
}

// Rate returns dα/dt at t (one-sided at the bounds).
// Complexity: O(1).
func (s Schedule) Rate(t float64) float64 {
	return s.dalpha(s.normalize(t)) / s.span
}

// Delta returns α(t1) − α(t0), the coefficient increment of one step.
func (s Schedule) Delta(t0, t1 float64) float64 {
	return s.Coefficient(t1) - s.Coefficient(t0)
}

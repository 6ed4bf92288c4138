// SPDX-License-Identifier: MIT

package interpolant

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/potential"
	"github.com/katalvlaran/foldflow/schedule"
)

// TranslationChannel integrates per-residue Cα positions in R³.
type TranslationChannel struct {
	Schedule schedule.Schedule
	// PreAlign centers both the clean values and the noise before blending.
	PreAlign bool
	// NoiseStd is the per-coordinate std of the prior; 0 means 1.
	NoiseStd float64

	SDE        bool
	NoiseScale float64
	// SampleTemp multiplies the SDE noise.
	SampleTemp float64

	// Potential, when non-nil, adds Guidance(t, PotentialTScaling)·Force(x)
	// to the velocity. The step multiplier is capped by MaxStep when the
	// potential implements potential.Limiter.
	Potential         potential.Potential
	PotentialTScaling float64
}

func (c TranslationChannel) std() float64 {
	if c.NoiseStd == 0 {
		return 1
	}
	return c.NoiseStd
}

// Corrupt returns x_t = α·x1 + (1−α)·ε with ε ~ N(0, NoiseStd²·I).
// Complexity: O(n).
func (c TranslationChannel) Corrupt(clean []geometry.Vec3, t float64, rng *rand.Rand) []geometry.Vec3 {
	a := c.Schedule.Coefficient(t)
	std := c.std()
	noise := make([]geometry.Vec3, len(clean))
	for i := range noise {
		noise[i] = geometry.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}.Scale(std)
	}
	x1 := clean
	if c.PreAlign {
		x1 = geometry.Center(clean)
		noise = geometry.Center(noise)
	}

	out := make([]geometry.Vec3, len(clean))
	for i := range out {
		out[i] = x1[i].Scale(a).Add(noise[i].Scale(1 - a))
	}

	return out
}

// Step advances cur from t0 to t1:
//
//	x ← x + f·(x̂ − x) + Δα·g·F(x) [+ SampleTemp·NoiseScale·NoiseStd·√(Δα(1−α0))·ξ]
//
// where f = Δα/(1−α0) and g is the faded guidance weight at t0. Δα·g is
// capped by the potential's MaxStep so the force term never overshoots.
// Complexity: O(n) plus the potential's cost.
func (c TranslationChannel) Step(cur, pred []geometry.Vec3, t0, t1 float64, rng *rand.Rand) []geometry.Vec3 {
	a0, a1 := c.Schedule.Coefficient(t0), c.Schedule.Coefficient(t1)
	f := fraction(a0, a1)
	da := c.Schedule.Delta(t0, t1)

	var (
		force []geometry.Vec3
		step  float64
	)
	if c.Potential != nil {
		if g := potential.Guidance(t0, c.PotentialTScaling); g > 0 {
			force = c.Potential.Force(cur)
			step = da * g
			if l, ok := c.Potential.(potential.Limiter); ok {
				step = math.Min(step, l.MaxStep(cur))
			}
		}
	}
	sigma := 0.0
	if c.SDE {
		sigma = c.SampleTemp * c.NoiseScale * c.std() * diffusion(a0, a1)
	}

	out := make([]geometry.Vec3, len(cur))
	for i, x := range cur {
		next := x.Add(pred[i].Sub(x).Scale(f))
		if force != nil {
			next = next.Add(force[i].Scale(step))
		}
		if sigma > 0 {
			next = next.Add(geometry.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}.Scale(sigma))
		}
		out[i] = next
	}

	return out
}

// Finalize returns a copy of the clean estimate.
func (c TranslationChannel) Finalize(pred []geometry.Vec3) []geometry.Vec3 {
	return geometry.Clone(pred)
}

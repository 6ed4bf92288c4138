// SPDX-License-Identifier: MIT

package interpolant

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/foldflow/schedule"
	"github.com/katalvlaran/foldflow/so3"
)

// RotationChannel integrates per-residue frames on SO(3).
type RotationChannel struct {
	Schedule schedule.Schedule
	// SDE adds isotropic tangent noise scaled by NoiseScale each step.
	SDE        bool
	NoiseScale float64
}

// Corrupt interpolates from a uniform random rotation R0 to each clean frame:
// R_t = R0·Exp(α(t)·Log(R0ᵀ·R1)). At α = 0 the result is pure noise.
// Complexity: O(n).
func (c RotationChannel) Corrupt(clean []so3.Rot, t float64, rng *rand.Rand) []so3.Rot {
	a := c.Schedule.Coefficient(t)
	out := make([]so3.Rot, len(clean))
	for i, R1 := range clean {
		R0 := so3.Uniform(rng)
		if a == 0 {
			out[i] = R0
			continue
		}
		out[i] = so3.Geodesic(R0, R1, a)
	}

	return out
}

// Step advances cur from t0 to t1 toward pred, writing the result into a new
// slice. Each frame moves along R·Exp(f·Log(Rᵀ·R̂) + ξ) and is projected back
// onto SO(3).
//
// Errors:
//   - so3.ErrNotOrthonormal (wrapped, with the residue index) when a frame
//     cannot be re-orthonormalized.
//
// Complexity: O(n).
func (c RotationChannel) Step(cur, pred []so3.Rot, t0, t1 float64, rng *rand.Rand) ([]so3.Rot, error) {
	a0, a1 := c.Schedule.Coefficient(t0), c.Schedule.Coefficient(t1)
	f := fraction(a0, a1)
	sigma := c.NoiseScale * diffusion(a0, a1)

	var err error
	out := make([]so3.Rot, len(cur))
	for i, R := range cur {
		w := so3.Log(R.T().Mul(pred[i])).Scale(f)
		if c.SDE && sigma > 0 {
			w = w.Add(so3.RandomTangent(rng, sigma))
		}
		if out[i], err = so3.Orthonormalize(R.Mul(so3.Exp(w))); err != nil {
			return nil, fmt.Errorf("residue %d: %w", i, err)
		}
	}

	return out, nil
}

// Finalize returns the re-orthonormalized clean estimate.
//
// Errors:
//   - so3.ErrNotOrthonormal (wrapped) for an estimate that is not a rotation.
func (c RotationChannel) Finalize(pred []so3.Rot) ([]so3.Rot, error) {
	var err error
	out := make([]so3.Rot, len(pred))
	for i, R := range pred {
		if out[i], err = so3.Orthonormalize(R); err != nil {
			return nil, fmt.Errorf("residue %d: %w", i, err)
		}
	}

	return out, nil
}

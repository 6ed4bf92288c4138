// SPDX-License-Identifier: MIT

package so3

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/matrix"
)

const (
	polarTol     = 1e-14
	polarMaxIter = 64
	minEigen     = 1e-12
)

// FromQuat builds the rotation of the unit quaternion (w, x, y, z).
// The quaternion is normalized first; a zero quaternion yields Identity.
func FromQuat(w, x, y, z float64) Rot {
	n := math.Sqrt(w*w + x*x + y*y + z*z)
	if n == 0 {
		return Identity()
	}
	w, x, y, z = w/n, x/n, y/n, z/n

	return Rot{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

// Uniform draws a rotation from the Haar (uniform) measure on SO(3) using a
// normalized 4D Gaussian quaternion. rng must not be shared across goroutines.
func Uniform(rng *rand.Rand) Rot {
	var w, x, y, z float64
	for {
		w, x, y, z = rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()
		if w*w+x*x+y*y+z*z > 1e-12 {
			break
		}
	}

	return FromQuat(w, x, y, z)
}

// RandomTangent draws ω ~ N(0, sigma²·I₃).
func RandomTangent(rng *rand.Rand, sigma float64) geometry.Vec3 {
	return geometry.Vec3{
		sigma * rng.NormFloat64(),
		sigma * rng.NormFloat64(),
		sigma * rng.NormFloat64(),
	}
}

// Orthonormalize projects R onto SO(3) with the polar decomposition
// R·(RᵀR)^{-1/2}, computing the inverse square root from a Jacobi
// eigen-decomposition of the symmetric RᵀR.
//
// Errors (all wrap ErrNotOrthonormal):
//   - non-finite entries, a rank-deficient R, a reflection (det ≤ 0),
//     or a projection whose residual still exceeds Tolerance.
//
// Complexity: O(1) (fixed 3×3).
func Orthonormalize(R Rot) (Rot, error) {
	if !R.IsFinite() {
		return Rot{}, fmt.Errorf("%w: non-finite entries", ErrNotOrthonormal)
	}
	if R.Det() <= 0 {
		return Rot{}, fmt.Errorf("%w: det=%g", ErrNotOrthonormal, R.Det())
	}

	M := R.T().Mul(R)
	Md, err := matrix.NewDenseFrom(3, 3, []float64{
		M[0][0], M[0][1], M[0][2],
		M[1][0], M[1][1], M[1][2],
		M[2][0], M[2][1], M[2][2],
	})
	if err != nil {
		return Rot{}, fmt.Errorf("%w: %w", ErrNotOrthonormal, err)
	}
	vals, V, err := matrix.Eigen(Md, polarTol, polarMaxIter)
	if err != nil {
		return Rot{}, fmt.Errorf("%w: %w", ErrNotOrthonormal, err)
	}

	// M^{-1/2} = V·diag(1/√λ)·Vᵀ
	var (
		inv      Rot
		i, j, k  int
		vik, vjk float64
	)
	for k = 0; k < 3; k++ {
		if vals[k] <= minEigen {
			return Rot{}, fmt.Errorf("%w: rank deficient (λ=%g)", ErrNotOrthonormal, vals[k])
		}
	}
	for i = 0; i < 3; i++ {
		for j = 0; j < 3; j++ {
			for k = 0; k < 3; k++ {
				vik, _ = V.At(i, k)
				vjk, _ = V.At(j, k)
				inv[i][j] += vik * vjk / math.Sqrt(vals[k])
			}
		}
	}

	out := R.Mul(inv)
	if !out.IsRotation() {
		return Rot{}, fmt.Errorf("%w: residual %g after projection", ErrNotOrthonormal, out.OrthonormalityError())
	}

	return out, nil
}

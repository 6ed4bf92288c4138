// SPDX-License-Identifier: MIT

// Package so3 implements the rotation-group operations used by the rotation
// channel: exponential and logarithm maps, geodesic interpolation, uniform
// sampling, and polar re-orthonormalization.
//
// Convention: tangent vectors are axis-angle 3-vectors ω (|ω| = angle in
// radians) expressed in the body frame, so a step from R is R·Exp(ω).
package so3

import (
	"errors"
	"math"

	"github.com/katalvlaran/foldflow/geometry"
)

// Tolerance is the maximum |RᵀR − I| entry accepted for a valid rotation.
const Tolerance = 1e-5

// ErrNotOrthonormal is returned when a matrix cannot be projected onto SO(3)
// within Tolerance (degenerate, reflected, or non-finite input).
var ErrNotOrthonormal = errors.New("so3: matrix is not a proper rotation")

const (
	smallAngle = 1e-8
	nearPi     = 1e-4
)

// Rot is a 3×3 rotation matrix, row-major: R[i][j] is row i, column j.
type Rot [3][3]float64

// Identity returns the identity rotation.
func Identity() Rot {
	return Rot{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Mul returns R·S.
func (R Rot) Mul(S Rot) Rot {
	var out Rot
	var i, j, k int
	for i = 0; i < 3; i++ {
		for j = 0; j < 3; j++ {
			for k = 0; k < 3; k++ {
				out[i][j] += R[i][k] * S[k][j]
			}
		}
	}

	return out
}

// T returns Rᵀ (the inverse of a proper rotation).
func (R Rot) T() Rot {
	return Rot{
		{R[0][0], R[1][0], R[2][0]},
		{R[0][1], R[1][1], R[2][1]},
		{R[0][2], R[1][2], R[2][2]},
	}
}

// Apply returns R·v.
func (R Rot) Apply(v geometry.Vec3) geometry.Vec3 {
	return geometry.Vec3{
		R[0][0]*v[0] + R[0][1]*v[1] + R[0][2]*v[2],
		R[1][0]*v[0] + R[1][1]*v[1] + R[1][2]*v[2],
		R[2][0]*v[0] + R[2][1]*v[1] + R[2][2]*v[2],
	}
}

// Det returns the determinant of R.
func (R Rot) Det() float64 {
	return R[0][0]*(R[1][1]*R[2][2]-R[1][2]*R[2][1]) -
		R[0][1]*(R[1][0]*R[2][2]-R[1][2]*R[2][0]) +
		R[0][2]*(R[1][0]*R[2][1]-R[1][1]*R[2][0])
}

// IsFinite reports whether all nine entries are finite.
func (R Rot) IsFinite() bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(R[i][j]) || math.IsInf(R[i][j], 0) {
				return false
			}
		}
	}

	return true
}

// OrthonormalityError returns max |(RᵀR − I)_{ij}|.
func (R Rot) OrthonormalityError() float64 {
	M := R.T().Mul(R)
	var worst float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			worst = math.Max(worst, math.Abs(M[i][j]-want))
		}
	}

	return worst
}

// IsRotation reports whether R is orthonormal within Tolerance with det > 0.
func (R Rot) IsRotation() bool {
	return R.IsFinite() && R.OrthonormalityError() <= Tolerance && R.Det() > 0
}

// hat maps ω to its skew-symmetric matrix [ω]×.
func hat(w geometry.Vec3) Rot {
	return Rot{
		{0, -w[2], w[1]},
		{w[2], 0, -w[0]},
		{-w[1], w[0], 0},
	}
}

// Exp maps an axis-angle vector to a rotation (Rodrigues' formula).
func Exp(w geometry.Vec3) Rot {
	theta := w.Norm()
	K := hat(w)
	K2 := K.Mul(K)

	var a, b float64
	if theta < smallAngle {
		a, b = 1-theta*theta/6, 0.5-theta*theta/24
	} else {
		a = math.Sin(theta) / theta
		b = (1 - math.Cos(theta)) / (theta * theta)
	}
	R := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			R[i][j] += a*K[i][j] + b*K2[i][j]
		}
	}

	return R
}

// Log maps a rotation to its axis-angle vector with angle in [0, π].
// R must be a proper rotation; near θ=π the axis is recovered from the
// symmetric part of R to stay accurate.
func Log(R Rot) geometry.Vec3 {
	tr := R[0][0] + R[1][1] + R[2][2]
	cosT := math.Max(-1, math.Min(1, (tr-1)/2))
	theta := math.Acos(cosT)
	v := geometry.Vec3{R[2][1] - R[1][2], R[0][2] - R[2][0], R[1][0] - R[0][1]} // 2·sinθ·axis

	switch {
	case theta < smallAngle:
		return v.Scale(0.5 * (1 + theta*theta/6))

	case math.Pi-theta < nearPi:
		// symmetric part = cosθ·I + (1−cosθ)·aaᵀ
		k := 0
		for i := 1; i < 3; i++ {
			if R[i][i] > R[k][k] {
				k = i
			}
		}
		oneMinus := 1 - cosT
		var a geometry.Vec3
		a[k] = math.Sqrt(math.Max(0, (R[k][k]-cosT)/oneMinus))
		for j := 0; j < 3; j++ {
			if j != k {
				a[j] = (R[j][k] + R[k][j]) / (2 * oneMinus * a[k])
			}
		}
		a = a.Scale(1 / a.Norm())
		if a.Dot(v) < 0 {
			a = a.Scale(-1)
		}
		return a.Scale(theta)

	default:
		return v.Scale(theta / (2 * math.Sin(theta)))
	}
}

// Angle returns the geodesic distance between R and S in radians.
func Angle(R, S Rot) float64 {
	return Log(R.T().Mul(S)).Norm()
}

// Geodesic returns the point at fraction a along the geodesic from R0 to R1:
// R0·Exp(a·Log(R0ᵀR1)). a=0 gives R0, a=1 gives R1.
func Geodesic(R0, R1 Rot, a float64) Rot {
	return R0.Mul(Exp(Log(R0.T().Mul(R1)).Scale(a)))
}

// SPDX-License-Identifier: MIT

package so3_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/so3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func assertRotClose(t *testing.T, want, got so3.Rot, tol float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want[i][j], got[i][j], tol, "entry (%d,%d)", i, j)
		}
	}
}

// TestExp_ZeroIsIdentity checks the exponential at the origin.
func TestExp_ZeroIsIdentity(t *testing.T) {
	assert.Equal(t, so3.Identity(), so3.Exp(geometry.Vec3{}))
}

// TestExp_QuarterTurnZ checks a known closed form.
func TestExp_QuarterTurnZ(t *testing.T) {
	R := so3.Exp(geometry.Vec3{0, 0, math.Pi / 2})
	assertRotClose(t, so3.Rot{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}, R, 1e-15)
	assert.InDelta(t, 0.0, R.Apply(geometry.Vec3{1, 0, 0}).Sub(geometry.Vec3{0, 1, 0}).Norm(), 1e-15)
}

// TestLogExp_RoundTrip covers small, generic and near-π angles.
func TestLogExp_RoundTrip(t *testing.T) {
	axis := geometry.Vec3{1, -2, 0.5}
	axis = axis.Scale(1 / axis.Norm())
	for _, angle := range []float64{0, 1e-10, 1e-5, 0.3, 1.7, 3.0, math.Pi - 1e-6, math.Pi - 1e-3} {
		w := axis.Scale(angle)
		got := so3.Log(so3.Exp(w))
		assert.InDelta(t, 0.0, got.Sub(w).Norm(), 1e-6, "angle %g", angle)
	}
}

// TestLog_AngleBound verifies Log never exceeds π for random rotations.
func TestLog_AngleBound(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		R := so3.Uniform(rng)
		w := so3.Log(R)
		assert.LessOrEqual(t, w.Norm(), math.Pi+eps)
		assertRotClose(t, R, so3.Exp(w), 1e-8)
	}
}

// TestUniform_IsRotation verifies every draw is a proper rotation.
func TestUniform_IsRotation(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		R := so3.Uniform(rng)
		assert.True(t, R.IsRotation())
		assert.InDelta(t, 1.0, R.Det(), 1e-12)
	}
}

// TestUniform_MeanTrace checks E[tr R] = 0 under the Haar measure.
func TestUniform_MeanTrace(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n = 20000
	var sum float64
	for i := 0; i < n; i++ {
		R := so3.Uniform(rng)
		sum += R[0][0] + R[1][1] + R[2][2]
	}
	assert.InDelta(t, 0.0, sum/n, 0.05)
}

// TestGeodesic_Endpoints checks the interpolation reaches both ends.
func TestGeodesic_Endpoints(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	R0, R1 := so3.Uniform(rng), so3.Uniform(rng)

	assertRotClose(t, R0, so3.Geodesic(R0, R1, 0), 1e-12)
	assertRotClose(t, R1, so3.Geodesic(R0, R1, 1), 1e-8)

	mid := so3.Geodesic(R0, R1, 0.5)
	assert.InDelta(t, so3.Angle(R0, mid), so3.Angle(mid, R1), 1e-8)
}

// TestOrthonormalize_RestoresRotation perturbs a rotation and projects it back.
func TestOrthonormalize_RestoresRotation(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	R := so3.Uniform(rng)
	P := R
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			P[i][j] += 1e-3 * rng.NormFloat64()
		}
	}
	require.False(t, P.OrthonormalityError() <= 1e-6)

	Q, err := so3.Orthonormalize(P)
	require.NoError(t, err)
	assert.True(t, Q.IsRotation())
	assert.Less(t, Q.OrthonormalityError(), 1e-12)
	assert.Less(t, so3.Angle(R, Q), 1e-2)
}

// TestOrthonormalize_FixedPoint leaves a proper rotation unchanged.
func TestOrthonormalize_FixedPoint(t *testing.T) {
	R := so3.Exp(geometry.Vec3{0.2, -0.4, 1.1})
	Q, err := so3.Orthonormalize(R)
	require.NoError(t, err)
	assertRotClose(t, R, Q, 1e-12)
}

// TestOrthonormalize_Errors covers reflections, rank deficiency and NaN.
func TestOrthonormalize_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   so3.Rot
	}{
		{"reflection", so3.Rot{{1, 0, 0}, {0, 1, 0}, {0, 0, -1}}},
		{"rank deficient", so3.Rot{{1, 0, 0}, {0, 1, 0}, {0, 0, 0}}},
		{"nan", so3.Rot{{math.NaN(), 0, 0}, {0, 1, 0}, {0, 0, 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := so3.Orthonormalize(tc.in)
			assert.ErrorIs(t, err, so3.ErrNotOrthonormal)
		})
	}
}

// TestFromQuat_ZeroAndSign covers the degenerate quaternion and q ≡ −q.
func TestFromQuat_ZeroAndSign(t *testing.T) {
	assert.Equal(t, so3.Identity(), so3.FromQuat(0, 0, 0, 0))
	assertRotClose(t, so3.FromQuat(0.3, -0.1, 0.7, 0.2), so3.FromQuat(-0.3, 0.1, -0.7, -0.2), 1e-15)
}

// TestRandomTangent_Scale checks the sample variance of tangent noise.
func TestRandomTangent_Scale(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	const n = 10000
	var ss float64
	for i := 0; i < n; i++ {
		w := so3.RandomTangent(rng, 0.5)
		ss += w.Dot(w)
	}
	assert.InDelta(t, 3*0.25, ss/n, 0.03)
}

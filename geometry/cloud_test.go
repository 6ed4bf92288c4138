// SPDX-License-Identifier: MIT

package geometry_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomCloud returns n points with coordinates ~ N(0, spread²).
func randomCloud(rng *rand.Rand, n int, spread float64) []geometry.Vec3 {
	xs := make([]geometry.Vec3, n)
	for i := range xs {
		xs[i] = geometry.Vec3{rng.NormFloat64() * spread, rng.NormFloat64() * spread, rng.NormFloat64() * spread}
	}

	return xs
}

// rotateZ rotates every point by angle around the z axis and shifts by off.
func rotateZ(xs []geometry.Vec3, angle float64, off geometry.Vec3) []geometry.Vec3 {
	c, s := math.Cos(angle), math.Sin(angle)
	out := make([]geometry.Vec3, len(xs))
	for i, x := range xs {
		out[i] = geometry.Vec3{c*x[0] - s*x[1], s*x[0] + c*x[1], x[2]}.Add(off)
	}

	return out
}

func TestVec3_Algebra(t *testing.T) {
	a := geometry.Vec3{1, 0, 0}
	b := geometry.Vec3{0, 1, 0}
	assert.Equal(t, geometry.Vec3{0, 0, 1}, a.Cross(b))
	assert.Equal(t, 0.0, a.Dot(b))
	assert.Equal(t, geometry.Vec3{1, -1, 0}, a.Sub(b))
	assert.InDelta(t, math.Sqrt2, a.Add(b).Norm(), 1e-15)
	assert.False(t, geometry.Vec3{math.NaN(), 0, 0}.IsFinite())
}

// TestCenter_ZeroCentroid verifies centering removes the global translation.
func TestCenter_ZeroCentroid(t *testing.T) {
	xs := randomCloud(rand.New(rand.NewSource(3)), 40, 2)
	c := geometry.Centroid(geometry.Center(xs))
	assert.InDelta(t, 0.0, c.Norm(), 1e-12)
}

// TestRadiusOfGyration_MatchesTensorTrace cross-checks the direct Rg with the
// gyration tensor eigen-decomposition.
func TestRadiusOfGyration_MatchesTensorTrace(t *testing.T) {
	xs := randomCloud(rand.New(rand.NewSource(5)), 64, 3)
	rg := geometry.RadiusOfGyration(xs)

	shape, err := geometry.ShapeOf(xs)
	require.NoError(t, err)
	assert.InDelta(t, rg, shape.Rg, 1e-9)
	assert.LessOrEqual(t, shape.Moments[0], shape.Moments[1])
	assert.LessOrEqual(t, shape.Moments[1], shape.Moments[2])
	assert.GreaterOrEqual(t, shape.Asphericity, 0.0)
}

// TestShapeOf_Rod checks a straight rod has two vanishing moments.
func TestShapeOf_Rod(t *testing.T) {
	xs := make([]geometry.Vec3, 11)
	for i := range xs {
		xs[i] = geometry.Vec3{float64(i), 0, 0}
	}
	shape, err := geometry.ShapeOf(xs)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, shape.Moments[0], 1e-12)
	assert.InDelta(t, 0.0, shape.Moments[1], 1e-12)
	assert.InDelta(t, 10.0, shape.Moments[2], 1e-9) // variance of 0..10
}

func TestShapeOf_Empty(t *testing.T) {
	_, err := geometry.ShapeOf(nil)
	assert.ErrorIs(t, err, geometry.ErrEmptyCloud)
}

// TestDRMSD_RigidInvariance verifies dRMSD ignores rotation + translation.
func TestDRMSD_RigidInvariance(t *testing.T) {
	xs := randomCloud(rand.New(rand.NewSource(7)), 30, 4)
	ys := rotateZ(xs, 1.1, geometry.Vec3{5, -2, 9})

	d, err := geometry.DRMSD(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, d, 1e-9)

	_, err = geometry.DRMSD(xs, ys[:3])
	assert.ErrorIs(t, err, geometry.ErrLengthMismatch)
}

// TestKabschRMSD_Superposition verifies superposition recovers a rigid copy
// and reports the perturbation size for a noisy copy.
func TestKabschRMSD_Superposition(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	xs := randomCloud(rng, 50, 5)
	ys := rotateZ(xs, -2.3, geometry.Vec3{1, 2, 3})

	rmsd, err := geometry.KabschRMSD(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, rmsd, 1e-8)

	// shifting one point by 1 along z bounds the RMSD by 1/sqrt(n)
	ys[0] = ys[0].Add(geometry.Vec3{0, 0, 1})
	rmsd, err = geometry.KabschRMSD(xs, ys)
	require.NoError(t, err)
	assert.Greater(t, rmsd, 0.0)
	assert.LessOrEqual(t, rmsd, 1/math.Sqrt(50)+1e-9)
}

// TestKabschRMSD_NoReflection ensures a mirror image is not superposed perfectly.
func TestKabschRMSD_NoReflection(t *testing.T) {
	xs := randomCloud(rand.New(rand.NewSource(13)), 20, 3)
	mirror := make([]geometry.Vec3, len(xs))
	for i, x := range xs {
		mirror[i] = geometry.Vec3{x[0], x[1], -x[2]}
	}
	rmsd, err := geometry.KabschRMSD(xs, mirror)
	require.NoError(t, err)
	assert.Greater(t, rmsd, 1e-3)
}

// TestCaCaViolationFraction counts only stretched bonds.
func TestCaCaViolationFraction(t *testing.T) {
	xs := []geometry.Vec3{
		{0, 0, 0},
		{geometry.CaCaDistance, 0, 0},     // ideal
		{2 * geometry.CaCaDistance, 0, 0}, // ideal
		{2*geometry.CaCaDistance + 6, 0, 0},
		{2*geometry.CaCaDistance + 7, 0, 0}, // compressed, not counted
	}
	f := geometry.CaCaViolationFraction(xs, geometry.CaCaDistance, geometry.DefaultCaCaTolerance, 1)
	assert.InDelta(t, 0.25, f, 1e-12)
	assert.Equal(t, 0.0, geometry.CaCaViolationFraction(xs[:1], geometry.CaCaDistance, 1.5, 1))
}

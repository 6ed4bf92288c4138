// SPDX-License-Identifier: MIT

package potential_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/potential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square returns four points at (±a, ±a, 0) shifted by off; Rg = a·√2.
func square(a float64, off geometry.Vec3) []geometry.Vec3 {
	return []geometry.Vec3{
		geometry.Vec3{a, a, 0}.Add(off),
		geometry.Vec3{-a, a, 0}.Add(off),
		geometry.Vec3{-a, -a, 0}.Add(off),
		geometry.Vec3{a, -a, 0}.Add(off),
	}
}

// TestRoG_InsideCutoff yields zero energy and zero force.
func TestRoG_InsideCutoff(t *testing.T) {
	p := potential.RadiusOfGyration{Weight: 2, Cutoff: 10}
	xs := square(1, geometry.Vec3{3, 4, 5})
	assert.Equal(t, 0.0, p.Value(xs))
	for _, f := range p.Force(xs) {
		assert.Equal(t, geometry.Vec3{}, f)
	}
}

// TestRoG_ForcePointsToCentroid checks direction and magnitude above the cutoff.
func TestRoG_ForcePointsToCentroid(t *testing.T) {
	p := potential.RadiusOfGyration{Weight: 2, Cutoff: 1}
	off := geometry.Vec3{3, 4, 5}
	xs := square(2, off) // Rg = 2√2
	rg := 2 * math.Sqrt2

	forces := p.Force(xs)
	require.Len(t, forces, len(xs))
	for i, f := range forces {
		r := xs[i].Sub(off)
		assert.Less(t, f.Dot(r), 0.0)
		assert.InDelta(t, 2*(rg-1)/rg*r.Norm(), f.Norm(), 1e-12)
	}
	assert.InDelta(t, 0.5*2*4*(rg-1)*(rg-1), p.Value(xs), 1e-12)
}

// TestRoG_ForceIsNegativeGradient compares against central differences.
func TestRoG_ForceIsNegativeGradient(t *testing.T) {
	p := potential.RadiusOfGyration{Weight: 0.7, Cutoff: 0.5}
	xs := []geometry.Vec3{{0, 0, 0}, {1.2, 0.1, -0.3}, {2.5, 1, 0.4}, {3, -1, 2}}
	forces := p.Force(xs)

	const h = 1e-6
	for i := range xs {
		for d := 0; d < 3; d++ {
			plus := geometry.Clone(xs)
			minus := geometry.Clone(xs)
			plus[i][d] += h
			minus[i][d] -= h
			grad := (p.Value(plus) - p.Value(minus)) / (2 * h)
			assert.InDelta(t, -grad, forces[i][d], 1e-6, "point %d dim %d", i, d)
		}
	}
}

// TestRoG_ScalesWithWeight doubles the force with the weight.
func TestRoG_ScalesWithWeight(t *testing.T) {
	xs := square(3, geometry.Vec3{})
	f1 := potential.RadiusOfGyration{Weight: 1, Cutoff: 1}.Force(xs)
	f2 := potential.RadiusOfGyration{Weight: 2, Cutoff: 1}.Force(xs)
	for i := range xs {
		assert.InDelta(t, 0.0, f1[i].Scale(2).Sub(f2[i]).Norm(), 1e-12)
	}
}

// TestRoG_MaxStepLandsOnCutoff moves a cloud by MaxStep·Force and by
// smaller steps; Rg never drops below the cutoff.
func TestRoG_MaxStepLandsOnCutoff(t *testing.T) {
	p := potential.RadiusOfGyration{Weight: 4, Cutoff: 5}
	xs := square(10, geometry.Vec3{1, -2, 3})
	rg := geometry.RadiusOfGyration(xs)
	limit := p.MaxStep(xs)
	assert.InDelta(t, 0.25, limit, 1e-15)

	move := func(s float64) float64 {
		f := p.Force(xs)
		out := make([]geometry.Vec3, len(xs))
		for i, x := range xs {
			out[i] = x.Add(f[i].Scale(s))
		}
		return geometry.RadiusOfGyration(out)
	}
	assert.InDelta(t, p.Cutoff, move(limit), 1e-9)
	half := move(limit / 2)
	assert.Greater(t, half, p.Cutoff)
	assert.Less(t, half, rg)

	var _ potential.Limiter = p
	assert.True(t, math.IsInf(potential.RadiusOfGyration{Cutoff: 5}.MaxStep(xs), 1))
}

func TestRoG_Empty(t *testing.T) {
	p := potential.RadiusOfGyration{Weight: 1}
	assert.Equal(t, 0.0, p.Value(nil))
	assert.Empty(t, p.Force(nil))
}

// TestNew covers name resolution and parameter validation.
func TestNew(t *testing.T) {
	p, err := potential.New("", 1, 1)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = potential.New("none", 1, 1)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = potential.New("RoG", 3, 5)
	require.NoError(t, err)
	assert.Equal(t, potential.RadiusOfGyration{Weight: 3, Cutoff: 5}, p)

	for _, tc := range []struct {
		name           string
		weight, cutoff float64
	}{
		{"lj", 1, 1},
		{"rog", -1, 1},
		{"rog", 1, -1},
		{"rog", math.NaN(), 1},
		{"rog", 1, math.Inf(1)},
	} {
		_, err = potential.New(tc.name, tc.weight, tc.cutoff)
		assert.ErrorIs(t, err, potential.ErrInvalidPotential, "%+v", tc)
	}
}

// TestGuidance checks the linear fade toward tau.
func TestGuidance(t *testing.T) {
	assert.InDelta(t, 0.9, potential.Guidance(0.1, 1), 1e-15)
	assert.InDelta(t, 0.5, potential.Guidance(0.25, 0.5), 1e-15)
	assert.Equal(t, 0.0, potential.Guidance(0.5, 0.5))
	assert.Equal(t, 0.0, potential.Guidance(0.9, 0.5))
	assert.Equal(t, 0.0, potential.Guidance(0.1, 0))
}

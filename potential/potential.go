// SPDX-License-Identifier: MIT

// Package potential defines guidance potentials over Cα translations.
//
// A Potential reports a scalar energy and its negative gradient (the force)
// for a point cloud. The sampler adds a time-faded multiple of the force to
// the translation velocity.
package potential

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/foldflow/geometry"
)

// ErrInvalidPotential is returned for an unknown potential name or bad parameters.
var ErrInvalidPotential = errors.New("potential: invalid potential")

// Names accepted by New.
const (
	NameNone = "none"
	NameRoG  = "rog"
)

// Potential is a differentiable energy over translations.
type Potential interface {
	// Value returns the energy of xs.
	Value(xs []geometry.Vec3) float64
	// Force returns −∇Value, one vector per point.
	Force(xs []geometry.Vec3) []geometry.Vec3
}

// Limiter is implemented by potentials that bound the explicit step
// x ← x + s·Force(x). MaxStep returns the largest s for which the step does
// not move past the potential's minimum.
type Limiter interface {
	MaxStep(xs []geometry.Vec3) float64
}

// RadiusOfGyration penalizes clouds whose Rg exceeds Cutoff:
//
//	E = ½·Weight·N·max(0, Rg − Cutoff)²
//	F_i = −Weight·(Rg − Cutoff)/Rg·(x_i − c)   when Rg > Cutoff, else 0
//
// The force pulls every point toward the centroid c.
type RadiusOfGyration struct {
	Weight float64
	Cutoff float64
}

// Value implements Potential.
// Complexity: O(n).
func (p RadiusOfGyration) Value(xs []geometry.Vec3) float64 {
	excess := geometry.RadiusOfGyration(xs) - p.Cutoff
	if len(xs) == 0 || excess <= 0 {
		return 0
	}

	return 0.5 * p.Weight * float64(len(xs)) * excess * excess
}

// Force implements Potential. The result is a fresh slice of len(xs).
// Complexity: O(n).
func (p RadiusOfGyration) Force(xs []geometry.Vec3) []geometry.Vec3 {
	out := make([]geometry.Vec3, len(xs))
	if len(xs) == 0 {
		return out
	}
	rg := geometry.RadiusOfGyration(xs)
	excess := rg - p.Cutoff
	if excess <= 0 || rg == 0 {
		return out
	}
	c := geometry.Centroid(xs)
	k := -p.Weight * excess / rg
	for i, x := range xs {
		out[i] = x.Sub(c).Scale(k)
	}

	return out
}

// MaxStep implements Limiter. A step s scales every x_i − c by
// 1 − s·Weight·(Rg−Cutoff)/Rg, so s = 1/Weight lands exactly on the cutoff
// shell and any smaller s keeps Rg in [Cutoff, Rg]. Zero weight is unbounded.
func (p RadiusOfGyration) MaxStep([]geometry.Vec3) float64 {
	if p.Weight <= 0 {
		return math.Inf(1)
	}

	return 1 / p.Weight
}

// New resolves a configured potential. "" and "none" yield (nil, nil).
//
// Errors:
//   - ErrInvalidPotential for an unknown name, a negative or non-finite
//     weight, or a negative or non-finite cutoff.
func New(name string, weight, cutoff float64) (Potential, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameNone:
		return nil, nil
	case NameRoG:
		if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, fmt.Errorf("%w: rog weight %g", ErrInvalidPotential, weight)
		}
		if cutoff < 0 || math.IsNaN(cutoff) || math.IsInf(cutoff, 0) {
			return nil, fmt.Errorf("%w: rog cutoff %g", ErrInvalidPotential, cutoff)
		}
		return RadiusOfGyration{Weight: weight, Cutoff: cutoff}, nil
	default:
		return nil, fmt.Errorf("%w: unknown name %q", ErrInvalidPotential, name)
	}
}

// Guidance returns the fade factor applied to the force at time t:
// (tau − t)/tau for t < tau, 0 otherwise (and 0 for tau ≤ 0).
func Guidance(t, tau float64) float64 {
	if tau <= 0 || t >= tau {
		return 0
	}

	return (tau - t) / tau
}

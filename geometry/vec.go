// SPDX-License-Identifier: MIT

// Package geometry provides 3-vectors and point-cloud measures for Cα traces:
// centroid, radius of gyration, gyration tensor, dRMSD, Kabsch-superposed RMSD
// and consecutive Cα–Cα distance violations.
//
// All functions are pure and allocate only their results.
package geometry

import "math"

// Vec3 is a Cartesian 3-vector.
type Vec3 [3]float64

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

// Sub returns a − b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

// Scale returns s·a.
func (a Vec3) Scale(s float64) Vec3 { return Vec3{s * a[0], s * a[1], s * a[2]} }

// Dot returns a·b.
func (a Vec3) Dot(b Vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

// Cross returns a×b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Norm returns the Euclidean length of a.
func (a Vec3) Norm() float64 { return math.Sqrt(a.Dot(a)) }

// IsFinite reports whether every component is finite.
func (a Vec3) IsFinite() bool {
	for _, v := range a {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// Clone returns a copy of xs.
func Clone(xs []Vec3) []Vec3 {
	if xs == nil {
		return nil
	}
	out := make([]Vec3, len(xs))
	copy(out, xs)

	return out
}

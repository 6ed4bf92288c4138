// SPDX-License-Identifier: MIT

package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/foldflow/matrix"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmptyCloud is returned when a measure needs at least one point.
	ErrEmptyCloud = errors.New("geometry: empty point cloud")

	// ErrLengthMismatch is returned when two clouds must pair point-for-point.
	ErrLengthMismatch = errors.New("geometry: point clouds differ in length")

	// ErrSVDFailed is returned when the Kabsch SVD does not factorize.
	ErrSVDFailed = errors.New("geometry: SVD failed")
)

// CaCaDistance is the ideal distance (Å) between consecutive Cα atoms.
const CaCaDistance = 3.80209737096

// DefaultCaCaTolerance is the deviation (Å) beyond which a Cα–Cα pair counts as a violation.
const DefaultCaCaTolerance = 1.5

// Centroid returns the arithmetic mean of xs (zero vector for empty input).
// Complexity: O(n).
func Centroid(xs []Vec3) Vec3 {
	var c Vec3
	if len(xs) == 0 {
		return c
	}
	for _, x := range xs {
		c = c.Add(x)
	}

	return c.Scale(1 / float64(len(xs)))
}

// Center returns a copy of xs translated so its centroid is the origin.
// Complexity: O(n).
func Center(xs []Vec3) []Vec3 {
	c := Centroid(xs)
	out := make([]Vec3, len(xs))
	for i, x := range xs {
		out[i] = x.Sub(c)
	}

	return out
}

// RadiusOfGyration returns sqrt(mean |x_i − c|²) (0 for empty input).
// Complexity: O(n).
func RadiusOfGyration(xs []Vec3) float64 {
	if len(xs) == 0 {
		return 0
	}
	c := Centroid(xs)
	var sum float64
	for _, x := range xs {
		d := x.Sub(c)
		sum += d.Dot(d)
	}

	return math.Sqrt(sum / float64(len(xs)))
}

// toDense packs xs into an n×3 matrix (one row per point).
func toDense(xs []Vec3) (*matrix.Dense, error) {
	data := make([]float64, 0, 3*len(xs))
	for _, x := range xs {
		data = append(data, x[0], x[1], x[2])
	}

	return matrix.NewDenseFrom(len(xs), 3, data)
}

// GyrationTensor returns the 3×3 population covariance of xs.
// Its trace equals RadiusOfGyration(xs)².
//
// Errors:
//   - ErrEmptyCloud; wrapped matrix sentinels (e.g. matrix.ErrNaNInf).
//
// Complexity: O(n).
func GyrationTensor(xs []Vec3) (*matrix.Dense, error) {
	if len(xs) == 0 {
		return nil, ErrEmptyCloud
	}
	X, err := toDense(xs)
	if err != nil {
		return nil, fmt.Errorf("geometry: gyration tensor: %w", err)
	}
	cov, _, err := matrix.Covariance(X)
	if err != nil {
		return nil, fmt.Errorf("geometry: gyration tensor: %w", err)
	}

	return cov, nil
}

// Shape summarizes the gyration tensor of a cloud.
type Shape struct {
	// Moments are the principal moments λ1 ≤ λ2 ≤ λ3.
	Moments [3]float64
	// Rg is sqrt(λ1+λ2+λ3).
	Rg float64
	// Asphericity is λ3 − (λ1+λ2)/2; 0 for a sphere.
	Asphericity float64
}

// ShapeOf diagonalizes the gyration tensor of xs.
// Complexity: O(n).
func ShapeOf(xs []Vec3) (Shape, error) {
	G, err := GyrationTensor(xs)
	if err != nil {
		return Shape{}, err
	}
	tr := 0.0
	for i := 0; i < 3; i++ {
		v, _ := G.At(i, i)
		tr += v
	}
	// absolute tolerance scaled with the cloud size
	vals, _, err := matrix.Eigen(G, 1e-12*math.Max(1, tr), 64)
	if err != nil {
		return Shape{}, fmt.Errorf("geometry: shape: %w", err)
	}
	sort.Float64s(vals)

	var s Shape
	copy(s.Moments[:], vals)
	s.Rg = math.Sqrt(math.Max(0, vals[0]+vals[1]+vals[2]))
	s.Asphericity = vals[2] - 0.5*(vals[0]+vals[1])

	return s, nil
}

// DRMSD is the distance-matrix RMSD between two equally sized clouds:
// sqrt(Σ_{i≠j} (d1_ij − d2_ij)² / (n(n−1))). It is 0 for n < 2.
// It is invariant to rigid motion, so no superposition is needed.
//
// Complexity: O(n²).
func DRMSD(a, b []Vec3) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}
	n := len(a)
	if n < 2 {
		return 0, nil
	}
	var (
		sum  float64
		i, j int
		d    float64
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			d = a[i].Sub(a[j]).Norm() - b[i].Sub(b[j]).Norm()
			sum += 2 * d * d
		}
	}

	return math.Sqrt(sum / float64(n*(n-1))), nil
}

// KabschRMSD returns the RMSD between a and b after optimal rigid superposition
// (translation by centroids, rotation by the Kabsch SVD with reflection guard).
//
// Errors:
//   - ErrLengthMismatch, ErrEmptyCloud, ErrSVDFailed.
//
// Complexity: O(n).
func KabschRMSD(a, b []Vec3) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}
	n := len(a)
	if n == 0 {
		return 0, ErrEmptyCloud
	}
	ac, bc := Center(a), Center(b)

	// H = Σ a_i b_iᵀ
	H := mat.NewDense(3, 3, nil)
	var i, r, c int
	for i = 0; i < n; i++ {
		for r = 0; r < 3; r++ {
			for c = 0; c < 3; c++ {
				H.Set(r, c, H.At(r, c)+ac[i][r]*bc[i][c])
			}
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(H, mat.SVDFull); !ok {
		return 0, ErrSVDFailed
	}
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)

	// R = V·diag(1,1,d)·Uᵀ maps a onto b; d fixes reflections.
	d := 1.0
	if mat.Det(&V)*mat.Det(&U) < 0 {
		d = -1.0
	}
	D := mat.NewDiagDense(3, []float64{1, 1, d})
	var VD, R mat.Dense
	VD.Mul(&V, D)
	R.Mul(&VD, U.T())

	var sum float64
	for i = 0; i < n; i++ {
		var p Vec3
		for r = 0; r < 3; r++ {
			p[r] = R.At(r, 0)*ac[i][0] + R.At(r, 1)*ac[i][1] + R.At(r, 2)*ac[i][2]
		}
		diff := p.Sub(bc[i])
		sum += diff.Dot(diff)
	}

	return math.Sqrt(sum / float64(n)), nil
}

// CaCaViolationFraction returns the fraction of consecutive pairs stretched more
// than tolerance (Å) beyond ideal. scale converts xs into Å (use 10 when
// coordinates are in nm). Returns 0 for fewer than two points.
//
// Complexity: O(n).
func CaCaViolationFraction(xs []Vec3, ideal, tolerance, scale float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var bad int
	for i := 1; i < len(xs); i++ {
		d := xs[i].Sub(xs[i-1]).Norm() * scale
		if d-ideal > tolerance {
			bad++
		}
	}

	return float64(bad) / float64(len(xs)-1)
}

// SPDX-License-Identifier: MIT

// Package matrix - linear-algebra kernels.
//
// Notes:
//   - Every kernel validates through validators.go and wraps failures with
//     matrixErrorf(op*, err) so callers still match sentinels with errors.Is.
//   - Results are always freshly allocated *Dense values; inputs are never mutated.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial value for accumulations.
const ZeroSum = 0.0

const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opEigen     = "Eigen"
	opToDense   = "toDense"
)

// matrixErrorf wraps err with an operation tag, preserving it for errors.Is/As.
// Only call with err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// toDense returns m itself when it is a *Dense, otherwise a Dense copy built via At.
func toDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	r, c := m.Rows(), m.Cols()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}
	var (
		i, j int
		v    float64
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opToDense, err)
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}

// Mul performs C = A × B.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Determinism:
//   - Fixed i→k→j loop order.
//
// Complexity: O(r*n*c) time, O(r*c) space.
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := da.r, da.c, db.c
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k    int
		av         float64
		rowA, rowB int
		rowR       int
	)
	for i = 0; i < aRows; i++ {
		rowA = i * aCols
		rowR = i * bCols
		for k = 0; k < aCols; k++ {
			av = da.data[rowA+k]
			if av == 0 {
				continue
			}
			rowB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowR+j] += av * db.data[rowB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ as a new Dense.
// Complexity: O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	dm, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := dm.r, dm.c
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			res.data[j*rows+i] = dm.data[i*cols+j]
		}
	}

	return res, nil
}

// Scale returns alpha*m as a new Dense.
// Complexity: O(r*c).
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, matrixErrorf(opScale, ErrNaNInf)
	}
	dm, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res := dm.Clone().(*Dense)
	for i := range res.data {
		res.data[i] *= alpha
	}

	return res, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via Jacobi rotations.
// Implementation:
//   - Stage 1: validate symmetric square input within tol.
//   - Stage 2: repeatedly pick (p,q) with the largest |A[p,q]| (i→j scan) and
//     annihilate it with a plane rotation, accumulating rotations into Q.
//   - Stage 3: eigenvalues are the diagonal of the rotated A; columns of Q are eigenvectors.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry, ErrEigenFailed (max |A[p,q]| ≥ tol after maxIter).
//
// Determinism:
//   - Fixed pivot scan and update order.
//
// Complexity: O(maxIter · n) per sweep step, O(n^2) space.
//
// Eigenvalues are returned unsorted, in the order of Q's columns.
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	src, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := src.r
	A := src.Clone().(*Dense)
	Q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	var (
		iter           int
		i, j, p, q     int
		maxOff, off    float64
		app, aqq, apq  float64
		aip, aiq       float64
		qip, qiq       float64
		theta, t, c, s float64
	)
	for iter = 0; iter < maxIter; iter++ {
		// pivot: largest off-diagonal magnitude
		maxOff = ZeroSum
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				off = math.Abs(A.data[i*n+j])
				if off > maxOff {
					maxOff, p, q = off, i, j
				}
			}
		}
		if maxOff < tol {
			break
		}

		app = A.data[p*n+p]
		aqq = A.data[q*n+q]
		apq = A.data[p*n+q]

		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		for i = 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip = A.data[i*n+p]
			aiq = A.data[i*n+q]
			A.data[i*n+p] = c*aip - s*aiq
			A.data[p*n+i] = A.data[i*n+p]
			A.data[i*n+q] = s*aip + c*aiq
			A.data[q*n+i] = A.data[i*n+q]
		}
		A.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		A.data[q*n+q] = s*s*app + 2*c*s*apq + c*c*aqq
		A.data[p*n+q], A.data[q*n+p] = 0, 0

		for i = 0; i < n; i++ {
			qip = Q.data[i*n+p]
			qiq = Q.data[i*n+q]
			Q.data[i*n+p] = c*qip - s*qiq
			Q.data[i*n+q] = s*qip + c*qiq
		}
	}

	maxOff = ZeroSum
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			maxOff = math.Max(maxOff, math.Abs(A.data[i*n+j]))
		}
	}
	if maxOff >= tol {
		return nil, nil, matrixErrorf(opEigen, ErrEigenFailed)
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = A.data[i*n+i]
	}

	return eigs, Q, nil
}

// SPDX-License-Identifier: MIT

// Package matrix: sentinel error set.
// All kernels return these sentinels (optionally wrapped with an op tag via
// matrixErrorf) and tests match them with errors.Is.

package matrix

import "errors"

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes
	// (Mul with a.Cols != b.Rows, data length != rows*cols, ...).
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrAsymmetry signals that a matrix expected to be symmetric is not, within tol.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within tol")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix was passed.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrEigenFailed indicates that the Jacobi sweep did not converge.
	ErrEigenFailed = errors.New("matrix: eigen decomposition failed")
)

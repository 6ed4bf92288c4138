// SPDX-License-Identifier: MIT

// Package matrix - central validators.
//
// Every kernel validates through these helpers so error priority stays fixed:
// nil -> shape -> symmetry.

package matrix

import (
	"fmt"
	"math"
)

// ValidateNotNil returns ErrNilMatrix for a nil interface or a nil *Dense.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return ErrNilMatrix
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return ErrNilMatrix
	}

	return nil
}

// ValidateSquare ensures m is non-nil and square.
func ValidateSquare(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.Rows() != m.Cols() {
		return ErrNonSquare
	}

	return nil
}

// ValidateMulCompatible ensures a.Cols() == b.Rows().
func ValidateMulCompatible(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if a.Cols() != b.Rows() {
		return ErrDimensionMismatch
	}

	return nil
}

// ValidateSymmetric ensures m is square and |m[i,j] − m[j,i]| ≤ tol for all i<j.
//
// Complexity: O(n^2).
func ValidateSymmetric(m Matrix, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return err
	}
	var (
		n        = m.Rows()
		i, j     int
		aij, aji float64
		err      error
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if aij, err = m.At(i, j); err != nil {
				return fmt.Errorf("At(%d,%d): %w", i, j, err)
			}
			if aji, err = m.At(j, i); err != nil {
				return fmt.Errorf("At(%d,%d): %w", j, i, err)
			}
			if math.Abs(aij-aji) > tol {
				return ErrAsymmetry
			}
		}
	}

	return nil
}

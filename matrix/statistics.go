// SPDX-License-Identifier: MIT

// Package matrix - column statistics over row-observations.
//
// Rows are observations (residues), columns are features (x, y, z).

package matrix

const (
	opCenterColumns = "CenterColumns"
	opCovariance    = "Covariance"
)

// CenterColumns subtracts the per-column mean from every element.
//
// Returns:
//   - *Dense: centered copy (r×c).
//   - []float64: column means (len=c).
//
// Errors:
//   - ErrNilMatrix; wrapped At errors for non-Dense inputs.
//
// Complexity: O(r*c).
func CenterColumns(X Matrix) (*Dense, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	d, err := toDense(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	r, c := d.r, d.c
	means := make([]float64, c)
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			means[j] += d.data[i*c+j]
		}
	}
	invR := 1.0 / float64(r)
	for j = 0; j < c; j++ {
		means[j] *= invR
	}

	out := d.Clone().(*Dense)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			out.data[i*c+j] -= means[j]
		}
	}

	return out, means, nil
}

// Covariance returns the population covariance (Xcᵀ Xc)/r of the columns of X
// together with the column means.
//
// The population (1/r) normalization is used so that trace(Cov) equals the
// squared radius of gyration of the row cloud.
//
// Errors:
//   - ErrNilMatrix; wrapped kernel errors.
//
// Complexity: O(r*c^2).
func Covariance(X Matrix) (*Dense, []float64, error) {
	Xc, means, err := CenterColumns(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	Xct, err := Transpose(Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	G, err := Mul(Xct, Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	cov, err := Scale(G, 1.0/float64(Xc.r))
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}

	return cov, means, nil
}

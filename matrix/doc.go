// SPDX-License-Identifier: MIT

// Package matrix provides the small dense linear-algebra layer used by the
// rigid-body and point-cloud code of foldflow.
//
// What lives here:
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set.
//   - Kernels: Mul, Transpose, Scale and a Jacobi eigen-solver (Eigen) for
//     symmetric input.
//   - Statistics: CenterColumns and Covariance over row-observations, used
//     for gyration tensors of Cα clouds (one row per residue, one column per axis).
//
// Policy:
//   - No panics on user input; every kernel returns a sentinel from errors.go,
//     wrapped with the operation tag (errors.Is keeps working).
//   - Deterministic loop orders; no randomness, no goroutines.
//   - *Dense operands take a flat-slice fast path; any other Matrix goes
//     through At/Set.
//
// The sizes foldflow needs are tiny (3×3 frames, N×3 coordinate blocks), so
// the kernels favor clarity over blocking tricks.
package matrix

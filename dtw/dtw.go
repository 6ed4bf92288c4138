// SPDX-License-Identifier: MIT

package dtw

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/sampler"
)

var (
	// ErrEmptyInput indicates one or both inputs are empty.
	ErrEmptyInput = errors.New("dtw: input sequences must be non-empty")

	// ErrBadInput indicates invalid options or mismatched frames.
	ErrBadInput = errors.New("dtw: invalid input")

	// ErrPathNeedsMatrix indicates that path recovery requires FullMatrix mode.
	ErrPathNeedsMatrix = errors.New("dtw: ReturnPath requires MemoryMode=FullMatrix")
)

// Align computes the DTW distance between sequences of length n and m under
// cost. The recurrence is
//
//	D[i][j] = cost(i−1, j−1) + min(D[i−1][j−1], D[i−1][j]+p, D[i][j−1]+p)
//
// with D[0][0]=0 and +Inf elsewhere on the borders. Cells outside the band
// stay +Inf, so a band narrower than |n−m| yields an infinite distance and
// no path. On ties the diagonal predecessor wins during backtracking.
//
// Errors:
//   - ErrEmptyInput, ErrBadInput (Window < -1, negative or NaN penalty, nil cost),
//     ErrPathNeedsMatrix.
//
// Complexity: O(n·m) time; O(n·m) or O(m) memory.
func Align(n, m int, cost CostFunc, opts *Options) (float64, []Coord, error) {
	if n == 0 || m == 0 {
		return 0, nil, ErrEmptyInput
	}
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if cost == nil || o.Window < -1 || !(o.SlopePenalty >= 0) {
		return 0, nil, fmt.Errorf("%w: window=%d penalty=%v", ErrBadInput, o.Window, o.SlopePenalty)
	}
	if o.ReturnPath && o.MemoryMode != FullMatrix {
		return 0, nil, ErrPathNeedsMatrix
	}

	rows := 2
	if o.MemoryMode == FullMatrix {
		rows = n + 1
	}
	dp := make([][]float64, rows)
	for r := range dp {
		dp[r] = make([]float64, m+1)
	}
	inf := math.Inf(1)
	for j := 1; j <= m; j++ {
		dp[0][j] = inf
	}
	row := func(i int) []float64 {
		if o.MemoryMode == FullMatrix {
			return dp[i]
		}
		return dp[i%2]
	}

	var (
		i, j      int
		cur, prev []float64
	)
	for i = 1; i <= n; i++ {
		cur, prev = row(i), row(i-1)
		cur[0] = inf
		for j = 1; j <= m; j++ {
			if o.Window >= 0 && absInt(i-j) > o.Window {
				cur[j] = inf
				continue
			}
			cur[j] = cost(i-1, j-1) + min3(prev[j-1], prev[j]+o.SlopePenalty, cur[j-1]+o.SlopePenalty)
		}
	}
	distance := row(n)[m]
	if !o.ReturnPath || math.IsInf(distance, 1) {
		return distance, nil, nil
	}

	return distance, backtrack(dp, n, m, o.SlopePenalty), nil
}

// backtrack walks from (n, m) to (1, 1) along minimal predecessors.
func backtrack(dp [][]float64, n, m int, penalty float64) []Coord {
	path := make([]Coord, 0, n+m)
	i, j := n, m
	for {
		path = append(path, Coord{I: i - 1, J: j - 1})
		if i == 1 && j == 1 {
			break
		}
		diag, up, left := dp[i-1][j-1], dp[i-1][j]+penalty, dp[i][j-1]+penalty
		switch {
		case diag <= up && diag <= left:
			i, j = i-1, j-1
		case up <= left:
			i--
		default:
			j--
		}
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	return path
}

// Series aligns two scalar series with cost |a_i − b_j|.
func Series(a, b []float64, opts *Options) (float64, []Coord, error) {
	return Align(len(a), len(b), func(i, j int) float64 { return math.Abs(a[i] - b[j]) }, opts)
}

// Trajectories aligns two sequences of states with the dRMSD between their
// translations as frame cost, so rigid motions of a frame cost nothing.
//
// Errors:
//   - ErrEmptyInput; ErrBadInput when frames differ in residue count.
func Trajectories(a, b []sampler.ProteinState, opts *Options) (float64, []Coord, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil, ErrEmptyInput
	}
	n := len(a[0].Translations)
	for k, f := range append(append([]sampler.ProteinState(nil), a...), b...) {
		if len(f.Translations) != n {
			return 0, nil, fmt.Errorf("%w: frame %d has %d residues, want %d", ErrBadInput, k, len(f.Translations), n)
		}
	}
	var costErr error
	cost := func(i, j int) float64 {
		d, err := geometry.DRMSD(a[i].Translations, b[j].Translations)
		if err != nil && costErr == nil {
			costErr = fmt.Errorf("%w: frames %d/%d: %w", ErrBadInput, i, j, err)
		}
		return d
	}

	dist, path, err := Align(len(a), len(b), cost, opts)
	if err != nil {
		return 0, nil, err
	}
	if costErr != nil {
		return 0, nil, costErr
	}

	return dist, path, nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

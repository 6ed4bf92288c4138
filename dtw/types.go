// SPDX-License-Identifier: MIT

package dtw

// MemoryMode controls how the DP matrix is stored.
//
//   - FullMatrix — keep the entire (n+1)×(m+1) matrix; allows path recovery.
//   - TwoRows    — keep only the previous and current rows; distance only.
type MemoryMode int

const (
	// FullMatrix stores all rows. Memory: O(n·m).
	FullMatrix MemoryMode = iota

	// TwoRows stores two rows. Memory: O(m).
	TwoRows
)

// Options configures an alignment.
//
// Fields:
//   - Window       — Sakoe–Chiba band |i−j| ≤ Window; -1 disables the band.
//   - SlopePenalty — added to every insertion or deletion step (≥ 0).
//   - ReturnPath   — backtrack the optimal warping path (needs FullMatrix).
//   - MemoryMode   — FullMatrix or TwoRows.
type Options struct {
	Window       int
	SlopePenalty float64
	ReturnPath   bool
	MemoryMode   MemoryMode
}

// DefaultOptions returns an unconstrained, penalty-free, distance-only setup.
func DefaultOptions() Options {
	return Options{Window: -1, MemoryMode: FullMatrix}
}

// Coord is one cell (I in the first sequence, J in the second) of a warping path.
type Coord struct {
	I, J int
}

// CostFunc returns the local cost of matching element i of the first
// sequence with element j of the second. It must be non-negative.
type CostFunc func(i, j int) float64

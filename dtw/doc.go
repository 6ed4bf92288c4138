// SPDX-License-Identifier: MIT

// Package dtw aligns sequences that progress at different speeds with
// Dynamic Time Warping. It is used to compare sampling trajectories: two
// runs that pass through the same structures at different steps align with
// a small warped cost even when a step-by-step comparison would not.
//
// ✨ Key features:
//   - arbitrary frame cost via CostFunc (Series and Trajectories wrap it)
//   - full-matrix mode with warping path recovery
//   - two-row mode with O(m) memory when only the distance is needed
//   - Sakoe–Chiba band (|i−j| ≤ Window) and a slope penalty
//
// ⚙️ Usage:
//
//	opts := dtw.DefaultOptions()
//	opts.ReturnPath = true
//	dist, path, err := dtw.Trajectories(runA.Frames, runB.Frames, &opts)
//
// Complexity: O(n·m) cost evaluations.
package dtw

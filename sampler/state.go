// SPDX-License-Identifier: MIT

package sampler

import (
	"fmt"
	"math"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/so3"
)

// ProteinState is the per-residue state of all three channels at time T.
// All slices have the same length N, fixed for a run.
type ProteinState struct {
	Rotations    []so3.Rot       `json:"rotations"`
	Translations []geometry.Vec3 `json:"translations"`
	// Tokens hold values in [0, NumTokens]; NumTokens is the mask.
	Tokens []int   `json:"tokens"`
	T      float64 `json:"t"`
}

// Len returns the number of residues.
func (s ProteinState) Len() int { return len(s.Tokens) }

// Clone returns a deep copy of s.
func (s ProteinState) Clone() ProteinState {
	out := ProteinState{T: s.T, Translations: geometry.Clone(s.Translations)}
	if s.Rotations != nil {
		out.Rotations = make([]so3.Rot, len(s.Rotations))
		copy(out.Rotations, s.Rotations)
	}
	if s.Tokens != nil {
		out.Tokens = make([]int, len(s.Tokens))
		copy(out.Tokens, s.Tokens)
	}

	return out
}

// validate checks shape, finiteness and token range of an initial state.
func (s ProteinState) validate(numTokens int) error {
	n := len(s.Tokens)
	if n == 0 {
		return fmt.Errorf("%w: no residues", ErrInvalidState)
	}
	if len(s.Rotations) != n || len(s.Translations) != n {
		return fmt.Errorf("%w: lengths rotations=%d translations=%d tokens=%d",
			ErrInvalidState, len(s.Rotations), len(s.Translations), n)
	}
	for i := 0; i < n; i++ {
		if !s.Rotations[i].IsFinite() || !s.Translations[i].IsFinite() {
			return fmt.Errorf("%w: residue %d is not finite", ErrInvalidState, i)
		}
		if s.Tokens[i] < 0 || s.Tokens[i] > numTokens {
			return fmt.Errorf("%w: residue %d token %d outside [0,%d]", ErrInvalidState, i, s.Tokens[i], numTokens)
		}
	}

	return nil
}

// Prediction is the predictor's clean estimate for every residue.
// Logits[i] has one entry per token (NumTokens, mask excluded).
type Prediction struct {
	Rotations    []so3.Rot       `json:"rotations"`
	Translations []geometry.Vec3 `json:"translations"`
	Logits       [][]float64     `json:"logits"`
}

// Clone returns a deep copy of p (nil for nil).
func (p *Prediction) Clone() *Prediction {
	if p == nil {
		return nil
	}
	out := &Prediction{Translations: geometry.Clone(p.Translations)}
	if p.Rotations != nil {
		out.Rotations = make([]so3.Rot, len(p.Rotations))
		copy(out.Rotations, p.Rotations)
	}
	if p.Logits != nil {
		out.Logits = make([][]float64, len(p.Logits))
		for i, row := range p.Logits {
			out.Logits[i] = append([]float64(nil), row...)
		}
	}

	return out
}

// validate checks the prediction has n entries per field and numTokens
// finite logits per row.
func (p *Prediction) validate(n, numTokens int) error {
	if p == nil {
		return fmt.Errorf("%w: nil prediction", ErrPredictor)
	}
	if len(p.Rotations) != n || len(p.Translations) != n || len(p.Logits) != n {
		return fmt.Errorf("%w: shape rotations=%d translations=%d logits=%d, want %d",
			ErrPredictor, len(p.Rotations), len(p.Translations), len(p.Logits), n)
	}
	for i := 0; i < n; i++ {
		if !p.Rotations[i].IsFinite() || !p.Translations[i].IsFinite() {
			return fmt.Errorf("%w: residue %d is not finite", ErrPredictor, i)
		}
		if len(p.Logits[i]) != numTokens {
			return fmt.Errorf("%w: residue %d has %d logits, want %d", ErrPredictor, i, len(p.Logits[i]), numTokens)
		}
		for _, l := range p.Logits[i] {
			if math.IsNaN(l) || math.IsInf(l, 0) {
				return fmt.Errorf("%w: residue %d has non-finite logits", ErrPredictor, i)
			}
		}
	}

	return nil
}

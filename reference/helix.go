// SPDX-License-Identifier: MIT

package reference

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/sampler"
	"github.com/katalvlaran/foldflow/so3"
)

// Ideal α-helix Cα geometry (Å, radians).
const (
	HelixRadius = 2.3
	HelixRise   = 1.5
	HelixTwist  = 100 * math.Pi / 180
)

// Logit ramp of the target token: BaseLogit + SlopeLogit·t.
const (
	BaseLogit  = 1.0
	SlopeLogit = 8.0
)

const degenerate = 1e-9

// HelixTrace returns n Cα positions on an ideal α-helix along z, centered
// at the origin.
// Complexity: O(n).
func HelixTrace(n int) []geometry.Vec3 {
	xs := make([]geometry.Vec3, n)
	for i := range xs {
		phi := float64(i) * HelixTwist
		xs[i] = geometry.Vec3{HelixRadius * math.Cos(phi), HelixRadius * math.Sin(phi), float64(i) * HelixRise}
	}

	return geometry.Center(xs)
}

// Frames builds one right-handed frame per point by Gram–Schmidt on the
// bonds to the next and previous points. The first and last points borrow
// their neighbor's bond pair; degenerate geometry yields the identity.
// Complexity: O(n).
func Frames(xs []geometry.Vec3) []so3.Rot {
	n := len(xs)
	out := make([]so3.Rot, n)
	for i := range out {
		out[i] = so3.Identity()
		if n < 3 {
			continue
		}
		c := i
		if c == 0 {
			c = 1
		}
		if c == n-1 {
			c = n - 2
		}
		e1 := xs[c+1].Sub(xs[c])
		u := xs[c-1].Sub(xs[c])
		if e1.Norm() < degenerate {
			continue
		}
		e1 = e1.Scale(1 / e1.Norm())
		e2 := u.Sub(e1.Scale(u.Dot(e1)))
		if e2.Norm() < degenerate {
			continue
		}
		e2 = e2.Scale(1 / e2.Norm())
		e3 := e1.Cross(e2)
		out[i] = so3.Rot{
			{e1[0], e2[0], e3[0]},
			{e1[1], e2[1], e3[1]},
			{e1[2], e2[2], e3[2]},
		}
	}

	return out
}

// Helix is an oracle predictor for a fixed length. It is safe for
// concurrent use.
type Helix struct {
	numTokens    int
	sequence     []int
	translations []geometry.Vec3
	rotations    []so3.Rot
}

// NewHelix builds an oracle for n residues over numTokens tokens. A nil
// sequence defaults to token (7·i) mod numTokens at residue i.
//
// Errors:
//   - n < 1, numTokens < 1, or a sequence of the wrong length or range.
func NewHelix(n, numTokens int, sequence []int) (*Helix, error) {
	if n < 1 || numTokens < 1 {
		return nil, fmt.Errorf("reference: helix needs n ≥ 1 and numTokens ≥ 1 (got %d, %d)", n, numTokens)
	}
	if sequence == nil {
		sequence = make([]int, n)
		for i := range sequence {
			sequence[i] = (7 * i) % numTokens
		}
	}
	if len(sequence) != n {
		return nil, fmt.Errorf("reference: sequence length %d, want %d", len(sequence), n)
	}
	for i, tok := range sequence {
		if tok < 0 || tok >= numTokens {
			return nil, fmt.Errorf("reference: token %d at residue %d outside [0,%d)", tok, i, numTokens)
		}
	}
	xs := HelixTrace(n)

	return &Helix{
		numTokens:    numTokens,
		sequence:     append([]int(nil), sequence...),
		translations: xs,
		rotations:    Frames(xs),
	}, nil
}

// Sequence returns a copy of the target sequence.
func (h *Helix) Sequence() []int { return append([]int(nil), h.sequence...) }

// Translations returns a copy of the target Cα trace.
func (h *Helix) Translations() []geometry.Vec3 { return geometry.Clone(h.translations) }

// Rotations returns a copy of the target frames.
func (h *Helix) Rotations() []so3.Rot { return append([]so3.Rot(nil), h.rotations...) }

// Template returns a state of the right length with identity frames, zero
// translations and the target sequence; the sampler noises enabled channels
// away from it.
func (h *Helix) Template() sampler.ProteinState {
	n := len(h.sequence)
	rots := make([]so3.Rot, n)
	for i := range rots {
		rots[i] = so3.Identity()
	}

	return sampler.ProteinState{
		Rotations:    rots,
		Translations: make([]geometry.Vec3, n),
		Tokens:       h.Sequence(),
	}
}

// Predict implements sampler.Predictor.
func (h *Helix) Predict(ctx context.Context, in sampler.PredictorInput) (*sampler.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.State.Len() != len(h.sequence) {
		return nil, fmt.Errorf("reference: state has %d residues, helix has %d", in.State.Len(), len(h.sequence))
	}
	logits := make([][]float64, len(h.sequence))
	peak := BaseLogit + SlopeLogit*in.T
	for i, tok := range h.sequence {
		logits[i] = make([]float64, h.numTokens)
		logits[i][tok] = peak
	}

	return &sampler.Prediction{
		Rotations:    h.Rotations(),
		Translations: h.Translations(),
		Logits:       logits,
	}, nil
}

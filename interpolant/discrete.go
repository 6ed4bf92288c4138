// SPDX-License-Identifier: MIT

package interpolant

import (
	"math"
	"math/rand"
	"sort"

	"github.com/katalvlaran/foldflow/schedule"
)

// Masking is the only supported discrete interpolant.
const Masking = "masking"

// DiscreteChannel integrates per-residue token identities with the masking
// interpolant. Tokens are in [0, NumTokens); the value NumTokens is the mask.
type DiscreteChannel struct {
	Schedule  schedule.Schedule
	NumTokens int
	// Temp is the softmax temperature used for ranking and sampling.
	Temp float64
	// Noise is the per-unit-α remasking rate; 0 disables remasking.
	Noise float64
	// Purity unmasks the most confident positions to their argmax token;
	// otherwise positions are chosen uniformly and tokens sampled.
	Purity bool
}

// Mask returns the mask token.
func (c DiscreteChannel) Mask() int { return c.NumTokens }

// MaskedCount returns how many positions hold the mask token.
func (c DiscreteChannel) MaskedCount(tokens []int) int {
	var n int
	mask := c.Mask()
	for _, tok := range tokens {
		if tok == mask {
			n++
		}
	}

	return n
}

// Corrupt masks each position independently with probability 1 − α(t).
// At α = 0 every position is masked.
// Complexity: O(n).
func (c DiscreteChannel) Corrupt(clean []int, t float64, rng *rand.Rand) []int {
	a := c.Schedule.Coefficient(t)
	out := make([]int, len(clean))
	for i, tok := range clean {
		if rng.Float64() < 1-a {
			out[i] = c.Mask()
			continue
		}
		out[i] = tok
	}

	return out
}

// Step advances cur from t0 to t1 using logits (one row of NumTokens per
// position):
//
//  1. remask each unmasked position with probability min(1, Noise·Δα);
//  2. k = round(α(t1)·N) − #unmasked, clamped to [0, #masked];
//  3. unmask k masked positions (purity ranking or uniform choice).
//
// Complexity: O(n·K + n log n) for K tokens.
func (c DiscreteChannel) Step(cur []int, logits [][]float64, t0, t1 float64, rng *rand.Rand) []int {
	a1 := c.Schedule.Coefficient(t1)
	mask := c.Mask()
	out := make([]int, len(cur))
	copy(out, cur)

	if c.Noise > 0 {
		p := math.Min(1, c.Noise*c.Schedule.Delta(t0, t1))
		for i, tok := range out {
			if tok != mask && rng.Float64() < p {
				out[i] = mask
			}
		}
	}

	masked := make([]int, 0, len(out))
	for i, tok := range out {
		if tok == mask {
			masked = append(masked, i)
		}
	}
	unmasked := len(out) - len(masked)
	k := int(math.Round(a1*float64(len(out)))) - unmasked
	if k <= 0 || len(masked) == 0 {
		return out
	}
	if k > len(masked) {
		k = len(masked)
	}

	probs := make([]float64, c.NumTokens)
	if c.Purity {
		c.unmaskPurest(out, masked, logits, k, probs)
		return out
	}

	// partial Fisher–Yates: the first k entries become a uniform k-subset
	var j, r int
	for j = 0; j < k; j++ {
		r = j + rng.Intn(len(masked)-j)
		masked[j], masked[r] = masked[r], masked[j]
	}
	for _, i := range masked[:k] {
		out[i] = sampleCategorical(softmax(logits[i], c.Temp, probs), rng)
	}

	return out
}

// unmaskPurest sets the k masked positions with the highest top-token
// probability to their argmax token. Ties keep the lower index first.
func (c DiscreteChannel) unmaskPurest(out, masked []int, logits [][]float64, k int, probs []float64) {
	type scored struct {
		pos, tok int
		conf     float64
	}
	cands := make([]scored, len(masked))
	for n, i := range masked {
		p := softmax(logits[i], c.Temp, probs)
		best := argmax(p)
		cands[n] = scored{pos: i, tok: best, conf: p[best]}
	}
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].conf > cands[b].conf })
	for _, s := range cands[:k] {
		out[s.pos] = s.tok
	}
}

// Finalize sets every still-masked position to its argmax token.
// Complexity: O(n·K).
func (c DiscreteChannel) Finalize(cur []int, logits [][]float64) []int {
	mask := c.Mask()
	out := make([]int, len(cur))
	for i, tok := range cur {
		if tok == mask {
			out[i] = argmax(logits[i])
			continue
		}
		out[i] = tok
	}

	return out
}

// SPDX-License-Identifier: MIT

package interpolant

import (
	"math"
	"math/rand"
)

// softmax writes softmax(logits/temp) into probs (len ≥ len(logits)) and
// returns it. The max logit is subtracted first for stability.
func softmax(logits []float64, temp float64, probs []float64) []float64 {
	probs = probs[:len(logits)]
	maxLogit := math.Inf(-1)
	for _, l := range logits {
		maxLogit = math.Max(maxLogit, l/temp)
	}
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l/temp - maxLogit)
		sum += probs[i]
	}
	inv := 1 / sum
	for i := range probs {
		probs[i] *= inv
	}

	return probs
}

// argmax returns the index of the largest value; ties go to the lower index.
func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}

	return best
}

// sampleCategorical draws an index from probs by inverse CDF.
func sampleCategorical(probs []float64, rng *rand.Rand) int {
	r := rng.Float64()
	var acc float64
	for i, p := range probs {
		acc += p
		if r < acc {
			return i
		}
	}

	return len(probs) - 1
}

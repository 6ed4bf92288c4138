// SPDX-License-Identifier: MIT

package sampler

import (
	"math"
	"strings"
	"time"

	"github.com/katalvlaran/foldflow/geometry"
)

// Alphabet is the one-letter residue code of tokens 0..19.
const Alphabet = "ARNDCQEGHILKMFPSTWYV"

// Summary holds per-run diagnostics of a final state.
type Summary struct {
	RunID    string        `json:"run_id"`
	Seed     int64         `json:"seed"`
	Residues int           `json:"residues"`
	Steps    int           `json:"steps"`
	Duration time.Duration `json:"duration"`

	RadiusOfGyration float64 `json:"radius_of_gyration"`
	Asphericity      float64 `json:"asphericity"`
	// CaCaViolations is the fraction of consecutive Cα pairs stretched beyond
	// geometry.DefaultCaCaTolerance of the ideal distance.
	CaCaViolations float64 `json:"ca_ca_violations"`
	// MaxOrthonormalityError is max over residues of max|RᵀR − I|.
	MaxOrthonormalityError float64 `json:"max_orthonormality_error"`
	MaskedTokens           int     `json:"masked_tokens"`
	Sequence               string  `json:"sequence"`
}

// Summarize computes diagnostics for r. numTokens identifies the mask token.
// Shape fields stay zero when the gyration tensor cannot be diagonalized.
func Summarize(r *Result, numTokens int) Summary {
	st := r.State
	sum := Summary{
		RunID:            r.RunID,
		Seed:             r.Seed,
		Residues:         st.Len(),
		Steps:            r.Steps,
		Duration:         r.Duration,
		RadiusOfGyration: geometry.RadiusOfGyration(st.Translations),
		CaCaViolations:   geometry.CaCaViolationFraction(st.Translations, geometry.CaCaDistance, geometry.DefaultCaCaTolerance, 1),
		Sequence:         Sequence(st.Tokens, numTokens),
	}
	if shape, err := geometry.ShapeOf(st.Translations); err == nil {
		sum.Asphericity = shape.Asphericity
	}
	for _, R := range st.Rotations {
		sum.MaxOrthonormalityError = math.Max(sum.MaxOrthonormalityError, R.OrthonormalityError())
	}
	for _, tok := range st.Tokens {
		if tok == numTokens {
			sum.MaskedTokens++
		}
	}

	return sum
}

// Sequence renders tokens with Alphabet; the mask is '-' and any other
// token outside the alphabet is 'X'.
func Sequence(tokens []int, numTokens int) string {
	var sb strings.Builder
	sb.Grow(len(tokens))
	for _, tok := range tokens {
		switch {
		case tok == numTokens:
			sb.WriteByte('-')
		case tok >= 0 && tok < len(Alphabet):
			sb.WriteByte(Alphabet[tok])
		default:
			sb.WriteByte('X')
		}
	}

	return sb.String()
}

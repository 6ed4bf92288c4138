// SPDX-License-Identifier: MIT

package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSchedule is returned for any parameter combination that cannot
// produce a monotone coefficient with α(minT)=0 and α(1)=1.
var ErrInvalidSchedule = errors.New("schedule: invalid schedule parameters")

// Kind selects the schedule family.
type Kind int

const (
	// Linear ramps α uniformly over [minT, 1].
	Linear Kind = iota

	// Exponential front-loads progress; larger Rate reaches α≈1 earlier.
	// Rotations use it to resolve orientation before fine translation detail.
	Exponential

	// PolynomialWarmup holds α at 0 for the first Warmup fraction of normalized
	// time, then ramps as a power law with exponent Power.
	PolynomialWarmup
)

// String returns the config spelling of k.
func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Exponential:
		return "exp"
	case PolynomialWarmup:
		return "poly"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a config string to a Kind.
// Accepted spellings: "linear", "exp"/"exponential", "poly"/"polynomial".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "":
		return Linear, nil
	case "exp", "exponential":
		return Exponential, nil
	case "poly", "polynomial":
		return PolynomialWarmup, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidSchedule, s)
	}
}

// Params is the immutable payload of a schedule variant.
//
// Fields:
//   - Kind   — family tag.
//   - Rate   — Exponential only; must be finite and > 0.
//   - Power  — PolynomialWarmup only; must be finite and > 0 (0 means 1).
//   - Warmup — PolynomialWarmup only; fraction of normalized time in [0, 1).
type Params struct {
	Kind   Kind
	Rate   float64
	Power  float64
	Warmup float64
}

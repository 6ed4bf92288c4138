// SPDX-License-Identifier: MIT

package sampler

import (
	"errors"
	"fmt"
)

// Sentinel errors. Match with errors.Is; run-time failures arrive wrapped in
// a *StepError.
var (
	// ErrConfiguration indicates an invalid Config (also wraps
	// schedule.ErrInvalidSchedule and potential.ErrInvalidPotential).
	ErrConfiguration = errors.New("sampler: invalid configuration")

	// ErrPredictor indicates a failed predictor call: an error, a cancelled
	// context, or a non-finite or mis-shaped prediction.
	ErrPredictor = errors.New("sampler: predictor failure")

	// ErrNumericalInstability indicates a rotation could not be projected back
	// onto SO(3) (wraps so3.ErrNotOrthonormal).
	ErrNumericalInstability = errors.New("sampler: numerical instability")

	// ErrInvalidState indicates an initial state with inconsistent lengths,
	// out-of-range tokens or no residues.
	ErrInvalidState = errors.New("sampler: invalid initial state")
)

// StepError wraps a run-time failure with the run and step it happened in.
type StepError struct {
	RunID string
	// Step is the 1-based step index (num_timesteps is the final step).
	Step int
	// T is the time at which the predictor was queried.
	T   float64
	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sampler: run %s step %d (t=%.4f): %v", e.RunID, e.Step, e.T, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

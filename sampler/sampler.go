// SPDX-License-Identifier: MIT

package sampler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/interpolant"
	"github.com/katalvlaran/foldflow/metrics"
)

// Sampler integrates the three channels from min_t to 1 with a fixed time
// grid. It is immutable after New and safe for concurrent Runs.
type Sampler struct {
	cfg  Config
	grid []float64

	rots  interpolant.RotationChannel
	trans interpolant.TranslationChannel
	aa    interpolant.DiscreteChannel

	opts options
}

// Result is the outcome of a successful run.
type Result struct {
	RunID string
	Seed  int64
	// State is the final state at t = 1.
	State ProteinState
	// Trajectory holds one snapshot per step when WithTrajectory is set.
	Trajectory []ProteinState
	// Steps is the number of predictor calls (num_timesteps).
	Steps    int
	Duration time.Duration
}

// New validates cfg once and builds a Sampler.
//
// Errors:
//   - ErrConfiguration (wrapping the specific schedule/potential error).
func New(cfg Config, opts ...Option) (*Sampler, error) {
	sched, pot, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Sampler{
		cfg:  cfg,
		grid: timeGrid(cfg.MinT, cfg.NumTimesteps),
		rots: interpolant.RotationChannel{
			Schedule:   sched.rots,
			SDE:        cfg.DoSDE,
			NoiseScale: cfg.NoiseScale,
		},
		trans: interpolant.TranslationChannel{
			Schedule:          sched.trans,
			PreAlign:          cfg.Trans.PreAlign,
			NoiseStd:          cfg.Trans.NoiseStd,
			SDE:               cfg.DoSDE,
			NoiseScale:        cfg.NoiseScale,
			SampleTemp:        cfg.Trans.SampleTemp,
			Potential:         pot,
			PotentialTScaling: cfg.Trans.PotentialTScaling,
		},
		aa: interpolant.DiscreteChannel{
			Schedule:  sched.aatypes,
			NumTokens: cfg.NumTokens,
			Temp:      cfg.AATypes.Temp,
			Noise:     cfg.AATypes.Noise,
			Purity:    cfg.AATypes.DoPurity,
		},
		opts: o,
	}, nil
}

// timeGrid returns n evenly spaced times from minT to exactly 1.
func timeGrid(minT float64, n int) []float64 {
	grid := make([]float64, n)
	dt := (1 - minT) / float64(n-1)
	for k := range grid {
		grid[k] = minT + float64(k)*dt
	}
	grid[n-1] = 1

	return grid
}

// Config returns the validated configuration.
func (s *Sampler) Config() Config { return s.cfg }

// Grid returns a copy of the time grid.
func (s *Sampler) Grid() []float64 { return append([]float64(nil), s.grid...) }

// Run samples one structure and sequence from initial, which supplies the
// clean (template) values: enabled channels are noised from it at min_t,
// disabled channels keep it verbatim. The predictor is queried once per
// grid point. ctx is checked before, and passed to, each predictor call.
//
// Errors:
//   - ErrInvalidState for a malformed initial state.
//   - *StepError wrapping ErrPredictor or ErrNumericalInstability.
//
// A failed run returns a nil Result.
func (s *Sampler) Run(ctx context.Context, initial ProteinState, p Predictor, seed int64) (*Result, error) {
	if err := initial.validate(s.cfg.NumTokens); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: nil predictor", ErrPredictor)
	}

	var (
		runID = uuid.NewString()
		start = time.Now()
		log   = s.opts.logger.With(zap.String("run_id", runID), zap.Int64("seed", seed))
		rec   = s.opts.recorder
		n     = len(s.grid)
	)
	log.Info("Sampling run started",
		zap.Int("residues", initial.Len()),
		zap.Int("steps", n),
		zap.Bool("sde", s.cfg.DoSDE))

	fail := func(step int, t float64, err error) (*Result, error) {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeCanceled
		}
		rec.IncRunOutcome(outcome)
		log.Warn("Sampling run failed", zap.Int("step", step), zap.Float64("t", t), zap.Error(err))
		return nil, &StepError{RunID: runID, Step: step, T: t, Err: err}
	}

	// INIT
	streams := newChannelStreams(seed)
	state := s.corrupt(initial, streams)
	cache := &selfCondCache{}
	var traj []ProteinState
	if s.opts.trajectory {
		traj = make([]ProteinState, 0, n)
	}

	// STEP 1..n; step i queries the predictor at grid[i-1]
	var (
		pred *Prediction
		err  error
	)
	for i := 1; i <= n; i++ {
		t := s.grid[i-1]
		if pred, err = s.predict(ctx, p, state, t, cache); err != nil {
			return fail(i, t, err)
		}
		if i < n {
			state, err = s.advance(state, pred, t, s.grid[i], streams)
		} else {
			state, err = s.finalize(state, pred)
		}
		if err != nil {
			return fail(i, t, err)
		}
		if s.cfg.SelfCondition {
			cache.Set(pred)
		}
		if traj != nil {
			traj = append(traj, state.Clone())
		}
		if s.opts.logEvery > 0 && i%s.opts.logEvery == 0 {
			log.Debug("Sampling progress",
				zap.Int("step", i),
				zap.Float64("t", state.T),
				zap.Int("masked", s.aa.MaskedCount(state.Tokens)))
		}
	}

	// DONE
	res := &Result{
		RunID:      runID,
		Seed:       seed,
		State:      state,
		Trajectory: traj,
		Steps:      n,
		Duration:   time.Since(start),
	}
	rg := geometry.RadiusOfGyration(state.Translations)
	rec.IncSteps(n)
	rec.ObserveRunDuration(res.Duration)
	rec.ObserveFinalRg(rg)
	rec.IncRunOutcome(metrics.OutcomeSuccess)
	log.Info("Sampling run finished",
		zap.Duration("duration", res.Duration),
		zap.Float64("rg", rg))

	return res, nil
}

// corrupt builds the state at min_t.
func (s *Sampler) corrupt(initial ProteinState, streams channelStreams) ProteinState {
	t0 := s.grid[0]
	state := initial.Clone()
	state.T = t0
	if s.cfg.Rots.Corrupt {
		state.Rotations = s.rots.Corrupt(initial.Rotations, t0, streams.rotations)
	}
	if s.cfg.Trans.Corrupt {
		state.Translations = s.trans.Corrupt(initial.Translations, t0, streams.translations)
	}
	if s.cfg.AATypes.Corrupt {
		state.Tokens = s.aa.Corrupt(initial.Tokens, t0, streams.tokens)
	}

	return state
}

// predict queries p at t and returns a validated private copy of the output.
func (s *Sampler) predict(ctx context.Context, p Predictor, state ProteinState, t float64, cache *selfCondCache) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPredictor, err)
	}
	in := PredictorInput{State: state.Clone(), T: t}
	if s.cfg.SelfCondition {
		in.SelfCond = cache.Get()
	}

	begin := time.Now()
	pred, err := p.Predict(ctx, in)
	s.opts.recorder.ObservePredictorDuration(time.Since(begin))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPredictor, err)
	}
	if err = pred.validate(state.Len(), s.cfg.NumTokens); err != nil {
		return nil, err
	}

	return pred.Clone(), nil
}

// advance integrates enabled channels from t0 to t1. Disabled channels keep
// their slices.
func (s *Sampler) advance(cur ProteinState, pred *Prediction, t0, t1 float64, streams channelStreams) (ProteinState, error) {
	next := cur
	next.T = t1
	if s.cfg.Rots.Corrupt {
		target, err := s.rots.Finalize(pred.Rotations)
		if err != nil {
			return cur, fmt.Errorf("%w: estimate: %w", ErrNumericalInstability, err)
		}
		if next.Rotations, err = s.rots.Step(cur.Rotations, target, t0, t1, streams.rotations); err != nil {
			return cur, fmt.Errorf("%w: %w", ErrNumericalInstability, err)
		}
	}
	if s.cfg.Trans.Corrupt {
		next.Translations = s.trans.Step(cur.Translations, pred.Translations, t0, t1, streams.translations)
	}
	if s.cfg.AATypes.Corrupt {
		next.Tokens = s.aa.Step(cur.Tokens, pred.Logits, t0, t1, streams.tokens)
	}

	return next, nil
}

// finalize produces the t = 1 state from the last prediction.
func (s *Sampler) finalize(cur ProteinState, pred *Prediction) (ProteinState, error) {
	next := cur
	next.T = 1
	if s.cfg.Rots.Corrupt {
		var err error
		if next.Rotations, err = s.rots.Finalize(pred.Rotations); err != nil {
			return cur, fmt.Errorf("%w: %w", ErrNumericalInstability, err)
		}
	}
	if s.cfg.Trans.Corrupt {
		next.Translations = s.trans.Finalize(pred.Translations)
	}
	if s.cfg.AATypes.Corrupt {
		next.Tokens = s.aa.Finalize(cur.Tokens, pred.Logits)
	}

	return next, nil
}

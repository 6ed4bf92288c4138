// SPDX-License-Identifier: MIT

package sampler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/foldflow/interpolant"
	"github.com/katalvlaran/foldflow/potential"
	"github.com/katalvlaran/foldflow/schedule"
)

// Defaults (single source of truth for DefaultConfig).
const (
	DefaultMinT              = 0.01
	DefaultNumTimesteps      = 100
	DefaultNoiseScale        = 1.0
	DefaultNumTokens         = 20
	DefaultRotsExpRate       = 10.0
	DefaultSampleTemp        = 1.0
	DefaultTransNoiseStd     = 1.0
	DefaultPotentialTScaling = 1.0
	DefaultRoGWeight         = 1.0
	DefaultRoGCutoff         = 10.0
	DefaultAATemp            = 0.1
)

// RotsConfig configures the rotation channel.
type RotsConfig struct {
	Corrupt        bool    `yaml:"corrupt"`
	SampleSchedule string  `yaml:"sample_schedule"`
	ExpRate        float64 `yaml:"exp_rate"`
	Power          float64 `yaml:"power"`
	Warmup         float64 `yaml:"warmup"`
}

// RoGConfig parameterizes the radius-of-gyration potential.
type RoGConfig struct {
	Weight float64 `yaml:"weight"`
	Cutoff float64 `yaml:"cutoff"`
}

// TransConfig configures the translation channel.
type TransConfig struct {
	Corrupt           bool      `yaml:"corrupt"`
	PreAlign          bool      `yaml:"pre_align"`
	NoiseStd          float64   `yaml:"noise_std"`
	SampleSchedule    string    `yaml:"sample_schedule"`
	ExpRate           float64   `yaml:"exp_rate"`
	Power             float64   `yaml:"power"`
	Warmup            float64   `yaml:"warmup"`
	SampleTemp        float64   `yaml:"sample_temp"`
	Potential         string    `yaml:"potential"`
	PotentialTScaling float64   `yaml:"potential_t_scaling"`
	RoG               RoGConfig `yaml:"rog"`
}

// AATypesConfig configures the discrete (sequence) channel.
type AATypesConfig struct {
	Corrupt         bool    `yaml:"corrupt"`
	Schedule        string  `yaml:"schedule"`
	ScheduleExpRate float64 `yaml:"schedule_exp_rate"`
	SchedulePower   float64 `yaml:"schedule_power"`
	ScheduleWarmup  float64 `yaml:"schedule_warmup"`
	Temp            float64 `yaml:"temp"`
	Noise           float64 `yaml:"noise"`
	DoPurity        bool    `yaml:"do_purity"`
	InterpolantType string  `yaml:"interpolant_type"`
}

// Config is the full sampler configuration. Build it with DefaultConfig or
// LoadConfig and validate once via New (or Validate).
type Config struct {
	MinT          float64 `yaml:"min_t"`
	NumTimesteps  int     `yaml:"num_timesteps"`
	DoSDE         bool    `yaml:"do_sde"`
	SelfCondition bool    `yaml:"self_condition"`
	NoiseScale    float64 `yaml:"noise_scale"`
	NumTokens     int     `yaml:"num_tokens"`

	Rots    RotsConfig    `yaml:"rots"`
	Trans   TransConfig   `yaml:"trans"`
	AATypes AATypesConfig `yaml:"aatypes"`
}

// DefaultConfig returns the documented defaults with every channel enabled.
func DefaultConfig() Config {
	return Config{
		MinT:          DefaultMinT,
		NumTimesteps:  DefaultNumTimesteps,
		DoSDE:         false,
		SelfCondition: true,
		NoiseScale:    DefaultNoiseScale,
		NumTokens:     DefaultNumTokens,
		Rots: RotsConfig{
			Corrupt:        true,
			SampleSchedule: schedule.Exponential.String(),
			ExpRate:        DefaultRotsExpRate,
		},
		Trans: TransConfig{
			Corrupt:           true,
			PreAlign:          true,
			NoiseStd:          DefaultTransNoiseStd,
			SampleSchedule:    schedule.Linear.String(),
			SampleTemp:        DefaultSampleTemp,
			Potential:         potential.NameNone,
			PotentialTScaling: DefaultPotentialTScaling,
			RoG:               RoGConfig{Weight: DefaultRoGWeight, Cutoff: DefaultRoGCutoff},
		},
		AATypes: AATypesConfig{
			Corrupt:         true,
			Schedule:        schedule.Linear.String(),
			Temp:            DefaultAATemp,
			DoPurity:        true,
			InterpolantType: interpolant.Masking,
		},
	}
}

// schedules resolved from a validated Config.
type schedules struct {
	rots, trans, aatypes schedule.Schedule
}

func buildSchedule(channel, kind string, rate, power, warmup, minT float64) (schedule.Schedule, error) {
	k, err := schedule.ParseKind(kind)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("%s: %w", channel, err)
	}
	s, err := schedule.New(schedule.Params{Kind: k, Rate: rate, Power: power, Warmup: warmup}, minT)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("%s: %w", channel, err)
	}

	return s, nil
}

func (c Config) resolve() (schedules, potential.Potential, error) {
	var (
		out schedules
		err error
	)
	if out.rots, err = buildSchedule("rots", c.Rots.SampleSchedule, c.Rots.ExpRate, c.Rots.Power, c.Rots.Warmup, c.MinT); err != nil {
		return out, nil, err
	}
	if out.trans, err = buildSchedule("trans", c.Trans.SampleSchedule, c.Trans.ExpRate, c.Trans.Power, c.Trans.Warmup, c.MinT); err != nil {
		return out, nil, err
	}
	if out.aatypes, err = buildSchedule("aatypes", c.AATypes.Schedule, c.AATypes.ScheduleExpRate, c.AATypes.SchedulePower, c.AATypes.ScheduleWarmup, c.MinT); err != nil {
		return out, nil, err
	}
	pot, err := potential.New(c.Trans.Potential, c.Trans.RoG.Weight, c.Trans.RoG.Cutoff)
	if err != nil {
		return out, nil, fmt.Errorf("trans: %w", err)
	}

	return out, pot, nil
}

func finiteNonNeg(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Validate checks every field once. All failures wrap ErrConfiguration.
func (c Config) Validate() error {
	if _, _, err := c.validate(); err != nil {
		return err
	}

	return nil
}

func (c Config) validate() (schedules, potential.Potential, error) {
	var errs []error
	if !(c.MinT > 0 && c.MinT < 1) {
		errs = append(errs, fmt.Errorf("min_t %g must lie in (0,1)", c.MinT))
	}
	if c.NumTimesteps < 2 {
		errs = append(errs, fmt.Errorf("num_timesteps %d must be ≥ 2", c.NumTimesteps))
	}
	if !finiteNonNeg(c.NoiseScale) {
		errs = append(errs, fmt.Errorf("noise_scale %g must be finite and ≥ 0", c.NoiseScale))
	}
	if c.NumTokens < 1 {
		errs = append(errs, fmt.Errorf("num_tokens %d must be ≥ 1", c.NumTokens))
	}
	if !(c.Trans.NoiseStd > 0) || math.IsInf(c.Trans.NoiseStd, 0) {
		errs = append(errs, fmt.Errorf("trans.noise_std %g must be finite and > 0", c.Trans.NoiseStd))
	}
	if !finiteNonNeg(c.Trans.SampleTemp) {
		errs = append(errs, fmt.Errorf("trans.sample_temp %g must be finite and ≥ 0", c.Trans.SampleTemp))
	}
	if !finiteNonNeg(c.Trans.PotentialTScaling) {
		errs = append(errs, fmt.Errorf("trans.potential_t_scaling %g must be finite and ≥ 0", c.Trans.PotentialTScaling))
	}
	if !(c.AATypes.Temp > 0) || math.IsInf(c.AATypes.Temp, 0) {
		errs = append(errs, fmt.Errorf("aatypes.temp %g must be finite and > 0", c.AATypes.Temp))
	}
	if !finiteNonNeg(c.AATypes.Noise) {
		errs = append(errs, fmt.Errorf("aatypes.noise %g must be finite and ≥ 0", c.AATypes.Noise))
	}
	if c.AATypes.InterpolantType != interpolant.Masking {
		errs = append(errs, fmt.Errorf("aatypes.interpolant_type %q is not supported (want %q)", c.AATypes.InterpolantType, interpolant.Masking))
	}
	if len(errs) > 0 {
		return schedules{}, nil, fmt.Errorf("%w: %w", ErrConfiguration, errors.Join(errs...))
	}

	s, pot, err := c.resolve()
	if err != nil {
		return schedules{}, nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return s, pot, nil
}

// ParseConfig decodes YAML on top of DefaultConfig. Unknown keys are rejected.
// An empty document yields the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: parse: %w", ErrConfiguration, err)
	}

	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: read %s: %w", ErrConfiguration, path, err)
	}

	return ParseConfig(data)
}

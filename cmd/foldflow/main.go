// SPDX-License-Identifier: MIT

// Command foldflow draws protein samples with the reference helix oracle,
// inspects noise schedules and validates sampler configuration files.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/foldflow/dtw"
	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/metrics"
	"github.com/katalvlaran/foldflow/reference"
	"github.com/katalvlaran/foldflow/sampler"
	"github.com/katalvlaran/foldflow/schedule"
	"github.com/katalvlaran/foldflow/trajstore"
)

type cli struct {
	Config  string `short:"c" help:"Sampler configuration file (YAML); defaults apply when empty" type:"path"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Sample struct {
		Residues    int    `short:"n" help:"Number of residues" default:"32"`
		Samples     int    `short:"s" help:"Ensemble size" default:"4"`
		Seed        int64  `help:"Base seed of the ensemble" default:"1"`
		Workers     int    `short:"w" help:"Concurrent runs (0 = GOMAXPROCS)" default:"0"`
		Predictor   string `help:"Reference predictor" enum:"helix,echo" default:"helix"`
		DB          string `help:"SQLite file to store runs in (optional)" type:"path"`
		Trajectory  bool   `help:"Record every intermediate state"`
		MetricsAddr string `help:"Serve Prometheus metrics on this address while sampling (optional)"`
	} `cmd:"" help:"Sample an ensemble and print one JSON summary per run"`

	Validate struct{} `cmd:"" help:"Validate the configuration file"`

	Schedule struct {
		Kind   string  `short:"k" help:"Schedule kind (linear, exp, poly)" default:"exp"`
		Rate   float64 `help:"Exponential rate" default:"10"`
		Power  float64 `help:"Polynomial power" default:"1"`
		Warmup float64 `help:"Polynomial warmup fraction" default:"0"`
		MinT   float64 `help:"Start of the time grid" default:"0.01"`
		Points int     `short:"p" help:"Number of rows" default:"11"`
	} `cmd:"" help:"Print a noise schedule as a table"`

	Runs struct {
		DB string `help:"SQLite file with stored runs" required:"" type:"path"`
	} `cmd:"" help:"List runs stored in a database"`

	Compare struct {
		DB     string `help:"SQLite file with stored runs" required:"" type:"path"`
		Window int    `help:"Sakoe-Chiba band in frames (-1 = none)" default:"-1"`
		RunA   string `arg:"" help:"First run id"`
		RunB   string `arg:"" help:"Second run id"`
	} `cmd:"" help:"Align the trajectories of two stored runs with DTW over frame dRMSD"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "foldflow:", err)
		stop()
		os.Exit(1)
	}
}

// run parses args and executes the selected command, writing results to out.
func run(ctx context.Context, args []string, out io.Writer) error {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("foldflow"),
		kong.Description("Multi-modal reverse-diffusion sampler for protein backbones and sequences."),
		kong.Writers(out, os.Stderr),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(c.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	// commands with positional arguments report them too, e.g. "compare <run-a> <run-b>"
	switch strings.Fields(kctx.Command())[0] {
	case "sample":
		return runSample(ctx, &c, cfg, logger, out)
	case "validate":
		if err := cfg.Validate(); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, "configuration ok")
		return err
	case "schedule":
		return runSchedule(&c, out)
	case "runs":
		return runList(ctx, c.Runs.DB, out)
	case "compare":
		return runCompare(ctx, &c, out)
	default:
		return fmt.Errorf("unknown command %q", kctx.Command())
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}

func loadConfig(path string) (sampler.Config, error) {
	if path == "" {
		return sampler.DefaultConfig(), nil
	}

	return sampler.LoadConfig(path)
}

func runSample(ctx context.Context, c *cli, cfg sampler.Config, logger *zap.Logger, out io.Writer) error {
	reg := prom.NewRegistry()
	opts := []sampler.Option{
		sampler.WithLogger(logger),
		sampler.WithRecorder(metrics.NewPrometheusRecorder(reg)),
	}
	if c.Sample.Trajectory {
		opts = append(opts, sampler.WithTrajectory())
	}
	s, err := sampler.New(cfg, opts...)
	if err != nil {
		return err
	}

	if c.Sample.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              c.Sample.MetricsAddr,
			Handler:           metrics.HTTPHandler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("Serving metrics", zap.String("addr", c.Sample.MetricsAddr))
	}

	helix, err := reference.NewHelix(c.Sample.Residues, cfg.NumTokens, nil)
	if err != nil {
		return err
	}
	var predictor sampler.Predictor = helix
	if c.Sample.Predictor == "echo" {
		predictor = reference.Echo{NumTokens: cfg.NumTokens}
	}

	var store *trajstore.Store
	if c.Sample.DB != "" {
		if store, err = trajstore.Open(c.Sample.DB); err != nil {
			return err
		}
		defer store.Close()
	}

	samples, err := s.RunEnsemble(ctx, helix.Template(), predictor, c.Sample.Seed, c.Sample.Samples, c.Sample.Workers)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	var failed int
	for _, smp := range samples {
		if smp.Err != nil {
			failed++
			logger.Warn("Sample failed", zap.Int("index", smp.Index), zap.Int64("seed", smp.Seed), zap.Error(smp.Err))
			continue
		}
		sum := sampler.Summarize(smp.Result, cfg.NumTokens)
		if store != nil {
			if err := store.SaveRun(ctx, sum, smp.Result); err != nil {
				return err
			}
		}
		if err := enc.Encode(sum); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d samples failed", failed, len(samples))
	}

	return nil
}

func runSchedule(c *cli, out io.Writer) error {
	kind, err := schedule.ParseKind(c.Schedule.Kind)
	if err != nil {
		return err
	}
	sched, err := schedule.New(schedule.Params{
		Kind:   kind,
		Rate:   c.Schedule.Rate,
		Power:  c.Schedule.Power,
		Warmup: c.Schedule.Warmup,
	}, c.Schedule.MinT)
	if err != nil {
		return err
	}
	if c.Schedule.Points < 2 {
		return fmt.Errorf("points %d must be ≥ 2", c.Schedule.Points)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "t\talpha\trate")
	minT := sched.MinT()
	for i := 0; i < c.Schedule.Points; i++ {
		t := minT + (1-minT)*float64(i)/float64(c.Schedule.Points-1)
		fmt.Fprintf(tw, "%.4f\t%.6f\t%.6f\n", t, sched.Coefficient(t), sched.Rate(t))
	}

	return tw.Flush()
}

func runList(ctx context.Context, path string, out io.Writer) error {
	store, err := trajstore.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "run_id\tseed\tresidues\trg\tsequence")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\t%s\n", r.RunID, r.Seed, r.Residues, r.RadiusOfGyration, r.Sequence)
	}

	return tw.Flush()
}

// framesOf returns the stored trajectory, or the final state alone when the
// run was saved without one.
func framesOf(r *trajstore.Run) []sampler.ProteinState {
	if len(r.Frames) > 0 {
		return r.Frames
	}

	return []sampler.ProteinState{r.State}
}

func runCompare(ctx context.Context, c *cli, out io.Writer) error {
	store, err := trajstore.Open(c.Compare.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := store.LoadRun(ctx, c.Compare.RunA)
	if err != nil {
		return err
	}
	b, err := store.LoadRun(ctx, c.Compare.RunB)
	if err != nil {
		return err
	}

	opts := dtw.DefaultOptions()
	opts.Window = c.Compare.Window
	opts.ReturnPath = true
	fa, fb := framesOf(a), framesOf(b)
	dist, path, err := dtw.Trajectories(fa, fb, &opts)
	if err != nil {
		return err
	}
	final, err := geometry.KabschRMSD(a.State.Translations, b.State.Translations)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "frames=%d/%d dtw_distance=%.4f path_length=%d final_rmsd=%.4f\n",
		len(fa), len(fb), dist, len(path), final)

	return err
}

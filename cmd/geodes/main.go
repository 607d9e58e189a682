package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/solver-geode/internal/bootstrap"
	"github.com/napolitain/solver-geode/internal/config"
	"github.com/napolitain/solver-geode/internal/loader"
	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver"
)

type options struct {
	input      string
	configFile string
	quiet      bool
	verbose    bool
	cache      bool
	dominance  string
	noBound    bool
	workers    int
	timeout    time.Duration
	horizon    int
	top        int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "geodes",
		Short: "Geode production optimizer",
		Long: `Finds the maximum number of geodes each robot-factory blueprint can
crack within a fixed number of minutes, and combines the results into the
quality sum or the product of the first blueprints.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.input, "input", "i", "blueprints.txt", "Blueprint file (.txt or .json)")
	pf.StringVarP(&opts.configFile, "config", "c", "", "Path to config file")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Minimal output")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Print a line per blueprint as it finishes")
	pf.BoolVar(&opts.cache, "cache", false, "Cache results in the configured database")
	pf.StringVar(&opts.dominance, "dominance", "", "Dominance pruning: latest, best or off")
	pf.BoolVar(&opts.noBound, "no-bound", false, "Disable upper-bound pruning")
	pf.IntVarP(&opts.workers, "workers", "w", 0, "Concurrent searches (default from config)")
	pf.DurationVar(&opts.timeout, "timeout", 0, "Per-blueprint time budget, e.g. 30s")

	qualityCmd := &cobra.Command{
		Use:   "quality",
		Short: "Sum of id × geodes over every blueprint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, opts, solver.ModeQuality)
		},
	}
	qualityCmd.Flags().IntVarP(&opts.horizon, "horizon", "t", 0, "Minutes available (default from config)")

	productCmd := &cobra.Command{
		Use:   "product",
		Short: "Product of geodes over the first blueprints at the extended horizon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, opts, solver.ModeProduct)
		},
	}
	productCmd.Flags().IntVarP(&opts.horizon, "horizon", "t", 0, "Minutes available (default from config)")
	productCmd.Flags().IntVarP(&opts.top, "top", "n", 0, "Number of leading blueprints (default from config)")

	evaluateCmd := &cobra.Command{
		Use:   "evaluate [blueprint-id...]",
		Short: "Maximum geodes per blueprint, with search statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts, args)
		},
	}
	evaluateCmd.Flags().IntVarP(&opts.horizon, "horizon", "t", 0, "Minutes available (default from config)")

	rootCmd.AddCommand(qualityCmd, productCmd, evaluateCmd)
	return rootCmd
}

// loadConfig applies flag overrides on top of the file/env configuration
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		cfg.Logging.Verbose = true
	}
	if opts.cache {
		cfg.Database.Enabled = true
	}
	if opts.dominance != "" {
		cfg.Solver.Dominance = opts.dominance
	}
	if opts.noBound {
		cfg.Solver.Bound = false
	}
	if opts.workers > 0 {
		cfg.Solver.Workers = opts.workers
	}
	if opts.timeout > 0 {
		cfg.Solver.Timeout = opts.timeout
	}
	if opts.top > 0 {
		cfg.Solver.TopCount = opts.top
	}
	return cfg, config.ValidateConfig(cfg)
}

func setup(cmd *cobra.Command, opts *options, mode solver.ScoreMode) (*solver.Evaluator, []*models.Blueprint, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	if opts.horizon > 0 {
		if mode == solver.ModeProduct {
			cfg.Solver.ExtendedHorizon = opts.horizon
		} else {
			cfg.Solver.Horizon = opts.horizon
		}
	}

	out := newPrinter(cmd.OutOrStdout(), opts.quiet)
	out.banner()

	blueprints, err := loader.LoadBlueprints(opts.input)
	if err != nil {
		return nil, nil, nil, err
	}
	out.info("📦 Loaded %d blueprints from %s\n", len(blueprints), opts.input)

	var evalOpts []solver.EvaluatorOption
	if cfg.Logging.Verbose {
		evalOpts = append(evalOpts, solver.WithProgress(out.progress))
	}
	evaluator, cleanup, err := bootstrap.Evaluator(cfg, evalOpts...)
	if err != nil {
		return nil, nil, nil, err
	}
	return evaluator, blueprints, cleanup, nil
}

func runScore(cmd *cobra.Command, opts *options, mode solver.ScoreMode) error {
	evaluator, blueprints, cleanup, err := setup(cmd, opts, mode)
	if err != nil {
		return err
	}
	defer cleanup()

	out := newPrinter(cmd.OutOrStdout(), opts.quiet)
	out.info("🔄 Searching (%s dominance, bound %v, %d workers)...\n",
		evaluator.Settings().Dominance, evaluator.Settings().Bound, evaluator.Settings().Workers)

	start := time.Now()
	score, err := evaluator.Score(cmd.Context(), blueprints, mode)
	if err != nil {
		return err
	}

	out.results(score.Results)
	out.score(score, time.Since(start))
	return nil
}

func runEvaluate(cmd *cobra.Command, opts *options, args []string) error {
	evaluator, blueprints, cleanup, err := setup(cmd, opts, solver.ModeQuality)
	if err != nil {
		return err
	}
	defer cleanup()

	blueprints, err = selectBlueprints(blueprints, args)
	if err != nil {
		return err
	}

	results, err := evaluator.EvaluateAll(cmd.Context(), blueprints, evaluator.Settings().Horizon)
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout(), opts.quiet)
	out.results(results)
	out.stats(results)
	return nil
}

// selectBlueprints keeps the blueprints named by id, in argument order
func selectBlueprints(blueprints []*models.Blueprint, args []string) ([]*models.Blueprint, error) {
	if len(args) == 0 {
		return blueprints, nil
	}
	byID := make(map[int]*models.Blueprint, len(blueprints))
	for _, bp := range blueprints {
		byID[bp.ID()] = bp
	}
	selected := make([]*models.Blueprint, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid blueprint id %q", arg)
		}
		bp, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("no blueprint with id %d", id)
		}
		selected = append(selected, bp)
	}
	return selected, nil
}

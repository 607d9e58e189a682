// Package bootstrap builds an evaluator from configuration, attaching the
// result cache and metrics collector when they are enabled.
package bootstrap

import (
	"fmt"

	"github.com/napolitain/solver-geode/internal/config"
	"github.com/napolitain/solver-geode/internal/metrics"
	"github.com/napolitain/solver-geode/internal/solver"
	"github.com/napolitain/solver-geode/internal/store"
)

// Evaluator returns a configured evaluator and a cleanup func that must be
// called once the evaluator is no longer used.
func Evaluator(cfg *config.Config, opts ...solver.EvaluatorOption) (*solver.Evaluator, func(), error) {
	settings, err := cfg.SolverSettings()
	if err != nil {
		return nil, nil, fmt.Errorf("solver settings: %w", err)
	}

	cleanup := func() {}

	if cfg.Metrics.Enabled {
		if !metrics.IsEnabled() {
			metrics.InitRegistry()
		}
		collector, err := metrics.SharedSolverCollector()
		if err != nil {
			return nil, nil, fmt.Errorf("register metrics: %w", err)
		}
		opts = append(opts, solver.WithRecorder(collector))
	}

	if cfg.Database.Enabled {
		db, err := store.Open(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, solver.WithCache(store.NewGormResultRepository(db)))
		cleanup = func() { _ = store.Close(db) }
	}

	return solver.NewEvaluator(settings, opts...), cleanup, nil
}

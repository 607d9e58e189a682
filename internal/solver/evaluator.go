package solver

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

// Settings controls how blueprints are evaluated and scored
type Settings struct {
	Horizon         int           // Steps used for quality scoring
	ExtendedHorizon int           // Steps used for product scoring
	TopCount        int           // Blueprints considered for product scoring
	Workers         int           // Concurrent searches
	Timeout         time.Duration // Per-blueprint budget, 0 for none
	Dominance       geode.DominanceMode
	Bound           bool
}

// DefaultSettings returns the standard puzzle settings
func DefaultSettings() Settings {
	return Settings{
		Horizon:         24,
		ExtendedHorizon: 32,
		TopCount:        3,
		Workers:         runtime.NumCPU(),
		Dominance:       geode.DominanceLatest,
		Bound:           true,
	}
}

// Variant names the pruning configuration, so cached results from
// differently tuned searches are kept apart.
func (s Settings) Variant() string {
	bound := "bound"
	if !s.Bound {
		bound = "nobound"
	}
	return s.Dominance.String() + "+" + bound
}

func (s Settings) solverOptions() []geode.Option {
	opts := []geode.Option{geode.WithDominance(s.Dominance)}
	if !s.Bound {
		opts = append(opts, geode.WithoutBound())
	}
	return opts
}

// ResultCache stores finished searches keyed by blueprint costs and horizon
type ResultCache interface {
	Lookup(ctx context.Context, bp *models.Blueprint, horizon int, variant string) (geode.Result, bool, error)
	Save(ctx context.Context, runID string, bp *models.Blueprint, variant string, res geode.Result) error
}

// Recorder receives one call per evaluated blueprint
type Recorder interface {
	RecordEvaluation(res geode.Result, cached bool)
}

// EvaluatorOption configures an Evaluator
type EvaluatorOption func(*Evaluator)

// WithCache makes the evaluator consult and fill cache
func WithCache(cache ResultCache) EvaluatorOption {
	return func(e *Evaluator) {
		e.cache = cache
	}
}

// WithRecorder reports every evaluation to r
func WithRecorder(r Recorder) EvaluatorOption {
	return func(e *Evaluator) {
		e.recorder = r
	}
}

// WithProgress calls fn after each blueprint finishes. Calls are serialized.
func WithProgress(fn func(geode.Result)) EvaluatorOption {
	return func(e *Evaluator) {
		e.progress = fn
	}
}

// Evaluator runs one independent search per blueprint, in parallel
type Evaluator struct {
	settings Settings
	cache    ResultCache
	recorder Recorder
	progress func(geode.Result)

	mu sync.Mutex // serializes progress and recorder calls
}

// NewEvaluator creates an evaluator
func NewEvaluator(settings Settings, opts ...EvaluatorOption) *Evaluator {
	if settings.Workers < 1 {
		settings.Workers = 1
	}
	e := &Evaluator{settings: settings}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings returns the evaluator settings
func (e *Evaluator) Settings() Settings {
	return e.settings
}

// EvaluateAll searches every blueprint over horizon steps. Results come
// back in input order. The first failure cancels the remaining searches.
func (e *Evaluator) EvaluateAll(ctx context.Context, blueprints []*models.Blueprint, horizon int) ([]geode.Result, error) {
	if err := models.ValidateHorizon(horizon); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	results := make([]geode.Result, len(blueprints))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.settings.Workers)

	for i, bp := range blueprints {
		g.Go(func() error {
			res, err := e.evaluateOne(gctx, runID, bp, horizon)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Evaluator) evaluateOne(ctx context.Context, runID string, bp *models.Blueprint, horizon int) (geode.Result, error) {
	if err := ctx.Err(); err != nil {
		return geode.Result{}, fmt.Errorf("blueprint %d: %w", bp.ID(), err)
	}
	variant := e.settings.Variant()

	if e.cache != nil {
		res, ok, err := e.cache.Lookup(ctx, bp, horizon, variant)
		if err != nil {
			return geode.Result{}, fmt.Errorf("blueprint %d: cache lookup: %w", bp.ID(), err)
		}
		if ok {
			// Cached rows are keyed by costs; the id may differ
			res.BlueprintID = bp.ID()
			e.report(res, true)
			return res, nil
		}
	}

	s, err := geode.NewSolver(bp, horizon, e.settings.solverOptions()...)
	if err != nil {
		return geode.Result{}, err
	}

	if e.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.settings.Timeout)
		defer cancel()
	}

	res, err := s.SolveContext(ctx)
	if err != nil {
		return geode.Result{}, err
	}

	if e.cache != nil {
		if err := e.cache.Save(ctx, runID, bp, variant, res); err != nil {
			return geode.Result{}, fmt.Errorf("blueprint %d: cache save: %w", bp.ID(), err)
		}
	}
	e.report(res, false)
	return res, nil
}

func (e *Evaluator) report(res geode.Result, cached bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.recorder != nil {
		e.recorder.RecordEvaluation(res, cached)
	}
	if e.progress != nil {
		e.progress(res)
	}
}

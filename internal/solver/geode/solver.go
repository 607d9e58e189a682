// Package geode finds the maximum number of geodes a blueprint can open
// within a fixed number of steps, using a depth-first branch and bound
// search over robot build orders.
package geode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/napolitain/solver-geode/internal/models"
)

const (
	// cancelCheckInterval is how many pops happen between context checks
	cancelCheckInterval = 4096
	// maxStackPrealloc caps the initial stack capacity
	maxStackPrealloc = 256
)

// Stats counts what the search did
type Stats struct {
	Popped            int // States taken off the stack
	Expanded          int // States whose successors were generated
	Admitted          int // Candidates pushed onto the stack
	PrunedByBound     int // Dropped because the optimistic bound fell short
	PrunedByDominance int // Dropped by the per-depth cache
	MaxFrontier       int // Deepest the stack got
}

// Result is the outcome of one search run
type Result struct {
	BlueprintID int
	Horizon     int
	Geodes      int
	Stats       Stats
	Duration    time.Duration
}

// Quality returns the blueprint's quality level (id × geodes)
func (r Result) Quality() int {
	return r.BlueprintID * r.Geodes
}

// Option configures a Solver
type Option func(*options)

type options struct {
	dominance DominanceMode
	bound     bool
}

// WithDominance selects the dominance cache policy
func WithDominance(mode DominanceMode) Option {
	return func(o *options) {
		o.dominance = mode
	}
}

// WithoutBound disables upper-bound pruning
func WithoutBound() Option {
	return func(o *options) {
		o.bound = false
	}
}

// Solver searches one blueprint. It holds no state between runs, so Solve
// may be called repeatedly and gives the same answer each time.
type Solver struct {
	blueprint *models.Blueprint
	horizon   int
	opts      options
}

// NewSolver creates a solver for bp over horizon steps
func NewSolver(bp *models.Blueprint, horizon int, opts ...Option) (*Solver, error) {
	if bp == nil {
		return nil, fmt.Errorf("%w: blueprint is nil", models.ErrInvalidBlueprint)
	}
	if err := models.ValidateHorizon(horizon); err != nil {
		return nil, err
	}

	o := options{dominance: DominanceLatest, bound: true}
	for _, opt := range opts {
		opt(&o)
	}

	return &Solver{blueprint: bp, horizon: horizon, opts: o}, nil
}

// Evaluate returns the maximum geode count for bp within horizon steps
func Evaluate(bp *models.Blueprint, horizon int) (int, error) {
	s, err := NewSolver(bp, horizon)
	if err != nil {
		return 0, err
	}
	return s.Solve().Geodes, nil
}

// Solve runs the search to completion
func (s *Solver) Solve() Result {
	res, _ := s.SolveContext(context.Background())
	return res
}

// SolveContext runs the search, giving up when ctx is done. On
// cancellation the partial result is returned with the context error.
func (s *Solver) SolveContext(ctx context.Context) (Result, error) {
	start := time.Now()
	o := newOracle(s.horizon, s.opts.dominance, s.opts.bound)

	var stats Stats
	best := 0

	stack := make([]State, 0, min(4*s.horizon+1, maxStackPrealloc))
	stack = append(stack, InitialState())
	successors := make([]State, 0, models.ResourceCount)

	var err error
	for len(stack) > 0 {
		stats.Popped++
		if stats.Popped%cancelCheckInterval == 0 {
			if err = ctx.Err(); err != nil {
				break
			}
		}

		last := len(stack) - 1
		state := stack[last]
		stack = stack[:last]

		if state.Time >= s.horizon {
			continue
		}
		// The best may have improved since this state was pushed
		if !o.withinBound(state, best) {
			continue
		}

		// Geodes after this step; every successor carries the same count
		best = max(best, state.Geodes()+state.GeodeRobots())

		stats.Expanded++
		successors = Successors(s.blueprint, state, s.horizon, successors[:0])
		for _, next := range successors {
			if o.admit(next, best) {
				stack = append(stack, next)
				stats.Admitted++
			}
		}
		stats.MaxFrontier = max(stats.MaxFrontier, len(stack))
	}

	stats.PrunedByBound = o.prunedByBound
	stats.PrunedByDominance = o.prunedByDominance

	res := Result{
		BlueprintID: s.blueprint.ID(),
		Horizon:     s.horizon,
		Geodes:      best,
		Stats:       stats,
		Duration:    time.Since(start),
	}
	if err != nil {
		return res, fmt.Errorf("blueprint %d: search interrupted: %w", s.blueprint.ID(), err)
	}
	return res, nil
}

// IsInterrupted reports whether err came from a cancelled search
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

package solver

import (
	"context"
	"fmt"
	"strings"

	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

// ScoreMode selects how per-blueprint results are combined
type ScoreMode int

const (
	// ModeQuality sums id × geodes over all blueprints at the base horizon
	ModeQuality ScoreMode = iota
	// ModeProduct multiplies geode counts of the first blueprints at the extended horizon
	ModeProduct
)

// String returns the mode name
func (m ScoreMode) String() string {
	switch m {
	case ModeQuality:
		return "quality"
	case ModeProduct:
		return "product"
	default:
		return "unknown"
	}
}

// ParseScoreMode converts a mode name into a ScoreMode
func ParseScoreMode(s string) (ScoreMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quality", "sum", "part1":
		return ModeQuality, nil
	case "product", "part2":
		return ModeProduct, nil
	}
	return 0, fmt.Errorf("unknown score mode %q", s)
}

// Score is a combined result across blueprints
type Score struct {
	Mode    ScoreMode
	Horizon int
	Value   int
	Results []geode.Result
}

// QualitySum returns Σ id × geodes
func QualitySum(results []geode.Result) int {
	total := 0
	for _, r := range results {
		total += r.Quality()
	}
	return total
}

// TopProduct returns Π geodes, or 0 for no results
func TopProduct(results []geode.Result) int {
	if len(results) == 0 {
		return 0
	}
	product := 1
	for _, r := range results {
		product *= r.Geodes
	}
	return product
}

// Score evaluates blueprints and combines them according to mode
func (e *Evaluator) Score(ctx context.Context, blueprints []*models.Blueprint, mode ScoreMode) (*Score, error) {
	switch mode {
	case ModeQuality:
		results, err := e.EvaluateAll(ctx, blueprints, e.settings.Horizon)
		if err != nil {
			return nil, err
		}
		return &Score{Mode: mode, Horizon: e.settings.Horizon, Value: QualitySum(results), Results: results}, nil

	case ModeProduct:
		top := blueprints
		if e.settings.TopCount > 0 && len(top) > e.settings.TopCount {
			top = top[:e.settings.TopCount]
		}
		results, err := e.EvaluateAll(ctx, top, e.settings.ExtendedHorizon)
		if err != nil {
			return nil, err
		}
		return &Score{Mode: mode, Horizon: e.settings.ExtendedHorizon, Value: TopProduct(results), Results: results}, nil
	}

	return nil, fmt.Errorf("unknown score mode %d", int(mode))
}

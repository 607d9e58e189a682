package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

// GormResultRepository caches search results using GORM
type GormResultRepository struct {
	db *gorm.DB
}

// NewGormResultRepository creates a new GORM result repository
func NewGormResultRepository(db *gorm.DB) *GormResultRepository {
	return &GormResultRepository{db: db}
}

// Lookup returns a stored result for the same costs, horizon and variant
func (r *GormResultRepository) Lookup(ctx context.Context, bp *models.Blueprint, horizon int, variant string) (geode.Result, bool, error) {
	var model ResultModel
	result := r.db.WithContext(ctx).
		Where("cost_key = ? AND horizon = ? AND variant = ?", bp.Key(), horizon, variant).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return geode.Result{}, false, nil
		}
		return geode.Result{}, false, fmt.Errorf("failed to find result: %w", result.Error)
	}

	return modelToResult(&model), true, nil
}

// Save upserts a result, replacing any earlier row for the same lookup key
func (r *GormResultRepository) Save(ctx context.Context, runID string, bp *models.Blueprint, variant string, res geode.Result) error {
	model := resultToModel(runID, bp, variant, res)

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cost_key"}, {Name: "horizon"}, {Name: "variant"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"run_id", "blueprint_id", "geodes", "popped", "expanded", "admitted",
			"pruned_by_bound", "pruned_by_dominance", "max_frontier", "duration_ms", "created_at",
		}),
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save result: %w", result.Error)
	}
	return nil
}

// ListRun returns the results written by one evaluation run, by blueprint id
func (r *GormResultRepository) ListRun(ctx context.Context, runID string) ([]geode.Result, error) {
	var rows []ResultModel
	result := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("blueprint_id").Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list results: %w", result.Error)
	}

	results := make([]geode.Result, 0, len(rows))
	for i := range rows {
		results = append(results, modelToResult(&rows[i]))
	}
	return results, nil
}

// Count returns the number of stored results
func (r *GormResultRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&ResultModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return n, nil
}

func resultToModel(runID string, bp *models.Blueprint, variant string, res geode.Result) *ResultModel {
	return &ResultModel{
		ID:                uuid.New().String(),
		RunID:             runID,
		BlueprintID:       bp.ID(),
		CostKey:           bp.Key(),
		Horizon:           res.Horizon,
		Variant:           variant,
		Geodes:            res.Geodes,
		Popped:            res.Stats.Popped,
		Expanded:          res.Stats.Expanded,
		Admitted:          res.Stats.Admitted,
		PrunedByBound:     res.Stats.PrunedByBound,
		PrunedByDominance: res.Stats.PrunedByDominance,
		MaxFrontier:       res.Stats.MaxFrontier,
		DurationMs:        float64(res.Duration.Microseconds()) / 1000,
		CreatedAt:         time.Now().UTC(),
	}
}

func modelToResult(m *ResultModel) geode.Result {
	return geode.Result{
		BlueprintID: m.BlueprintID,
		Horizon:     m.Horizon,
		Geodes:      m.Geodes,
		Duration:    time.Duration(m.DurationMs * float64(time.Millisecond)),
		Stats: geode.Stats{
			Popped:            m.Popped,
			Expanded:          m.Expanded,
			Admitted:          m.Admitted,
			PrunedByBound:     m.PrunedByBound,
			PrunedByDominance: m.PrunedByDominance,
			MaxFrontier:       m.MaxFrontier,
		},
	}
}

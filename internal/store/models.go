package store

import "time"

// ResultModel is one finished search. Rows are unique per cost key,
// horizon and pruning variant; the blueprint id is informational.
type ResultModel struct {
	ID                string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	RunID             string    `gorm:"column:run_id;type:varchar(36);index"`
	BlueprintID       int       `gorm:"column:blueprint_id"`
	CostKey           string    `gorm:"column:cost_key;uniqueIndex:idx_result_lookup"`
	Horizon           int       `gorm:"column:horizon;uniqueIndex:idx_result_lookup"`
	Variant           string    `gorm:"column:variant;uniqueIndex:idx_result_lookup"`
	Geodes            int       `gorm:"column:geodes"`
	Popped            int       `gorm:"column:popped"`
	Expanded          int       `gorm:"column:expanded"`
	Admitted          int       `gorm:"column:admitted"`
	PrunedByBound     int       `gorm:"column:pruned_by_bound"`
	PrunedByDominance int       `gorm:"column:pruned_by_dominance"`
	MaxFrontier       int       `gorm:"column:max_frontier"`
	DurationMs        float64   `gorm:"column:duration_ms"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

// TableName specifies the table name for GORM
func (ResultModel) TableName() string {
	return "geode_results"
}

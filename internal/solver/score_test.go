package solver

import (
	"context"
	"testing"

	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

func TestScoreQuality(t *testing.T) {
	e := NewEvaluator(DefaultSettings())

	score, err := e.Score(context.Background(), exampleBlueprints(), ModeQuality)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if score.Value != 33 {
		t.Errorf("Value = %d, want 33", score.Value)
	}
	if score.Horizon != 24 || score.Mode != ModeQuality {
		t.Errorf("score = %+v, want quality at 24", score)
	}
}

// shortProductSettings scores products over 24 steps so tests stay fast
func shortProductSettings() Settings {
	settings := DefaultSettings()
	settings.ExtendedHorizon = 24
	return settings
}

func TestScoreProduct(t *testing.T) {
	e := NewEvaluator(shortProductSettings())

	score, err := e.Score(context.Background(), exampleBlueprints(), ModeProduct)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if score.Value != 108 {
		t.Errorf("Value = %d, want 108", score.Value)
	}
	if score.Horizon != 24 || score.Mode != ModeProduct {
		t.Errorf("score = %+v, want product at 24", score)
	}
}

func TestScoreProductExtendedHorizon(t *testing.T) {
	if testing.Short() {
		t.Skip("32 step searches in -short mode")
	}
	e := NewEvaluator(DefaultSettings())

	score, err := e.Score(context.Background(), exampleBlueprints(), ModeProduct)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if score.Value != 3472 {
		t.Errorf("Value = %d, want 3472", score.Value)
	}
	if score.Horizon != 32 {
		t.Errorf("Horizon = %d, want 32", score.Horizon)
	}
}

func TestScoreProductUsesFirstBlueprints(t *testing.T) {
	settings := shortProductSettings()
	settings.TopCount = 1
	e := NewEvaluator(settings)

	score, err := e.Score(context.Background(), exampleBlueprints(), ModeProduct)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if len(score.Results) != 1 || score.Results[0].BlueprintID != 1 {
		t.Fatalf("results = %+v, want only blueprint 1", score.Results)
	}
	if score.Value != 9 {
		t.Errorf("Value = %d, want 9", score.Value)
	}
}

func TestScoreUnknownMode(t *testing.T) {
	e := NewEvaluator(DefaultSettings())
	if _, err := e.Score(context.Background(), exampleBlueprints(), ScoreMode(9)); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestAggregates(t *testing.T) {
	results := []geode.Result{
		{BlueprintID: 1, Geodes: 9},
		{BlueprintID: 2, Geodes: 12},
		{BlueprintID: 3, Geodes: 0},
	}
	if got := QualitySum(results); got != 33 {
		t.Errorf("QualitySum() = %d, want 33", got)
	}
	if got := TopProduct(results[:2]); got != 108 {
		t.Errorf("TopProduct() = %d, want 108", got)
	}
	if got := TopProduct(results); got != 0 {
		t.Errorf("TopProduct() with a zero = %d, want 0", got)
	}
}

func TestParseScoreMode(t *testing.T) {
	tests := []struct {
		in   string
		want ScoreMode
	}{
		{"quality", ModeQuality},
		{" Quality ", ModeQuality},
		{"part1", ModeQuality},
		{"product", ModeProduct},
		{"PART2", ModeProduct},
	}
	for _, tt := range tests {
		got, err := ParseScoreMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseScoreMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseScoreMode("median"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if ModeProduct.String() != "product" || ScoreMode(5).String() != "unknown" {
		t.Error("unexpected mode names")
	}
}

func TestScoreEmptyInput(t *testing.T) {
	e := NewEvaluator(DefaultSettings())
	for _, mode := range []ScoreMode{ModeQuality, ModeProduct} {
		score, err := e.Score(context.Background(), []*models.Blueprint{}, mode)
		if err != nil {
			t.Fatalf("Score(%s) error: %v", mode, err)
		}
		if score.Value != 0 {
			t.Errorf("Score(%s) = %d, want 0", mode, score.Value)
		}
	}
}

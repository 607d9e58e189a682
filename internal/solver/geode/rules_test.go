package geode

import (
	"testing"

	"github.com/napolitain/solver-geode/internal/models"
)

func testBlueprint1() *models.Blueprint {
	return models.MustStandardBlueprint(1, 4, 2, 3, 14, 2, 7)
}

func testBlueprint2() *models.Blueprint {
	return models.MustStandardBlueprint(2, 2, 3, 3, 8, 3, 12)
}

func TestInitialState(t *testing.T) {
	s := InitialState()
	if s.Time != 0 {
		t.Errorf("Time = %d, want 0", s.Time)
	}
	if s.Robots != (models.Amounts{1, 0, 0, 0}) {
		t.Errorf("Robots = %v, want one ore robot", s.Robots)
	}
	if s.Stock != (models.Amounts{}) {
		t.Errorf("Stock = %v, want empty", s.Stock)
	}
}

func TestAdvanceProducesBeforePaying(t *testing.T) {
	bp := testBlueprint1()
	s := State{Time: 3, Robots: models.Amounts{1, 2, 0, 0}, Stock: models.Amounts{4, 1, 0, 0}}

	next := Advance(bp, s, models.Ore, true)

	if next.Time != 4 {
		t.Errorf("Time = %d, want 4", next.Time)
	}
	// 4+1 ore produced, minus 4 paid; 1+2 clay
	if next.Stock != (models.Amounts{1, 3, 0, 0}) {
		t.Errorf("Stock = %v, want [1 3 0 0]", next.Stock)
	}
	if next.Robots != (models.Amounts{2, 2, 0, 0}) {
		t.Errorf("Robots = %v, want [2 2 0 0]", next.Robots)
	}
	// s is a value and must be untouched
	if s.Robots != (models.Amounts{1, 2, 0, 0}) || s.Stock != (models.Amounts{4, 1, 0, 0}) {
		t.Errorf("Advance mutated its input: %v", s)
	}
}

func TestNewRobotDoesNotProduceOnBuildStep(t *testing.T) {
	bp := testBlueprint1()
	s := State{Time: 10, Robots: models.Amounts{1, 4, 2, 0}, Stock: models.Amounts{2, 0, 7, 0}}

	next := Advance(bp, s, models.Geode, true)

	if next.Geodes() != 0 {
		t.Errorf("Geodes = %d, want 0 on the build step", next.Geodes())
	}
	after := Advance(bp, next, 0, false)
	if after.Geodes() != 1 {
		t.Errorf("Geodes = %d, want 1 one step later", after.Geodes())
	}
}

func TestSuccessorsOnlyWaitWhenBroke(t *testing.T) {
	bp := testBlueprint1()

	got := Successors(bp, InitialState(), 24, nil)

	if len(got) != 1 {
		t.Fatalf("got %d successors, want 1", len(got))
	}
	if got[0].Stock != (models.Amounts{1, 0, 0, 0}) {
		t.Errorf("Stock = %v, want [1 0 0 0]", got[0].Stock)
	}
}

func TestSuccessorsGeodeRobotIsExclusive(t *testing.T) {
	bp := testBlueprint1()
	s := State{Time: 18, Robots: models.Amounts{1, 4, 2, 0}, Stock: models.Amounts{10, 20, 7, 0}}

	got := Successors(bp, s, 24, nil)

	if len(got) != 1 {
		t.Fatalf("got %d successors, want only the geode robot", len(got))
	}
	if got[0].GeodeRobots() != 1 {
		t.Errorf("GeodeRobots = %d, want 1", got[0].GeodeRobots())
	}
}

func TestSuccessorsOrderAndCaps(t *testing.T) {
	bp := testBlueprint1()

	tests := []struct {
		name   string
		robots models.Amounts
		stock  models.Amounts
		want   []models.Amounts // expected robot vectors, in order
	}{
		{
			name:   "everything but geode affordable",
			robots: models.Amounts{1, 1, 1, 0},
			stock:  models.Amounts{4, 14, 0, 0},
			want: []models.Amounts{
				{2, 1, 1, 0},
				{1, 2, 1, 0},
				{1, 1, 2, 0},
				{1, 1, 1, 0},
			},
		},
		{
			name:   "ore robots at cap",
			robots: models.Amounts{4, 1, 0, 0},
			stock:  models.Amounts{4, 0, 0, 0},
			want: []models.Amounts{
				{4, 2, 0, 0},
				{4, 1, 0, 0},
			},
		},
		{
			name:   "obsidian robots at cap",
			robots: models.Amounts{1, 1, 7, 0},
			stock:  models.Amounts{3, 14, 0, 0},
			want: []models.Amounts{
				{1, 2, 7, 0},
				{1, 1, 7, 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Time: 5, Robots: tt.robots, Stock: tt.stock}
			got := Successors(bp, s, 24, nil)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d successors, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Robots != tt.want[i] {
					t.Errorf("successor %d robots = %v, want %v", i, got[i].Robots, tt.want[i])
				}
				if got[i].Time != 6 {
					t.Errorf("successor %d time = %d, want 6", i, got[i].Time)
				}
			}
		})
	}
}

func TestSuccessorsStopAtHorizon(t *testing.T) {
	bp := testBlueprint1()
	s := State{Time: 24, Robots: models.Amounts{1, 0, 0, 0}, Stock: models.Amounts{100, 100, 100, 0}}

	if got := Successors(bp, s, 24, nil); len(got) != 0 {
		t.Errorf("got %d successors at the horizon, want 0", len(got))
	}
}

func TestSuccessorsAppendToBuffer(t *testing.T) {
	bp := testBlueprint1()
	buf := make([]State, 0, 4)
	buf = append(buf, InitialState())

	got := Successors(bp, InitialState(), 24, buf)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (existing + wait)", len(got))
	}
	if got[0] != InitialState() {
		t.Error("existing buffer content was overwritten")
	}
}

// walk visits every state reachable under the transition rules
func walk(bp *models.Blueprint, s State, horizon int, visit func(parent, child State)) {
	for _, next := range Successors(bp, s, horizon, nil) {
		visit(s, next)
		walk(bp, next, horizon, visit)
	}
}

func TestReachableStatesStayValid(t *testing.T) {
	for _, bp := range []*models.Blueprint{testBlueprint1(), testBlueprint2()} {
		count := 0
		walk(bp, InitialState(), 14, func(parent, child State) {
			count++
			if !child.Valid() {
				t.Fatalf("blueprint %d: invalid state %v from %v", bp.ID(), child, parent)
			}
			if child.Time != parent.Time+1 {
				t.Fatalf("blueprint %d: time went %d -> %d", bp.ID(), parent.Time, child.Time)
			}
			if child.Geodes() < parent.Geodes() {
				t.Fatalf("blueprint %d: geodes decreased %d -> %d", bp.ID(), parent.Geodes(), child.Geodes())
			}
		})
		if count == 0 {
			t.Errorf("blueprint %d: no states visited", bp.ID())
		}
	}
}

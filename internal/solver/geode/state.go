package geode

import (
	"fmt"

	"github.com/napolitain/solver-geode/internal/models"
)

// State is one point in the search. It is a plain value: copying it
// yields an independent state.
type State struct {
	Time   int            // Elapsed steps
	Robots models.Amounts // Robots built, indexed by the resource they produce
	Stock  models.Amounts // Banked resources
}

// InitialState returns the state at time 0: one ore robot, nothing banked
func InitialState() State {
	var s State
	s.Robots[models.Ore] = 1
	return s
}

// Geodes returns the banked geode count
func (s State) Geodes() int {
	return s.Stock[models.Geode]
}

// GeodeRobots returns the number of geode robots
func (s State) GeodeRobots() int {
	return s.Robots[models.Geode]
}

// Valid reports whether all counts and stocks are non-negative
func (s State) Valid() bool {
	return s.Time >= 0 && s.Robots.NonNegative() && s.Stock.NonNegative()
}

func (s State) String() string {
	return fmt.Sprintf("t=%d robots=%v stock=%v", s.Time, s.Robots, s.Stock)
}

package geode

import (
	"fmt"
	"strings"
)

// DominanceMode selects how the per-depth cache is maintained
type DominanceMode int

const (
	// DominanceLatest keeps the geode count of the most recently admitted
	// state at each depth.
	DominanceLatest DominanceMode = iota
	// DominanceBest keeps the highest geode count seen at each depth.
	DominanceBest
	// DominanceOff disables the cache.
	DominanceOff
)

// String returns the mode name used in configuration
func (m DominanceMode) String() string {
	switch m {
	case DominanceLatest:
		return "latest"
	case DominanceBest:
		return "best"
	case DominanceOff:
		return "off"
	default:
		return "unknown"
	}
}

// ParseDominanceMode converts a configuration value into a DominanceMode
func ParseDominanceMode(s string) (DominanceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latest":
		return DominanceLatest, nil
	case "best":
		return DominanceBest, nil
	case "off", "none":
		return DominanceOff, nil
	}
	return 0, fmt.Errorf("unknown dominance mode %q", s)
}

// UpperBound is the geode count s could reach if a geode robot were built
// on every remaining step. No real schedule can do better.
func UpperBound(s State, horizon int) int {
	remaining := max(horizon-s.Time, 0)
	return s.Geodes() + remaining*s.GeodeRobots() + remaining*(remaining-1)/2
}

// oracle filters candidate states. It belongs to a single search run.
type oracle struct {
	horizon int
	mode    DominanceMode
	bound   bool

	// Geode count recorded per depth, noDepth where nothing was admitted
	depth []int

	prunedByBound     int
	prunedByDominance int
}

const noDepth = -1

func newOracle(horizon int, mode DominanceMode, bound bool) *oracle {
	depth := make([]int, horizon+1)
	for i := range depth {
		depth[i] = noDepth
	}
	return &oracle{
		horizon: horizon,
		mode:    mode,
		bound:   bound,
		depth:   depth,
	}
}

// admit runs both filters on a freshly generated candidate.
// The cache is updated before the bound check so that it reflects every
// state that survived dominance, whether or not the bound then drops it.
func (o *oracle) admit(c State, best int) bool {
	if !o.dominates(c) {
		return false
	}
	return o.withinBound(c, best)
}

// dominates returns false when a state one depth earlier already held more
// geodes than c holds now. Only geode counts are compared, so this is a
// heuristic rather than a proof of dominance.
func (o *oracle) dominates(c State) bool {
	if o.mode == DominanceOff {
		return true
	}

	// Candidates are one step past an expanded state, so 1 <= c.Time <= horizon
	geodes := c.Geodes()
	if prev := o.depth[c.Time-1]; prev != noDepth && prev > geodes {
		o.prunedByDominance++
		return false
	}

	switch o.mode {
	case DominanceBest:
		o.depth[c.Time] = max(o.depth[c.Time], geodes)
	default:
		o.depth[c.Time] = geodes
	}
	return true
}

// withinBound returns false when even the optimistic bound of s cannot
// reach best.
func (o *oracle) withinBound(s State, best int) bool {
	if !o.bound {
		return true
	}
	if UpperBound(s, o.horizon) < best {
		o.prunedByBound++
		return false
	}
	return true
}

package geode

import "github.com/napolitain/solver-geode/internal/models"

// buildOrder is the order in which non-geode robots are offered.
// The search pops in reverse, so waiting is explored first.
var buildOrder = [...]models.Resource{models.Ore, models.Clay, models.Obsidian}

// Advance moves s one step forward. Every existing robot produces first,
// then the cost of the robot being built (if any) is paid. The new robot
// starts producing on the following step.
func Advance(bp *models.Blueprint, s State, robot models.Resource, build bool) State {
	next := s
	next.Time++
	next.Stock = s.Stock.Add(s.Robots)
	if build {
		next.Stock = bp.Cost(robot).Pay(next.Stock)
		next.Robots[robot]++
	}
	return next
}

// Successors appends to buf the legal states one step after s and returns
// the extended slice. Affordability is judged on the stock before this
// step's production.
//
// A geode robot is built whenever it is affordable and no alternative is
// offered. This collapse relies on the geode robot sitting at the end of
// the cost chain; revisit it if the cost shape changes.
func Successors(bp *models.Blueprint, s State, horizon int, buf []State) []State {
	if s.Time >= horizon {
		return buf
	}

	if bp.Cost(models.Geode).AffordableWith(s.Stock) {
		return append(buf, Advance(bp, s, models.Geode, true))
	}

	for _, robot := range buildOrder {
		if s.Robots[robot] >= bp.MaxUseful(robot) {
			continue
		}
		if bp.Cost(robot).AffordableWith(s.Stock) {
			buf = append(buf, Advance(bp, s, robot, true))
		}
	}

	return append(buf, Advance(bp, s, 0, false))
}

package geode_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/cucumber/godog"

	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

func TestFeatures(t *testing.T) {
	opts := &godog.Options{
		Format:   "pretty",
		Paths:    []string{"features"},
		TestingT: t,
	}
	if testing.Short() {
		opts.Tags = "~@slow"
	}

	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options:             opts,
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type solveKey struct {
	costs   string
	minutes int
}

// solved holds geode counts across scenarios; the 32 minute searches are
// too slow to repeat.
var solved sync.Map

func maxGeodes(bp *models.Blueprint, minutes int) (int, error) {
	key := solveKey{costs: bp.Key(), minutes: minutes}
	if geodes, ok := solved.Load(key); ok {
		return geodes.(int), nil
	}
	geodes, err := maxGeodes(bp, minutes)
	if err != nil {
		return 0, err
	}
	solved.Store(key, geodes)
	return geodes, nil
}

type scenarioContext struct {
	blueprints map[int]*models.Blueprint
	results    []int // geode counts in evaluation order
	byID       map[int]int
	err        error
}

func (c *scenarioContext) blueprintCosts(id, oreOre, clayOre, obsOre, obsClay, geoOre, geoObs int) error {
	bp, err := models.NewStandardBlueprint(id, oreOre, clayOre, obsOre, obsClay, geoOre, geoObs)
	if err != nil {
		return err
	}
	c.blueprints[id] = bp
	return nil
}

func (c *scenarioContext) evaluateOne(id, minutes int) error {
	bp, ok := c.blueprints[id]
	if !ok {
		return fmt.Errorf("unknown blueprint %d", id)
	}
	geodes, err := maxGeodes(bp, minutes)
	if err != nil {
		c.err = err
		return nil
	}
	c.results = append(c.results, geodes)
	c.byID[id] = geodes
	return nil
}

func (c *scenarioContext) evaluateAll(minutes int) error {
	ids := make([]int, 0, len(c.blueprints))
	for id := range c.blueprints {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if err := c.evaluateOne(id, minutes); err != nil {
			return err
		}
	}
	return c.err
}

func (c *scenarioContext) maximumGeodesIs(want int) error {
	if c.err != nil {
		return c.err
	}
	if len(c.results) == 0 {
		return errors.New("nothing was evaluated")
	}
	if got := c.results[len(c.results)-1]; got != want {
		return fmt.Errorf("expected %d geodes, got %d", want, got)
	}
	return nil
}

func (c *scenarioContext) qualitySumIs(want int) error {
	sum := 0
	for id, geodes := range c.byID {
		sum += id * geodes
	}
	if sum != want {
		return fmt.Errorf("expected quality sum %d, got %d", want, sum)
	}
	return nil
}

func (c *scenarioContext) productIs(want int) error {
	product := 1
	for _, geodes := range c.byID {
		product *= geodes
	}
	if product != want {
		return fmt.Errorf("expected product %d, got %d", want, product)
	}
	return nil
}

func (c *scenarioContext) resultsNeverDecrease() error {
	for i := 1; i < len(c.results); i++ {
		if c.results[i] < c.results[i-1] {
			return fmt.Errorf("result %d (%d) is below result %d (%d)", i, c.results[i], i-1, c.results[i-1])
		}
	}
	return nil
}

func (c *scenarioContext) failsWithInvalidHorizon() error {
	if !errors.Is(c.err, models.ErrInvalidHorizon) {
		return fmt.Errorf("expected an invalid horizon error, got %v", c.err)
	}
	return nil
}

func InitializeScenario(sc *godog.ScenarioContext) {
	c := &scenarioContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		c.blueprints = make(map[int]*models.Blueprint)
		c.byID = make(map[int]int)
		c.results = nil
		c.err = nil
		return ctx, nil
	})

	sc.Step(`^blueprint (\d+) where an ore robot costs (\d+) ore, a clay robot costs (\d+) ore, an obsidian robot costs (\d+) ore and (\d+) clay, a geode robot costs (\d+) ore and (\d+) obsidian$`, c.blueprintCosts)
	sc.Step(`^blueprint (\d+) is evaluated over (-?\d+) minutes$`, c.evaluateOne)
	sc.Step(`^every blueprint is evaluated over (\d+) minutes$`, c.evaluateAll)
	sc.Step(`^the maximum number of geodes is (\d+)$`, c.maximumGeodesIs)
	sc.Step(`^the sum of quality levels is (\d+)$`, c.qualitySumIs)
	sc.Step(`^the product of geode counts is (\d+)$`, c.productIs)
	sc.Step(`^the results never decrease$`, c.resultsNeverDecrease)
	sc.Step(`^the evaluation fails with an invalid horizon error$`, c.failsWithInvalidHorizon)
}

package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Blueprint is an immutable set of robot costs
type Blueprint struct {
	id        int
	robots    [ResourceCount]Costs
	maxUseful Amounts
}

// NewBlueprint validates costs and precomputes per-resource robot caps.
// robots[k] is the cost of the robot producing resource k.
func NewBlueprint(id int, robots [ResourceCount]Costs) (*Blueprint, error) {
	if id < 1 {
		return nil, BlueprintFieldError("id", id, "must be at least 1")
	}
	for _, robot := range AllResources() {
		for _, r := range AllResources() {
			if amount := robots[robot][r]; amount < 0 {
				field := fmt.Sprintf("%s_robot.%s", robot, r)
				return nil, BlueprintFieldError(field, amount, "cost must not be negative")
			}
		}
	}

	bp := &Blueprint{id: id, robots: robots}
	for _, r := range AllResources() {
		if r == Geode {
			bp.maxUseful[r] = math.MaxInt
			continue
		}
		for _, cost := range robots {
			bp.maxUseful[r] = max(bp.maxUseful[r], cost[r])
		}
	}
	return bp, nil
}

// NewStandardBlueprint builds the usual four-robot shape:
// ore and clay robots cost ore, obsidian robots cost ore and clay,
// geode robots cost ore and obsidian.
func NewStandardBlueprint(id, oreRobotOre, clayRobotOre, obsidianRobotOre, obsidianRobotClay, geodeRobotOre, geodeRobotObsidian int) (*Blueprint, error) {
	return BlueprintSpec{
		ID:                 id,
		OreRobotOre:        oreRobotOre,
		ClayRobotOre:       clayRobotOre,
		ObsidianRobotOre:   obsidianRobotOre,
		ObsidianRobotClay:  obsidianRobotClay,
		GeodeRobotOre:      geodeRobotOre,
		GeodeRobotObsidian: geodeRobotObsidian,
	}.Blueprint()
}

// MustStandardBlueprint is NewStandardBlueprint for fixtures with known-good costs
func MustStandardBlueprint(id, oreRobotOre, clayRobotOre, obsidianRobotOre, obsidianRobotClay, geodeRobotOre, geodeRobotObsidian int) *Blueprint {
	bp, err := NewStandardBlueprint(id, oreRobotOre, clayRobotOre, obsidianRobotOre, obsidianRobotClay, geodeRobotOre, geodeRobotObsidian)
	if err != nil {
		panic(err)
	}
	return bp
}

// ID returns the blueprint identifier
func (b *Blueprint) ID() int {
	return b.id
}

// Cost returns the cost of the robot producing resource r
func (b *Blueprint) Cost(r Resource) Costs {
	return b.robots[r]
}

// Robots returns a copy of all robot costs
func (b *Blueprint) Robots() [ResourceCount]Costs {
	return b.robots
}

// MaxUseful returns how many robots producing r are worth having: no step
// can spend more than the largest single cost in r.
func (b *Blueprint) MaxUseful(r Resource) int {
	return b.maxUseful[r]
}

// Key returns a stable fingerprint of the costs, independent of the id
func (b *Blueprint) Key() string {
	var sb strings.Builder
	for i, cost := range b.robots {
		if i > 0 {
			sb.WriteByte('|')
		}
		for j, v := range cost {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(v))
		}
	}
	return sb.String()
}

// String renders the blueprint in its textual input form
func (b *Blueprint) String() string {
	return fmt.Sprintf("Blueprint %d: Each ore robot costs %s. Each clay robot costs %s. Each obsidian robot costs %s. Each geode robot costs %s.",
		b.id, b.robots[Ore], b.robots[Clay], b.robots[Obsidian], b.robots[Geode])
}

// BlueprintSpec is the flat input form of a standard blueprint
type BlueprintSpec struct {
	ID                 int `json:"id" mapstructure:"id" validate:"min=1"`
	OreRobotOre        int `json:"ore_robot_ore" mapstructure:"ore_robot_ore" validate:"gte=0"`
	ClayRobotOre       int `json:"clay_robot_ore" mapstructure:"clay_robot_ore" validate:"gte=0"`
	ObsidianRobotOre   int `json:"obsidian_robot_ore" mapstructure:"obsidian_robot_ore" validate:"gte=0"`
	ObsidianRobotClay  int `json:"obsidian_robot_clay" mapstructure:"obsidian_robot_clay" validate:"gte=0"`
	GeodeRobotOre      int `json:"geode_robot_ore" mapstructure:"geode_robot_ore" validate:"gte=0"`
	GeodeRobotObsidian int `json:"geode_robot_obsidian" mapstructure:"geode_robot_obsidian" validate:"gte=0"`
}

// Validate checks the struct tags and reports the first failure as a ConfigError
func (s BlueprintSpec) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return BlueprintFieldError(e.Field(), e.Value(), fmt.Sprintf("failed %s=%s", e.Tag(), e.Param()))
	}
	return fmt.Errorf("%w: %v", ErrInvalidBlueprint, err)
}

// Blueprint validates s and builds the immutable Blueprint
func (s BlueprintSpec) Blueprint() (*Blueprint, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var robots [ResourceCount]Costs
	robots[Ore][Ore] = s.OreRobotOre
	robots[Clay][Ore] = s.ClayRobotOre
	robots[Obsidian][Ore] = s.ObsidianRobotOre
	robots[Obsidian][Clay] = s.ObsidianRobotClay
	robots[Geode][Ore] = s.GeodeRobotOre
	robots[Geode][Obsidian] = s.GeodeRobotObsidian
	return NewBlueprint(s.ID, robots)
}

// SpecOf flattens a blueprint back into its spec form. Costs outside the
// standard shape are dropped.
func SpecOf(b *Blueprint) BlueprintSpec {
	return BlueprintSpec{
		ID:                 b.id,
		OreRobotOre:        b.robots[Ore][Ore],
		ClayRobotOre:       b.robots[Clay][Ore],
		ObsidianRobotOre:   b.robots[Obsidian][Ore],
		ObsidianRobotClay:  b.robots[Obsidian][Clay],
		GeodeRobotOre:      b.robots[Geode][Ore],
		GeodeRobotObsidian: b.robots[Geode][Obsidian],
	}
}

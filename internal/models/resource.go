package models

import (
	"fmt"
	"strings"
)

// Resource identifies both a resource kind and the robot that produces it
type Resource int

const (
	Ore Resource = iota
	Clay
	Obsidian
	Geode
)

// ResourceCount is the number of resource (and robot) kinds
const ResourceCount = 4

// AllResources returns all resources in deterministic order
func AllResources() []Resource {
	return []Resource{Ore, Clay, Obsidian, Geode}
}

// String returns the lowercase resource name
func (r Resource) String() string {
	switch r {
	case Ore:
		return "ore"
	case Clay:
		return "clay"
	case Obsidian:
		return "obsidian"
	case Geode:
		return "geode"
	default:
		return fmt.Sprintf("resource(%d)", int(r))
	}
}

// ParseResource converts a resource name into a Resource
func ParseResource(name string) (Resource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ore":
		return Ore, nil
	case "clay":
		return Clay, nil
	case "obsidian":
		return Obsidian, nil
	case "geode", "geodes":
		return Geode, nil
	}
	return 0, fmt.Errorf("unknown resource %q", name)
}

// Amounts holds one integer per resource kind (robot counts or stocks)
type Amounts [ResourceCount]int

// Get returns the amount for a resource
func (a Amounts) Get(r Resource) int {
	return a[r]
}

// Add returns the element-wise sum
func (a Amounts) Add(b Amounts) Amounts {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// NonNegative reports whether every amount is >= 0
func (a Amounts) NonNegative() bool {
	for _, v := range a {
		if v < 0 {
			return false
		}
	}
	return true
}

// Costs is the price of one robot, indexed by resource
type Costs [ResourceCount]int

// Get returns the cost for a specific resource
func (c Costs) Get(r Resource) int {
	return c[r]
}

// AffordableWith reports whether stock covers every component of the cost
func (c Costs) AffordableWith(stock Amounts) bool {
	for i, need := range c {
		if stock[i] < need {
			return false
		}
	}
	return true
}

// Pay subtracts the cost from stock. Callers check AffordableWith first.
func (c Costs) Pay(stock Amounts) Amounts {
	for i, need := range c {
		stock[i] -= need
	}
	return stock
}

// String formats the non-zero components, e.g. "3 ore and 14 clay"
func (c Costs) String() string {
	var parts []string
	for _, r := range AllResources() {
		if c[r] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c[r], r))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, " and ")
}

package loader

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/napolitain/solver-geode/internal/models"
)

// ParseBlueprintsJSON reads blueprints of the form
//
//	{"blueprints": [{"id": 1, "robots": {"ore": {"ore": 4}, "geode": {"ore": 2, "obsidian": 7}}}]}
//
// Missing robot or resource entries cost nothing.
func ParseBlueprintsJSON(data []byte) ([]*models.Blueprint, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedBlueprint)
	}

	list := gjson.GetBytes(data, "blueprints")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: missing \"blueprints\" array", ErrMalformedBlueprint)
	}

	var (
		blueprints []*models.Blueprint
		parseErr   error
	)
	seen := make(map[int]bool)

	list.ForEach(func(key, v gjson.Result) bool {
		bp, err := parseBlueprintJSON(v)
		if err != nil {
			parseErr = fmt.Errorf("blueprints[%d]: %w", key.Int(), err)
			return false
		}
		if seen[bp.ID()] {
			parseErr = fmt.Errorf("%w: blueprints[%d]: duplicate blueprint id %d", ErrMalformedBlueprint, key.Int(), bp.ID())
			return false
		}
		seen[bp.ID()] = true
		blueprints = append(blueprints, bp)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return blueprints, nil
}

func parseBlueprintJSON(v gjson.Result) (*models.Blueprint, error) {
	idValue := v.Get("id")
	if idValue.Type != gjson.Number {
		return nil, fmt.Errorf("%w: missing numeric id", ErrMalformedBlueprint)
	}
	id, err := wholeNumber(idValue, "id")
	if err != nil {
		return nil, err
	}

	var robots [models.ResourceCount]models.Costs
	v.Get("robots").ForEach(func(name, costs gjson.Result) bool {
		robot, perr := models.ParseResource(name.String())
		if perr != nil {
			err = fmt.Errorf("%w: robot %q: %v", ErrMalformedBlueprint, name.String(), perr)
			return false
		}
		costs.ForEach(func(resName, amount gjson.Result) bool {
			res, perr := models.ParseResource(resName.String())
			if perr != nil {
				err = fmt.Errorf("%w: %s robot cost %q: %v", ErrMalformedBlueprint, robot, resName.String(), perr)
				return false
			}
			if amount.Type != gjson.Number {
				err = fmt.Errorf("%w: %s robot cost %s is not a number", ErrMalformedBlueprint, robot, res)
				return false
			}
			robots[robot][res], err = wholeNumber(amount, fmt.Sprintf("%s_robot.%s", robot, res))
			return err == nil
		})
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	return models.NewBlueprint(id, robots)
}

// wholeNumber converts a JSON number, rejecting fractions and values beyond int32
func wholeNumber(v gjson.Result, field string) (int, error) {
	f := v.Float()
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, models.BlueprintFieldError(field, v.Raw, "must be a whole number")
	}
	return int(f), nil
}

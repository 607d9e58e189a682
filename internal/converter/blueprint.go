// Package converter provides conversions between protobuf struct messages and model types
package converter

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/solver-geode/internal/models"
)

// BlueprintToStruct converts a blueprint into {"id": n, "robots": {robot: {resource: amount}}}.
// Zero costs are left out.
func BlueprintToStruct(bp *models.Blueprint) *structpb.Struct {
	robots := make(map[string]*structpb.Value, models.ResourceCount)
	for _, robot := range models.AllResources() {
		costs := make(map[string]*structpb.Value)
		for _, r := range models.AllResources() {
			if amount := bp.Cost(robot).Get(r); amount != 0 {
				costs[r.String()] = structpb.NewNumberValue(float64(amount))
			}
		}
		robots[robot.String()] = structpb.NewStructValue(&structpb.Struct{Fields: costs})
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":     structpb.NewNumberValue(float64(bp.ID())),
		"robots": structpb.NewStructValue(&structpb.Struct{Fields: robots}),
	}}
}

// StructToBlueprint converts the BlueprintToStruct form back into a blueprint
func StructToBlueprint(s *structpb.Struct) (*models.Blueprint, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: empty message", models.ErrInvalidBlueprint)
	}

	id, err := intField(s.GetFields()["id"], "id")
	if err != nil {
		return nil, err
	}

	var robots [models.ResourceCount]models.Costs
	for name, v := range s.GetFields()["robots"].GetStructValue().GetFields() {
		robot, err := models.ParseResource(name)
		if err != nil {
			return nil, fmt.Errorf("%w: robots: %v", models.ErrInvalidBlueprint, err)
		}
		for resName, amount := range v.GetStructValue().GetFields() {
			r, err := models.ParseResource(resName)
			if err != nil {
				return nil, fmt.Errorf("%w: %s robot: %v", models.ErrInvalidBlueprint, robot, err)
			}
			n, err := intField(amount, fmt.Sprintf("%s_robot.%s", robot, r))
			if err != nil {
				return nil, err
			}
			robots[robot][r] = n
		}
	}

	return models.NewBlueprint(id, robots)
}

// BlueprintsToStruct wraps blueprints as {"blueprints": [...]}
func BlueprintsToStruct(blueprints []*models.Blueprint) *structpb.Struct {
	list := make([]*structpb.Value, len(blueprints))
	for i, bp := range blueprints {
		list[i] = structpb.NewStructValue(BlueprintToStruct(bp))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"blueprints": structpb.NewListValue(&structpb.ListValue{Values: list}),
	}}
}

// StructToBlueprints reads the BlueprintsToStruct form
func StructToBlueprints(s *structpb.Struct) ([]*models.Blueprint, error) {
	list := s.GetFields()["blueprints"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: missing \"blueprints\" list", models.ErrInvalidBlueprint)
	}

	blueprints := make([]*models.Blueprint, 0, len(list.GetValues()))
	seen := make(map[int]bool)
	for i, v := range list.GetValues() {
		bp, err := StructToBlueprint(v.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("blueprints[%d]: %w", i, err)
		}
		if seen[bp.ID()] {
			return nil, fmt.Errorf("%w: blueprints[%d]: duplicate blueprint id %d", models.ErrInvalidBlueprint, i, bp.ID())
		}
		seen[bp.ID()] = true
		blueprints = append(blueprints, bp)
	}
	return blueprints, nil
}

// MarshalBlueprintsJSON renders blueprints in the JSON file format
func MarshalBlueprintsJSON(blueprints []*models.Blueprint) ([]byte, error) {
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(BlueprintsToStruct(blueprints))
}

func intField(v *structpb.Value, field string) (int, error) {
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, models.BlueprintFieldError(field, v.AsInterface(), "must be a number")
	}
	f := num.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, models.BlueprintFieldError(field, f, "must be a whole number")
	}
	return int(f), nil
}

package converter

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/solver-geode/internal/solver"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

func number(n int) *structpb.Value {
	return structpb.NewNumberValue(float64(n))
}

// StatsToStruct converts search counters
func StatsToStruct(st geode.Stats) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"popped":              number(st.Popped),
		"expanded":            number(st.Expanded),
		"admitted":            number(st.Admitted),
		"pruned_by_bound":     number(st.PrunedByBound),
		"pruned_by_dominance": number(st.PrunedByDominance),
		"max_frontier":        number(st.MaxFrontier),
	}}
}

// ResultToStruct converts one blueprint's result
func ResultToStruct(res geode.Result) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"blueprint_id": number(res.BlueprintID),
		"horizon":      number(res.Horizon),
		"geodes":       number(res.Geodes),
		"quality":      number(res.Quality()),
		"duration_ms":  structpb.NewNumberValue(float64(res.Duration.Microseconds()) / 1000),
		"stats":        structpb.NewStructValue(StatsToStruct(res.Stats)),
	}}
}

// ResultsToStruct converts results into {"results": [...]}
func ResultsToStruct(results []geode.Result) *structpb.Struct {
	list := make([]*structpb.Value, len(results))
	for i, res := range results {
		list[i] = structpb.NewStructValue(ResultToStruct(res))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"results": structpb.NewListValue(&structpb.ListValue{Values: list}),
	}}
}

// ScoreToStruct adds the combined value to the ResultsToStruct form
func ScoreToStruct(score *solver.Score) *structpb.Struct {
	s := ResultsToStruct(score.Results)
	s.Fields["mode"] = structpb.NewStringValue(score.Mode.String())
	s.Fields["horizon"] = number(score.Horizon)
	s.Fields["value"] = number(score.Value)
	return s
}

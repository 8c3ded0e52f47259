package score

import (
	"sort"

	"careercoach-be/internal/entity"
)

// Merge folds delta into base, key by key. Missing keys default to zero and
// unknown dimensions are accepted as-is; keys are never removed.
func Merge(base map[string]int, delta map[string]int) map[string]int {
	merged := make(map[string]int, len(base)+len(delta))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range delta {
		merged[key] += value
	}
	return merged
}

// Aggregate recomputes the cumulative score map from full turn history in
// turn-index order. It is a pure function of the turns: any cached cumulative
// field must always equal this result.
func Aggregate(turns []*entity.Turn) map[string]int {
	ordered := make([]*entity.Turn, len(turns))
	copy(ordered, turns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TurnIndex < ordered[j].TurnIndex
	})

	total := map[string]int{}
	for _, turn := range ordered {
		if len(turn.ScoreDelta) == 0 {
			continue
		}
		total = Merge(total, turn.ScoreDelta)
	}
	return total
}

// Sum adds up every dimension of every delta, used for fit percentages.
func Sum(turns []*entity.Turn) int {
	sum := 0
	for _, turn := range turns {
		for _, value := range turn.ScoreDelta {
			sum += value
		}
	}
	return sum
}

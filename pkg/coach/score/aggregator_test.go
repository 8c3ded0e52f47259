package score

import (
	"testing"

	"careercoach-be/internal/entity"
)

func TestMerge(t *testing.T) {
	base := map[string]int{"communication": 2, "stress": 1}
	delta := map[string]int{"communication": 1, "problemSolving": 3}

	merged := Merge(base, delta)

	if merged["communication"] != 3 {
		t.Errorf("communication = %d, want 3", merged["communication"])
	}
	if merged["stress"] != 1 {
		t.Errorf("stress = %d, want 1", merged["stress"])
	}
	if merged["problemSolving"] != 3 {
		t.Errorf("problemSolving = %d, want 3", merged["problemSolving"])
	}
	// inputs stay untouched
	if base["communication"] != 2 || len(delta) != 2 {
		t.Error("Merge mutated its inputs")
	}
}

func TestMergeNilBase(t *testing.T) {
	merged := Merge(nil, map[string]int{"logic": 1})
	if merged["logic"] != 1 {
		t.Errorf("logic = %d, want 1", merged["logic"])
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	turns := []*entity.Turn{
		{TurnIndex: 3, ScoreDelta: map[string]int{"communication": 1}},
		{TurnIndex: 1, ScoreDelta: map[string]int{"communication": 1, "stress": -1}},
		{TurnIndex: 2},
	}

	total := Aggregate(turns)

	if total["communication"] != 2 {
		t.Errorf("communication = %d, want 2", total["communication"])
	}
	if total["stress"] != -1 {
		t.Errorf("stress = %d, want -1", total["stress"])
	}
}

func TestAggregateEmpty(t *testing.T) {
	total := Aggregate(nil)
	if total == nil || len(total) != 0 {
		t.Errorf("expected empty non-nil map, got %v", total)
	}
}

func TestSum(t *testing.T) {
	turns := []*entity.Turn{
		{TurnIndex: 1, ScoreDelta: map[string]int{"communication": 2, "stress": -1}},
		{TurnIndex: 2, ScoreDelta: map[string]int{"problemSolving": 3}},
	}
	if got := Sum(turns); got != 4 {
		t.Errorf("Sum = %d, want 4", got)
	}
}

package plan

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClarityScoreFullPlan(t *testing.T) {
	tree := Tree{
		Description: "Ship the beta",
		Milestones: []Milestone{
			{
				Title: "Discovery",
				Deliverables: []Deliverable{
					{
						Title: "Research report",
						Tasks: []Task{
							{
								Title:       "Interview users",
								Estimate:    "4h",
								Context:     "calls",
								NextActions: []NextAction{{Title: "Draft questions"}},
							},
						},
					},
				},
			},
		},
	}

	// All six factors at 1.0 with zero flags.
	if got := ClarityScore(tree, 0); !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestClarityScorePartialTasks(t *testing.T) {
	// 3 tasks: one with an estimate, one with a context, none with
	// next actions; 2 uncertainty flags.
	tree := Tree{
		Description: "x",
		Milestones: []Milestone{
			{
				Title: "M1",
				Deliverables: []Deliverable{
					{
						Title: "D1",
						Tasks: []Task{
							{Title: "T1", Estimate: "2h"},
							{Title: "T2", Context: "office"},
							{Title: "T3"},
						},
					},
				},
			},
		},
	}

	// (1 + 1 + 1/3 + 1/3 + 0 + 0.7) / 6
	want := (1.0 + 1.0 + 1.0/3.0 + 1.0/3.0 + 0.0 + 0.7) / 6.0
	if got := ClarityScore(tree, 2); !almostEqual(got, want) {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestClarityScoreNoTasksOmitsRatios(t *testing.T) {
	tree := Tree{
		Description: "desc",
		Milestones:  []Milestone{{Title: "M1"}},
	}

	// Only factors (a), (b), (f) participate: (1 + 1 + 1) / 3.
	if got := ClarityScore(tree, 0); !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0 with no tasks and no flags, got %f", got)
	}

	// (1 + 1 + 0.55) / 3 with three flags.
	want := (1.0 + 1.0 + 0.55) / 3.0
	if got := ClarityScore(tree, 3); !almostEqual(got, want) {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestClarityScoreFlagSaturation(t *testing.T) {
	tree := Tree{}

	// Empty tree, many flags: (0 + 0 + 0) / 3.
	if got := ClarityScore(tree, 100); !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

func TestClarityScoreAlwaysClamped(t *testing.T) {
	trees := []Tree{
		{},
		{Description: "d"},
		{Description: "d", Milestones: []Milestone{{Title: "m"}}},
	}
	for _, tree := range trees {
		for flags := 0; flags <= 20; flags += 5 {
			got := ClarityScore(tree, flags)
			if got < 0 || got > 1 {
				t.Errorf("score %f out of range for flags=%d", got, flags)
			}
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-0.5) != 0 {
		t.Error("expected negative clamp to 0")
	}
	if Clamp(1.5) != 1 {
		t.Error("expected overflow clamp to 1")
	}
	if Clamp(0.42) != 0.42 {
		t.Error("expected in-range value unchanged")
	}
}

package plan

import "testing"

func sampleTree() Tree {
	return Tree{
		Description: "Launch prep",
		Milestones: []Milestone{
			{
				Title: "Build",
				Deliverables: []Deliverable{
					{
						Title: "Core feature",
						Tasks: []Task{
							{
								Title:       "Implement API",
								Estimate:    "8h",
								Flagged:     true,
								NextActions: []NextAction{{Title: "Sketch endpoints"}},
							},
							{Title: "Write docs"},
						},
					},
				},
			},
			{Title: "Launch"},
		},
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := sampleTree()
	clone := original.Clone()

	clone.Milestones[0].Title = "Mutated"
	clone.Milestones[0].Deliverables[0].Tasks[0].Title = "Mutated task"
	clone.Milestones[0].Deliverables[0].Tasks[0].NextActions[0].Title = "Mutated action"

	if original.Milestones[0].Title != "Build" {
		t.Error("clone shares milestone slice with original")
	}
	if original.Milestones[0].Deliverables[0].Tasks[0].Title != "Implement API" {
		t.Error("clone shares task slice with original")
	}
	if original.Milestones[0].Deliverables[0].Tasks[0].NextActions[0].Title != "Sketch endpoints" {
		t.Error("clone shares next action slice with original")
	}
}

func TestTaskCount(t *testing.T) {
	tree := sampleTree()
	if got := tree.TaskCount(); got != 2 {
		t.Errorf("expected 2 tasks, got %d", got)
	}
	if got := len(tree.Tasks()); got != 2 {
		t.Errorf("expected 2 tasks from Tasks(), got %d", got)
	}
	if (Tree{}).TaskCount() != 0 {
		t.Error("expected 0 tasks for empty tree")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(sampleTree()); err != nil {
		t.Errorf("expected valid tree, got %v", err)
	}
	if err := Validate(Tree{}); err != nil {
		t.Errorf("expected empty tree to be valid, got %v", err)
	}

	bad := sampleTree()
	bad.Milestones[0].Deliverables[0].Tasks[1].Title = ""
	if err := Validate(bad); err == nil {
		t.Error("expected error for empty task title")
	}
}

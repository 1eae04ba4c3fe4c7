package plan

import "fmt"

// Validate checks structural soundness of a tree: every milestone,
// deliverable, task and next action must carry a non-empty title.
// Empty child lists are fine at every level.
func Validate(t Tree) error {
	for mi, m := range t.Milestones {
		if m.Title == "" {
			return fmt.Errorf("milestone %d has an empty title", mi)
		}
		for di, d := range m.Deliverables {
			if d.Title == "" {
				return fmt.Errorf("deliverable %d in milestone %q has an empty title", di, m.Title)
			}
			for ti, task := range d.Tasks {
				if task.Title == "" {
					return fmt.Errorf("task %d in deliverable %q has an empty title", ti, d.Title)
				}
				for ni, na := range task.NextActions {
					if na.Title == "" {
						return fmt.Errorf("next action %d in task %q has an empty title", ni, task.Title)
					}
				}
			}
		}
	}
	return nil
}

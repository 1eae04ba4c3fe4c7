package plan

// uncertaintyPenaltyStep is how much each uncertainty flag costs
// before the penalty saturates at 1.0.
const uncertaintyPenaltyStep = 0.15

// ClarityScore computes a [0,1] heuristic for how well-specified a
// plan is. It averages equally weighted factors: description present,
// at least one milestone, fraction of tasks with an estimate, fraction
// with a context, fraction with at least one next action, and an
// uncertainty penalty of 1 − min(flags×0.15, 1). The three per-task
// ratios are omitted entirely when the tree has no tasks, so a plan is
// never penalized for structural absence.
func ClarityScore(t Tree, flagCount int) float64 {
	var sum float64
	factors := 0

	if t.Description != "" {
		sum++
	}
	factors++

	if len(t.Milestones) > 0 {
		sum++
	}
	factors++

	tasks := t.Tasks()
	if len(tasks) > 0 {
		withEstimate := 0
		withContext := 0
		withNextAction := 0
		for _, task := range tasks {
			if task.Estimate != "" {
				withEstimate++
			}
			if task.Context != "" {
				withContext++
			}
			if len(task.NextActions) > 0 {
				withNextAction++
			}
		}
		total := float64(len(tasks))
		sum += float64(withEstimate) / total
		sum += float64(withContext) / total
		sum += float64(withNextAction) / total
		factors += 3
	}

	penalty := float64(flagCount) * uncertaintyPenaltyStep
	if penalty > 1 {
		penalty = 1
	}
	sum += 1 - penalty
	factors++

	return Clamp(sum / float64(factors))
}

// Clamp restricts a clarity score to [0,1]
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

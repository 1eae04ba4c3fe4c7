// Package diff compares two plan revisions structurally. The AI
// regenerates every identifier on each run, so entities are correlated
// by ordered position plus case-insensitive title equality, level by
// level.
//
// Matching is greedy: each old entity takes the first unmatched new
// entity with an equal title. Siblings that share a title can
// therefore be paired arbitrarily — a known limitation of the
// heuristic, kept deliberately; the output stays deterministic and
// explainable either way.
package diff

import (
	"strings"

	"github.com/felixgeelhaar/planweave/internal/plan"
)

// Diff compares two plan trees and returns one entry per milestone
// observed in either revision, old-order first, then unmatched new
// entities in new order.
func Diff(old, new *plan.Tree) []MilestoneEntry {
	var oldMs, newMs []plan.Milestone
	if old != nil {
		oldMs = old.Milestones
	}
	if new != nil {
		newMs = new.Milestones
	}
	return diffMilestones(oldMs, newMs)
}

func diffMilestones(old, new []plan.Milestone) []MilestoneEntry {
	entries := make([]MilestoneEntry, 0, len(old)+len(new))
	matched := make([]bool, len(new))

	for i := range old {
		o := old[i]
		j := findByTitle(o.Title, matched, len(new), func(k int) string { return new[k].Title })
		if j < 0 {
			entries = append(entries, MilestoneEntry{Status: StatusRemoved, Old: &old[i]})
			continue
		}
		matched[j] = true
		children := diffDeliverables(o.Deliverables, new[j].Deliverables)
		entries = append(entries, MilestoneEntry{
			Status:   parentStatus(deliverableStatuses(children)),
			Old:      &old[i],
			New:      &new[j],
			Children: children,
		})
	}

	for j := range new {
		if !matched[j] {
			entries = append(entries, MilestoneEntry{Status: StatusAdded, New: &new[j]})
		}
	}
	return entries
}

func diffDeliverables(old, new []plan.Deliverable) []DeliverableEntry {
	entries := make([]DeliverableEntry, 0, len(old)+len(new))
	matched := make([]bool, len(new))

	for i := range old {
		o := old[i]
		j := findByTitle(o.Title, matched, len(new), func(k int) string { return new[k].Title })
		if j < 0 {
			entries = append(entries, DeliverableEntry{Status: StatusRemoved, Old: &old[i]})
			continue
		}
		matched[j] = true
		children := diffTasks(o.Tasks, new[j].Tasks)
		entries = append(entries, DeliverableEntry{
			Status:   parentStatus(taskStatuses(children)),
			Old:      &old[i],
			New:      &new[j],
			Children: children,
		})
	}

	for j := range new {
		if !matched[j] {
			entries = append(entries, DeliverableEntry{Status: StatusAdded, New: &new[j]})
		}
	}
	return entries
}

func diffTasks(old, new []plan.Task) []TaskEntry {
	entries := make([]TaskEntry, 0, len(old)+len(new))
	matched := make([]bool, len(new))

	for i := range old {
		o := old[i]
		j := findByTitle(o.Title, matched, len(new), func(k int) string { return new[k].Title })
		if j < 0 {
			entries = append(entries, TaskEntry{Status: StatusRemoved, Old: &old[i]})
			continue
		}
		matched[j] = true
		status := StatusUnchanged
		if taskChanged(o, new[j]) {
			status = StatusModified
		}
		entries = append(entries, TaskEntry{Status: status, Old: &old[i], New: &new[j]})
	}

	for j := range new {
		if !matched[j] {
			entries = append(entries, TaskEntry{Status: StatusAdded, New: &new[j]})
		}
	}
	return entries
}

// findByTitle scans the unmatched new pool for the first
// case-insensitive title match. First positional match wins.
func findByTitle(title string, matched []bool, n int, titleAt func(int) string) int {
	for j := 0; j < n; j++ {
		if matched[j] {
			continue
		}
		if strings.EqualFold(title, titleAt(j)) {
			return j
		}
	}
	return -1
}

// taskChanged is the leaf-level flat comparison: flagged, notes,
// estimate, and next-action count. Next actions are not matched
// individually.
func taskChanged(old, new plan.Task) bool {
	return old.Flagged != new.Flagged ||
		old.Notes != new.Notes ||
		old.Estimate != new.Estimate ||
		len(old.NextActions) != len(new.NextActions)
}

// parentStatus is unchanged only when every child is unchanged
func parentStatus(statuses []Status) Status {
	for _, s := range statuses {
		if s != StatusUnchanged {
			return StatusModified
		}
	}
	return StatusUnchanged
}

func deliverableStatuses(entries []DeliverableEntry) []Status {
	out := make([]Status, len(entries))
	for i, e := range entries {
		out[i] = e.Status
	}
	return out
}

func taskStatuses(entries []TaskEntry) []Status {
	out := make([]Status, len(entries))
	for i, e := range entries {
		out[i] = e.Status
	}
	return out
}

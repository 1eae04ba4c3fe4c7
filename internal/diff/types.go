package diff

import "github.com/felixgeelhaar/planweave/internal/plan"

// Status classifies one entity's fate between two revisions
type Status string

const (
	// StatusAdded means the entity exists only in the new revision
	StatusAdded Status = "added"
	// StatusRemoved means the entity exists only in the old revision
	StatusRemoved Status = "removed"
	// StatusModified means the entity matched but differs underneath
	StatusModified Status = "modified"
	// StatusUnchanged means the entity and its whole subtree match
	StatusUnchanged Status = "unchanged"
)

// MilestoneEntry is the diff of one milestone. Added and removed
// entries carry no children: the whole subtree is reported at the
// milestone level.
type MilestoneEntry struct {
	Status   Status             `json:"status"`
	Old      *plan.Milestone    `json:"old,omitempty"`
	New      *plan.Milestone    `json:"new,omitempty"`
	Children []DeliverableEntry `json:"children,omitempty"`
}

// DeliverableEntry is the diff of one deliverable
type DeliverableEntry struct {
	Status   Status            `json:"status"`
	Old      *plan.Deliverable `json:"old,omitempty"`
	New      *plan.Deliverable `json:"new,omitempty"`
	Children []TaskEntry       `json:"children,omitempty"`
}

// TaskEntry is the diff of one task. Tasks are the leaf level: their
// status comes from a flat field comparison, not from recursing into
// next-action identity.
type TaskEntry struct {
	Status Status     `json:"status"`
	Old    *plan.Task `json:"old,omitempty"`
	New    *plan.Task `json:"new,omitempty"`
}

// Summary counts entry statuses across one level of a diff
type Summary struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

// Summarize tallies milestone-level statuses
func Summarize(entries []MilestoneEntry) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Status {
		case StatusAdded:
			s.Added++
		case StatusRemoved:
			s.Removed++
		case StatusModified:
			s.Modified++
		case StatusUnchanged:
			s.Unchanged++
		}
	}
	return s
}

// IsClean reports whether every milestone is unchanged
func IsClean(entries []MilestoneEntry) bool {
	for _, e := range entries {
		if e.Status != StatusUnchanged {
			return false
		}
	}
	return true
}

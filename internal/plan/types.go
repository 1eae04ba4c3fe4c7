package plan

// Tree is the hierarchical project plan produced by one analysis run.
// The hierarchy has a fixed depth: Tree → Milestone → Deliverable →
// Task → NextAction. Titles are free text regenerated by the AI on
// every run; only structural position plus case-insensitive title
// equality correlates entities across revisions.
type Tree struct {
	Description string      `json:"description"`
	Milestones  []Milestone `json:"milestones"`
}

// Milestone is a top-level phase of the plan
type Milestone struct {
	Title        string        `json:"title"`
	Deliverables []Deliverable `json:"deliverables,omitempty"`
}

// Deliverable is a concrete outcome within a milestone
type Deliverable struct {
	Title string `json:"title"`
	Tasks []Task `json:"tasks,omitempty"`
}

// Task is a unit of work within a deliverable.
// Optional fields use the empty string as the explicit "no value"
// default rather than pointers.
type Task struct {
	Title       string       `json:"title"`
	DueDate     string       `json:"dueDate,omitempty"`
	DeferDate   string       `json:"deferDate,omitempty"`
	Estimate    string       `json:"estimate,omitempty"`
	Context     string       `json:"context,omitempty"`
	Category    string       `json:"category,omitempty"`
	Flagged     bool         `json:"flagged,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	NextActions []NextAction `json:"nextActions,omitempty"`
}

// NextAction is the smallest actionable step under a task
type NextAction struct {
	Title    string `json:"title"`
	Context  string `json:"context,omitempty"`
	Estimate string `json:"estimate,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// AnalysisResult is the parsed outcome of one generation run
type AnalysisResult struct {
	Plan             Tree     `json:"plan"`
	ClarityScore     float64  `json:"clarityScore"`
	UncertaintyFlags []string `json:"uncertaintyFlags"`
	VersionNumber    int      `json:"versionNumber"`
}

// Clone returns a deep copy of the tree. Snapshots hold clones so a
// caller mutating its working tree can never reach back into the
// ledger.
func (t Tree) Clone() Tree {
	out := Tree{Description: t.Description}
	if t.Milestones == nil {
		return out
	}
	out.Milestones = make([]Milestone, len(t.Milestones))
	for i, m := range t.Milestones {
		out.Milestones[i] = m.clone()
	}
	return out
}

func (m Milestone) clone() Milestone {
	out := Milestone{Title: m.Title}
	if m.Deliverables == nil {
		return out
	}
	out.Deliverables = make([]Deliverable, len(m.Deliverables))
	for i, d := range m.Deliverables {
		out.Deliverables[i] = d.clone()
	}
	return out
}

func (d Deliverable) clone() Deliverable {
	out := Deliverable{Title: d.Title}
	if d.Tasks == nil {
		return out
	}
	out.Tasks = make([]Task, len(d.Tasks))
	for i, task := range d.Tasks {
		out.Tasks[i] = task.clone()
	}
	return out
}

func (t Task) clone() Task {
	out := t
	if t.NextActions != nil {
		out.NextActions = make([]NextAction, len(t.NextActions))
		copy(out.NextActions, t.NextActions)
	}
	return out
}

// Tasks returns every task in the tree in document order
func (t Tree) Tasks() []Task {
	var tasks []Task
	for _, m := range t.Milestones {
		for _, d := range m.Deliverables {
			tasks = append(tasks, d.Tasks...)
		}
	}
	return tasks
}

// TaskCount returns the total number of tasks in the tree
func (t Tree) TaskCount() int {
	n := 0
	for _, m := range t.Milestones {
		for _, d := range m.Deliverables {
			n += len(d.Tasks)
		}
	}
	return n
}

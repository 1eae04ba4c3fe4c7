// Package ledger keeps the append-only history of plan revisions for
// one project bundle. Every numbering and immutability guarantee lives
// here, not in callers: snapshots are deep-copied on the way in and
// out, version numbers are derived from the ledger's own maximum, and
// nothing is ever rewritten or removed.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/planweave/internal/errors"
	"github.com/felixgeelhaar/planweave/internal/plan"
)

// Snapshot is one immutable, numbered plan revision
type Snapshot struct {
	ID               string    `json:"id"`
	VersionNumber    int       `json:"versionNumber"`
	Timestamp        time.Time `json:"timestamp"`
	PersonaLabel     string    `json:"personaLabel"`
	ClarityScore     float64   `json:"clarityScore"`
	Plan             plan.Tree `json:"plan"`
	UncertaintyFlags []string  `json:"uncertaintyFlags"`
	InputRefs        []string  `json:"inputRefs"`
}

// clone returns a defensive copy so ledger internals never alias
// caller-held memory.
func (s Snapshot) clone() Snapshot {
	out := s
	out.Plan = s.Plan.Clone()
	out.UncertaintyFlags = append([]string(nil), s.UncertaintyFlags...)
	out.InputRefs = append([]string(nil), s.InputRefs...)
	return out
}

// Ledger is the ordered, append-only sequence of snapshots
type Ledger struct {
	snapshots []Snapshot
	now       func() time.Time
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{now: time.Now}
}

// FromSnapshots rebuilds a ledger from previously persisted snapshots.
// Input order does not matter; entries are sorted by version number.
func FromSnapshots(snapshots []Snapshot) *Ledger {
	l := New()
	l.snapshots = make([]Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		l.snapshots = append(l.snapshots, s.clone())
	}
	// Insertion sort; version files arrive nearly sorted from the
	// zero-padded directory listing.
	for i := 1; i < len(l.snapshots); i++ {
		for j := i; j > 0 && l.snapshots[j-1].VersionNumber > l.snapshots[j].VersionNumber; j-- {
			l.snapshots[j-1], l.snapshots[j] = l.snapshots[j], l.snapshots[j-1]
		}
	}
	return l
}

// Append records a new snapshot built from an analysis result. The
// version number is always derived from the ledger's true maximum at
// append time, regardless of what the result was labeled with, so
// racing submissions can never produce gaps or collisions.
func (l *Ledger) Append(result *plan.AnalysisResult, personaLabel string, inputRefs []string) Snapshot {
	snapshot := Snapshot{
		ID:               uuid.NewString(),
		VersionNumber:    l.LatestVersionNumber() + 1,
		Timestamp:        l.now(),
		PersonaLabel:     personaLabel,
		ClarityScore:     plan.Clamp(result.ClarityScore),
		Plan:             result.Plan.Clone(),
		UncertaintyFlags: append([]string(nil), result.UncertaintyFlags...),
		InputRefs:        append([]string(nil), inputRefs...),
	}
	if snapshot.UncertaintyFlags == nil {
		snapshot.UncertaintyFlags = []string{}
	}
	if snapshot.InputRefs == nil {
		snapshot.InputRefs = []string{}
	}
	l.snapshots = append(l.snapshots, snapshot)
	return snapshot.clone()
}

// Restore appends a fresh snapshot copying the plan, score, and flags
// of an earlier version. Restoring never rewrites history: the target
// and everything after it stay untouched, and the copy gets the next
// version number.
func (l *Ledger) Restore(versionNumber int) (Snapshot, error) {
	target, err := l.SnapshotByVersion(versionNumber)
	if err != nil {
		return Snapshot{}, err
	}
	result := &plan.AnalysisResult{
		Plan:             target.Plan,
		ClarityScore:     target.ClarityScore,
		UncertaintyFlags: target.UncertaintyFlags,
	}
	return l.Append(result, target.PersonaLabel, target.InputRefs), nil
}

// LatestVersionNumber returns the highest version number, or 0 for an
// empty ledger.
func (l *Ledger) LatestVersionNumber() int {
	max := 0
	for _, s := range l.snapshots {
		if s.VersionNumber > max {
			max = s.VersionNumber
		}
	}
	return max
}

// Latest returns the most recent snapshot
func (l *Ledger) Latest() (Snapshot, error) {
	if len(l.snapshots) == 0 {
		return Snapshot{}, errors.New(errors.ErrCodeLedgerEmpty, "the ledger has no snapshots yet")
	}
	return l.snapshots[len(l.snapshots)-1].clone(), nil
}

// SnapshotByVersion returns the snapshot with the given version number
func (l *Ledger) SnapshotByVersion(versionNumber int) (Snapshot, error) {
	for _, s := range l.snapshots {
		if s.VersionNumber == versionNumber {
			return s.clone(), nil
		}
	}
	return Snapshot{}, errors.NewVersionUnknownError(versionNumber)
}

// Snapshots returns copies of every snapshot in version order
func (l *Ledger) Snapshots() []Snapshot {
	out := make([]Snapshot, len(l.snapshots))
	for i, s := range l.snapshots {
		out[i] = s.clone()
	}
	return out
}

// Len returns the number of snapshots
func (l *Ledger) Len() int {
	return len(l.snapshots)
}

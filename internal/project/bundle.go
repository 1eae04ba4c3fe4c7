// Package project owns the mutable state of one project document. All
// mutation flows through the Bundle's command methods so invariants
// (ledger append-only, metadata timestamps, staged-asset bookkeeping)
// stay in one place instead of being spread across UI panels, the
// orchestrator, and the store.
package project

import (
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/planweave/internal/errors"
	"github.com/felixgeelhaar/planweave/internal/ledger"
	"github.com/felixgeelhaar/planweave/internal/plan"
)

// InputDescriptor describes one user input staged into the bundle.
// The ID is the blake3 hash of the content, so identical blobs
// deduplicate naturally and references stay stable across saves.
type InputDescriptor struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Size    int64     `json:"size"`
	AddedAt time.Time `json:"addedAt"`
}

// Metadata holds the project fields persisted in the bundle's
// metadata file.
type Metadata struct {
	Name           string            `json:"name"`
	CreatedAt      time.Time         `json:"createdAt"`
	ModifiedAt     time.Time         `json:"modifiedAt"`
	Persona        string            `json:"persona"`
	GoalText       string            `json:"goalText"`
	CurrentVersion int               `json:"currentVersion"`
	Inputs         []InputDescriptor `json:"inputs"`
}

// Bundle is the aggregate root for one project document
type Bundle struct {
	meta   Metadata
	ledger *ledger.Ledger
	staged map[string][]byte
	now    func() time.Time
}

// New creates an empty bundle with the given project name
func New(name string) *Bundle {
	b := &Bundle{
		ledger: ledger.New(),
		staged: make(map[string][]byte),
		now:    time.Now,
	}
	now := b.now()
	b.meta = Metadata{
		Name:       name,
		CreatedAt:  now,
		ModifiedAt: now,
		Inputs:     []InputDescriptor{},
	}
	return b
}

// Rehydrate rebuilds a bundle from persisted state. Used by the store
// on load; staged assets start empty because everything on disk is
// already persisted.
func Rehydrate(meta Metadata, l *ledger.Ledger) *Bundle {
	if meta.Inputs == nil {
		meta.Inputs = []InputDescriptor{}
	}
	if l == nil {
		l = ledger.New()
	}
	return &Bundle{
		meta:   meta,
		ledger: l,
		staged: make(map[string][]byte),
		now:    time.Now,
	}
}

// AddInput stages an input blob and records its descriptor
func (b *Bundle) AddInput(name, kind string, content []byte) InputDescriptor {
	sum := blake3.Sum256(content)
	desc := InputDescriptor{
		ID:      hex.EncodeToString(sum[:]),
		Name:    name,
		Kind:    kind,
		Size:    int64(len(content)),
		AddedAt: b.now(),
	}

	for _, existing := range b.meta.Inputs {
		if existing.ID == desc.ID {
			// Same content already present; keep the original descriptor.
			return existing
		}
	}

	b.staged[desc.ID] = append([]byte(nil), content...)
	b.meta.Inputs = append(b.meta.Inputs, desc)
	b.touch()
	return desc
}

// RemoveInput drops an input descriptor and any staged blob for it.
// Assets already persisted on disk are left for the store to keep;
// snapshots referencing the input keep their references.
func (b *Bundle) RemoveInput(id string) error {
	for i, desc := range b.meta.Inputs {
		if desc.ID == id {
			b.meta.Inputs = append(b.meta.Inputs[:i], b.meta.Inputs[i+1:]...)
			delete(b.staged, id)
			b.touch()
			return nil
		}
	}
	return errors.New(errors.ErrCodeBundleInputMissing, "no input with id "+id)
}

// SetPersona records the persona label used for future analyses
func (b *Bundle) SetPersona(label string) {
	b.meta.Persona = label
	b.touch()
}

// SetGoal records the free-text project goal
func (b *Bundle) SetGoal(text string) {
	b.meta.GoalText = text
	b.touch()
}

// SetAnalysisResult appends a completed analysis to the ledger and
// points the bundle at the new version. This is the only path by which
// a bundle gains a snapshot.
func (b *Bundle) SetAnalysisResult(result *plan.AnalysisResult) ledger.Snapshot {
	snapshot := b.ledger.Append(result, b.meta.Persona, b.InputIDs())
	b.meta.CurrentVersion = snapshot.VersionNumber
	b.touch()
	return snapshot
}

// RestoreVersion appends a copy of an earlier snapshot as the newest
// version. History is never rewritten.
func (b *Bundle) RestoreVersion(versionNumber int) (ledger.Snapshot, error) {
	snapshot, err := b.ledger.Restore(versionNumber)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	b.meta.CurrentVersion = snapshot.VersionNumber
	b.touch()
	return snapshot, nil
}

// HasAnalyzableContent reports whether a generation request could be
// built from this bundle.
func (b *Bundle) HasAnalyzableContent() bool {
	return len(b.meta.Inputs) > 0 || b.meta.GoalText != ""
}

// InputIDs returns the ids of all current inputs
func (b *Bundle) InputIDs() []string {
	ids := make([]string, len(b.meta.Inputs))
	for i, desc := range b.meta.Inputs {
		ids[i] = desc.ID
	}
	return ids
}

// Metadata returns a copy of the project metadata
func (b *Bundle) Metadata() Metadata {
	meta := b.meta
	meta.Inputs = append([]InputDescriptor(nil), b.meta.Inputs...)
	if meta.Inputs == nil {
		meta.Inputs = []InputDescriptor{}
	}
	return meta
}

// Ledger exposes the bundle's version ledger
func (b *Bundle) Ledger() *ledger.Ledger {
	return b.ledger
}

// StagedAssets returns copies of blobs not yet persisted
func (b *Bundle) StagedAssets() map[string][]byte {
	out := make(map[string][]byte, len(b.staged))
	for id, content := range b.staged {
		out[id] = append([]byte(nil), content...)
	}
	return out
}

// ClearStaged marks staged blobs as persisted. The store calls this
// after a successful save.
func (b *Bundle) ClearStaged() {
	b.staged = make(map[string][]byte)
}

func (b *Bundle) touch() {
	b.meta.ModifiedAt = b.now()
}

package project

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/planweave/internal/errors"
	"github.com/felixgeelhaar/planweave/internal/plan"
)

func TestNewBundle(t *testing.T) {
	b := New("website-redesign")

	meta := b.Metadata()
	assert.Equal(t, "website-redesign", meta.Name)
	assert.False(t, meta.CreatedAt.IsZero())
	assert.Equal(t, meta.CreatedAt, meta.ModifiedAt)
	assert.Empty(t, meta.Inputs)
	assert.Zero(t, meta.CurrentVersion)
	assert.False(t, b.HasAnalyzableContent())
}

func TestAddInput(t *testing.T) {
	b := New("test")

	desc := b.AddInput("notes.md", "text", []byte("rough braindump"))

	assert.NotEmpty(t, desc.ID)
	assert.Equal(t, "notes.md", desc.Name)
	assert.Equal(t, "text", desc.Kind)
	assert.Equal(t, int64(len("rough braindump")), desc.Size)
	assert.True(t, b.HasAnalyzableContent())

	staged := b.StagedAssets()
	require.Contains(t, staged, desc.ID)
	assert.Equal(t, []byte("rough braindump"), staged[desc.ID])
}

func TestAddInputDeduplicatesByContent(t *testing.T) {
	b := New("test")

	first := b.AddInput("notes.md", "text", []byte("same content"))
	second := b.AddInput("copy-of-notes.md", "text", []byte("same content"))

	assert.Equal(t, first, second, "identical content reuses the original descriptor")
	assert.Len(t, b.Metadata().Inputs, 1)
	assert.Len(t, b.StagedAssets(), 1)
}

func TestAddInputDistinctContent(t *testing.T) {
	b := New("test")

	a := b.AddInput("a.md", "text", []byte("one"))
	c := b.AddInput("b.md", "text", []byte("two"))

	assert.NotEqual(t, a.ID, c.ID)
	assert.Len(t, b.Metadata().Inputs, 2)
}

func TestRemoveInput(t *testing.T) {
	b := New("test")
	desc := b.AddInput("notes.md", "text", []byte("content"))

	require.NoError(t, b.RemoveInput(desc.ID))

	assert.Empty(t, b.Metadata().Inputs)
	assert.Empty(t, b.StagedAssets())
	assert.False(t, b.HasAnalyzableContent())
}

func TestRemoveInputUnknown(t *testing.T) {
	b := New("test")

	err := b.RemoveInput("deadbeef")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeBundleInputMissing, errors.CodeOf(err))
}

func TestGoalTextAloneIsAnalyzable(t *testing.T) {
	b := New("test")
	assert.False(t, b.HasAnalyzableContent())

	b.SetGoal("launch the beta by October")

	assert.True(t, b.HasAnalyzableContent())
	assert.Equal(t, "launch the beta by October", b.Metadata().GoalText)
}

func TestSetAnalysisResult(t *testing.T) {
	b := New("test")
	b.SetPersona("pragmatic-pm")
	b.AddInput("notes.md", "text", []byte("content"))

	result := &plan.AnalysisResult{
		Plan:         plan.Tree{Description: "a plan", Milestones: []plan.Milestone{{Title: "M1"}}},
		ClarityScore: 0.8,
	}
	snapshot := b.SetAnalysisResult(result)

	assert.Equal(t, 1, snapshot.VersionNumber)
	assert.Equal(t, "pragmatic-pm", snapshot.PersonaLabel)
	assert.Equal(t, b.InputIDs(), snapshot.InputRefs)
	assert.Equal(t, 1, b.Metadata().CurrentVersion)
}

func TestRestoreVersionAppendsCopy(t *testing.T) {
	b := New("test")
	b.SetAnalysisResult(&plan.AnalysisResult{Plan: plan.Tree{Description: "first"}})
	b.SetAnalysisResult(&plan.AnalysisResult{Plan: plan.Tree{Description: "second"}})

	snapshot, err := b.RestoreVersion(1)
	require.NoError(t, err)

	assert.Equal(t, 3, snapshot.VersionNumber)
	assert.Equal(t, "first", snapshot.Plan.Description)
	assert.Equal(t, 3, b.Metadata().CurrentVersion)
	assert.Equal(t, 3, b.Ledger().Len(), "restore must not rewrite history")
}

func TestRestoreVersionUnknown(t *testing.T) {
	b := New("test")

	_, err := b.RestoreVersion(7)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLedgerVersionUnknown, errors.CodeOf(err))
	assert.Zero(t, b.Metadata().CurrentVersion)
}

func TestRehydrate(t *testing.T) {
	original := New("test")
	original.SetGoal("ship it")
	original.AddInput("notes.md", "text", []byte("content"))
	original.SetAnalysisResult(&plan.AnalysisResult{Plan: plan.Tree{Description: "v1"}})

	restored := Rehydrate(original.Metadata(), original.Ledger())

	assert.Equal(t, original.Metadata(), restored.Metadata())
	assert.Equal(t, 1, restored.Ledger().Len())
	assert.Empty(t, restored.StagedAssets(), "loaded bundles start with nothing staged")
}

func TestMetadataIsACopy(t *testing.T) {
	b := New("test")
	b.AddInput("notes.md", "text", []byte("content"))

	meta := b.Metadata()
	meta.Inputs[0].Name = "mutated"
	meta.Name = "mutated"

	assert.Equal(t, "notes.md", b.Metadata().Inputs[0].Name)
	assert.Equal(t, "test", b.Metadata().Name)
}

func TestModifiedAtAdvances(t *testing.T) {
	b := New("test")

	// Rebase both stamps onto a fake clock so the comparison does not
	// depend on wall-clock resolution.
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b.meta.CreatedAt = base
	b.meta.ModifiedAt = base
	step := 0
	b.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	b.SetGoal("refine")

	meta := b.Metadata()
	assert.True(t, meta.ModifiedAt.After(meta.CreatedAt))
	assert.Equal(t, base, meta.CreatedAt, "mutation must not touch CreatedAt")
}

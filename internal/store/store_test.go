package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/planweave/internal/errors"
	"github.com/felixgeelhaar/planweave/internal/plan"
	"github.com/felixgeelhaar/planweave/internal/project"
)

func newTestStore(t *testing.T) *PackageStore {
	t.Helper()
	return NewPackageStore(t.TempDir(), nil)
}

func seedBundle(t *testing.T) *project.Bundle {
	t.Helper()
	b := project.New("website")
	b.SetPersona("pragmatic-pm")
	b.SetGoal("relaunch the marketing site")
	b.AddInput("notes.md", "text", []byte("rough braindump"))
	b.SetAnalysisResult(&plan.AnalysisResult{
		Plan: plan.Tree{
			Description: "relaunch plan",
			Milestones:  []plan.Milestone{{Title: "Design"}},
		},
		ClarityScore:     0.75,
		UncertaintyFlags: []string{"no deadline given"},
	})
	return b
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	original := seedBundle(t)

	require.NoError(t, s.Save(original))

	loaded, err := s.Load("website")
	require.NoError(t, err)

	want, got := original.Metadata(), loaded.Metadata()
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Persona, got.Persona)
	assert.Equal(t, want.GoalText, got.GoalText)
	assert.Equal(t, want.CurrentVersion, got.CurrentVersion)
	require.Len(t, got.Inputs, 1)
	assert.Equal(t, want.Inputs[0].ID, got.Inputs[0].ID)
	assert.Equal(t, want.Inputs[0].Name, got.Inputs[0].Name)
	assert.True(t, got.ModifiedAt.Equal(want.ModifiedAt))
	require.Equal(t, 1, loaded.Ledger().Len())
	snapshot, err := loaded.Ledger().Latest()
	require.NoError(t, err)
	assert.Equal(t, "relaunch plan", snapshot.Plan.Description)
	assert.Equal(t, "pragmatic-pm", snapshot.PersonaLabel)
	assert.InDelta(t, 0.75, snapshot.ClarityScore, 1e-9)
}

func TestSaveWritesPackageLayout(t *testing.T) {
	s := newTestStore(t)
	b := seedBundle(t)
	inputID := b.Metadata().Inputs[0].ID

	require.NoError(t, s.Save(b))

	pkg := s.Path("website")
	assert.FileExists(t, filepath.Join(pkg, "metadata"))
	assert.FileExists(t, filepath.Join(pkg, "assets", inputID))
	assert.FileExists(t, filepath.Join(pkg, "versions", "v001"))
}

func TestSaveClearsStagedAssets(t *testing.T) {
	s := newTestStore(t)
	b := seedBundle(t)
	require.NotEmpty(t, b.StagedAssets())

	require.NoError(t, s.Save(b))

	assert.Empty(t, b.StagedAssets())
}

func TestSaveRewritesEverySnapshot(t *testing.T) {
	s := newTestStore(t)
	b := seedBundle(t)
	require.NoError(t, s.Save(b))

	// Damage v001 on disk; the next save holds the snapshot in memory
	// and must write it back out.
	v1 := filepath.Join(s.Path("website"), "versions", "v001")
	require.NoError(t, os.WriteFile(v1, []byte("garbage"), 0o644))

	b.SetAnalysisResult(&plan.AnalysisResult{Plan: plan.Tree{Description: "revised"}})
	require.NoError(t, s.Save(b))

	data, err := os.ReadFile(v1)
	require.NoError(t, err)
	assert.Contains(t, string(data), "relaunch plan", "damaged version file must be healed")
	assert.FileExists(t, filepath.Join(s.Path("website"), "versions", "v002"))
}

func TestLoadMissingPackage(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load("nope")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeBundleNotFound, errors.CodeOf(err))
}

func TestLoadCorruptMetadata(t *testing.T) {
	s := newTestStore(t)
	pkg := s.Path("broken")
	require.NoError(t, os.MkdirAll(pkg, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "metadata"), []byte("{not json"), 0o644))

	_, err := s.Load("broken")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeBundleCorrupt, errors.CodeOf(err))
}

func TestLoadSkipsUnreadableVersionFiles(t *testing.T) {
	s := newTestStore(t)
	b := seedBundle(t)
	b.SetAnalysisResult(&plan.AnalysisResult{Plan: plan.Tree{Description: "revised"}})
	require.NoError(t, s.Save(b))

	bad := filepath.Join(s.Path("website"), "versions", "v002")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))

	loaded, err := s.Load("website")
	require.NoError(t, err)

	assert.Equal(t, 1, loaded.Ledger().Len(), "corrupt snapshot is skipped, not fatal")
	assert.Equal(t, 1, loaded.Ledger().LatestVersionNumber())
}

func TestLoadUnreadableVersionsDir(t *testing.T) {
	s := newTestStore(t)
	b := project.New("blocked")
	b.SetGoal("a goal")
	require.NoError(t, s.Save(b))

	// Replace the versions directory with a plain file so ReadDir
	// fails with something other than ENOENT.
	versions := filepath.Join(s.Path("blocked"), "versions")
	require.NoError(t, os.RemoveAll(versions))
	require.NoError(t, os.WriteFile(versions, []byte("in the way"), 0o644))

	loaded, err := s.Load("blocked")
	require.NoError(t, err, "version history is lossy-tolerant, only metadata is fatal")
	assert.Equal(t, 0, loaded.Ledger().Len())
}

func TestLoadWithoutVersionsDir(t *testing.T) {
	s := newTestStore(t)
	b := project.New("fresh")
	b.SetGoal("just a goal, never analyzed")
	require.NoError(t, s.Save(b))
	require.NoError(t, os.RemoveAll(filepath.Join(s.Path("fresh"), "versions")))

	loaded, err := s.Load("fresh")
	require.NoError(t, err)

	assert.Equal(t, 0, loaded.Ledger().Len())
}

func TestReadAsset(t *testing.T) {
	s := newTestStore(t)
	b := seedBundle(t)
	inputID := b.Metadata().Inputs[0].ID
	require.NoError(t, s.Save(b))

	content, err := s.ReadAsset("website", inputID)
	require.NoError(t, err)
	assert.Equal(t, []byte("rough braindump"), content)
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(project.New("zebra")))
	require.NoError(t, s.Save(project.New("alpha")))

	names, err := s.List()
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "zebra"}, names)
}

func TestListEmptyRoot(t *testing.T) {
	s := NewPackageStore(filepath.Join(t.TempDir(), "missing"), nil)

	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(project.New("gone")))

	require.NoError(t, s.Delete("gone"))

	assert.False(t, s.Exists("gone"))
	err := s.Delete("gone")
	assert.Equal(t, errors.ErrCodeBundleNotFound, errors.CodeOf(err))
}

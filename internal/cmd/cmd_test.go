package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCommand executes the root command with args against a temp data
// directory and returns combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func useTempDataDir(t *testing.T) {
	t.Helper()
	prev := dataDir
	dataDir = t.TempDir()
	t.Cleanup(func() { dataDir = prev })
}

func TestNewAndList(t *testing.T) {
	useTempDataDir(t)

	out, err := runCommand(t, "new", "website-redesign", "--goal", "relaunch the site")
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if !strings.Contains(out, "Created project website-redesign") {
		t.Errorf("unexpected output: %s", out)
	}

	out, err = runCommand(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "website-redesign") {
		t.Errorf("project missing from list: %s", out)
	}
}

func TestNewRejectsDuplicate(t *testing.T) {
	useTempDataDir(t)

	if _, err := runCommand(t, "new", "dup"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCommand(t, "new", "dup"); err == nil {
		t.Error("expected error for duplicate project")
	}
}

func TestInputAddAndList(t *testing.T) {
	useTempDataDir(t)
	if _, err := runCommand(t, "new", "proj"); err != nil {
		t.Fatal(err)
	}

	notes := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(notes, []byte("rough braindump"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "input", "add", "proj", notes)
	if err != nil {
		t.Fatalf("input add failed: %v", err)
	}
	if !strings.Contains(out, "Added notes.md") {
		t.Errorf("unexpected output: %s", out)
	}

	out, err = runCommand(t, "input", "list", "proj")
	if err != nil {
		t.Fatalf("input list failed: %v", err)
	}
	if !strings.Contains(out, "notes.md") {
		t.Errorf("input missing from list: %s", out)
	}
}

func TestGoalUpdatesBundle(t *testing.T) {
	useTempDataDir(t)
	if _, err := runCommand(t, "new", "proj"); err != nil {
		t.Fatal(err)
	}

	if _, err := runCommand(t, "goal", "proj", "ship", "the", "beta"); err != nil {
		t.Fatalf("goal failed: %v", err)
	}

	b, err := openStore().Load("proj")
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Metadata().GoalText; got != "ship the beta" {
		t.Errorf("goal = %q", got)
	}
}

func TestVersionsEmptyProject(t *testing.T) {
	useTempDataDir(t)
	if _, err := runCommand(t, "new", "proj"); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "versions", "proj")
	if err != nil {
		t.Fatalf("versions failed: %v", err)
	}
	if !strings.Contains(out, "No versions yet") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestVersionsUnknownProject(t *testing.T) {
	useTempDataDir(t)

	if _, err := runCommand(t, "versions", "ghost"); err == nil {
		t.Error("expected error for unknown project")
	}
}

func TestPersonasListsBuiltins(t *testing.T) {
	out, err := runCommand(t, "personas")
	if err != nil {
		t.Fatalf("personas failed: %v", err)
	}
	if !strings.Contains(out, "pragmatic-pm") {
		t.Errorf("built-in persona missing: %s", out)
	}
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planweave/internal/diff"
	"github.com/felixgeelhaar/planweave/internal/ux"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <project>",
	Short: "List a project's plan versions",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersions,
}

var showCmd = &cobra.Command{
	Use:   "show <project> [version]",
	Short: "Show one plan version (latest by default)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runShow,
}

var diffHideUnchanged bool

var diffCmd = &cobra.Command{
	Use:   "diff <project> <version-a> <version-b>",
	Short: "Compare two plan versions structurally",
	Long: `Compare two versions of a project's plan.

Milestones, deliverables, and tasks are matched by title
(case-insensitive) level by level. Matched nodes are compared
underneath; everything else is reported as added or removed.

Examples:
  planweave diff website-redesign 1 2
  planweave diff website-redesign 1 3 --hide-unchanged`,
	Args: cobra.ExactArgs(3),
	RunE: runDiff,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <project> <version>",
	Short: "Restore an earlier version as the newest one",
	Long: `Append a copy of an earlier plan version to the ledger and make it
current. History is preserved: restoring never deletes versions.`,
	Args: cobra.ExactArgs(2),
	RunE: runRestore,
}

func runVersions(cmd *cobra.Command, args []string) error {
	s := openStore()
	b, err := s.Load(args[0])
	if err != nil {
		return err
	}
	snapshots := b.Ledger().Snapshots()

	if outputFormat != "text" {
		formatter, err := ux.NewFormatter(outputFormat, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return formatter.Format(snapshots)
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No versions yet. Run: planweave analyze "+args[0])
		return nil
	}
	current := b.Metadata().CurrentVersion
	for _, snap := range snapshots {
		marker := " "
		if snap.VersionNumber == current {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s v%03d  %s  clarity %.2f  %d tasks  %s\n",
			marker, snap.VersionNumber,
			snap.Timestamp.Format("2006-01-02 15:04"),
			snap.ClarityScore,
			snap.Plan.TaskCount(),
			snap.PersonaLabel)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	s := openStore()
	b, err := s.Load(args[0])
	if err != nil {
		return err
	}

	snapshot, err := b.Ledger().Latest()
	if len(args) == 2 {
		version, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		snapshot, err = b.Ledger().SnapshotByVersion(version)
	}
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		formatter, err := ux.NewFormatter(outputFormat, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return formatter.Format(snapshot)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "v%03d  clarity %.2f  %s\n", snapshot.VersionNumber, snapshot.ClarityScore, snapshot.PersonaLabel)
	if snapshot.Plan.Description != "" {
		fmt.Fprintf(out, "%s\n", snapshot.Plan.Description)
	}
	for _, m := range snapshot.Plan.Milestones {
		fmt.Fprintf(out, "\n%s\n", m.Title)
		for _, d := range m.Deliverables {
			fmt.Fprintf(out, "  %s\n", d.Title)
			for _, task := range d.Tasks {
				line := "    - " + task.Title
				if task.Estimate != "" {
					line += " (" + task.Estimate + ")"
				}
				if task.Flagged {
					line += " [flagged]"
				}
				fmt.Fprintln(out, line)
				for _, na := range task.NextActions {
					fmt.Fprintf(out, "      > %s\n", na.Title)
				}
			}
		}
	}
	for _, flag := range snapshot.UncertaintyFlags {
		fmt.Fprintf(out, "\n? %s", flag)
	}
	if len(snapshot.UncertaintyFlags) > 0 {
		fmt.Fprintln(out)
	}
	return nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	s := openStore()
	b, err := s.Load(args[0])
	if err != nil {
		return err
	}

	versionA, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid version %q", args[1])
	}
	versionB, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid version %q", args[2])
	}

	snapA, err := b.Ledger().SnapshotByVersion(versionA)
	if err != nil {
		return err
	}
	snapB, err := b.Ledger().SnapshotByVersion(versionB)
	if err != nil {
		return err
	}

	entries := diff.Diff(&snapA.Plan, &snapB.Plan)

	if outputFormat != "text" {
		formatter, err := ux.NewFormatter(outputFormat, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return formatter.Format(entries)
	}

	view := &ux.DiffView{NoColor: noColor, HideUnchanged: diffHideUnchanged}
	fmt.Fprint(cmd.OutOrStdout(), view.Render(entries))
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	s := openStore()
	b, err := s.Load(args[0])
	if err != nil {
		return err
	}

	version, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid version %q", args[1])
	}

	snapshot, err := b.RestoreVersion(version)
	if err != nil {
		return err
	}
	if err := s.Save(b); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Restored v%03d as v%03d\n", version, snapshot.VersionNumber)
	return nil
}

func init() {
	diffCmd.Flags().BoolVar(&diffHideUnchanged, "hide-unchanged", false, "omit unchanged entries")

	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(restoreCmd)
}

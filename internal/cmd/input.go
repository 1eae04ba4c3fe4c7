package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planweave/internal/ux"
)

var inputCmd = &cobra.Command{
	Use:   "input",
	Short: "Manage project inputs",
	Long: `Add, remove, and list the free-form inputs of a project.

Inputs are the raw material of an analysis: meeting notes, braindumps,
requirement fragments, anything textual. Each input is stored once,
addressed by its content hash.`,
}

var inputKind string

var inputAddCmd = &cobra.Command{
	Use:   "add <project> <file>...",
	Short: "Add input files to a project",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runInputAdd,
}

var inputRemoveCmd = &cobra.Command{
	Use:   "remove <project> <input-id>",
	Short: "Remove an input from a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runInputRemove,
}

var inputListCmd = &cobra.Command{
	Use:   "list <project>",
	Short: "List a project's inputs",
	Args:  cobra.ExactArgs(1),
	RunE:  runInputList,
}

func runInputAdd(cmd *cobra.Command, args []string) error {
	s := openStore()
	b, err := s.Load(args[0])
	if err != nil {
		return err
	}

	for _, path := range args[1:] {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read input %s: %w", path, err)
		}
		desc := b.AddInput(filepath.Base(path), inputKind, content)
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %d bytes)\n", desc.Name, shortID(desc.ID), desc.Size)
	}

	return s.Save(b)
}

func runInputRemove(cmd *cobra.Command, args []string) error {
	s := openStore()
	b, err := s.Load(args[0])
	if err != nil {
		return err
	}

	if err := b.RemoveInput(args[1]); err != nil {
		return err
	}
	if err := s.Save(b); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Input removed")
	return nil
}

func runInputList(cmd *cobra.Command, args []string) error {
	s := openStore()
	b, err := s.Load(args[0])
	if err != nil {
		return err
	}
	inputs := b.Metadata().Inputs

	if outputFormat != "text" {
		formatter, err := ux.NewFormatter(outputFormat, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return formatter.Format(inputs)
	}

	if len(inputs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No inputs")
		return nil
	}
	for _, input := range inputs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %-8s %6d bytes  %s\n",
			shortID(input.ID), input.Name, input.Kind, input.Size,
			input.AddedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// shortID truncates a content hash for display
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func init() {
	inputAddCmd.Flags().StringVar(&inputKind, "kind", "text", "input kind label")

	inputCmd.AddCommand(inputAddCmd)
	inputCmd.AddCommand(inputRemoveCmd)
	inputCmd.AddCommand(inputListCmd)
	rootCmd.AddCommand(inputCmd)
}

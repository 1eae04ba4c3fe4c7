package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planweave/internal/project"
	"github.com/felixgeelhaar/planweave/internal/ux"
)

var (
	newGoal    string
	newPersona string
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new project bundle",
	Long: `Create an empty project bundle in the data directory.

Examples:
  # Create a project and set its goal in one step
  planweave new website-redesign --goal "Relaunch the marketing site by Q4"

  # Create with a planning persona
  planweave new website-redesign --persona cautious-architect`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all project bundles",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var goalCmd = &cobra.Command{
	Use:   "goal <project> <text>",
	Short: "Set the project goal text",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runGoal,
}

func runNew(cmd *cobra.Command, args []string) error {
	name := args[0]
	s := openStore()
	if s.Exists(name) {
		return fmt.Errorf("project %q already exists", name)
	}

	b := project.New(name)
	if newGoal != "" {
		b.SetGoal(newGoal)
	}
	if newPersona != "" {
		b.SetPersona(newPersona)
	}
	if err := s.Save(b); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created project %s at %s\n", name, s.Path(name))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	names, err := openStore().List()
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		formatter, err := ux.NewFormatter(outputFormat, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return formatter.Format(names)
	}

	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No projects yet. Create one with: planweave new <name>")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runGoal(cmd *cobra.Command, args []string) error {
	s := openStore()
	b, err := s.Load(args[0])
	if err != nil {
		return err
	}

	b.SetGoal(strings.Join(args[1:], " "))
	if err := s.Save(b); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Goal updated")
	return nil
}

func init() {
	newCmd.Flags().StringVar(&newGoal, "goal", "", "project goal text")
	newCmd.Flags().StringVar(&newPersona, "persona", "", "planning persona label")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(goalCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planweave/internal/persona"
	"github.com/felixgeelhaar/planweave/internal/ux"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List available planning personas",
	Args:  cobra.NoArgs,
	RunE:  runPersonas,
}

var personaSetCmd = &cobra.Command{
	Use:   "persona <project> <label>",
	Short: "Set a project's planning persona",
	Args:  cobra.ExactArgs(2),
	RunE:  runPersonaSet,
}

func runPersonas(cmd *cobra.Command, args []string) error {
	catalog, err := persona.LoadCatalog(personaCatalog)
	if err != nil {
		return err
	}
	personas := catalog.List()

	if outputFormat != "text" {
		formatter, err := ux.NewFormatter(outputFormat, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return formatter.Format(personas)
	}

	for _, p := range personas {
		marker := " "
		if p.Label == persona.DefaultLabel {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %s\n", marker, p.Label, p.Description)
	}
	return nil
}

func runPersonaSet(cmd *cobra.Command, args []string) error {
	catalog, err := persona.LoadCatalog(personaCatalog)
	if err != nil {
		return err
	}
	p, err := catalog.Get(args[1])
	if err != nil {
		return err
	}

	s := openStore()
	b, err := s.Load(args[0])
	if err != nil {
		return err
	}

	b.SetPersona(p.Label)
	if err := s.Save(b); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Persona set to %s\n", p.DisplayName)
	return nil
}

func init() {
	personasCmd.Flags().StringVar(&personaCatalog, "personas", "", "path to a YAML persona catalog")

	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(personaSetCmd)
}

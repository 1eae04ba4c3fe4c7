package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planweave/internal/analysis"
	"github.com/felixgeelhaar/planweave/internal/errors"
	"github.com/felixgeelhaar/planweave/internal/gateway"
	"github.com/felixgeelhaar/planweave/internal/log"
	"github.com/felixgeelhaar/planweave/internal/persona"
)

var (
	analyzeModel   string
	analyzeTimeout time.Duration
	personaCatalog string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <project>",
	Short: "Run an AI analysis and append a new plan version",
	Long: `Send the project's goal and inputs to the AI backend and append the
resulting plan to the version ledger.

Requires ANTHROPIC_API_KEY in the environment.

Examples:
  planweave analyze website-redesign
  planweave analyze website-redesign --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s := openStore()
	b, err := s.Load(args[0])
	if err != nil {
		return err
	}

	gw, err := buildGateway()
	if err != nil {
		return err
	}
	personas, err := persona.LoadCatalog(personaCatalog)
	if err != nil {
		return err
	}

	orchestrator := analysis.New(gw, personas, s, log.DefaultLogger())
	orchestrator.SetObserver(func(state analysis.State) {
		if state.Phase == analysis.PhaseAnalyzing {
			fmt.Fprintf(cmd.ErrOrStderr(), "\r%s %3.0f%%", state.Message, state.Progress*100)
		}
	})

	if err := orchestrator.Submit(cmd.Context(), b); err != nil {
		return err
	}
	orchestrator.Wait()
	fmt.Fprintln(cmd.ErrOrStderr())

	state := orchestrator.State()
	switch state.Phase {
	case analysis.PhaseCompleted:
		if err := s.Save(b); err != nil {
			return err
		}
		snapshot, err := b.Ledger().Latest()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Version %d: clarity %.2f", snapshot.VersionNumber, snapshot.ClarityScore)
		if len(snapshot.UncertaintyFlags) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", %d open questions", len(snapshot.UncertaintyFlags))
		}
		fmt.Fprintln(cmd.OutOrStdout())
		for _, flag := range snapshot.UncertaintyFlags {
			fmt.Fprintf(cmd.OutOrStdout(), "  ? %s\n", flag)
		}
		return nil
	case analysis.PhaseIdle:
		fmt.Fprintln(cmd.OutOrStdout(), "Analysis cancelled")
		return nil
	default:
		return errors.NewGatewayError(state.Message, nil)
	}
}

func buildGateway() (gateway.Gateway, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeGatewayConfig, "ANTHROPIC_API_KEY is not set").
			WithSuggestion("Export your API key: export ANTHROPIC_API_KEY=sk-ant-...")
	}

	inner, err := gateway.NewAnthropicGateway(gateway.AnthropicConfig{
		APIKey:  apiKey,
		Model:   analyzeModel,
		Timeout: analyzeTimeout,
	}, log.DefaultLogger())
	if err != nil {
		return nil, err
	}

	return gateway.WithRetry(inner, gateway.DefaultRetryConfig(), log.DefaultLogger()), nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "model override for the AI backend")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "per-request timeout")
	analyzeCmd.Flags().StringVar(&personaCatalog, "personas", "", "path to a YAML persona catalog")

	rootCmd.AddCommand(analyzeCmd)
}

// Package cmd wires the planweave CLI together. Each command loads a
// project bundle from the package store, runs one operation against
// it, and saves the result back.
package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planweave/internal/log"
	"github.com/felixgeelhaar/planweave/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "planweave",
	Short: "AI-assisted project planning",
	Long: `planweave turns rough project notes into a structured, versioned plan.

Add free-form inputs to a project, pick a planning persona, and run an
analysis: the AI backend produces a hierarchy of milestones,
deliverables, tasks, and next actions, with a clarity score and a list
of its own uncertainties. Every analysis is appended to the project's
version ledger, so revisions can be compared and restored at any time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	dataDir      string
	outputFormat string
	logLevel     string
	noColor      bool
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellable context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding project bundles (default $HOME/.planweave)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	cobra.OnInitialize(func() {
		config := log.DefaultConfig()
		config.Level = log.ParseLevel(logLevel)
		log.SetDefaultLogger(log.New(config))
	})
}

func openStore() *store.PackageStore {
	dir := dataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			dir = ".planweave"
		} else {
			dir = filepath.Join(home, ".planweave")
		}
	}
	return store.NewPackageStore(dir, log.DefaultLogger())
}

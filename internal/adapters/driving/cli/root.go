// Package cli implements the sfx command line interface on cobra.
// Services are injected by the main package through SetServices before
// Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driving"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/logger"
)

// Services carries everything the commands need.
type Services struct {
	Search      driving.SearchService
	Indexer     driving.IndexerService
	Watch       driving.WatchService
	Maintenance driving.MaintenanceService

	// WatchDirs are the default directories for the watch command when
	// no arguments are given.
	WatchDirs []string

	// SearchLimit and SearchMinScore are the configured search defaults,
	// used when the search flags are left at zero. Zero values fall back
	// to the built-in defaults downstream.
	SearchLimit    int
	SearchMinScore float64
}

var (
	svc     Services
	verbose bool
)

// SetServices wires the backing services into the command tree.
func SetServices(s Services) {
	svc = s
}

var rootCmd = &cobra.Command{
	Use:   "sfx",
	Short: "Semantic search over your local files",
	Long: `sfx indexes local documents and images into a vector database
and retrieves them by meaning rather than filename. Text is embedded
through a local Ollama server; images go through a local cross-modal
model, so everything stays on the machine.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

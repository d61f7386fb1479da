package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the last indexing run",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if svc.Indexer == nil {
		return errors.New("indexer service not configured")
	}

	stats, ok, err := svc.Indexer.LastRunStats(context.Background())
	if err != nil {
		return fmt.Errorf("loading run stats: %w", err)
	}
	if !ok {
		cmd.Println("No indexing run recorded yet.")
		return nil
	}

	cmd.Printf("Run %s over %s\n", stats.RunID, stats.RootDir)
	cmd.Printf("  started: %s\n", stats.StartedAt.Format(time.RFC3339))
	cmd.Printf("  elapsed: %s\n", stats.Elapsed.Round(time.Millisecond))
	cmd.Printf("  indexed: %d (%d text, %d images)\n",
		stats.FilesProcessed, stats.TextProcessed, stats.ImageProcessed)
	cmd.Printf("  failed:  %d\n", stats.FilesFailed)
	cmd.Printf("  skipped: %d\n", stats.FilesSkipped)
	cmd.Printf("  rows:    %d\n", stats.DBInserts)
	return nil
}

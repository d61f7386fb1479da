package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Index a directory tree",
	Long: `Walks the directory, extracts and embeds every supported text file
and image, and stores the vectors. Without an argument the Downloads
directory is indexed. Hidden entries, common tool directories and
application bundles are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if svc.Indexer == nil {
		return errors.New("indexer service not configured")
	}

	var dir string
	if len(args) == 1 {
		dir = args[0]
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(home, "Downloads")
	}

	stats, err := svc.Indexer.IndexDirectory(context.Background(), dir)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Run %s finished in %s\n", stats.RunID, stats.Elapsed.Round(time.Millisecond))
	cmd.Printf("  indexed: %d (%d text, %d images)\n",
		stats.FilesProcessed, stats.TextProcessed, stats.ImageProcessed)
	cmd.Printf("  failed:  %d\n", stats.FilesFailed)
	cmd.Printf("  skipped: %d\n", stats.FilesSkipped)
	cmd.Printf("  rows:    %d\n", stats.DBInserts)
	for _, path := range stats.FailedFiles {
		cmd.Printf("  failed file: %s\n", path)
	}
	return nil
}

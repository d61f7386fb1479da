package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Keep the index in sync with live file changes",
	Long: `Watches directory trees and applies changes to the index as they
happen: new and modified files are re-embedded, deleted files are
removed. Without arguments the configured watch directories are used.
Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if svc.Watch == nil {
		return errors.New("watch service not configured")
	}

	dirs := args
	if len(dirs) == 0 {
		dirs = svc.WatchDirs
	}
	if len(dirs) == 0 {
		return errors.New("no directories to watch")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := svc.Watch.Watch(ctx, dirs...)
	if errors.Is(err, context.Canceled) {
		cmd.Println("watch stopped")
		return nil
	}
	return err
}

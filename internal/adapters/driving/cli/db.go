package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show vector database diagnostics",
	RunE:  runDBStats,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all indexed data, keeping the tables",
	RunE:  runClear,
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Drop the vector tables so they are recreated cleanly",
	Long: `Drops every vector table. Tables are recreated with the expected
schema the next time the engine opens the database. All indexed data
is lost; run index afterwards to rebuild.`,
	RunE: runRepair,
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(repairCmd)
}

func runDBStats(cmd *cobra.Command, _ []string) error {
	if svc.Maintenance == nil {
		return errors.New("maintenance service not configured")
	}

	stats, err := svc.Maintenance.DBStats(context.Background())
	if err != nil {
		return fmt.Errorf("reading database stats: %w", err)
	}

	cmd.Printf("Database: %s (%d bytes)\n", stats.Path, stats.SizeBytes)
	for _, table := range stats.Tables {
		if !table.Exists {
			cmd.Printf("  %-18s missing\n", table.Name)
			continue
		}
		cmd.Printf("  %-18s %6d rows  %d dims\n", table.Name, table.Rows, table.Dimension)
	}
	return nil
}

func runClear(cmd *cobra.Command, _ []string) error {
	if svc.Maintenance == nil {
		return errors.New("maintenance service not configured")
	}

	if err := svc.Maintenance.ClearIndex(context.Background()); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	cmd.Println("Index cleared.")
	return nil
}

func runRepair(cmd *cobra.Command, _ []string) error {
	if svc.Maintenance == nil {
		return errors.New("maintenance service not configured")
	}

	if err := svc.Maintenance.Repair(context.Background()); err != nil {
		return fmt.Errorf("repairing database: %w", err)
	}
	cmd.Println("Tables dropped; they will be recreated on next use.")
	return nil
}

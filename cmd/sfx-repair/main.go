// Command sfx-repair recovers a vector database whose schema no longer
// matches what the engine expects. It first tries to drop the tables
// through the store; if the database cannot even be opened, it removes
// the database file and its WAL sidecars so a fresh one is created on
// next use.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	configfile "github.com/yidyetebeje/semantic-file-explorer-aastu/internal/adapters/driven/config/file"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/adapters/driven/storage/sqlite"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.Load("")
	if err != nil {
		return err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dataDir = filepath.Join(home, ".sfx", "data")
	}

	dropErr := dropTables(dataDir)
	if dropErr == nil {
		fmt.Println("Tables dropped; they will be recreated on next use.")
		return nil
	}
	fmt.Fprintf(os.Stderr, "could not repair in place (%v), removing database files\n", dropErr)

	return removeDatabase(dataDir)
}

// dropTables opens the store and drops every table through it.
func dropTables(dataDir string) error {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	for _, table := range []driven.Table{driven.TableDocuments, driven.TableAmharic, driven.TableImages} {
		if err := store.DropTable(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

// removeDatabase deletes the database file and any WAL sidecars.
func removeDatabase(dataDir string) error {
	base := filepath.Join(dataDir, sqlite.DBFileName)
	for _, path := range []string{base, base + "-wal", base + "-shm"} {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("removing %s: %w", path, err)
		}
		fmt.Printf("removed %s\n", path)
	}
	return nil
}

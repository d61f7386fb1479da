package driving

import (
	"context"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
)

// IndexerService runs indexing over directory trees.
type IndexerService interface {
	// IndexDirectory walks dir, indexes every supported file and
	// returns the run's stats. The stats are also persisted as the
	// last run.
	IndexDirectory(ctx context.Context, dir string) (domain.IndexingStats, error)

	// IndexFile indexes or re-indexes a single file.
	IndexFile(ctx context.Context, path string) error

	// RemoveFile removes all index entries for a path.
	RemoveFile(ctx context.Context, path string) error

	// LastRunStats returns the stats of the most recent run. ok is
	// false when no run has completed yet.
	LastRunStats(ctx context.Context) (stats domain.IndexingStats, ok bool, err error)
}

// WatchService keeps the index in sync with live filesystem changes.
type WatchService interface {
	// Watch registers the directories and consumes events until ctx is
	// cancelled or the watcher is closed.
	Watch(ctx context.Context, dirs ...string) error
}

// MaintenanceService exposes index maintenance operations.
type MaintenanceService interface {
	// DBStats reports per-table diagnostics for the vector database.
	DBStats(ctx context.Context) (domain.DBStats, error)

	// ClearIndex removes all rows from every table, keeping schemas.
	ClearIndex(ctx context.Context) error

	// Repair drops incompatible tables so they are recreated with the
	// expected schema on next open.
	Repair(ctx context.Context) error
}

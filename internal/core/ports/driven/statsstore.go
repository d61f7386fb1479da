package driven

import (
	"context"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
)

// RunStatsStore persists the stats of the most recent indexing run.
// Concurrent runs overwrite each other; last writer wins.
type RunStatsStore interface {
	// SaveLastRun stores or replaces the last-run stats.
	SaveLastRun(ctx context.Context, stats domain.IndexingStats) error

	// LastRun retrieves the last-run stats. ok is false when no run has
	// completed yet.
	LastRun(ctx context.Context) (stats domain.IndexingStats, ok bool, err error)
}

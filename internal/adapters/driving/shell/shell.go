// Package shell exposes the engine's operations as a flat command
// surface for an embedding UI shell. Each method maps to one
// user-visible action; the shell owns presentation, this package owns
// nothing but delegation and argument shaping.
package shell

import (
	"context"
	"os"
	"path/filepath"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driving"
)

// Shell bundles the driving services behind the command surface.
type Shell struct {
	search      driving.SearchService
	indexer     driving.IndexerService
	maintenance driving.MaintenanceService
}

// New creates a command surface over the given services.
func New(search driving.SearchService, indexer driving.IndexerService, maintenance driving.MaintenanceService) *Shell {
	return &Shell{
		search:      search,
		indexer:     indexer,
		maintenance: maintenance,
	}
}

// Search runs a semantic query. Zero limit and minScore fall back to
// the engine defaults.
func (s *Shell) Search(ctx context.Context, query string, limit int, minScore float64, includeImages bool) ([]domain.SearchResult, error) {
	return s.search.Search(ctx, domain.SearchRequest{
		Query:         query,
		Limit:         limit,
		MinScore:      minScore,
		IncludeImages: includeImages,
	})
}

// IndexFolder indexes a directory tree and returns the run's stats.
func (s *Shell) IndexFolder(ctx context.Context, dir string) (domain.IndexingStats, error) {
	return s.indexer.IndexDirectory(ctx, dir)
}

// IndexDownloads indexes the user's Downloads directory.
func (s *Shell) IndexDownloads(ctx context.Context) (domain.IndexingStats, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return domain.IndexingStats{}, err
	}
	return s.indexer.IndexDirectory(ctx, filepath.Join(home, "Downloads"))
}

// LastRunStats returns the stats of the most recent indexing run. ok
// is false when no run has completed yet.
func (s *Shell) LastRunStats(ctx context.Context) (domain.IndexingStats, bool, error) {
	return s.indexer.LastRunStats(ctx)
}

// ClearIndex removes every indexed row, keeping the tables.
func (s *Shell) ClearIndex(ctx context.Context) error {
	return s.maintenance.ClearIndex(ctx)
}

// VectorDBStats reports per-table diagnostics for the vector database.
func (s *Shell) VectorDBStats(ctx context.Context) (domain.DBStats, error) {
	return s.maintenance.DBStats(ctx)
}

// RepairDatabase drops the vector tables so they are recreated with a
// clean schema on next open. All indexed data is lost.
func (s *Shell) RepairDatabase(ctx context.Context) error {
	return s.maintenance.Repair(ctx)
}

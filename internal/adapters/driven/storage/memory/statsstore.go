// Package memory provides in-memory implementations of driven port
// interfaces. Nothing survives a process restart.
package memory

import (
	"context"
	"sync"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
)

// Ensure RunStatsStore implements the interface.
var _ driven.RunStatsStore = (*RunStatsStore)(nil)

// RunStatsStore is an in-memory implementation of driven.RunStatsStore.
// Concurrent indexing runs overwrite each other; last writer wins.
type RunStatsStore struct {
	mu    sync.RWMutex
	last  domain.IndexingStats
	saved bool
}

// NewRunStatsStore creates a new in-memory run stats store.
func NewRunStatsStore() *RunStatsStore {
	return &RunStatsStore{}
}

// SaveLastRun stores or replaces the last-run stats.
func (s *RunStatsStore) SaveLastRun(_ context.Context, stats domain.IndexingStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = stats
	s.saved = true
	return nil
}

// LastRun retrieves the last-run stats.
func (s *RunStatsStore) LastRun(_ context.Context) (domain.IndexingStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.saved, nil
}

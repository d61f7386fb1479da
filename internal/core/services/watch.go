package services

import (
	"context"
	"fmt"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driving"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driving.WatchService = (*Watcher)(nil)

// Watcher keeps the index in sync with live filesystem changes by
// feeding watcher events through the indexing pipelines.
type Watcher struct {
	fw      driven.FileWatcher
	indexer driving.IndexerService
	// relevant decides whether a path is worth touching the index for.
	relevant func(path string) bool
}

// NewWatcher creates a watch service on top of an indexer.
func NewWatcher(fw driven.FileWatcher, indexer driving.IndexerService, extractor driven.TextExtractor) *Watcher {
	return &Watcher{
		fw:      fw,
		indexer: indexer,
		relevant: func(path string) bool {
			return extractor.IsSupportedText(path) || extractor.IsImage(path)
		},
	}
}

// Watch registers the directories and consumes events until ctx is
// cancelled or the watcher is closed. A failed upsert leaves any
// existing rows for the path in place.
func (w *Watcher) Watch(ctx context.Context, dirs ...string) error {
	logger.Section("Live Watch")

	for _, dir := range dirs {
		if err := w.fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		logger.Info("watching %s", dir)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fw.Events():
			if !ok {
				return domain.ErrWatcherClosed
			}
			w.handle(ctx, ev)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev domain.FileEvent) {
	if !w.relevant(ev.Path) {
		return
	}

	switch ev.Op {
	case domain.OpUpsert:
		if err := w.indexer.IndexFile(ctx, ev.Path); err != nil {
			if isSkip(err) {
				logger.Debug("skipping %s: %v", ev.Path, err)
				return
			}
			logger.Warn("reindexing %s: %v", ev.Path, err)
		}
	case domain.OpDelete:
		if err := w.indexer.RemoveFile(ctx, ev.Path); err != nil {
			logger.Warn("removing %s: %v", ev.Path, err)
		}
	}
}

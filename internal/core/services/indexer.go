package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driving"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/logger"
)

// batchSize is the number of files embedded per batch during a run.
const batchSize = 10

// excludedDirs are directory names the walk never descends into.
var excludedDirs = map[string]struct{}{
	"node_modules": {},
	"Library":      {},
	"System":       {},
	".git":         {},
	".cache":       {},
	".vscode":      {},
	".github":      {},
}

// bundlePatterns match macOS bundle directories, which look like
// directories on disk but should be treated as opaque.
var bundlePatterns = []string{
	"*.app",
	"*.bundle",
	"*.framework",
	"*.kext",
	"*.plugin",
}

// ProgressFunc reports indexing progress as files complete.
type ProgressFunc func(done, total int)

// Ensure Indexer implements the interface.
var _ driving.IndexerService = (*Indexer)(nil)

// Indexer walks directory trees and feeds the text and image pipelines
// in batches. It records the stats of the most recent run.
type Indexer struct {
	text     *TextPipeline
	images   *ImagePipeline
	runStats driven.RunStatsStore
	progress ProgressFunc
}

// IndexerOption customises an Indexer.
type IndexerOption func(*Indexer)

// WithProgress registers a callback invoked as files finish during
// IndexDirectory.
func WithProgress(fn ProgressFunc) IndexerOption {
	return func(ix *Indexer) {
		ix.progress = fn
	}
}

// NewIndexer creates an indexing service.
func NewIndexer(text *TextPipeline, images *ImagePipeline, runStats driven.RunStatsStore, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		text:     text,
		images:   images,
		runStats: runStats,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// IndexDirectory walks dir, indexes every supported file in batches and
// persists the run's stats as the last run.
func (ix *Indexer) IndexDirectory(ctx context.Context, dir string) (domain.IndexingStats, error) {
	defer logger.TimedSection("Indexing Run")()

	stats := domain.IndexingStats{
		RunID:     uuid.NewString(),
		RootDir:   dir,
		StartedAt: time.Now(),
	}
	logger.Info("run %s: walking %s", stats.RunID, dir)

	textFiles, imageFiles, skipped, err := ix.collect(dir)
	if err != nil {
		return stats, fmt.Errorf("walking %s: %w", dir, err)
	}
	stats.FilesSkipped = skipped
	logger.Info("found %d text files, %d image files (%d skipped)",
		len(textFiles), len(imageFiles), skipped)

	total := len(textFiles) + len(imageFiles)
	done := 0
	report := func(n int) {
		done += n
		if ix.progress != nil {
			ix.progress(done, total)
		}
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	// Each pipeline works through its batches sequentially, awaiting one
	// batch before starting the next; only the two pipelines overlap.
	// Embedding models are memory-heavy, so in-flight work stays bounded
	// by the batch size regardless of tree size.
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, batch := range batches(textFiles) {
			res := ix.drainTextBatch(ctx, batch)
			mu.Lock()
			stats.TextProcessed += len(res.indexed)
			stats.TextFailed += len(res.failed)
			stats.TextSkipped += res.skipped
			stats.FilesSkipped += res.skipped
			stats.DBInserts += res.inserts
			stats.IndexedFiles = append(stats.IndexedFiles, res.indexed...)
			stats.FailedFiles = append(stats.FailedFiles, res.failed...)
			report(len(batch))
			mu.Unlock()
		}
	}()
	go func() {
		defer wg.Done()
		for _, batch := range batches(imageFiles) {
			res := ix.drainImageBatch(ctx, batch)
			mu.Lock()
			stats.ImageProcessed += len(res.indexed)
			stats.ImageFailed += len(res.failed)
			stats.ImageSkipped += res.skipped
			stats.FilesSkipped += res.skipped
			stats.DBInserts += res.inserts
			stats.IndexedFiles = append(stats.IndexedFiles, res.indexed...)
			stats.FailedFiles = append(stats.FailedFiles, res.failed...)
			report(len(batch))
			mu.Unlock()
		}
	}()
	wg.Wait()

	stats.FilesProcessed = stats.TextProcessed + stats.ImageProcessed
	stats.FilesFailed = stats.TextFailed + stats.ImageFailed
	sort.Strings(stats.IndexedFiles)
	sort.Strings(stats.FailedFiles)
	stats.Elapsed = time.Since(stats.StartedAt)

	logger.Info("run %s: %d indexed, %d failed, %d skipped in %s",
		stats.RunID, stats.FilesProcessed, stats.FilesFailed, stats.FilesSkipped, stats.Elapsed)

	if err := ix.runStats.SaveLastRun(ctx, stats); err != nil {
		logger.Warn("saving run stats: %v", err)
	}
	return stats, nil
}

// IndexFile indexes a single file through whichever pipeline matches
// its extension.
func (ix *Indexer) IndexFile(ctx context.Context, path string) error {
	if ix.images.Enabled() && ix.text.extractor.IsImage(path) {
		_, failed := ix.images.IndexImages(ctx, []string{path})
		if err, ok := failed[path]; ok {
			return err
		}
		return nil
	}
	_, err := ix.text.IndexFile(ctx, path)
	return err
}

// RemoveFile removes all index entries for path from every table.
func (ix *Indexer) RemoveFile(ctx context.Context, path string) error {
	if err := ix.text.RemoveFile(ctx, path); err != nil {
		return err
	}
	return ix.images.RemoveFile(ctx, path)
}

// LastRunStats returns the persisted stats of the most recent run.
func (ix *Indexer) LastRunStats(ctx context.Context) (domain.IndexingStats, bool, error) {
	return ix.runStats.LastRun(ctx)
}

// collect walks dir and partitions the files into text and image
// candidates, counting everything the filters pass over.
func (ix *Indexer) collect(dir string) (textFiles, imageFiles []string, skipped int, err error) {
	indexImages := ix.images.Enabled()

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("walk %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if _, excluded := excludedDirs[name]; excluded {
				return fs.SkipDir
			}
			if strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if isBundle(name) {
				return fs.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			skipped++
			return nil
		}
		switch {
		case ix.text.extractor.IsSupportedText(path):
			textFiles = append(textFiles, path)
		case ix.text.extractor.IsImage(path):
			if indexImages {
				imageFiles = append(imageFiles, path)
			} else {
				skipped++
			}
		default:
			skipped++
		}
		return nil
	})
	if walkErr != nil {
		return nil, nil, 0, walkErr
	}
	return textFiles, imageFiles, skipped, nil
}

// batchResult accumulates the outcome of one drained batch.
type batchResult struct {
	indexed []string
	failed  []string
	skipped int
	inserts int
}

// drainTextBatch indexes one batch of text files. A panic anywhere in
// the batch marks every file in it as failed.
func (ix *Indexer) drainTextBatch(ctx context.Context, batch []string) (res batchResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("text batch panicked: %v", r)
			res = batchResult{failed: batch}
		}
	}()

	for _, path := range batch {
		inserted, err := ix.text.IndexFile(ctx, path)
		switch {
		case err == nil:
			res.indexed = append(res.indexed, path)
			res.inserts += inserted
		case isSkip(err):
			logger.Debug("skipping %s: %v", path, err)
			res.skipped++
		default:
			logger.Warn("indexing %s: %v", path, err)
			res.failed = append(res.failed, path)
		}
	}
	return res
}

// drainImageBatch indexes one batch of image files in a single
// embedding request. A panic marks every file in the batch as failed.
func (ix *Indexer) drainImageBatch(ctx context.Context, batch []string) (res batchResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("image batch panicked: %v", r)
			res = batchResult{failed: batch}
		}
	}()

	inserted, failed := ix.images.IndexImages(ctx, batch)
	res.inserts = inserted
	for _, path := range batch {
		if err, ok := failed[path]; ok {
			logger.Warn("indexing %s: %v", path, err)
			res.failed = append(res.failed, path)
			continue
		}
		res.indexed = append(res.indexed, path)
	}
	return res
}

// batches splits paths into slices of at most batchSize.
func batches(paths []string) [][]string {
	var out [][]string
	for len(paths) > 0 {
		n := batchSize
		if len(paths) < n {
			n = len(paths)
		}
		out = append(out, paths[:n])
		paths = paths[n:]
	}
	return out
}

// isSkip reports whether err means the file was passed over rather
// than failed.
func isSkip(err error) bool {
	return errors.Is(err, domain.ErrUnsupportedFile) ||
		errors.Is(err, domain.ErrEmptyContent) ||
		errors.Is(err, domain.ErrFileNotFound)
}

// isBundle matches macOS bundle directory names.
func isBundle(name string) bool {
	for _, pattern := range bundlePatterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

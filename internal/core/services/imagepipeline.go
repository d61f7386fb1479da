package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/logger"
)

// ImagePipeline indexes image files through the cross-modal model.
// One image contributes exactly one vector row; the content hash is
// computed over the raw bytes.
type ImagePipeline struct {
	extractor driven.TextExtractor
	embedder  driven.ImageEmbeddingService
	store     driven.VectorStore
}

// NewImagePipeline creates an image indexing pipeline. The embedder may
// be nil, in which case every call reports the model as unavailable.
func NewImagePipeline(
	extractor driven.TextExtractor,
	embedder driven.ImageEmbeddingService,
	store driven.VectorStore,
) *ImagePipeline {
	return &ImagePipeline{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
	}
}

// Enabled reports whether an image embedder is configured.
func (p *ImagePipeline) Enabled() bool {
	return p.embedder != nil
}

// IndexImages embeds and stores a batch of image files. The whole batch
// shares one embedding request; per-file storage errors are collected
// so one bad file does not fail the rest. The returned map holds the
// error for each failed path.
func (p *ImagePipeline) IndexImages(ctx context.Context, paths []string) (inserted int, failed map[string]error) {
	failed = make(map[string]error)
	if len(paths) == 0 {
		return 0, failed
	}
	if p.embedder == nil {
		for _, path := range paths {
			failed[path] = domain.ErrModelUnavailable
		}
		return 0, failed
	}

	vectors, err := p.embedder.EmbedImages(ctx, paths)
	if err != nil {
		// Batch-level failure: every file failed.
		for _, path := range paths {
			failed[path] = err
		}
		return 0, failed
	}
	if len(vectors) != len(paths) {
		err := fmt.Errorf("got %d vectors for %d images", len(vectors), len(paths))
		for _, path := range paths {
			failed[path] = err
		}
		return 0, failed
	}

	for i, path := range paths {
		hash, err := p.extractor.HashImage(path)
		if err != nil {
			failed[path] = err
			continue
		}
		rec := domain.EmbeddingRecord{
			FilePath:    path,
			ContentHash: hash,
			ChunkID:     0,
			Content:     filepath.Base(path),
			Vector:      vectors[i],
		}
		if err := p.store.Upsert(ctx, driven.TableImages, []domain.EmbeddingRecord{rec}); err != nil {
			failed[path] = fmt.Errorf("storing %s: %w", path, err)
			continue
		}
		inserted++
	}

	logger.Debug("indexed %d/%d images", inserted, len(paths))
	return inserted, failed
}

// RemoveFile deletes the image row for path.
func (p *ImagePipeline) RemoveFile(ctx context.Context, path string) error {
	if err := p.store.Delete(ctx, driven.TableImages, path); err != nil {
		return fmt.Errorf("removing %s from %s: %w", path, driven.TableImages, err)
	}
	return nil
}

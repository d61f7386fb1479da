package services

import (
	"context"
	"fmt"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/logger"
)

// TextPipeline indexes text files: extract, detect language, chunk,
// embed and store. Amharic text goes through the multilingual model
// into its own table; everything else goes through the general model.
type TextPipeline struct {
	extractor driven.TextExtractor
	chunker   driven.Chunker
	general   driven.EmbeddingService
	amharic   driven.EmbeddingService
	store     driven.VectorStore
}

// NewTextPipeline creates a text indexing pipeline.
func NewTextPipeline(
	extractor driven.TextExtractor,
	chunker driven.Chunker,
	general driven.EmbeddingService,
	amharic driven.EmbeddingService,
	store driven.VectorStore,
) *TextPipeline {
	return &TextPipeline{
		extractor: extractor,
		chunker:   chunker,
		general:   general,
		amharic:   amharic,
		store:     store,
	}
}

// route picks the embedding service and table for a language.
func (p *TextPipeline) route(lang domain.Language) (driven.EmbeddingService, driven.Table) {
	if lang == domain.LanguageAmharic {
		return p.amharic, driven.TableAmharic
	}
	return p.general, driven.TableDocuments
}

// IndexFile extracts, chunks, embeds and stores one text file. It
// returns the number of rows written. Extraction errors pass through
// unchanged so callers can distinguish skips (unsupported, empty) from
// failures.
func (p *TextPipeline) IndexFile(ctx context.Context, path string) (int, error) {
	ex, err := p.extractor.Extract(ctx, path)
	if err != nil {
		return 0, err
	}

	chunks, truncated := p.chunker.Split(ex.Text)
	if truncated {
		logger.Warn("chunk cap reached for %s, trailing text dropped", path)
	}
	if len(chunks) == 0 {
		return 0, domain.ErrEmptyContent
	}

	svc, table := p.route(ex.Language)

	vectors, err := svc.EmbedPassages(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embedding %s: %w", path, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedding %s: got %d vectors for %d chunks", path, len(vectors), len(chunks))
	}

	records := make([]domain.EmbeddingRecord, 0, len(chunks))
	for i, chunk := range chunks {
		records = append(records, domain.EmbeddingRecord{
			FilePath:    path,
			ContentHash: ex.Hash,
			ChunkID:     i,
			Content:     chunk,
			Vector:      vectors[i],
		})
	}

	if err := p.store.Upsert(ctx, table, records); err != nil {
		return 0, fmt.Errorf("storing %s: %w", path, err)
	}

	// A file that switched language must not linger in its old table.
	other := driven.TableDocuments
	if table == driven.TableDocuments {
		other = driven.TableAmharic
	}
	if err := p.store.Delete(ctx, other, path); err != nil {
		logger.Warn("removing %s from %s: %v", path, other, err)
	}

	logger.Debug("indexed %s: %d chunks into %s (%s)", path, len(records), table, ex.Language)
	return len(records), nil
}

// RemoveFile deletes all rows for path from both text tables.
func (p *TextPipeline) RemoveFile(ctx context.Context, path string) error {
	for _, table := range []driven.Table{driven.TableDocuments, driven.TableAmharic} {
		if err := p.store.Delete(ctx, table, path); err != nil {
			return fmt.Errorf("removing %s from %s: %w", path, table, err)
		}
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driving"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs semantic queries across the text tables and,
// when requested, the image table.
type SearchService struct {
	general driven.EmbeddingService
	amharic driven.EmbeddingService
	images  driven.ImageEmbeddingService
	store   driven.VectorStore
}

// NewSearchService creates a search service. The images parameter is
// optional (can be nil); image search degrades to text-only.
func NewSearchService(
	general driven.EmbeddingService,
	amharic driven.EmbeddingService,
	images driven.ImageEmbeddingService,
	store driven.VectorStore,
) *SearchService {
	return &SearchService{
		general: general,
		amharic: amharic,
		images:  images,
		store:   store,
	}
}

// Search embeds the query once per pipeline, scans each table and
// merges the scored hits. Both text tables are always searched; a file
// appears once with its best-scoring chunk.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) ([]domain.SearchResult, error) {
	defer logger.TimedSection("Search Execution")()

	req, err := req.Normalised()
	if err != nil {
		return nil, err
	}
	logger.Debug("Query: %q limit=%d minScore=%.2f images=%t",
		req.Query, req.Limit, req.MinScore, req.IncludeImages)

	// Over-fetch per table; dedup and the score floor both shrink the
	// final list.
	fetchLimit := req.Limit * 2

	var (
		wg         sync.WaitGroup
		generalRes []domain.SearchResult
		amharicRes []domain.SearchResult
		imageRes   []domain.SearchResult
		generalErr error
		amharicErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		generalRes, generalErr = s.searchText(ctx, s.general, driven.TableDocuments, req, fetchLimit)
	}()
	go func() {
		defer wg.Done()
		amharicRes, amharicErr = s.searchText(ctx, s.amharic, driven.TableAmharic, req, fetchLimit)
	}()

	if req.IncludeImages && s.images != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.searchImages(ctx, req, fetchLimit)
			if err != nil {
				// Image search degrades; text results still answer.
				logger.Warn("image search failed, text-only results: %v", err)
				return
			}
			imageRes = res
		}()
	}
	wg.Wait()

	if generalErr != nil {
		return nil, fmt.Errorf("searching %s: %w", driven.TableDocuments, generalErr)
	}
	if amharicErr != nil {
		return nil, fmt.Errorf("searching %s: %w", driven.TableAmharic, amharicErr)
	}

	merged := domain.MergeResults(req.Limit, generalRes, amharicRes, imageRes)
	logger.Debug("results: %d general, %d amharic, %d image, %d merged",
		len(generalRes), len(amharicRes), len(imageRes), len(merged))
	return merged, nil
}

// searchText embeds the query with one text pipeline and scans its table.
func (s *SearchService) searchText(
	ctx context.Context,
	svc driven.EmbeddingService,
	table driven.Table,
	req domain.SearchRequest,
	fetchLimit int,
) ([]domain.SearchResult, error) {
	vec, err := svc.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	hits, err := s.store.Search(ctx, table, vec, fetchLimit)
	if err != nil {
		return nil, err
	}
	return scoreHits(hits, req.MinScore, domain.ModalityText), nil
}

// searchImages embeds the query into the image space and scans the
// image table.
func (s *SearchService) searchImages(ctx context.Context, req domain.SearchRequest, fetchLimit int) ([]domain.SearchResult, error) {
	vec, err := s.images.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	hits, err := s.store.Search(ctx, driven.TableImages, vec, fetchLimit)
	if err != nil {
		return nil, err
	}
	return scoreHits(hits, req.MinScore, domain.ModalityImage), nil
}

// scoreHits converts distances to scores and applies the score floor.
// Text and image hits share one mapping so merged scores compare.
func scoreHits(hits []driven.VectorHit, minScore float64, modality domain.Modality) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		score := domain.ScoreFromDistance(hit.Distance)
		if score < minScore {
			continue
		}
		snippet := hit.Record.Content
		if modality == domain.ModalityImage {
			snippet = ""
		}
		results = append(results, domain.SearchResult{
			FilePath:     hit.Record.FilePath,
			Score:        score,
			ContentHash:  hit.Record.ContentHash,
			LastModified: hit.Record.LastModified,
			Snippet:      snippet,
			Modality:     modality,
		})
	}
	return results
}

package domain

import (
	"sort"
	"strings"
)

// Default search parameters. Callers passing zero values get these.
const (
	// DefaultSearchLimit is the number of results returned when the
	// caller does not specify one.
	DefaultSearchLimit = 20

	// DefaultMinScore is the relevance floor applied when the caller
	// does not specify one.
	DefaultMinScore = 0.6
)

// SearchRequest describes one query against the index.
type SearchRequest struct {
	// Query is the free-text query. Must be non-blank.
	Query string

	// Limit caps the number of results. Zero means DefaultSearchLimit.
	Limit int

	// MinScore drops results scoring below it. Zero means DefaultMinScore.
	MinScore float64

	// IncludeImages enables the cross-modal image search alongside text.
	IncludeImages bool
}

// Normalised returns a copy of the request with defaults applied and the
// query trimmed. It returns ErrEmptyQuery when the trimmed query is blank.
func (r SearchRequest) Normalised() (SearchRequest, error) {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return r, ErrEmptyQuery
	}
	if r.Limit <= 0 {
		r.Limit = DefaultSearchLimit
	}
	if r.MinScore <= 0 {
		r.MinScore = DefaultMinScore
	}
	return r, nil
}

// SearchResult is one scored match. Results are deduplicated per file:
// only the best-scoring chunk of a file survives.
type SearchResult struct {
	// FilePath is the absolute path of the matched file.
	FilePath string

	// Score is the relevance in [0,1], derived from cosine distance as
	// 1 - distance/2. Higher is better.
	Score float64

	// ContentHash is the fingerprint of the indexed content, useful
	// for change detection by callers.
	ContentHash string

	// LastModified is the Unix time the match was last indexed.
	LastModified int64

	// Snippet is the text of the best-matching chunk. Empty for images.
	Snippet string

	// Modality says whether the match came from a text table or the
	// image table.
	Modality Modality
}

// ScoreFromDistance converts a cosine distance in [0,2] to a relevance
// score in [0,1]. Both text and image hits use this same mapping so
// their scores are comparable when merged.
func ScoreFromDistance(distance float64) float64 {
	s := 1 - distance/2
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// MergeResults combines per-table result slices, keeps the best score
// per file, sorts by score descending and truncates to limit.
func MergeResults(limit int, lists ...[]SearchResult) []SearchResult {
	best := make(map[string]SearchResult)
	for _, list := range lists {
		for _, r := range list {
			if cur, ok := best[r.FilePath]; !ok || r.Score > cur.Score {
				best[r.FilePath] = r
			}
		}
	}

	merged := make([]SearchResult, 0, len(best))
	for _, r := range best {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].FilePath < merged[j].FilePath
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

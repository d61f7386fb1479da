package driving

import (
	"context"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
)

// SearchService provides semantic search to external actors.
type SearchService interface {
	// Search runs the query against the text tables, and the image
	// table when the request enables it. Results are deduplicated per
	// file and sorted by score descending.
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.SearchResult, error)
}

package driven

import (
	"context"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
)

// Table names a vector table within the store. Each table carries
// vectors of one fixed dimension.
type Table string

const (
	// TableDocuments holds general text vectors (384 dimensions).
	TableDocuments Table = "documents"

	// TableAmharic holds Amharic text vectors (384 dimensions).
	TableAmharic Table = "amharic_documents"

	// TableImages holds cross-modal image vectors (768 dimensions).
	TableImages Table = "images"
)

// VectorStore provides vector persistence and nearest-neighbour search.
// Backed by SQLite with brute-force cosine scanning.
type VectorStore interface {
	// Upsert replaces all rows for each record's FilePath with the
	// given records. Concurrent upserts for the same path are
	// serialised; the table never holds a mix of old and new chunks.
	// Records with empty vectors are skipped.
	Upsert(ctx context.Context, table Table, records []domain.EmbeddingRecord) error

	// Delete removes all rows for filePath. Deleting a path with no
	// rows is not an error.
	Delete(ctx context.Context, table Table, filePath string) error

	// Search finds the nearest rows to the query vector by cosine
	// distance, closest first.
	Search(ctx context.Context, table Table, query []float32, limit int) ([]VectorHit, error)

	// Count returns the number of rows in the table, or zero when the
	// table does not exist.
	Count(ctx context.Context, table Table) (int64, error)

	// Clear removes all rows from every table.
	Clear(ctx context.Context) error

	// DropTable removes a table entirely, schema included.
	DropTable(ctx context.Context, table Table) error

	// Stats reports per-table diagnostics. Missing tables are reported,
	// not errors.
	Stats(ctx context.Context) (domain.DBStats, error)

	// Close releases the underlying database.
	Close() error
}

// VectorHit represents a nearest-neighbour search result.
type VectorHit struct {
	// Record is the matched row, vector omitted.
	Record domain.EmbeddingRecord

	// Distance is the cosine distance to the query, in [0, 2].
	Distance float64
}

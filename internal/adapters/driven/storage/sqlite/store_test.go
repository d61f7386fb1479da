package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
)

// setupTestStore creates a store backed by a temp directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// vec builds a test vector of the table's dimension with a marker value.
func vec(dim int, marker float32) []float32 {
	v := make([]float32, dim)
	v[0] = marker
	v[1] = 1
	return v
}

// record builds a test record for the given table.
func record(table driven.Table, path string, chunk int, marker float32) domain.EmbeddingRecord {
	return domain.EmbeddingRecord{
		FilePath:    path,
		ContentHash: fmt.Sprintf("hash-%s-%d", path, chunk),
		ChunkID:     chunk,
		Content:     fmt.Sprintf("chunk %d of %s", chunk, path),
		Vector:      vec(Dimension(table), marker),
	}
}

func TestNewStore_CreatesTables(t *testing.T) {
	store := setupTestStore(t)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats.Tables, 3)
	for _, ts := range stats.Tables {
		assert.True(t, ts.Exists, "table %s should exist", ts.Name)
		assert.Zero(t, ts.Rows)
	}
}

func TestNewStore_ReopenExistingDB(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, driven.TableDocuments,
		[]domain.EmbeddingRecord{record(driven.TableDocuments, "/a.txt", 0, 1)}))
	require.NoError(t, store.Close())

	store2, err := NewStore(dir)
	require.NoError(t, err)
	defer store2.Close()

	n, err := store2.Count(ctx, driven.TableDocuments)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNewStore_SchemaMismatch(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	_, err = store.db.Exec("DROP TABLE documents")
	require.NoError(t, err)
	_, err = store.db.Exec("CREATE TABLE documents (id INTEGER PRIMARY KEY, wrong TEXT)")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = NewStore(dir)
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestUpsert_InsertAndReplace(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	recs := []domain.EmbeddingRecord{
		record(driven.TableDocuments, "/doc.txt", 0, 1),
		record(driven.TableDocuments, "/doc.txt", 1, 2),
		record(driven.TableDocuments, "/doc.txt", 2, 3),
	}
	require.NoError(t, store.Upsert(ctx, driven.TableDocuments, recs))

	n, err := store.Count(ctx, driven.TableDocuments)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// Re-upserting with fewer chunks replaces, never appends.
	require.NoError(t, store.Upsert(ctx, driven.TableDocuments, recs[:1]))
	n, err = store.Count(ctx, driven.TableDocuments)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpsert_SkipsEmptyVectors(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	recs := []domain.EmbeddingRecord{
		record(driven.TableDocuments, "/doc.txt", 0, 1),
		{FilePath: "/doc.txt", ChunkID: 1, Content: "no vector"},
	}
	require.NoError(t, store.Upsert(ctx, driven.TableDocuments, recs))

	n, err := store.Count(ctx, driven.TableDocuments)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	store := setupTestStore(t)

	rec := domain.EmbeddingRecord{FilePath: "/doc.txt", Vector: []float32{1, 2, 3}}
	err := store.Upsert(context.Background(), driven.TableDocuments, []domain.EmbeddingRecord{rec})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestUpsert_StampsLastModified(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	rec := record(driven.TableDocuments, "/doc.txt", 0, 1)
	require.NoError(t, store.Upsert(ctx, driven.TableDocuments, []domain.EmbeddingRecord{rec}))

	hits, err := store.Search(ctx, driven.TableDocuments, rec.Vector, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	first := hits[0].Record.LastModified
	assert.Positive(t, first)

	// A record's own LastModified is ignored; the store stamps its own.
	rec.LastModified = 1
	require.NoError(t, store.Upsert(ctx, driven.TableDocuments, []domain.EmbeddingRecord{rec}))

	hits, err = store.Search(ctx, driven.TableDocuments, rec.Vector, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.GreaterOrEqual(t, hits[0].Record.LastModified, first)
}

func TestUpsert_ConcurrentSamePath(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(marker float32) {
			defer wg.Done()
			recs := []domain.EmbeddingRecord{
				record(driven.TableDocuments, "/race.txt", 0, marker),
				record(driven.TableDocuments, "/race.txt", 1, marker),
			}
			assert.NoError(t, store.Upsert(ctx, driven.TableDocuments, recs))
		}(float32(i + 1))
	}
	wg.Wait()

	// Whichever writer won, the table holds exactly one generation.
	n, err := store.Count(ctx, driven.TableDocuments)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	hits, err := store.Search(ctx, driven.TableDocuments, vec(384, 1), 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
}

func TestDelete_RemovesAllRowsForPath(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, driven.TableDocuments, []domain.EmbeddingRecord{
		record(driven.TableDocuments, "/a.txt", 0, 1),
		record(driven.TableDocuments, "/a.txt", 1, 2),
		record(driven.TableDocuments, "/b.txt", 0, 3),
	}))

	require.NoError(t, store.Delete(ctx, driven.TableDocuments, "/a.txt"))

	n, err := store.Count(ctx, driven.TableDocuments)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDelete_MissingPathIsNoError(t *testing.T) {
	store := setupTestStore(t)

	err := store.Delete(context.Background(), driven.TableDocuments, "/never-indexed.txt")
	assert.NoError(t, err)
}

func TestSearch_NearestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Three orthogonal-ish vectors; the query matches /near.txt exactly.
	near := vec(384, 5)
	far := make([]float32, 384)
	far[2] = 1
	mid := make([]float32, 384)
	mid[0] = 1
	mid[2] = 1

	require.NoError(t, store.Upsert(ctx, driven.TableDocuments, []domain.EmbeddingRecord{
		{FilePath: "/near.txt", ContentHash: "h1", Content: "near", Vector: near},
		{FilePath: "/far.txt", ContentHash: "h2", Content: "far", Vector: far},
		{FilePath: "/mid.txt", ContentHash: "h3", Content: "mid", Vector: mid},
	}))

	hits, err := store.Search(ctx, driven.TableDocuments, near, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "/near.txt", hits[0].Record.FilePath)
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)
	assert.Equal(t, "/far.txt", hits[2].Record.FilePath)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i].Distance, hits[i-1].Distance)
	}
}

func TestSearch_LimitApplied(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var recs []domain.EmbeddingRecord
	for i := 0; i < 10; i++ {
		recs = append(recs, record(driven.TableDocuments, fmt.Sprintf("/f%d.txt", i), 0, float32(i+1)))
	}
	require.NoError(t, store.Upsert(ctx, driven.TableDocuments, recs))

	hits, err := store.Search(ctx, driven.TableDocuments, vec(384, 1), 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Search(context.Background(), driven.TableImages, vec(384, 1), 5)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_EmptyTable(t *testing.T) {
	store := setupTestStore(t)

	hits, err := store.Search(context.Background(), driven.TableDocuments, vec(384, 1), 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestTables_AreIsolated(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, driven.TableDocuments,
		[]domain.EmbeddingRecord{record(driven.TableDocuments, "/en.txt", 0, 1)}))
	require.NoError(t, store.Upsert(ctx, driven.TableAmharic,
		[]domain.EmbeddingRecord{record(driven.TableAmharic, "/am.txt", 0, 1)}))
	require.NoError(t, store.Upsert(ctx, driven.TableImages,
		[]domain.EmbeddingRecord{record(driven.TableImages, "/cat.png", 0, 1)}))

	for _, table := range []driven.Table{driven.TableDocuments, driven.TableAmharic, driven.TableImages} {
		n, err := store.Count(ctx, table)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "table %s", table)
	}

	require.NoError(t, store.Delete(ctx, driven.TableDocuments, "/en.txt"))
	n, err := store.Count(ctx, driven.TableAmharic)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestClear_EmptiesAllTables(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, driven.TableDocuments,
		[]domain.EmbeddingRecord{record(driven.TableDocuments, "/a.txt", 0, 1)}))
	require.NoError(t, store.Upsert(ctx, driven.TableImages,
		[]domain.EmbeddingRecord{record(driven.TableImages, "/b.png", 0, 1)}))

	require.NoError(t, store.Clear(ctx))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	for _, ts := range stats.Tables {
		assert.True(t, ts.Exists)
		assert.Zero(t, ts.Rows, "table %s", ts.Name)
	}
}

func TestDropTable_ThenCountIsZero(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, driven.TableDocuments,
		[]domain.EmbeddingRecord{record(driven.TableDocuments, "/a.txt", 0, 1)}))
	require.NoError(t, store.DropTable(ctx, driven.TableDocuments))

	n, err := store.Count(ctx, driven.TableDocuments)
	require.NoError(t, err)
	assert.Zero(t, n)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	for _, ts := range stats.Tables {
		if ts.Name == string(driven.TableDocuments) {
			assert.False(t, ts.Exists)
		}
	}
}

func TestDropTable_RecreatedOnReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.DropTable(ctx, driven.TableImages))
	require.NoError(t, store.Close())

	store2, err := NewStore(dir)
	require.NoError(t, err)
	defer store2.Close()

	stats, err := store2.Stats(ctx)
	require.NoError(t, err)
	for _, ts := range stats.Tables {
		assert.True(t, ts.Exists, "table %s", ts.Name)
	}
}

func TestStore_ClosedGuard(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Close())

	ctx := context.Background()
	err := store.Upsert(ctx, driven.TableDocuments, nil)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
	_, err = store.Search(ctx, driven.TableDocuments, vec(384, 1), 1)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
	_, err = store.Count(ctx, driven.TableDocuments)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0.1, -2.5, 3.75, 0, 1e-7}
	out := bytesToFloat32Slice(float32SliceToBytes(in))
	assert.Equal(t, in, out)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestCosineDistance(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}
	c := []float32{-1, 0, 0}

	assert.InDelta(t, 0, cosineDistance(a, a), 1e-9)
	assert.InDelta(t, 1, cosineDistance(a, b), 1e-9)
	assert.InDelta(t, 2, cosineDistance(a, c), 1e-9)
	assert.Equal(t, 2.0, cosineDistance(a, []float32{0, 0, 0}))
}

// Package sqlite provides the SQLite-backed vector store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. It stores
// embeddings as little-endian float32 BLOBs in three tables, one per
// pipeline:
//
//   - documents: general text chunks, 384 dimensions
//   - amharic_documents: Amharic text chunks, 384 dimensions
//   - images: cross-modal image vectors, 768 dimensions
//
// Nearest-neighbour search is a brute-force cosine scan. The index is
// personal-corpus sized; a scan over tens of thousands of rows is
// cheaper than maintaining an ANN structure.
//
// # Schema
//
// Table definitions live in the schema/ directory and are applied
// idempotently on every open. Existing tables are validated column by
// column; a mismatch surfaces domain.ErrSchemaMismatch so callers can
// run repair.
//
// # Data Location
//
// By default, the database is stored at ~/.sfx/data/vectors.db
//
// # Thread Safety
//
// All operations are thread-safe. Same-path upserts are serialised
// through sharded locks so a table never holds a mix of old and new
// chunks for one file.
package sqlite

package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/adapters/driven/storage/sqlite/schema"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DBFileName is the vector database file name inside the data directory.
const DBFileName = "vectors.db"

// pathLockShards is the number of sharded upsert locks.
const pathLockShards = 64

// tableDimensions maps each table to the vector dimension it carries.
var tableDimensions = map[driven.Table]int{
	driven.TableDocuments: 384,
	driven.TableAmharic:   384,
	driven.TableImages:    768,
}

// expectedColumns is the schema every vector table must have, in order.
var expectedColumns = []struct {
	name string
	typ  string
}{
	{"id", "INTEGER"},
	{"file_path", "TEXT"},
	{"content_hash", "TEXT"},
	{"chunk_id", "INTEGER"},
	{"content", "TEXT"},
	{"embedding", "BLOB"},
	{"last_modified", "INTEGER"},
}

// Store is the SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string

	mu     sync.RWMutex
	closed bool

	pathLocks [pathLockShards]sync.Mutex
}

// NewStore creates a vector store at the specified data directory.
// If dataDir is empty, defaults to ~/.sfx/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sfx", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.validateSchemas(); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.applySchema(schema.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Dimension returns the vector dimension the table carries.
func Dimension(table driven.Table) int {
	return tableDimensions[table]
}

// applySchema executes every .sql file in order. Definitions are
// idempotent, so a dropped table is recreated on the next open.
func (s *Store) applySchema(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading schema directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing schema %s: %w", name, err)
		}
	}
	return nil
}

// validateSchemas checks every existing vector table against the
// expected column layout. Missing tables are fine; they are created by
// applySchema. A table with the wrong columns surfaces
// domain.ErrSchemaMismatch so callers can run repair.
func (s *Store) validateSchemas() error {
	for table := range tableDimensions {
		exists, err := s.tableExists(string(table))
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		if err := s.validateTable(string(table)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) tableExists(name string) (bool, error) {
	var n int
	row := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("checking table %s: %w", name, err)
	}
	return n > 0, nil
}

func (s *Store) validateTable(name string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", name))
	if err != nil {
		return fmt.Errorf("reading table info for %s: %w", name, err)
	}
	defer rows.Close()

	type column struct {
		name string
		typ  string
	}
	var cols []column
	for rows.Next() {
		var (
			cid        int
			colName    string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &defaultVal, &pk); err != nil {
			return fmt.Errorf("scanning table info for %s: %w", name, err)
		}
		cols = append(cols, column{name: colName, typ: strings.ToUpper(colType)})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading table info for %s: %w", name, err)
	}

	if len(cols) != len(expectedColumns) {
		return fmt.Errorf("table %s has %d columns, want %d: %w",
			name, len(cols), len(expectedColumns), domain.ErrSchemaMismatch)
	}
	for i, want := range expectedColumns {
		if cols[i].name != want.name || cols[i].typ != want.typ {
			return fmt.Errorf("table %s column %d is %s %s, want %s %s: %w",
				name, i, cols[i].name, cols[i].typ, want.name, want.typ,
				domain.ErrSchemaMismatch)
		}
	}
	return nil
}

// guard returns ErrStoreClosed after Close.
func (s *Store) guard() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	return nil
}

// pathLock returns the shard lock for a table/path pair.
func (s *Store) pathLock(table driven.Table, filePath string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(table))
	h.Write([]byte(filePath))
	return &s.pathLocks[h.Sum32()%pathLockShards]
}

// Upsert replaces all rows for each record's FilePath with the given
// records, atomically per path. Records with empty vectors are skipped
// with a warning; a wrong-length vector is an error.
func (s *Store) Upsert(ctx context.Context, table driven.Table, records []domain.EmbeddingRecord) error {
	if err := s.guard(); err != nil {
		return err
	}
	dim, ok := tableDimensions[table]
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}

	// Group by path so each path is replaced in one transaction.
	byPath := make(map[string][]domain.EmbeddingRecord)
	for _, rec := range records {
		if len(rec.Vector) == 0 {
			logger.Warn("skipping record with empty embedding: %s chunk %d", rec.FilePath, rec.ChunkID)
			continue
		}
		if len(rec.Vector) != dim {
			return fmt.Errorf("record %s chunk %d has %d dimensions, table %s wants %d: %w",
				rec.FilePath, rec.ChunkID, len(rec.Vector), table, dim, domain.ErrDimensionMismatch)
		}
		byPath[rec.FilePath] = append(byPath[rec.FilePath], rec)
	}

	for filePath, recs := range byPath {
		if err := s.upsertPath(ctx, table, filePath, recs); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) upsertPath(ctx context.Context, table driven.Table, filePath string, records []domain.EmbeddingRecord) error {
	lock := s.pathLock(table, filePath)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// SQLite has no native upsert for multi-row replacement; delete
	// then insert inside one transaction gives the same guarantee.
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE file_path = ?", table), filePath); err != nil {
		return fmt.Errorf("deleting old rows for %s: %w", filePath, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (file_path, content_hash, chunk_id, content, embedding, last_modified) VALUES (?, ?, ?, ?, ?, ?)",
		table))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	// Every upsert stamps a fresh timestamp so callers can tell when a
	// path was last (re)indexed.
	now := time.Now().Unix()
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.FilePath, rec.ContentHash, rec.ChunkID, rec.Content,
			float32SliceToBytes(rec.Vector), now); err != nil {
			return fmt.Errorf("inserting chunk %d for %s: %w", rec.ChunkID, rec.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert for %s: %w", filePath, err)
	}
	return nil
}

// Delete removes all rows for filePath. Deleting a path with no rows is
// not an error.
func (s *Store) Delete(ctx context.Context, table driven.Table, filePath string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if _, ok := tableDimensions[table]; !ok {
		return fmt.Errorf("unknown table %q", table)
	}

	lock := s.pathLock(table, filePath)
	lock.Lock()
	defer lock.Unlock()

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE file_path = ?", table), filePath)
	if err != nil {
		return fmt.Errorf("deleting rows for %s: %w", filePath, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		logger.Debug("delete for %s matched no rows in %s", filePath, table)
	}
	return nil
}

// Search finds the nearest rows to the query vector by cosine distance,
// closest first. The whole table is scanned; vectors never leave this
// method.
func (s *Store) Search(ctx context.Context, table driven.Table, query []float32, limit int) ([]driven.VectorHit, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	dim, ok := tableDimensions[table]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	if len(query) != dim {
		return nil, fmt.Errorf("query has %d dimensions, table %s wants %d: %w",
			len(query), table, dim, domain.ErrDimensionMismatch)
	}
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT file_path, content_hash, chunk_id, content, embedding, last_modified FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("scanning table %s: %w", table, err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var (
			rec  domain.EmbeddingRecord
			blob []byte
		)
		if err := rows.Scan(&rec.FilePath, &rec.ContentHash, &rec.ChunkID, &rec.Content, &blob, &rec.LastModified); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		vec := bytesToFloat32Slice(blob)
		if len(vec) != dim {
			// A short blob means the row predates the current schema.
			logger.Warn("row for %s has %d dimensions, expected %d; skipping", rec.FilePath, len(vec), dim)
			continue
		}
		hits = append(hits, driven.VectorHit{
			Record:   rec,
			Distance: cosineDistance(query, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Record.FilePath < hits[j].Record.FilePath
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Count returns the number of rows in the table, or zero when the table
// does not exist.
func (s *Store) Count(ctx context.Context, table driven.Table) (int64, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	exists, err := s.tableExists(string(table))
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	var n int64
	row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows in %s: %w", table, err)
	}
	return n, nil
}

// Clear removes all rows from every table, keeping schemas.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.guard(); err != nil {
		return err
	}
	for table := range tableDimensions {
		exists, err := s.tableExists(string(table))
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("clearing table %s: %w", table, err)
		}
	}
	return nil
}

// DropTable removes a table entirely, schema included. Dropping a
// missing table is not an error.
func (s *Store) DropTable(ctx context.Context, table driven.Table) error {
	if err := s.guard(); err != nil {
		return err
	}
	if _, ok := tableDimensions[table]; !ok {
		return fmt.Errorf("unknown table %q", table)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
		return fmt.Errorf("dropping table %s: %w", table, err)
	}
	return nil
}

// Stats reports per-table diagnostics. Missing tables are reported, not
// errors.
func (s *Store) Stats(ctx context.Context) (domain.DBStats, error) {
	if err := s.guard(); err != nil {
		return domain.DBStats{}, err
	}

	stats := domain.DBStats{Path: s.path}
	if info, err := os.Stat(s.path); err == nil {
		stats.SizeBytes = info.Size()
	}

	for _, table := range []driven.Table{driven.TableDocuments, driven.TableAmharic, driven.TableImages} {
		ts := domain.TableStats{
			Name:      string(table),
			Dimension: tableDimensions[table],
		}
		exists, err := s.tableExists(string(table))
		if err != nil {
			return domain.DBStats{}, err
		}
		ts.Exists = exists
		if exists {
			n, err := s.Count(ctx, table)
			if err != nil {
				return domain.DBStats{}, err
			}
			ts.Rows = n
		}
		stats.Tables = append(stats.Tables, ts)
	}
	return stats, nil
}

// cosineDistance computes 1 - cosine similarity. A zero-norm vector is
// maximally distant.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
)

// fakeEmbedder is an in-memory EmbeddingService that derives a
// deterministic vector from the text length.
type fakeEmbedder struct {
	mu       sync.Mutex
	dims     int
	queries  []string
	passages [][]string
	err      error
}

func newFakeEmbedder(dims int) *fakeEmbedder {
	return &fakeEmbedder{dims: dims}
}

func (f *fakeEmbedder) vector(text string) []float32 {
	vec := make([]float32, f.dims)
	vec[0] = float32(utf8.RuneCountInString(text))
	return vec
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, text)
	return f.vector(text), nil
}

func (f *fakeEmbedder) EmbedPassages(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.passages = append(f.passages, texts)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vector(t)
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int            { return f.dims }
func (f *fakeEmbedder) ModelName() string          { return "fake" }
func (f *fakeEmbedder) Ping(context.Context) error { return f.err }
func (f *fakeEmbedder) Close() error               { return nil }

// fakeImageEmbedder is an in-memory ImageEmbeddingService.
type fakeImageEmbedder struct {
	mu      sync.Mutex
	dims    int
	batches [][]string
	queries []string
	err     error
	// panicOn triggers a panic when this path appears in a batch.
	panicOn string
}

func newFakeImageEmbedder(dims int) *fakeImageEmbedder {
	return &fakeImageEmbedder{dims: dims}
}

func (f *fakeImageEmbedder) EmbedImages(_ context.Context, paths []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, paths)
	out := make([][]float32, len(paths))
	for i, p := range paths {
		if f.panicOn != "" && p == f.panicOn {
			panic("embedder crashed on " + p)
		}
		vec := make([]float32, f.dims)
		vec[0] = float32(len(p))
		out[i] = vec
	}
	return out, nil
}

func (f *fakeImageEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, text)
	vec := make([]float32, f.dims)
	vec[0] = 1
	return vec, nil
}

func (f *fakeImageEmbedder) Dimensions() int            { return f.dims }
func (f *fakeImageEmbedder) ModelName() string          { return "fake-clip" }
func (f *fakeImageEmbedder) Ping(context.Context) error { return f.err }
func (f *fakeImageEmbedder) Close() error               { return nil }

// fakeStore is an in-memory VectorStore keyed by table and path.
// Search results are injected per table through the hits field.
type fakeStore struct {
	mu        sync.Mutex
	rows      map[driven.Table]map[string][]domain.EmbeddingRecord
	hits      map[driven.Table][]driven.VectorHit
	upsertErr error
	searchErr map[driven.Table]error
	dropped   []driven.Table
	cleared   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:      make(map[driven.Table]map[string][]domain.EmbeddingRecord),
		hits:      make(map[driven.Table][]driven.VectorHit),
		searchErr: make(map[driven.Table]error),
	}
}

func (f *fakeStore) Upsert(_ context.Context, table driven.Table, records []domain.EmbeddingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.rows[table] == nil {
		f.rows[table] = make(map[string][]domain.EmbeddingRecord)
	}
	byPath := make(map[string][]domain.EmbeddingRecord)
	for _, rec := range records {
		byPath[rec.FilePath] = append(byPath[rec.FilePath], rec)
	}
	for path, recs := range byPath {
		f.rows[table][path] = recs
	}
	return nil
}

func (f *fakeStore) Delete(_ context.Context, table driven.Table, filePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows[table] != nil {
		delete(f.rows[table], filePath)
	}
	return nil
}

func (f *fakeStore) Search(_ context.Context, table driven.Table, _ []float32, limit int) ([]driven.VectorHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.searchErr[table]; err != nil {
		return nil, err
	}
	hits := f.hits[table]
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (f *fakeStore) Count(_ context.Context, table driven.Table) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, recs := range f.rows[table] {
		n += int64(len(recs))
	}
	return n, nil
}

func (f *fakeStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = true
	f.rows = make(map[driven.Table]map[string][]domain.EmbeddingRecord)
	return nil
}

func (f *fakeStore) DropTable(_ context.Context, table driven.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropped = append(f.dropped, table)
	delete(f.rows, table)
	return nil
}

func (f *fakeStore) Stats(context.Context) (domain.DBStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := domain.DBStats{Path: "fake"}
	for _, table := range []driven.Table{driven.TableDocuments, driven.TableAmharic, driven.TableImages} {
		var n int64
		for _, recs := range f.rows[table] {
			n += int64(len(recs))
		}
		stats.Tables = append(stats.Tables, domain.TableStats{
			Name:   string(table),
			Rows:   n,
			Exists: true,
		})
	}
	return stats, nil
}

func (f *fakeStore) Close() error { return nil }

// paths returns the sorted row keys for a table.
func (f *fakeStore) paths(table driven.Table) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.rows[table]))
	for p := range f.rows[table] {
		out = append(out, p)
	}
	return out
}

// diskExtractor is a TextExtractor over real files, with the language
// decided by a marker substring instead of a detector.
type diskExtractor struct{}

func (diskExtractor) Extract(_ context.Context, path string) (driven.TextExtraction, error) {
	if !(diskExtractor{}).IsSupportedText(path) {
		return driven.TextExtraction{}, domain.ErrUnsupportedFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return driven.TextExtraction{}, domain.ErrFileNotFound
		}
		return driven.TextExtraction{}, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return driven.TextExtraction{}, domain.ErrEmptyContent
	}
	lang := domain.LanguageEnglish
	if strings.Contains(text, "am:") {
		lang = domain.LanguageAmharic
	}
	return driven.TextExtraction{
		Text:     text,
		Hash:     fmt.Sprintf("hash-%d", len(text)),
		Language: lang,
	}, nil
}

func (diskExtractor) IsSupportedText(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	}
	return false
}

func (diskExtractor) IsImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg":
		return true
	}
	return false
}

func (diskExtractor) HashImage(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", domain.ErrFileNotFound
	}
	return "img-" + filepath.Base(path), nil
}

// lineChunker splits on blank lines, no cap.
type lineChunker struct{}

func (lineChunker) Split(text string) ([]string, bool) {
	var chunks []string
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part != "" {
			chunks = append(chunks, part)
		}
	}
	return chunks, false
}

// fakeFileWatcher is a FileWatcher fed by the test.
type fakeFileWatcher struct {
	mu     sync.Mutex
	added  []string
	events chan domain.FileEvent
	addErr error
}

func newFakeFileWatcher() *fakeFileWatcher {
	return &fakeFileWatcher{events: make(chan domain.FileEvent, 16)}
}

func (f *fakeFileWatcher) Add(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, path)
	return nil
}

func (f *fakeFileWatcher) Events() <-chan domain.FileEvent { return f.events }

func (f *fakeFileWatcher) Close() error {
	close(f.events)
	return nil
}

// newTextPipeline wires a pipeline over the fakes.
func newTestTextPipeline(store *fakeStore) (*TextPipeline, *fakeEmbedder, *fakeEmbedder) {
	general := newFakeEmbedder(4)
	amharic := newFakeEmbedder(4)
	return NewTextPipeline(diskExtractor{}, lineChunker{}, general, amharic, store), general, amharic
}

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrRecordNotFound indicates a requested index entry does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrFileNotFound indicates a file referenced by an operation is
	// missing from the filesystem.
	ErrFileNotFound = errors.New("file not found")

	// ErrEmptyQuery indicates a search query was empty or whitespace-only.
	ErrEmptyQuery = errors.New("empty query")

	// ErrEmptyContent indicates a file produced no extractable text.
	ErrEmptyContent = errors.New("empty content")

	// ErrUnsupportedFile indicates the file's extension is not handled
	// by any extractor.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrModelUnavailable indicates an embedding model failed to
	// initialise. The failure is sticky: once initialisation has failed,
	// every later call on the same pipeline returns this error.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrDimensionMismatch indicates a vector's length does not match
	// the dimension the target table was created with.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrSchemaMismatch indicates an existing table's columns do not
	// match the expected schema. Repair or drop the table to recover.
	ErrSchemaMismatch = errors.New("table schema mismatch")

	// ErrStoreClosed indicates the vector store has been closed.
	ErrStoreClosed = errors.New("vector store closed")

	// ErrWatcherClosed indicates the filesystem watcher has been closed.
	ErrWatcherClosed = errors.New("watcher closed")

	// ErrIndexingInProgress indicates an indexing run is already active
	// for the requested directory.
	ErrIndexingInProgress = errors.New("indexing already in progress")
)

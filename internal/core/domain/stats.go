package domain

import "time"

// IndexingStats summarises one indexing run over a directory tree.
type IndexingStats struct {
	// RunID identifies the run the stats belong to.
	RunID string

	// RootDir is the directory the run walked.
	RootDir string

	// StartedAt and Elapsed bound the run.
	StartedAt time.Time
	Elapsed   time.Duration

	// FilesProcessed counts files successfully embedded and stored.
	FilesProcessed int

	// FilesFailed counts files where extraction, embedding or storage
	// failed. Failed paths are listed in FailedFiles.
	FilesFailed int

	// FilesSkipped counts files passed over by the walk filters
	// (unsupported extension, hidden, excluded directory or bundle).
	FilesSkipped int

	// DBInserts counts rows written to the store across all tables.
	DBInserts int

	// Per-modality breakdowns.
	TextProcessed  int
	TextFailed     int
	TextSkipped    int
	ImageProcessed int
	ImageFailed    int
	ImageSkipped   int

	// IndexedFiles lists paths stored during the run.
	IndexedFiles []string

	// FailedFiles lists paths that could not be indexed.
	FailedFiles []string
}

// TableStats describes one vector table for diagnostics.
type TableStats struct {
	// Name is the table name.
	Name string

	// Rows is the row count, or zero when the table does not exist.
	Rows int64

	// Dimension is the vector dimension the table was created with.
	Dimension int

	// Exists reports whether the table is present in the database.
	Exists bool
}

// DBStats describes the whole vector database for diagnostics.
type DBStats struct {
	// Path is the database file location.
	Path string

	// SizeBytes is the database file size, zero when unknown.
	SizeBytes int64

	// Tables holds per-table details.
	Tables []TableStats
}

// Package domain defines the core business entities for the semantic
// file index.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - EmbeddingRecord: A vector-bearing row for one chunk of a file
//   - SearchResult: A scored match returned to callers
//   - FileEvent: A filesystem change observed by the watcher
//   - IndexingStats: The outcome of one indexing run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

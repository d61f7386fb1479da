// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - VectorStore: Vector persistence and nearest-neighbour search (SQLite)
//   - EmbeddingService: Generates text embeddings (Ollama-compatible server)
//   - Normaliser: Extracts plain text from a file format
//   - NormaliserRegistry: Selects the normaliser for an extension
//   - RunStatsStore: Stats of the most recent indexing run
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ImageEmbeddingService: Cross-modal image embeddings. Without it,
//     image files are skipped and image search is disabled.
//   - FileWatcher: Filesystem notifications. Without it, only explicit
//     indexing runs update the index.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven

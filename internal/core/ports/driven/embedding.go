package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorStore which stores and searches
// vectors. EmbeddingService generates vectors; VectorStore stores them.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm, bge-small)
//   - Local models via inference servers
//
// Implementations initialise lazily and stick on failure: once the
// model has failed to load, every later call returns
// domain.ErrModelUnavailable without retrying.
type EmbeddingService interface {
	// EmbedQuery generates an embedding for a search query.
	// Asymmetric models apply a query-side transform here.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedPassages generates embeddings for document chunks.
	// More efficient than calling EmbedQuery in a loop, and asymmetric
	// models apply the passage-side transform.
	EmbedPassages(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384).
	// This must match the VectorStore table configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ImageEmbeddingService generates embeddings in a shared text/image
// vector space, so a text query can retrieve images.
//
// Like EmbeddingService, initialisation failures are sticky.
type ImageEmbeddingService interface {
	// EmbedImages generates one embedding per image file. A missing
	// file yields domain.ErrFileNotFound.
	EmbedImages(ctx context.Context, paths []string) ([][]float32, error)

	// EmbedQuery embeds a text query into the image vector space.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g. 768).
	Dimensions() int

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

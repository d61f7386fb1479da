package driven

import (
	"context"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
)

// TextExtraction is the result of extracting one text file.
type TextExtraction struct {
	// Text is the extracted plain text, truncated to the extractor's cap.
	Text string

	// Hash is the SHA-256 hex digest of Text.
	Hash string

	// Language is the detected language class of Text.
	Language domain.Language

	// Truncated reports whether the length cap was applied.
	Truncated bool
}

// TextExtractor turns files on disk into hashed, language-tagged text.
type TextExtractor interface {
	// Extract reads and extracts the file at path. It returns
	// domain.ErrFileNotFound, domain.ErrUnsupportedFile or
	// domain.ErrEmptyContent for the corresponding conditions.
	Extract(ctx context.Context, path string) (TextExtraction, error)

	// IsSupportedText reports whether path routes to a normaliser.
	IsSupportedText(path string) bool

	// IsImage reports whether path has a supported image extension.
	IsImage(path string) bool

	// HashImage returns the SHA-256 hex digest of the raw file bytes.
	HashImage(path string) (string, error)
}

// Chunker splits extracted text into embedding-sized chunks. Truncated
// reports whether a per-document cap dropped trailing text.
type Chunker interface {
	Split(text string) (chunks []string, truncated bool)
}

// Package extractor turns files on disk into hashed, language-tagged
// plain text ready for chunking and embedding.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/normalisers/docx"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/normalisers/eml"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/normalisers/html"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/normalisers/markdown"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/normalisers/plaintext"
)

// MaxTextLength caps extracted text. Longer documents are truncated
// before hashing and chunking.
const MaxTextLength = 100_000

// imageExtensions are the raster formats handled by the image pipeline.
var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
}

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads files and routes them through the registered
// normalisers. It implements driven.TextExtractor.
type Extractor struct {
	registry driven.NormaliserRegistry
}

// New creates an extractor with the default normalisers registered:
// plain text, markdown, HTML, DOCX and EML.
func New() *Extractor {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(eml.New())
	return &Extractor{registry: r}
}

// NewWithRegistry creates an extractor over a caller-built registry.
func NewWithRegistry(registry driven.NormaliserRegistry) *Extractor {
	return &Extractor{registry: registry}
}

// SupportedTextExtensions returns the registered text extensions.
func (e *Extractor) SupportedTextExtensions() []string {
	return e.registry.Extensions()
}

// IsSupportedText reports whether path routes to a normaliser.
func (e *Extractor) IsSupportedText(path string) bool {
	_, ok := e.registry.ForExtension(Ext(path))
	return ok
}

// IsImage reports whether path has a supported image extension.
func (e *Extractor) IsImage(path string) bool {
	return IsImageFile(path)
}

// HashImage returns the SHA-256 hex digest of the raw file bytes.
func (e *Extractor) HashImage(path string) (string, error) {
	return HashImage(path)
}

// IsImageFile reports whether path has a supported image extension.
func IsImageFile(path string) bool {
	return imageExtensions[Ext(path)]
}

// Ext returns the lower-case extension of path without the leading dot.
func Ext(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Extract reads the file at path and produces its extraction. It
// returns domain.ErrFileNotFound when the file is missing,
// domain.ErrUnsupportedFile for unknown extensions and
// domain.ErrEmptyContent when the file yields no text.
func (e *Extractor) Extract(ctx context.Context, path string) (driven.TextExtraction, error) {
	norm, ok := e.registry.ForExtension(Ext(path))
	if !ok {
		return driven.TextExtraction{}, domain.ErrUnsupportedFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return driven.TextExtraction{}, domain.ErrFileNotFound
		}
		return driven.TextExtraction{}, fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := norm.Normalise(ctx, path, data)
	if err != nil {
		return driven.TextExtraction{}, fmt.Errorf("normalising %s: %w", path, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return driven.TextExtraction{}, domain.ErrEmptyContent
	}

	text, truncated := truncate(text, MaxTextLength)

	return driven.TextExtraction{
		Text:      text,
		Hash:      HashString(text),
		Language:  DetectLanguage(text),
		Truncated: truncated,
	}, nil
}

// HashImage returns the SHA-256 hex digest of the raw file bytes. Image
// vectors are fingerprinted on bytes, not extracted text.
func HashImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.ErrFileNotFound
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return HashBytes(data), nil
}

// truncate cuts s to at most max bytes without breaking a UTF-8
// sequence.
func truncate(s string, max int) (string, bool) {
	if len(s) <= max {
		return s, false
	}
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut], true
}

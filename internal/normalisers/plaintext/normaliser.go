package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text files.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{"txt"}
}

// Normalise returns the file content as-is, rejecting binary data.
func (n *Normaliser) Normalise(_ context.Context, _ string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", domain.ErrUnsupportedFile
	}
	return strings.TrimSpace(string(data)), nil
}

package driven

import "context"

// Normaliser extracts plain text from one file format.
// Each normaliser handles specific extensions (e.g. markdown, DOCX).
type Normaliser interface {
	// SupportedExtensions returns lower-case extensions without the
	// leading dot, e.g. "md", "docx".
	SupportedExtensions() []string

	// Normalise extracts plain text from raw file bytes. The path is
	// for diagnostics only; content comes from data.
	Normalise(ctx context.Context, path string, data []byte) (string, error)
}

// NormaliserRegistry selects the normaliser for a file extension.
type NormaliserRegistry interface {
	// Register adds a normaliser for each of its supported extensions.
	Register(n Normaliser)

	// ForExtension returns the normaliser for ext, or false when the
	// extension is unsupported.
	ForExtension(ext string) (Normaliser, bool)

	// Extensions returns all registered extensions.
	Extensions() []string
}

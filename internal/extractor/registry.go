package extractor

import (
	"sort"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps file extensions to normalisers. Registration happens at
// startup; lookups after that need no locking.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]driven.Normaliser)}
}

// Register adds a normaliser for each of its supported extensions.
// A later registration for the same extension wins.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.SupportedExtensions() {
		r.byExt[ext] = n
	}
}

// ForExtension returns the normaliser for ext.
func (r *Registry) ForExtension(ext string) (driven.Normaliser, bool) {
	n, ok := r.byExt[ext]
	return n, ok
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

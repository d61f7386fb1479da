// Package chunker splits extracted text into embedding-sized chunks.
package chunker

import "strings"

// DefaultMinChunkSize is the smallest chunk the packer aims for,
// except for a trailing remainder.
const DefaultMinChunkSize = 500

// DefaultMaxChunkSize is the largest chunk the packer will emit.
const DefaultMaxChunkSize = 1500

// DefaultMaxChunks caps the number of chunks per document. Text beyond
// the cap is dropped.
const DefaultMaxChunks = 100

// Processor packs paragraphs and sentences into chunks whose sizes fall
// inside a character window. Paragraph boundaries are preferred; a
// paragraph too large for the window is split at sentence boundaries,
// and a single oversized sentence is hard-split.
type Processor struct {
	minSize   int
	maxSize   int
	maxChunks int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMinChunkSize sets the lower bound of the chunk window in characters.
func WithMinChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.minSize = size
		}
	}
}

// WithMaxChunkSize sets the upper bound of the chunk window in characters.
func WithMaxChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.maxSize = size
		}
	}
}

// WithMaxChunks caps the number of chunks emitted per document.
func WithMaxChunks(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxChunks = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		minSize:   DefaultMinChunkSize,
		maxSize:   DefaultMaxChunkSize,
		maxChunks: DefaultMaxChunks,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure the window is sane
	if p.minSize >= p.maxSize {
		p.minSize = p.maxSize / 3
	}

	return p
}

// Split breaks text into chunks. Empty or whitespace-only input
// produces no chunks. A trailing chunk shorter than the window minimum
// is folded into the one before it, so only a document smaller than
// minSize yields a sub-minimum chunk. Truncated reports whether the
// maxChunks cap dropped trailing text.
func (p *Processor) Split(text string) (chunks []string, truncated bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunks = append(chunks, strings.TrimSpace(buf.String()))
		buf.Reset()
	}

	for _, unit := range p.units(text) {
		// A buffer must not absorb a unit that would push it past
		// maxSize; flush and start the next chunk instead.
		if buf.Len() > 0 && buf.Len()+1+len(unit) > p.maxSize {
			flush()
			if len(chunks) >= p.maxChunks {
				return p.mergeTail(chunks), true
			}
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(unit)
	}
	flush()
	chunks = p.mergeTail(chunks)

	if len(chunks) > p.maxChunks {
		return chunks[:p.maxChunks], true
	}
	return chunks, false
}

// mergeTail folds a trailing chunk shorter than minSize into its
// predecessor; the merged chunk may exceed maxSize.
func (p *Processor) mergeTail(chunks []string) []string {
	n := len(chunks)
	if n < 2 || len(chunks[n-1]) >= p.minSize {
		return chunks
	}
	chunks[n-2] += "\n" + chunks[n-1]
	return chunks[:n-1]
}

// units yields paragraph-or-smaller pieces, none longer than maxSize bytes.
func (p *Processor) units(text string) []string {
	var units []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) <= p.maxSize {
			units = append(units, para)
			continue
		}
		for _, sent := range splitSentences(para) {
			if len(sent) <= p.maxSize {
				units = append(units, sent)
				continue
			}
			units = append(units, hardSplit(sent, p.maxSize)...)
		}
	}
	return units
}

// hardSplit cuts a string into pieces of at most max bytes without
// breaking a UTF-8 sequence.
func hardSplit(s string, max int) []string {
	var pieces []string
	start := 0
	last := 0
	for i := range s {
		if i-start > max {
			pieces = append(pieces, s[start:last])
			start = last
		}
		last = i
	}
	if len(s)-start > max && last > start {
		pieces = append(pieces, s[start:last])
		start = last
	}
	if start < len(s) {
		pieces = append(pieces, s[start:])
	}
	return pieces
}

// splitSentences splits on common sentence terminators, keeping the
// terminator with the sentence. The Ethiopic full stop is included so
// Amharic prose splits at sentence boundaries too.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i, r := range runes {
		switch r {
		case '.', '!', '?', '።', '\n':
			s := strings.TrimSpace(string(runes[start : i+1]))
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if start < len(runes) {
		s := strings.TrimSpace(string(runes[start:]))
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_EmptyInput(t *testing.T) {
	p := New()

	for _, input := range []string{"", "   ", "\n\n\t"} {
		chunks, truncated := p.Split(input)
		if len(chunks) != 0 {
			t.Errorf("Split(%q) = %d chunks, want 0", input, len(chunks))
		}
		if truncated {
			t.Errorf("Split(%q) reported truncation", input)
		}
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	p := New()

	chunks, truncated := p.Split("A short note about quarterly planning.")
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if truncated {
		t.Error("unexpected truncation")
	}
	if chunks[0] != "A short note about quarterly planning." {
		t.Errorf("chunk content altered: %q", chunks[0])
	}
}

func TestSplit_ChunksWithinWindow(t *testing.T) {
	p := New()

	para := strings.Repeat("The meeting covered budgets and hiring. ", 10)
	text := strings.Join([]string{para, para, para, para, para, para}, "\n\n")

	chunks, _ := p.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// The final chunk may absorb a short tail and overshoot the max by
	// at most the window minimum.
	for i, c := range chunks {
		max := DefaultMaxChunkSize
		if i == len(chunks)-1 {
			max += DefaultMinChunkSize
		}
		if len(c) > max {
			t.Errorf("chunk %d is %d bytes, exceeds max %d", i, len(c), max)
		}
		if c == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
	// All but the last chunk should reach a useful size.
	for i, c := range chunks[:len(chunks)-1] {
		if len(c) < DefaultMinChunkSize/2 {
			t.Errorf("chunk %d is only %d bytes", i, len(c))
		}
	}
}

func TestSplit_OversizedParagraphSplitsAtSentences(t *testing.T) {
	p := New()

	// One paragraph, no blank lines, far beyond the max chunk size.
	text := strings.Repeat("This sentence pads out an extremely long paragraph. ", 100)

	chunks, _ := p.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > DefaultMaxChunkSize {
			t.Errorf("chunk %d is %d bytes, exceeds max", i, len(c))
		}
	}
}

func TestSplit_MaxChunksCap(t *testing.T) {
	p := New(WithMaxChunks(3))

	para := strings.Repeat("Filler sentence for the cap test. ", 40)
	parts := make([]string, 20)
	for i := range parts {
		parts[i] = para
	}

	chunks, truncated := p.Split(strings.Join(parts, "\n\n"))
	if len(chunks) != 3 {
		t.Errorf("got %d chunks, want 3", len(chunks))
	}
	if !truncated {
		t.Error("expected truncation to be reported")
	}
}

func TestSplit_NoBrokenUTF8(t *testing.T) {
	p := New(WithMinChunkSize(20), WithMaxChunkSize(60))

	// Ethiopic text with no sentence terminators forces hard splits.
	text := strings.Repeat("ሰላምለዓለም", 40)

	chunks, _ := p.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d contains invalid UTF-8", i)
		}
	}
}

func TestSplit_AmharicSentenceBoundary(t *testing.T) {
	p := New(WithMinChunkSize(5), WithMaxChunkSize(40))

	// Two short Ethiopic sentences separated by the Ethiopic full stop.
	text := "ሰላም ለእናንተ ። እንኴት ነህ ።"

	chunks, _ := p.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if len(c) > 40 {
			t.Errorf("chunk %d is %d bytes, exceeds max", i, len(c))
		}
	}
}

func TestSplit_ShortTailFoldsIntoPreviousChunk(t *testing.T) {
	p := New(WithMinChunkSize(100), WithMaxChunkSize(300))

	// The last paragraph is far below the window minimum and does not
	// fit into the previous chunk within max, so it is folded in anyway.
	a := strings.Repeat("a", 250)
	b := strings.Repeat("b", 280)
	tail := "short closing remark"
	chunks, truncated := p.Split(a + "\n\n" + b + "\n\n" + tail)

	if truncated {
		t.Error("unexpected truncation")
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	for i, c := range chunks {
		if len(c) < 100 {
			t.Errorf("chunk %d is %d bytes, below the window minimum", i, len(c))
		}
	}
	if !strings.HasSuffix(chunks[1], tail) {
		t.Errorf("tail not folded into final chunk: %q", chunks[1])
	}
}

func TestNew_WindowSanity(t *testing.T) {
	p := New(WithMinChunkSize(2000), WithMaxChunkSize(900))
	if p.minSize >= p.maxSize {
		t.Errorf("min %d not below max %d", p.minSize, p.maxSize)
	}
}

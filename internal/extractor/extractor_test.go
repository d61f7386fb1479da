package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestHashString_KnownVector tests the fingerprint against a known digest
func TestHashString_KnownVector(t *testing.T) {
	got := HashString("Hello, world!")
	assert.Equal(t, "315f5bdb76d078c43b8ac0064e4a0164612b1fce77c869345bfc94c75894edd3", got)
}

// TestHashString_Deterministic tests equal input yields equal digests
func TestHashString_Deterministic(t *testing.T) {
	assert.Equal(t, HashString("abc"), HashString("abc"))
	assert.NotEqual(t, HashString("abc"), HashString("abd"))
}

// TestExtract_PlainText tests the txt path end to end
func TestExtract_PlainText(t *testing.T) {
	e := New()
	path := writeFile(t, t.TempDir(), "note.txt", "Quarterly budget review notes.")

	ex, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Quarterly budget review notes.", ex.Text)
	assert.Equal(t, HashString(ex.Text), ex.Hash)
	assert.False(t, ex.Truncated)
}

// TestExtract_Markdown tests formatting marks are stripped
func TestExtract_Markdown(t *testing.T) {
	e := New()
	src := "# Title\n\nSome **bold** text with a [link](https://example.com).\n"
	path := writeFile(t, t.TempDir(), "doc.md", src)

	ex, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, ex.Text, "Title")
	assert.Contains(t, ex.Text, "Some bold text with a link.")
	assert.NotContains(t, ex.Text, "**")
	assert.NotContains(t, ex.Text, "https://example.com")
}

// TestExtract_HTML tests tags and script bodies are stripped
func TestExtract_HTML(t *testing.T) {
	e := New()
	src := "<html><head><title>t</title></head><body><p>Visible text.</p><script>var x = 1;</script></body></html>"
	path := writeFile(t, t.TempDir(), "page.html", src)

	ex, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, ex.Text, "Visible text.")
	assert.NotContains(t, ex.Text, "var x")
	assert.NotContains(t, ex.Text, "<p>")
}

// TestExtract_DOCX tests paragraph text comes out of the archive
func TestExtract_DOCX(t *testing.T) {
	e := New()

	docXML := `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>First paragraph.</t></r></p>
    <p><r><t>Second paragraph.</t></r></p>
  </body>
</document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(docXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	dir := t.TempDir()
	path := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	ex, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", ex.Text)
}

// TestExtract_UnsupportedExtension tests unknown extensions are rejected
func TestExtract_UnsupportedExtension(t *testing.T) {
	e := New()
	path := writeFile(t, t.TempDir(), "archive.tar", "not text")

	_, err := e.Extract(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)
}

// TestExtract_MissingFile tests missing files map to the domain error
func TestExtract_MissingFile(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

// TestExtract_EmptyFile tests whitespace-only files yield ErrEmptyContent
func TestExtract_EmptyFile(t *testing.T) {
	e := New()
	path := writeFile(t, t.TempDir(), "blank.txt", "   \n\t  ")

	_, err := e.Extract(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

// TestExtract_Truncation tests oversized text is capped
func TestExtract_Truncation(t *testing.T) {
	e := New()
	big := strings.Repeat("a", MaxTextLength+500)
	path := writeFile(t, t.TempDir(), "big.txt", big)

	ex, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, ex.Truncated)
	assert.Len(t, ex.Text, MaxTextLength)
	assert.Equal(t, HashString(ex.Text), ex.Hash)
}

// TestTruncate_UTF8Boundary tests truncation never splits a rune
func TestTruncate_UTF8Boundary(t *testing.T) {
	s := strings.Repeat("ሉ", 10) // 3 bytes each
	got, truncated := truncate(s, 8)
	assert.True(t, truncated)
	assert.Equal(t, strings.Repeat("ሉ", 2), got)
}

// TestDetectLanguage tests routing classes for each script
func TestDetectLanguage(t *testing.T) {
	english := "The quick brown fox jumps over the lazy dog and keeps on running through the field."
	amharic := "ሰላም ለእናንተ ። አማርኛ የኢትዮጵያ ውብ ቋንቋ ነው ።"

	assert.Equal(t, domain.LanguageEnglish, DetectLanguage(english))
	assert.Equal(t, domain.LanguageAmharic, DetectLanguage(amharic))
}

// TestIsImageFile tests the image extension set
func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("/pics/cat.PNG"))
	assert.True(t, IsImageFile("/pics/dog.jpeg"))
	assert.False(t, IsImageFile("/docs/cat.txt"))
	assert.False(t, IsImageFile("/pics/noext"))
}

// TestHashImage tests image fingerprints use raw bytes
func TestHashImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}, 0o644))

	h, err := HashImage(path)
	require.NoError(t, err)
	assert.Equal(t, HashBytes([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01}), h)

	_, err = HashImage(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

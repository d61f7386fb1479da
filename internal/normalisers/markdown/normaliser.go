package markdown

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown files. It parses the document into an AST
// and emits the plain text of each block, so formatting marks, link
// targets and image URLs never reach the index.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{"md", "markdown"}
}

// Normalise extracts plain text from markdown source. Block boundaries
// become blank lines so the chunker can pack on paragraphs.
func (n *Normaliser) Normalise(_ context.Context, _ string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	doc := n.md.Parser().Parse(text.NewReader(data))

	var out strings.Builder
	writeBlock := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(s)
	}

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			writeBlock(inlineText(node, data))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			writeBlock(blockLines(v, data))
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			writeBlock(blockLines(v, data))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return out.String(), nil
}

// inlineText collects the text of a node and its children, dropping
// markup.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Image:
			// Alt text only; the URL is noise.
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// blockLines reads the raw lines of a code block.
func blockLines(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

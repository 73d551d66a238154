package importer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter normalizes general markdown into the recipe dialect:
// setext headings become "#" headings, any bullet style becomes "-", and
// nested lists are flattened. Inline markup is kept as written.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	w := &writer{}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			w.heading(node.Level, segmentText(node, src))
		case *ast.List:
			writeList(w, node, src)
		case *ast.ThematicBreak:
		default:
			w.paragraph(blockText(n, src))
		}
	}
	return w.markdown(baseTitle(filename)), nil
}

func writeList(w *writer, list *ast.List, src []byte) {
	i := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if nested, ok := c.(*ast.List); ok {
				writeList(w, nested, src)
				continue
			}
			t := blockText(c, src)
			if list.IsOrdered() {
				w.numbered(i, t)
			} else {
				w.bullet(t)
			}
		}
		i++
	}
}

// blockText returns the source text of a block, descending into containers
// such as block quotes.
func blockText(n ast.Node, src []byte) string {
	if n.Lines().Len() > 0 {
		return segmentText(n, src)
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

func segmentText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimSpace(buf.String())
}

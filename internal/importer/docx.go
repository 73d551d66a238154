package importer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXImporter handles .docx files. Heading styles become headings and
// list styles become list items.
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var paras []*docx.Paragraph
	for _, item := range doc.Document.Body.Items {
		if para, ok := item.(*docx.Paragraph); ok {
			paras = append(paras, para)
		}
	}
	return docxMarkdown(paras, baseTitle(filename)), nil
}

func docxMarkdown(paras []*docx.Paragraph, title string) string {
	w := &writer{}
	n := 1
	for _, para := range paras {
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		style := docxStyle(para)
		if level := docxHeadingLevel(style); level > 0 {
			w.heading(level, text)
			n = 1
			continue
		}
		switch {
		case strings.Contains(style, "listnumber"):
			w.numbered(n, text)
			n++
		case strings.Contains(style, "list"):
			w.bullet(text)
		default:
			w.paragraph(text)
		}
	}
	return w.markdown(title)
}

// docxStyle returns the paragraph style lowercased with spaces removed,
// so "Heading 1" and "Heading1" compare equal.
func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(para.Properties.Style.Val), " ", "")
}

func docxHeadingLevel(style string) int {
	switch style {
	case "title", "heading1":
		return 1
	case "heading2":
		return 2
	case "heading3":
		return 3
	case "heading4":
		return 4
	case "heading5":
		return 5
	case "heading6":
		return 6
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

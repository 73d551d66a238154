// Package importer converts recipe documents in other formats into the
// recipe markdown dialect.
package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned by ForFile for extensions with no importer.
var ErrUnsupported = errors.New("unsupported file type")

// Importer reads a document and returns recipe markdown.
type Importer interface {
	Import(r io.Reader, filename string) (string, error)
}

// Options tunes the importers returned by ForFile.
type Options struct {
	// PDFFallback runs pdftotext when the built-in PDF reader fails.
	PDFFallback bool
}

var supported = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the importer for a filename's extension.
func ForFile(filename string, opts Options) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".txt":
		return &TextImporter{}, nil
	case ".csv":
		return &CSVImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{FallbackPdftotext: opts.PDFFallback}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// Supported reports whether filename has an importer.
func Supported(filename string) bool {
	return supported[strings.ToLower(filepath.Ext(filename))]
}

// baseTitle turns "tomato-soup.txt" into "tomato soup".
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(base)
}

package importer

import (
	"bufio"
	"fmt"
	"io"
)

// TextImporter handles plain text recipes.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}

	w := &writer{}
	writeLines(w, lines)
	return w.markdown(baseTitle(filename)), nil
}

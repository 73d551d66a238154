package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dgallion1/recipebox/internal/quantity"
)

// CSVImporter reads ingredient rows of the form quantity,unit,name[,note].
// A header row is detected and skipped.
type CSVImporter struct{}

func (p *CSVImporter) Import(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) > 0 && isHeaderRow(records[0]) {
		records = records[1:]
	}

	w := &writer{}
	w.heading(1, baseTitle(filename))
	if len(records) > 0 {
		w.heading(2, "Ingredients")
	}
	for _, row := range records {
		w.bullet(ingredientRow(row))
	}
	return w.markdown(baseTitle(filename)), nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	if _, ok := quantity.Parse(strings.TrimSpace(row[0])); ok {
		return false
	}
	switch cases.Fold().String(strings.TrimSpace(row[0])) {
	case "quantity", "qty", "amount":
		return true
	}
	return false
}

func ingredientRow(row []string) string {
	var cells []string
	for _, c := range row {
		cells = append(cells, strings.TrimSpace(c))
	}
	if len(cells) < 3 {
		return strings.Join(nonEmpty(cells), " ")
	}
	line := strings.Join(nonEmpty(cells[:3]), " ")
	if note := strings.Join(nonEmpty(cells[3:]), ", "); note != "" {
		line += ", " + note
	}
	return line
}

func nonEmpty(cells []string) []string {
	var out []string
	for _, c := range cells {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

package importer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

type blockKind int

const (
	blockNone blockKind = iota
	blockHeading
	blockParagraph
	blockList
)

// writer accumulates recipe markdown. Blocks are separated by a blank line;
// consecutive list items are not.
type writer struct {
	b        strings.Builder
	last     blockKind
	hasTitle bool
}

func (w *writer) start(k blockKind) {
	switch {
	case w.last == blockNone:
	case k == blockList && w.last == blockList:
		w.b.WriteByte('\n')
	default:
		w.b.WriteString("\n\n")
	}
	w.last = k
}

func (w *writer) heading(level int, text string) {
	text = cleanText(text)
	if text == "" {
		return
	}
	level = min(max(level, 1), 6)
	w.start(blockHeading)
	w.b.WriteString(strings.Repeat("#", level))
	w.b.WriteByte(' ')
	w.b.WriteString(text)
	if level == 1 {
		w.hasTitle = true
	}
}

func (w *writer) paragraph(text string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if l := cleanText(line); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return
	}
	w.start(blockParagraph)
	w.b.WriteString(strings.Join(lines, "\n"))
}

func (w *writer) bullet(text string) {
	text = cleanText(stripMarker(text))
	if text == "" {
		return
	}
	w.start(blockList)
	w.b.WriteString("- ")
	w.b.WriteString(text)
}

func (w *writer) numbered(n int, text string) {
	text = cleanText(text)
	if text == "" {
		return
	}
	w.start(blockList)
	w.b.WriteString(strconv.Itoa(n))
	w.b.WriteString(". ")
	w.b.WriteString(text)
}

// markdown returns the document, adding a title heading when none was written.
func (w *writer) markdown(title string) string {
	body := w.b.String()
	if w.hasTitle {
		return body
	}
	title = cleanText(title)
	if title == "" {
		title = "Untitled"
	}
	if body == "" {
		return "# " + title
	}
	return "# " + title + "\n\n" + body
}

var vulgarFractions = map[rune]string{
	'½': "1/2",
	'⅓': "1/3",
	'⅔': "2/3",
	'¼': "1/4",
	'¾': "3/4",
	'⅛': "1/8",
	'⅜': "3/8",
	'⅝': "5/8",
	'⅞': "7/8",
}

// cleanText collapses whitespace to single spaces and spells out vulgar
// fractions ("1½" becomes "1 1/2") so amounts read back as quantities.
func cleanText(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range s {
		if frac, ok := vulgarFractions[r]; ok {
			if unicode.IsDigit(prev) {
				b.WriteByte(' ')
			}
			b.WriteString(frac)
			prev = r
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stripMarker(s string) string {
	s = strings.TrimSpace(s)
	for _, m := range []string{"•", "·", "▪", "◦", "–", "-", "*"} {
		if rest, ok := strings.CutPrefix(s, m); ok && (rest == "" || rest[0] == ' ') {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

var sectionNames = []string{
	"ingredients",
	"ingredient",
	"directions",
	"instructions",
	"method",
	"steps",
	"preparation",
	"notes",
}

// sectionHeading recognizes lines such as "Ingredients:" or
// "Directions for the sauce" that open a recipe section.
func sectionHeading(line string) (string, bool) {
	t := strings.TrimSuffix(strings.TrimSpace(line), ":")
	f := cases.Fold().String(t)
	for _, name := range sectionNames {
		if f == name || strings.HasPrefix(f, name+" ") {
			return t, true
		}
	}
	return "", false
}

var numberedPattern = regexp.MustCompile(`^(\d+)[.)]\s+(.*)$`)

// writeLines converts loosely structured lines (plain text, PDF text) into
// recipe markdown. The first line is the title, recognized section lines
// become headings, and lines inside a section become list items.
func writeLines(w *writer, lines []string) {
	var para []string
	flush := func() {
		if len(para) > 0 {
			w.paragraph(strings.Join(para, "\n"))
			para = nil
		}
	}

	section := ""
	titled := false
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			flush()
			continue
		}
		if name, ok := sectionHeading(t); ok {
			flush()
			w.heading(2, name)
			section = name
			titled = true
			continue
		}
		if !titled {
			w.heading(1, t)
			titled = true
			continue
		}
		switch {
		case section == "":
			para = append(para, t)
		case strings.Contains(cases.Fold().String(section), "ingredient"):
			w.bullet(t)
		default:
			if m := numberedPattern.FindStringSubmatch(t); m != nil {
				n, _ := strconv.Atoi(m[1])
				w.numbered(n, m[2])
			} else {
				w.bullet(t)
			}
		}
	}
	flush()
}

package recipe

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/dgallion1/recipebox/internal/quantity"
)

const maxHeadingLevel = 6

// Parse reads a recipe document. It never fails: any line that does not fit
// the ingredient grammar is kept verbatim as a text or raw line.
func (e *Engine) Parse(text string) Recipe {
	if text == "" {
		return Recipe{}
	}

	var r Recipe
	cur := Section{}
	seenHeading := false

	for _, line := range strings.Split(text, "\n") {
		if level, heading, ok := parseHeading(line); ok {
			// The preamble is only kept when something came before the first heading.
			if seenHeading || len(cur.Lines) > 0 {
				r.Sections = append(r.Sections, cur)
			}
			cur = Section{Level: level, Heading: heading}
			seenHeading = true
			continue
		}
		cur.Lines = append(cur.Lines, e.parseLine(line, cur.IsIngredients()))
	}
	r.Sections = append(r.Sections, cur)

	return r
}

// parseHeading matches "#" through "######" followed by one space.
func parseHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > maxHeadingLevel {
		return 0, "", false
	}
	if level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	return level, line[level+1:], true
}

func (e *Engine) parseLine(line string, ingredients bool) Line {
	marker, content, ok := cutBullet(line)
	if !ingredients || !ok {
		return Line{Kind: TextLine, Text: line}
	}
	ing, ok := e.parseIngredient(marker, content)
	if !ok {
		return Line{Kind: RawLine, Text: line}
	}
	return Line{Kind: MeasuredLine, Ingredient: ing}
}

// cutBullet splits "- content" or "* content" into marker and content.
func cutBullet(line string) (string, string, bool) {
	if len(line) < 2 || (line[0] != '-' && line[0] != '*') || line[1] != ' ' {
		return "", "", false
	}
	return line[:1], line[2:], true
}

// parseIngredient reads "<amount> [unit] <name>[, <note>]". Words are
// separated by exactly one space; anything else is left for a raw line.
func (e *Engine) parseIngredient(marker, content string) (Ingredient, bool) {
	q, rest, ok := quantity.ParsePrefix(content)
	if !ok {
		return Ingredient{}, false
	}
	rest, ok = strings.CutPrefix(rest, " ")
	if !ok || rest == "" || rest[0] == ' ' {
		return Ingredient{}, false
	}

	// A unit is only taken when a name follows it.
	if word, after, found := strings.Cut(rest, " "); found && after != "" && after[0] != ' ' {
		if name, ok := e.opts.Units.Lookup(word); ok {
			q = q.WithUnit(quantity.Unit{Text: word, Name: name})
			rest = after
		}
	}

	ing := Ingredient{Marker: marker, Quantity: q, Name: rest}
	if name, note, found := strings.Cut(rest, ", "); found && note != "" {
		ing.Name, ing.Note = name, note
	}
	return ing, true
}

func isIngredientHeading(heading string) bool {
	return strings.Contains(cases.Fold().String(heading), "ingredient")
}

package recipe

import (
	"strings"

	"github.com/dgallion1/recipebox/internal/quantity"
)

// Recipe is a parsed recipe document. It is a value: transforms return a new
// Recipe and never modify their input.
type Recipe struct {
	Sections []Section // Source order, preamble first if present
}

// Section is a heading and the lines under it.
type Section struct {
	Level   int    // 0 for content before the first heading, 1 for the title, 2+ below
	Heading string // Heading text exactly as written after "# "
	Lines   []Line
}

// LineKind tells which variant a Line holds.
type LineKind int

const (
	TextLine     LineKind = iota // Generic content, kept verbatim
	RawLine                      // Ingredient bullet with no readable quantity, kept verbatim
	MeasuredLine                 // Ingredient bullet with a parsed quantity
)

func (k LineKind) String() string {
	switch k {
	case TextLine:
		return "text"
	case RawLine:
		return "raw"
	case MeasuredLine:
		return "measured"
	}
	return "unknown"
}

// Line is one source line.
type Line struct {
	Kind       LineKind
	Text       string     // Source text for TextLine and RawLine
	Ingredient Ingredient // Set for MeasuredLine
}

// Ingredient is a measured ingredient bullet such as "- 1 1/2 cups onion, chopped".
type Ingredient struct {
	Marker   string            // "-" or "*"
	Quantity quantity.Quantity // Amount and unit
	Name     string            // "onion"
	Note     string            // "chopped"; text after the first ", "
}

// IsIngredients reports whether the section holds the ingredient list.
func (s Section) IsIngredients() bool {
	return isIngredientHeading(s.Heading)
}

// Title returns the text of the first level-1 heading, or "".
func (r Recipe) Title() string {
	for _, s := range r.Sections {
		if s.Level == 1 {
			return strings.TrimSpace(s.Heading)
		}
	}
	return ""
}

// Ingredients returns every measured ingredient in document order.
func (r Recipe) Ingredients() []Ingredient {
	var out []Ingredient
	for _, s := range r.Sections {
		for _, l := range s.Lines {
			if l.Kind == MeasuredLine {
				out = append(out, l.Ingredient)
			}
		}
	}
	return out
}

// Detach returns a deep copy that shares no memory with the text it was
// parsed from. Parse slices its input, so a Recipe normally keeps the whole
// source string alive; detach when the Recipe outlives a large buffer.
func (r Recipe) Detach() Recipe {
	if r.Sections == nil {
		return Recipe{}
	}
	out := Recipe{Sections: make([]Section, len(r.Sections))}
	for i, s := range r.Sections {
		var lines []Line
		if s.Lines != nil {
			lines = make([]Line, len(s.Lines))
		}
		for j, l := range s.Lines {
			lines[j] = Line{
				Kind: l.Kind,
				Text: strings.Clone(l.Text),
				Ingredient: Ingredient{
					Marker:   strings.Clone(l.Ingredient.Marker),
					Quantity: l.Ingredient.Quantity.Clone(),
					Name:     strings.Clone(l.Ingredient.Name),
					Note:     strings.Clone(l.Ingredient.Note),
				},
			}
		}
		out.Sections[i] = Section{
			Level:   s.Level,
			Heading: strings.Clone(s.Heading),
			Lines:   lines,
		}
	}
	return out
}

package recipe

import (
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/recipebox/internal/quantity"
)

const soup = "# Soup\n\n## Ingredients\n\n- 1 cup broth\n- 1/2 tsp salt\n\n## Directions\n\n- Boil it"

// quantityComparer compares value, unit, style and spelling.
var quantityComparer = cmp.Comparer(func(a, b quantity.Quantity) bool {
	return a.Equal(b) && a.Unit() == b.Unit() && a.Style() == b.Style() && a.Literal() == b.Literal()
})

func TestParse_Soup(t *testing.T) {
	r := Parse(soup)

	if got := r.Title(); got != "Soup" {
		t.Errorf("expected title %q, got %q", "Soup", got)
	}
	if len(r.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(r.Sections))
	}

	ings := r.Ingredients()
	if len(ings) != 2 {
		t.Fatalf("expected 2 measured ingredients, got %d", len(ings))
	}
	want := []struct {
		num, den int64
		unit     string
		name     string
	}{
		{1, 1, "cup", "broth"},
		{1, 2, "tsp", "salt"},
	}
	for i, w := range want {
		q := ings[i].Quantity
		if q.Num() != w.num || q.Den() != w.den {
			t.Errorf("ingredient %d: expected %d/%d, got %d/%d", i, w.num, w.den, q.Num(), q.Den())
		}
		if q.Unit().Name != w.unit {
			t.Errorf("ingredient %d: expected unit %q, got %q", i, w.unit, q.Unit().Name)
		}
		if ings[i].Name != w.name {
			t.Errorf("ingredient %d: expected name %q, got %q", i, w.name, ings[i].Name)
		}
	}

	dir := r.Sections[2]
	if dir.Heading != "Directions" {
		t.Fatalf("expected Directions section, got %q", dir.Heading)
	}
	var texts []string
	for _, l := range dir.Lines {
		if l.Kind != TextLine {
			t.Errorf("expected only text lines under Directions, got %s", l.Kind)
		}
		if l.Text != "" {
			texts = append(texts, l.Text)
		}
	}
	if diff := cmp.Diff([]string{"- Boil it"}, texts); diff != "" {
		t.Errorf("direction lines mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Empty(t *testing.T) {
	r := Parse("")
	if len(r.Sections) != 0 {
		t.Errorf("expected no sections, got %d", len(r.Sections))
	}
	if got := Render(r); got != "" {
		t.Errorf("expected empty render, got %q", got)
	}
}

func TestParse_Preamble(t *testing.T) {
	r := Parse("Serves four.\n# Stew")
	if len(r.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(r.Sections))
	}
	pre := r.Sections[0]
	if pre.Level != 0 || pre.Heading != "" {
		t.Errorf("expected level-0 preamble, got level %d heading %q", pre.Level, pre.Heading)
	}
	if len(pre.Lines) != 1 || pre.Lines[0].Text != "Serves four." {
		t.Errorf("unexpected preamble lines: %+v", pre.Lines)
	}

	// No preamble section when the document opens with a heading.
	r = Parse("# Stew\nbody")
	if len(r.Sections) != 1 || r.Sections[0].Level != 1 {
		t.Errorf("expected a single level-1 section, got %+v", r.Sections)
	}
}

func TestParse_Headings(t *testing.T) {
	tests := []struct {
		line      string
		wantLevel int
		wantText  string
		wantOK    bool
	}{
		{"# Title", 1, "Title", true},
		{"###### Deep", 6, "Deep", true},
		{"## Ingredients ", 2, "Ingredients ", true},
		{"#NoSpace", 0, "", false},
		{"####### Seven", 0, "", false},
		{"#", 0, "", false},
		{" # Indented", 0, "", false},
	}
	for _, tt := range tests {
		level, text, ok := parseHeading(tt.line)
		if ok != tt.wantOK || level != tt.wantLevel || text != tt.wantText {
			t.Errorf("line=%q: expected (%d, %q, %v), got (%d, %q, %v)",
				tt.line, tt.wantLevel, tt.wantText, tt.wantOK, level, text, ok)
		}
	}
}

func TestParse_IngredientLines(t *testing.T) {
	tests := []struct {
		line     string
		wantKind LineKind
		wantUnit string
		wantName string
		wantNote string
	}{
		{"- 2 cloves garlic, minced", MeasuredLine, "clove", "garlic", "minced"},
		{"* 1 1/2 Cups flour", MeasuredLine, "cup", "flour", ""},
		{"- 3 large eggs", MeasuredLine, "", "large eggs", ""},
		{"- 1 cup", MeasuredLine, "", "cup", ""},
		{"- 2 tbsp. butter", MeasuredLine, "tbsp", "butter", ""},
		{"- 1 onion, ", MeasuredLine, "", "onion, ", ""},
		{"- 1 onion, diced, fine", MeasuredLine, "", "onion", "diced, fine"},
		{"- a pinch of salt", RawLine, "", "", ""},
		{"- 1  cup flour", RawLine, "", "", ""},
		{"- 1", RawLine, "", "", ""},
		{"-1 cup flour", TextLine, "", "", ""},
		{"Serve warm.", TextLine, "", "", ""},
	}
	for _, tt := range tests {
		r := Parse("## Ingredients\n" + tt.line)
		l := r.Sections[0].Lines[0]
		if l.Kind != tt.wantKind {
			t.Errorf("line=%q: expected kind %s, got %s", tt.line, tt.wantKind, l.Kind)
			continue
		}
		if l.Kind != MeasuredLine {
			if l.Text != tt.line {
				t.Errorf("line=%q: expected verbatim text, got %q", tt.line, l.Text)
			}
			continue
		}
		ing := l.Ingredient
		if ing.Quantity.Unit().Name != tt.wantUnit {
			t.Errorf("line=%q: expected unit %q, got %q", tt.line, tt.wantUnit, ing.Quantity.Unit().Name)
		}
		if ing.Name != tt.wantName {
			t.Errorf("line=%q: expected name %q, got %q", tt.line, tt.wantName, ing.Name)
		}
		if ing.Note != tt.wantNote {
			t.Errorf("line=%q: expected note %q, got %q", tt.line, tt.wantNote, ing.Note)
		}
	}
}

func TestParse_BulletsOutsideIngredients(t *testing.T) {
	r := Parse("## Directions\n- 1 cup broth")
	if l := r.Sections[0].Lines[0]; l.Kind != TextLine {
		t.Errorf("expected text line outside ingredients, got %s", l.Kind)
	}
	if n := len(r.Ingredients()); n != 0 {
		t.Errorf("expected no measured ingredients, got %d", n)
	}
}

func TestParse_IngredientHeadingIsCaseFolded(t *testing.T) {
	for _, h := range []string{"## INGREDIENTS", "## Ingredients for the dough", "### Dry ingredients"} {
		r := Parse(h + "\n- 1 cup flour")
		if n := len(r.Ingredients()); n != 1 {
			t.Errorf("heading=%q: expected 1 ingredient, got %d", h, n)
		}
	}
}

func TestParse_CustomUnits(t *testing.T) {
	units := quantity.NewUnits(map[string][]string{"handful": {"handfuls"}})
	e := New(Options{Units: units})

	r := e.Parse("## Ingredients\n- 2 handfuls spinach\n- 1 cup rice")
	ings := r.Ingredients()
	if len(ings) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(ings))
	}
	if ings[0].Quantity.Unit().Name != "handful" {
		t.Errorf("expected unit handful, got %q", ings[0].Quantity.Unit().Name)
	}
	if ings[1].Quantity.Unit().Name != "" || ings[1].Name != "cup rice" {
		t.Errorf("expected cup to be unknown, got unit %q name %q", ings[1].Quantity.Unit().Name, ings[1].Name)
	}
}

func TestDetach(t *testing.T) {
	src := []byte(soup)
	r := Parse(string(src))
	d := r.Detach()

	if diff := cmp.Diff(r, d, quantityComparer); diff != "" {
		t.Fatalf("detached recipe differs (-orig +detached):\n%s", diff)
	}
	if unsafe.StringData(r.Sections[0].Heading) == unsafe.StringData(d.Sections[0].Heading) {
		t.Error("expected detached heading to have its own backing memory")
	}
	name := r.Ingredients()[0].Name
	if unsafe.StringData(name) == unsafe.StringData(d.Ingredients()[0].Name) {
		t.Error("expected detached ingredient name to have its own backing memory")
	}
	if Render(d) != soup {
		t.Errorf("expected detached recipe to render the source, got %q", Render(d))
	}
}

func TestParse_OutOfRangeAmountIsRaw(t *testing.T) {
	line := "- 99999999999999999999 g sugar"
	r := Parse("## Ingredients\n" + line)
	l := r.Sections[0].Lines[0]
	if l.Kind != RawLine || l.Text != line {
		t.Errorf("expected a verbatim raw line, got %s %q", l.Kind, l.Text)
	}
}

package recipe

import "strings"

// Render serializes r back to markdown. Lines that were not changed by a
// transform come out byte-for-byte as they were parsed; scaled amounts are
// written in the engine's canonical format.
func (e *Engine) Render(r Recipe) string {
	var b strings.Builder
	first := true
	write := func(line string) {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(line)
	}

	for _, s := range r.Sections {
		if s.Level > 0 {
			write(strings.Repeat("#", s.Level) + " " + s.Heading)
		}
		for _, l := range s.Lines {
			write(e.RenderLine(l))
		}
	}
	return b.String()
}

// RenderLine serializes a single line.
func (e *Engine) RenderLine(l Line) string {
	if l.Kind != MeasuredLine {
		return l.Text
	}
	ing := l.Ingredient

	marker := ing.Marker
	if marker == "" {
		marker = "-"
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteByte(' ')
	b.WriteString(e.AmountText(ing))
	if u := ing.Quantity.Unit(); u.Text != "" {
		b.WriteByte(' ')
		b.WriteString(u.Text)
	}
	b.WriteByte(' ')
	b.WriteString(ing.Name)
	if ing.Note != "" {
		b.WriteString(", ")
		b.WriteString(ing.Note)
	}
	return b.String()
}

// AmountText returns the amount as it will be rendered: the source spelling
// when untouched, the canonical format otherwise.
func (e *Engine) AmountText(ing Ingredient) string {
	if lit := ing.Quantity.Literal(); lit != "" {
		return lit
	}
	return ing.Quantity.Format(e.opts.Format)
}

package recipe

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidFactor is returned when a scale factor is zero, negative, NaN or
// infinite, or when it would push an amount out of the representable range.
var ErrInvalidFactor = errors.New("scale factor must be a positive finite number")

// exactTolerance is how close f*q must be to an integer p for a float factor
// to be treated as the exact ratio p/q.
const exactTolerance = 1e-9

// Scale returns a copy of r with every measured amount multiplied by factor.
// Factors that are exactly p/q with q up to MaxDenominator (1.0, 0.5, 1.0/3)
// are applied in exact arithmetic; other factors are applied in floating
// point and rounded to the nearest fraction with a bounded denominator.
func (e *Engine) Scale(r Recipe, factor float64) (Recipe, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return Recipe{}, fmt.Errorf("%w: %v", ErrInvalidFactor, factor)
	}
	if num, den, ok := e.asRatio(factor); ok {
		return e.ScaleRatio(r, num, den)
	}
	out, err := mapIngredients(r, func(ing Ingredient) (Ingredient, error) {
		q, err := ing.Quantity.MulFloat(factor, e.opts.MaxDenominator)
		ing.Quantity = q
		return ing, err
	})
	if err != nil {
		return Recipe{}, fmt.Errorf("%w: %v: %w", ErrInvalidFactor, factor, err)
	}
	return out, nil
}

// ScaleRatio returns a copy of r with every measured amount multiplied by
// num/den in exact arithmetic.
func (e *Engine) ScaleRatio(r Recipe, num, den int64) (Recipe, error) {
	if den == 0 || num == 0 || (num < 0) != (den < 0) {
		return Recipe{}, fmt.Errorf("%w: %d/%d", ErrInvalidFactor, num, den)
	}
	out, err := mapIngredients(r, func(ing Ingredient) (Ingredient, error) {
		q, err := ing.Quantity.MulRat(num, den)
		ing.Quantity = q
		return ing, err
	})
	if err != nil {
		return Recipe{}, fmt.Errorf("%w: %d/%d: %w", ErrInvalidFactor, num, den, err)
	}
	return out, nil
}

// asRatio finds p/q equal to f with the smallest q up to MaxDenominator.
func (e *Engine) asRatio(f float64) (int64, int64, bool) {
	if f > math.MaxInt32 {
		return 0, 0, false
	}
	for q := int64(1); q <= e.opts.MaxDenominator; q++ {
		v := f * float64(q)
		p := math.Round(v)
		if p >= 1 && math.Abs(v-p) <= exactTolerance*math.Max(1, v) {
			return int64(p), q, true
		}
	}
	return 0, 0, false
}

// mapIngredients copies r, applying fn to each measured ingredient. Text and
// raw lines are copied unchanged. The first error from fn stops the copy.
func mapIngredients(r Recipe, fn func(Ingredient) (Ingredient, error)) (Recipe, error) {
	if r.Sections == nil {
		return Recipe{}, nil
	}
	out := Recipe{Sections: make([]Section, len(r.Sections))}
	for i, s := range r.Sections {
		ns := Section{Level: s.Level, Heading: s.Heading}
		if s.Lines != nil {
			ns.Lines = make([]Line, len(s.Lines))
		}
		for j, l := range s.Lines {
			if l.Kind == MeasuredLine {
				ing, err := fn(l.Ingredient)
				if err != nil {
					return Recipe{}, err
				}
				l.Ingredient = ing
			}
			ns.Lines[j] = l
		}
		out.Sections[i] = ns
	}
	return out, nil
}

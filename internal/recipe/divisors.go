package recipe

import "slices"

// Divisors returns, in ascending order, every n in [MinDivisor, MaxDivisor]
// such that dividing each measured amount by n leaves a denominator in
// DivisorDenominators. A recipe with no measured lines has no divisors.
func (e *Engine) Divisors(r Recipe) []int {
	out := []int{}
	ings := r.Ingredients()
	if len(ings) == 0 {
		return out
	}
	for n := e.opts.MinDivisor; n <= e.opts.MaxDivisor; n++ {
		if e.dividesCleanly(ings, int64(n)) {
			out = append(out, n)
		}
	}
	return out
}

func (e *Engine) dividesCleanly(ings []Ingredient, n int64) bool {
	for _, ing := range ings {
		q, err := ing.Quantity.MulRat(1, n)
		if err != nil || !slices.Contains(e.opts.DivisorDenominators, q.Den()) {
			return false
		}
	}
	return true
}

package quantity

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultUnitTable maps canonical unit names to the spellings recognized for
// them. Plural forms ending in "s" or "es" and a trailing "." are matched
// without being listed. The table is a starting vocabulary, not a complete one.
func DefaultUnitTable() map[string][]string {
	return map[string][]string{
		"cup":    {"c"},
		"tsp":    {"teaspoon", "tsps"},
		"tbsp":   {"tablespoon", "tbs", "tbl"},
		"oz":     {"ounce"},
		"lb":     {"pound", "lbs"},
		"g":      {"gram", "gramme", "gr"},
		"kg":     {"kilogram", "kilo"},
		"mg":     {"milligram"},
		"ml":     {"milliliter", "millilitre", "mL"},
		"l":      {"liter", "litre", "L"},
		"dl":     {"deciliter", "decilitre"},
		"cl":     {"centiliter", "centilitre"},
		"pint":   {"pt"},
		"quart":  {"qt"},
		"gallon": {"gal"},
		"pinch":  {},
		"dash":   {},
		"clove":  {},
		"can":    {},
		"stick":  {},
		"slice":  {},
		"sprig":  {},
		"bunch":  {},
		"pkg":    {"package", "packet"},
	}
}

// Units is a case-insensitive unit vocabulary. It is read-only after
// construction and safe for concurrent use.
type Units struct {
	aliases map[string]string // folded spelling -> canonical name
}

// NewUnits builds a vocabulary from a canonical -> spellings table.
// Each canonical name is recognized as a spelling of itself.
func NewUnits(table map[string][]string) *Units {
	u := &Units{aliases: make(map[string]string)}
	for _, name := range slices.Sorted(maps.Keys(table)) {
		canonical := strings.TrimSpace(name)
		if canonical == "" {
			continue
		}
		u.aliases[fold(canonical)] = canonical
		for _, alias := range table[name] {
			if a := strings.TrimSpace(alias); a != "" {
				u.aliases[fold(a)] = canonical
			}
		}
	}
	return u
}

// DefaultUnits returns a vocabulary built from DefaultUnitTable.
func DefaultUnits() *Units {
	return NewUnits(DefaultUnitTable())
}

// Lookup returns the canonical unit for word, if word names one.
func (u *Units) Lookup(word string) (string, bool) {
	if u == nil || word == "" {
		return "", false
	}
	w := fold(strings.TrimSuffix(word, "."))
	if w == "" {
		return "", false
	}
	if c, ok := u.aliases[w]; ok {
		return c, true
	}
	if s, ok := strings.CutSuffix(w, "s"); ok && s != "" {
		if c, ok := u.aliases[s]; ok {
			return c, true
		}
	}
	if s, ok := strings.CutSuffix(w, "es"); ok && s != "" {
		if c, ok := u.aliases[s]; ok {
			return c, true
		}
	}
	return "", false
}

// Names returns the canonical unit names in sorted order.
func (u *Units) Names() []string {
	if u == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, c := range u.aliases {
		seen[c] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// fold case-folds s. A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

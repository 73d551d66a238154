package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/recipebox/internal/recipe"
)

func TestLoadEngine_EmptyPathIsDefault(t *testing.T) {
	opts, err := LoadEngine("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := recipe.DefaultOptions()
	if opts.MaxDenominator != def.MaxDenominator || opts.MaxDivisor != def.MaxDivisor {
		t.Errorf("expected defaults, got %+v", opts)
	}
}

func TestLoadEngine_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	contents := `
[units]
handful = ["handfuls", "hf"]

[rounding]
max_denominator = 8
decimal_places = 3
fraction_denominators = [2, 4]

[divisors]
min = 2
max = 6
denominators = [1, 2]
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	opts, err := LoadEngine(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.MaxDenominator != 8 {
		t.Errorf("expected max denominator 8, got %d", opts.MaxDenominator)
	}
	if opts.Format.DecimalPlaces != 3 {
		t.Errorf("expected 3 decimal places, got %d", opts.Format.DecimalPlaces)
	}
	if diff := cmp.Diff([]int64{2, 4}, opts.Format.FractionDenominators); diff != "" {
		t.Errorf("fraction denominators mismatch (-want +got):\n%s", diff)
	}
	if opts.MinDivisor != 2 || opts.MaxDivisor != 6 {
		t.Errorf("expected divisors 2..6, got %d..%d", opts.MinDivisor, opts.MaxDivisor)
	}
	if diff := cmp.Diff([]int64{1, 2}, opts.DivisorDenominators); diff != "" {
		t.Errorf("divisor denominators mismatch (-want +got):\n%s", diff)
	}

	for _, word := range []string{"handful", "hf", "cup"} {
		if _, ok := opts.Units.Lookup(word); !ok {
			t.Errorf("expected %q to be a unit", word)
		}
	}

	e := recipe.New(opts)
	r := e.Parse("## Ingredients\n- 2 handfuls spinach\n- 4 cups rice")
	if got := e.Divisors(r); !cmp.Equal(got, []int{2, 4}) {
		t.Errorf("expected divisors [2 4], got %v", got)
	}
}

func TestDecodeEngine_ReplaceUnits(t *testing.T) {
	opts, err := DecodeEngine(strings.NewReader("replace_units = true\n\n[units]\nhandful = []\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"handful"}, opts.Units.Names()); diff != "" {
		t.Errorf("unit names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEngine_MissingFile(t *testing.T) {
	if _, err := LoadEngine(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodeEngine_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", "[rounding\n"},
		{"unknown key", "[rounding]\nprecision = 2\n"},
		{"negative max denominator", "[rounding]\nmax_denominator = -1\n"},
		{"huge max denominator", "[rounding]\nmax_denominator = 5000\n"},
		{"zero decimal places", "[rounding]\ndecimal_places = 0\n"},
		{"zero divisor denominator", "[divisors]\ndenominators = [0]\n"},
		{"min above max", "[divisors]\nmin = 8\nmax = 4\n"},
		{"min below two", "[divisors]\nmin = 1\n"},
		{"replace without units", "replace_units = true\n"},
		{"divisor above rounding bound", "[rounding]\nmax_denominator = 8\n"},
		{"divisor denominator above rounding bound", "[rounding]\nmax_denominator = 6\n\n[divisors]\nmax = 6\ndenominators = [1, 8]\n"},
	}
	for _, tt := range tests {
		_, err := DecodeEngine(strings.NewReader(tt.toml))
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tt.name, err)
		}
	}
}

// Every offered divisor must scale exactly once the file is loaded.
func TestDecodeEngine_DivisorsScaleExactly(t *testing.T) {
	opts, err := DecodeEngine(strings.NewReader("[rounding]\nmax_denominator = 24\n\n[divisors]\nmax = 24\ndenominators = [1, 2, 3, 4, 6]\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := recipe.New(opts)
	r := e.Parse("## Ingredients\n- 24 eggs\n- 72 g sugar")
	for _, n := range e.Divisors(r) {
		scaled, err := e.Scale(r, 1.0/float64(n))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		for i, ing := range scaled.Ingredients() {
			want, err := r.Ingredients()[i].Quantity.MulRat(1, int64(n))
			if err != nil {
				t.Fatalf("n=%d: unexpected error: %v", n, err)
			}
			if !ing.Quantity.Equal(want) {
				t.Errorf("n=%d ingredient %d: expected %d/%d, got %d/%d",
					n, i, want.Num(), want.Den(), ing.Quantity.Num(), ing.Quantity.Den())
			}
		}
	}
}

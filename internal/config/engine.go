package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dgallion1/recipebox/internal/quantity"
	"github.com/dgallion1/recipebox/internal/recipe"
)

// EngineFile is the TOML layout of the engine options file:
//
//	replace_units = false
//
//	[units]
//	handful = ["handfuls"]
//
//	[rounding]
//	max_denominator = 16
//	decimal_places = 2
//	fraction_denominators = [2, 3, 4, 8]
//
//	[divisors]
//	min = 2
//	max = 12
//	denominators = [1, 2, 3, 4]
//
// Missing keys keep their defaults.
type EngineFile struct {
	ReplaceUnits bool                `toml:"replace_units"`
	Units        map[string][]string `toml:"units"`
	Rounding     RoundingFile        `toml:"rounding"`
	Divisors     DivisorsFile        `toml:"divisors"`
}

type RoundingFile struct {
	MaxDenominator       int64   `toml:"max_denominator"`
	DecimalPlaces        *int    `toml:"decimal_places"`
	FractionDenominators []int64 `toml:"fraction_denominators"`
}

type DivisorsFile struct {
	Min          int     `toml:"min"`
	Max          int     `toml:"max"`
	Denominators []int64 `toml:"denominators"`
}

const (
	maxDenominatorLimit = 1000
	maxDecimalPlaces    = 9
	maxDivisorLimit     = 100
)

// LoadEngine reads engine options from a TOML file. An empty path returns
// the defaults.
func LoadEngine(path string) (recipe.Options, error) {
	if path == "" {
		return recipe.DefaultOptions(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return recipe.Options{}, fmt.Errorf("open engine config: %w", err)
	}
	defer file.Close()
	return DecodeEngine(file)
}

// DecodeEngine parses and validates a TOML engine file.
func DecodeEngine(r io.Reader) (recipe.Options, error) {
	var ef EngineFile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&ef); err != nil {
		return recipe.Options{}, fmt.Errorf("%w: parse engine config: %v", ErrInvalid, err)
	}
	return ef.Options()
}

// Options validates the file and converts it to engine options.
func (ef EngineFile) Options() (recipe.Options, error) {
	opts := recipe.DefaultOptions()

	if ef.ReplaceUnits && len(ef.Units) == 0 {
		return recipe.Options{}, fmt.Errorf("%w: replace_units needs a [units] table", ErrInvalid)
	}
	if len(ef.Units) > 0 {
		table := quantity.DefaultUnitTable()
		if ef.ReplaceUnits {
			table = map[string][]string{}
		}
		for name, aliases := range ef.Units {
			table[name] = append(table[name], aliases...)
		}
		opts.Units = quantity.NewUnits(table)
	}

	r := ef.Rounding
	if r.MaxDenominator != 0 {
		if r.MaxDenominator < 1 || r.MaxDenominator > maxDenominatorLimit {
			return recipe.Options{}, fmt.Errorf("%w: rounding.max_denominator must be in [1, %d], got %d",
				ErrInvalid, maxDenominatorLimit, r.MaxDenominator)
		}
		opts.MaxDenominator = r.MaxDenominator
	}
	if r.DecimalPlaces != nil {
		if *r.DecimalPlaces < 1 || *r.DecimalPlaces > maxDecimalPlaces {
			return recipe.Options{}, fmt.Errorf("%w: rounding.decimal_places must be in [1, %d], got %d",
				ErrInvalid, maxDecimalPlaces, *r.DecimalPlaces)
		}
		opts.Format.DecimalPlaces = *r.DecimalPlaces
	}
	if r.FractionDenominators != nil {
		if err := positive("rounding.fraction_denominators", r.FractionDenominators); err != nil {
			return recipe.Options{}, err
		}
		opts.Format.FractionDenominators = r.FractionDenominators
	}

	d := ef.Divisors
	if d.Min != 0 {
		opts.MinDivisor = d.Min
	}
	if d.Max != 0 {
		opts.MaxDivisor = d.Max
	}
	if opts.MinDivisor < 2 || opts.MaxDivisor < opts.MinDivisor || opts.MaxDivisor > maxDivisorLimit {
		return recipe.Options{}, fmt.Errorf("%w: divisors need 2 <= min <= max <= %d, got min=%d max=%d",
			ErrInvalid, maxDivisorLimit, opts.MinDivisor, opts.MaxDivisor)
	}
	if d.Denominators != nil {
		if err := positive("divisors.denominators", d.Denominators); err != nil {
			return recipe.Options{}, err
		}
		opts.DivisorDenominators = d.Denominators
	}

	// Dividing by n is only applied exactly when n fits the rounding bound.
	if int64(opts.MaxDivisor) > opts.MaxDenominator {
		return recipe.Options{}, fmt.Errorf("%w: divisors.max (%d) must not exceed rounding.max_denominator (%d)",
			ErrInvalid, opts.MaxDivisor, opts.MaxDenominator)
	}
	for _, den := range opts.DivisorDenominators {
		if den > opts.MaxDenominator {
			return recipe.Options{}, fmt.Errorf("%w: divisors.denominators value %d exceeds rounding.max_denominator (%d)",
				ErrInvalid, den, opts.MaxDenominator)
		}
	}

	return opts, nil
}

func positive(key string, vals []int64) error {
	if len(vals) == 0 {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalid, key)
	}
	for _, v := range vals {
		if v < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, key, v)
		}
	}
	return nil
}

// Package recipe parses, scales and re-serializes recipe markdown.
//
// The dialect is small: "#" headings, "-" or "*" bullets, and plain lines.
// Bullets under a heading containing "ingredient" are read as measured
// amounts ("- 1 1/2 cups flour"); everything else is carried verbatim so
// Render(Parse(text)) reproduces text exactly.
//
// All operations are pure functions of their inputs. An Engine holds
// read-only options and may be shared between goroutines.
package recipe

import "github.com/dgallion1/recipebox/internal/quantity"

// Options configures an Engine.
type Options struct {
	// Units is the vocabulary of words read as measures after an amount.
	Units *quantity.Units
	// Format controls how scaled amounts are written back out.
	Format quantity.FormatOptions
	// MaxDenominator bounds the fractions that arbitrary real scale factors
	// are rounded to. Float factors equal to p/q with q up to this bound are
	// applied exactly.
	MaxDenominator int64
	// MinDivisor and MaxDivisor bound the candidates Divisors considers.
	MinDivisor int
	MaxDivisor int
	// DivisorDenominators are the denominators a divided amount may have for
	// a divisor to count as clean.
	DivisorDenominators []int64
}

const (
	defaultMaxDenominator = 16
	defaultMinDivisor     = 2
	defaultMaxDivisor     = 12
)

// DefaultOptions returns the stock units, formatting and divisor policy.
func DefaultOptions() Options {
	return Options{
		Units:               quantity.DefaultUnits(),
		Format:              quantity.DefaultFormat(),
		MaxDenominator:      defaultMaxDenominator,
		MinDivisor:          defaultMinDivisor,
		MaxDivisor:          defaultMaxDivisor,
		DivisorDenominators: []int64{1, 2, 3, 4},
	}
}

// Engine runs the recipe operations with a fixed set of options.
type Engine struct {
	opts Options
}

// New returns an Engine. Zero or out-of-range fields fall back to defaults.
func New(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Units == nil {
		opts.Units = def.Units
	}
	if len(opts.Format.FractionDenominators) == 0 {
		opts.Format.FractionDenominators = def.Format.FractionDenominators
	}
	if opts.Format.DecimalPlaces <= 0 {
		opts.Format.DecimalPlaces = def.Format.DecimalPlaces
	}
	if opts.MaxDenominator <= 0 {
		opts.MaxDenominator = def.MaxDenominator
	}
	if opts.MinDivisor < 2 {
		opts.MinDivisor = def.MinDivisor
	}
	if opts.MaxDivisor <= 0 {
		opts.MaxDivisor = def.MaxDivisor
	}
	if len(opts.DivisorDenominators) == 0 {
		opts.DivisorDenominators = def.DivisorDenominators
	}
	return &Engine{opts: opts}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

var defaultEngine = New(DefaultOptions())

// Parse reads text with the default options.
func Parse(text string) Recipe { return defaultEngine.Parse(text) }

// Render serializes r with the default options.
func Render(r Recipe) string { return defaultEngine.Render(r) }

// Scale multiplies r by factor with the default options.
func Scale(r Recipe, factor float64) (Recipe, error) { return defaultEngine.Scale(r, factor) }

// Divisors lists clean divisors of r with the default options.
func Divisors(r Recipe) []int { return defaultEngine.Divisors(r) }

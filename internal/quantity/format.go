package quantity

import (
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// FormatOptions controls how a value with no source spelling is rendered.
type FormatOptions struct {
	// FractionDenominators are denominators shown as fractions rather than
	// decimals. 1 is always treated as a member.
	FractionDenominators []int64
	// DecimalPlaces caps the fractional digits of the decimal fallback.
	DecimalPlaces int
}

// DefaultFormat returns the stock cooking-friendly policy: halves, thirds,
// quarters and eighths as fractions, everything else to two decimals.
func DefaultFormat() FormatOptions {
	return FormatOptions{
		FractionDenominators: []int64{1, 2, 3, 4, 8},
		DecimalPlaces:        2,
	}
}

// String returns the source spelling when present, otherwise the default format.
func (q Quantity) String() string {
	if q.literal != "" {
		return q.literal
	}
	return q.Format(DefaultFormat())
}

// Format renders the value using q's own display hint.
func (q Quantity) Format(opts FormatOptions) string {
	return q.FormatAs(q.style, opts)
}

// maxDecimalPlaces keeps 10^places within int64.
const maxDecimalPlaces = 18

// FormatAs renders the value with an explicit display hint. Whole numbers
// always render as plain integers. Values whose denominator is in the
// fraction set render as a fraction (or mixed number above one); a decimal
// hint keeps decimal form when it is exact within DecimalPlaces. Anything
// else becomes a decimal rounded to DecimalPlaces with trailing zeros
// removed; a nonzero value too small for that keeps one significant digit.
func (q Quantity) FormatAs(style Style, opts FormatOptions) string {
	den := q.Den()
	if den == 1 {
		return strconv.FormatInt(q.num, 10)
	}
	places := min(max(opts.DecimalPlaces, 0), maxDecimalPlaces)
	if slices.Contains(opts.FractionDenominators, den) {
		if style == StyleDecimal && pow10(places)%den == 0 {
			return formatDecimal(q.num, den, places)
		}
		return formatFraction(q.num, den)
	}
	return formatDecimal(q.num, den, places)
}

func formatFraction(num, den int64) string {
	sign := ""
	if num < 0 {
		sign = "-"
		num = -num
	}
	whole, rem := num/den, num%den
	if whole == 0 {
		return sign + strconv.FormatInt(rem, 10) + "/" + strconv.FormatInt(den, 10)
	}
	return sign + strconv.FormatInt(whole, 10) + " " + strconv.FormatInt(rem, 10) + "/" + strconv.FormatInt(den, 10)
}

// formatDecimal rounds half away from zero to the given number of places.
// When that rounds a nonzero value to zero, places grow until the first
// significant digit shows.
func formatDecimal(num, den int64, places int) string {
	n := new(big.Int).Abs(big.NewInt(num))
	d := big.NewInt(den)
	twoD := new(big.Int).Lsh(d, 1)

	var scaled *big.Int
	for {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
		// (2*n*scale + d) / (2*d)
		scaled = new(big.Int).Mul(n, scale)
		scaled.Lsh(scaled, 1).Add(scaled, d).Quo(scaled, twoD)
		if scaled.Sign() != 0 || num == 0 {
			break
		}
		places++
	}

	digits := scaled.String()
	if len(digits) <= places {
		digits = strings.Repeat("0", places-len(digits)+1) + digits
	}
	whole, frac := digits[:len(digits)-places], strings.TrimRight(digits[len(digits)-places:], "0")

	var b strings.Builder
	if num < 0 && scaled.Sign() != 0 {
		b.WriteByte('-')
	}
	b.WriteString(whole)
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

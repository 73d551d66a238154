// Package quantity models measured recipe amounts as exact rationals.
//
// A Quantity remembers how its source text spelled the amount so that an
// untouched value renders byte-for-byte the way it was written. Arithmetic
// returns new values and drops the spelling only when the value changes.
package quantity

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"regexp"
	"strconv"
	"strings"
)

// ErrOutOfRange is returned when a product does not fit the int64 range of
// a Quantity's numerator and denominator.
var ErrOutOfRange = errors.New("quantity out of range")

// Style is the display hint captured from the source text.
type Style int

const (
	StyleInteger  Style = iota // "2"
	StyleDecimal               // "1.5"
	StyleFraction              // "1/2"
	StyleMixed                 // "1 1/2"
)

func (s Style) String() string {
	switch s {
	case StyleInteger:
		return "integer"
	case StyleDecimal:
		return "decimal"
	case StyleFraction:
		return "fraction"
	case StyleMixed:
		return "mixed"
	}
	return "unknown"
}

// Unit is the measure attached to an amount.
type Unit struct {
	Text string // As written in the source, e.g. "Cups"
	Name string // Canonical vocabulary name, e.g. "cup"
}

// Quantity is an immutable rational amount with an optional unit.
// The zero value is 0/1 with no unit.
type Quantity struct {
	num     int64
	den     int64
	style   Style
	unit    Unit
	literal string
}

// New returns num/den in lowest terms. It panics if den is zero.
func New(num, den int64) Quantity {
	if den == 0 {
		panic("quantity: zero denominator")
	}
	n, d := reduce(num, den)
	style := StyleInteger
	if d != 1 {
		style = StyleFraction
	}
	return Quantity{num: n, den: d, style: style}
}

// Num returns the numerator in lowest terms.
func (q Quantity) Num() int64 { return q.num }

// Den returns the positive denominator in lowest terms.
func (q Quantity) Den() int64 {
	if q.den == 0 {
		return 1
	}
	return q.den
}

func (q Quantity) Style() Style { return q.style }
func (q Quantity) Unit() Unit   { return q.unit }

// Literal returns the source spelling of the amount, or "" once the value
// has been changed by arithmetic.
func (q Quantity) Literal() string { return q.literal }

// Float returns the value as a float64.
func (q Quantity) Float() float64 {
	return float64(q.num) / float64(q.Den())
}

// IsWhole reports whether the value is an integer.
func (q Quantity) IsWhole() bool { return q.Den() == 1 }

// Equal reports whether q and o have the same value. Unit and spelling are ignored.
func (q Quantity) Equal(o Quantity) bool {
	return q.num == o.num && q.Den() == o.Den()
}

// WithUnit returns a copy of q carrying u.
func (q Quantity) WithUnit(u Unit) Quantity {
	q.unit = u
	return q
}

// WithStyle returns a copy of q with a different display hint. The source
// spelling is dropped so the new style takes effect when rendering.
func (q Quantity) WithStyle(s Style) Quantity {
	q.style = s
	q.literal = ""
	return q
}

// Clone returns a copy whose strings share no memory with the original.
func (q Quantity) Clone() Quantity {
	q.literal = strings.Clone(q.literal)
	q.unit.Text = strings.Clone(q.unit.Text)
	q.unit.Name = strings.Clone(q.unit.Name)
	return q
}

// MulRat multiplies q by num/den in exact arithmetic. It panics if den is
// zero and returns ErrOutOfRange when the product overflows.
func (q Quantity) MulRat(num, den int64) (Quantity, error) {
	if den == 0 {
		panic("quantity: zero denominator")
	}
	if num == math.MinInt64 || den == math.MinInt64 {
		return Quantity{}, fmt.Errorf("%w: %s * %d/%d", ErrOutOfRange, q, num, den)
	}
	// Cross-reduce first to keep the intermediate products small.
	g1 := gcd(abs(q.num), abs(den))
	g2 := gcd(abs(num), q.Den())
	if g1 == 0 {
		g1 = 1
	}
	if g2 == 0 {
		g2 = 1
	}
	n, ok1 := mulChecked(q.num/g1, num/g2)
	d, ok2 := mulChecked(q.Den()/g2, den/g1)
	if !ok1 || !ok2 {
		return Quantity{}, fmt.Errorf("%w: %s * %d/%d", ErrOutOfRange, q, num, den)
	}
	return q.derive(n, d), nil
}

// MulFloat multiplies q by an arbitrary real factor and snaps the product to
// the nearest fraction whose denominator is at most maxDen.
func (q Quantity) MulFloat(f float64, maxDen int64) (Quantity, error) {
	n, d, ok := Approximate(q.Float()*f, maxDen)
	if !ok {
		return Quantity{}, fmt.Errorf("%w: %s * %v", ErrOutOfRange, q, f)
	}
	return q.derive(n, d), nil
}

// derive builds a product of q, keeping q's spelling when the value is unchanged.
func (q Quantity) derive(num, den int64) Quantity {
	n, d := reduce(num, den)
	out := q
	out.num, out.den = n, d
	if n != q.num || d != q.Den() {
		out.literal = ""
	}
	return out
}

// Approximate returns the fraction nearest to v with a denominator in
// [1, maxDen]. Ties go to the smaller denominator. It reports false for NaN,
// infinities and values whose numerator would not fit in an int64.
func Approximate(v float64, maxDen int64) (num, den int64, ok bool) {
	if maxDen < 1 {
		maxDen = 1
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v)*float64(maxDen) >= limit {
		return 0, 1, false
	}
	bestErr := math.Inf(1)
	for d := int64(1); d <= maxDen; d++ {
		n := math.Round(v * float64(d))
		err := math.Abs(v - n/float64(d))
		if err < bestErr {
			bestErr = err
			num, den = int64(n), d
		}
	}
	num, den = reduce(num, den)
	return num, den, true
}

// limit is 2^63, the first float64 outside the int64 range.
const limit = float64(1 << 63)

var (
	mixedPattern    = regexp.MustCompile(`^(-?)(\d+) (\d+)/(\d+)`)
	fractionPattern = regexp.MustCompile(`^(-?\d+)/(\d+)`)
	decimalPattern  = regexp.MustCompile(`^-?\d+(?:\.\d+)?`)
)

// Parse reads a complete amount such as "2", "1.25", "3/4" or "1 1/2".
func Parse(text string) (Quantity, bool) {
	q, rest, ok := ParsePrefix(text)
	if !ok || rest != "" {
		return Quantity{}, false
	}
	return q, true
}

// ParsePrefix reads an amount from the start of text and returns the text
// that follows it. The amount must be followed by a space or the end of the
// input. Forms are tried in order: mixed fraction, simple fraction, decimal;
// a form with a zero denominator or an out-of-range value does not match.
func ParsePrefix(text string) (Quantity, string, bool) {
	if m := mixedPattern.FindStringSubmatch(text); m != nil && atBoundary(text, len(m[0])) {
		whole, err1 := strconv.ParseInt(m[2], 10, 64)
		n, err2 := strconv.ParseInt(m[3], 10, 64)
		d, err3 := strconv.ParseInt(m[4], 10, 64)
		if err1 == nil && err2 == nil && err3 == nil && d != 0 {
			if num, ok := mixedNumerator(whole, n, d); ok {
				if m[1] == "-" {
					num = -num
				}
				return literal(num, d, StyleMixed, m[0]), text[len(m[0]):], true
			}
		}
	}

	if m := fractionPattern.FindStringSubmatch(text); m != nil && atBoundary(text, len(m[0])) {
		n, err1 := strconv.ParseInt(m[1], 10, 64)
		d, err2 := strconv.ParseInt(m[2], 10, 64)
		if err1 == nil && err2 == nil && d != 0 && n != math.MinInt64 {
			return literal(n, d, StyleFraction, m[0]), text[len(m[0]):], true
		}
	}

	if m := decimalPattern.FindString(text); m != "" && atBoundary(text, len(m)) {
		whole, frac, hasFrac := strings.Cut(m, ".")
		if !hasFrac {
			n, err := strconv.ParseInt(whole, 10, 64)
			if err != nil || n == math.MinInt64 {
				return Quantity{}, text, false
			}
			return literal(n, 1, StyleInteger, m), text[len(m):], true
		}
		if len(frac) > 18 {
			return Quantity{}, text, false
		}
		n, err := strconv.ParseInt(whole+frac, 10, 64)
		if err != nil || n == math.MinInt64 {
			return Quantity{}, text, false
		}
		return literal(n, pow10(len(frac)), StyleDecimal, m), text[len(m):], true
	}

	return Quantity{}, text, false
}

// mixedNumerator returns whole*d + n for an unsigned mixed number.
func mixedNumerator(whole, n, d int64) (int64, bool) {
	p, ok := mulChecked(whole, d)
	if !ok || p > math.MaxInt64-n {
		return 0, false
	}
	return p + n, true
}

// mulChecked returns a*b, or false when the product leaves (MinInt64, MaxInt64].
func mulChecked(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(uabs(a), uabs(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	p := int64(lo)
	if (a < 0) != (b < 0) {
		p = -p
	}
	return p, true
}

func uabs(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

func literal(num, den int64, style Style, src string) Quantity {
	n, d := reduce(num, den)
	return Quantity{num: n, den: d, style: style, literal: src}
}

func atBoundary(text string, end int) bool {
	return end == len(text) || text[end] == ' '
}

func reduce(num, den int64) (int64, int64) {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return 0, 1
	}
	g := gcd(abs(num), den)
	return num / g, den / g
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func pow10(n int) int64 {
	p := int64(1)
	for range n {
		p *= 10
	}
	return p
}

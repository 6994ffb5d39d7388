// Package duration implements the rational-number duration
// arithmetic the walker and engine share: named LilyPond duration
// tokens, dot/scaler/tuplet accumulation, and the divisions
// computation MusicXML requires (every written duration must be an
// integer number of divisions).
package duration

import "fmt"

// Frac is a rational number kept in lowest terms, used for both the
// written base duration and the accumulated scaling factor.
type Frac struct {
	Num, Den int64
}

// NewFrac builds a reduced fraction; Den must be non-zero.
func NewFrac(num, den int64) Frac {
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs64(num), den)
	if g == 0 {
		g = 1
	}
	return Frac{num / g, den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Mul returns f*g, reduced.
func (f Frac) Mul(g Frac) Frac { return NewFrac(f.Num*g.Num, f.Den*g.Den) }

// Add returns f+g, reduced.
func (f Frac) Add(g Frac) Frac { return NewFrac(f.Num*g.Den+g.Num*f.Den, f.Den*g.Den) }

// Sub returns f-g, reduced.
func (f Frac) Sub(g Frac) Frac { return NewFrac(f.Num*g.Den-g.Num*f.Den, f.Den*g.Den) }

// Inv returns 1/f.
func (f Frac) Inv() Frac { return NewFrac(f.Den, f.Num) }

// Less reports f < g.
func (f Frac) Less(g Frac) bool { return f.Num*g.Den < g.Num*f.Den }

// Equal reports f == g (both already reduced).
func (f Frac) Equal(g Frac) bool { return f.Num == g.Num && f.Den == g.Den }

// IsZero reports whether f is exactly zero.
func (f Frac) IsZero() bool { return f.Num == 0 }

func (f Frac) String() string { return fmt.Sprintf("%d/%d", f.Num, f.Den) }

// Float64 returns the fraction as a float64, used only for display.
func (f Frac) Float64() float64 { return float64(f.Num) / float64(f.Den) }

// Type is a named LilyPond/MusicXML duration value.
type Type int

const (
	TypeUnknown Type = iota
	TypeMaxima
	TypeLong
	TypeBreve
	TypeWhole
	TypeHalf
	TypeQuarter
	TypeEighth
	Type16th
	Type32nd
	Type64th
	Type128th
	Type256th
	Type512th
	Type1024th
	Type2048th
)

var typeNames = map[Type]string{
	TypeMaxima:  "maxima",
	TypeLong:    "long",
	TypeBreve:   "breve",
	TypeWhole:   "whole",
	TypeHalf:    "half",
	TypeQuarter: "quarter",
	TypeEighth:  "eighth",
	Type16th:    "16th",
	Type32nd:    "32nd",
	Type64th:    "64th",
	Type128th:   "128th",
	Type256th:   "256th",
	Type512th:   "512th",
	Type1024th:  "1024th",
	Type2048th:  "2048th",
}

// String returns the MusicXML <type> content for t.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "quarter"
}

// baseFracs holds each named type's duration as a fraction of a whole note.
var baseFracs = map[Type]Frac{
	TypeMaxima:  {8, 1},
	TypeLong:    {4, 1},
	TypeBreve:   {2, 1},
	TypeWhole:   {1, 1},
	TypeHalf:    {1, 2},
	TypeQuarter: {1, 4},
	TypeEighth:  {1, 8},
	Type16th:    {1, 16},
	Type32nd:    {1, 32},
	Type64th:    {1, 64},
	Type128th:   {1, 128},
	Type256th:   {1, 256},
	Type512th:   {1, 512},
	Type1024th:  {1, 1024},
	Type2048th:  {1, 2048},
}

// TypeFromLog returns the named type for a LilyPond duration token
// (1 = whole, 2 = half, 4 = quarter, ... 2048), the inverse-power-of-
// two numbers written directly in source.
func TypeFromLog(log int) (Type, bool) {
	switch log {
	case -3:
		return TypeMaxima, true
	case -2:
		return TypeLong, true
	case -1:
		return TypeBreve, true
	case 1:
		return TypeWhole, true
	case 2:
		return TypeHalf, true
	case 4:
		return TypeQuarter, true
	case 8:
		return TypeEighth, true
	case 16:
		return Type16th, true
	case 32:
		return Type32nd, true
	case 64:
		return Type64th, true
	case 128:
		return Type128th, true
	case 256:
		return Type256th, true
	case 512:
		return Type512th, true
	case 1024:
		return Type1024th, true
	case 2048:
		return Type2048th, true
	default:
		return TypeUnknown, false
	}
}

// Duration is the (base, scaling) pair the spec's data model names:
// base is the written note value as a fraction of a whole note
// (dots included, see Base), scaling accumulates scaler/tuplet
// multipliers.
type Duration struct {
	Type    Type
	Dots    int
	Scaling Frac
}

// NewDuration builds a duration from a named type and dot count, with
// scaling initialized to 1 (no scaler or tuplet applied yet).
func NewDuration(t Type, dots int) Duration {
	return Duration{Type: t, Dots: dots, Scaling: Frac{1, 1}}
}

// Base returns the written fraction of a whole note including dots
// but excluding scaling (e.g. quarter+1 dot = 3/8).
func (d Duration) Base() Frac {
	b, ok := baseFracs[d.Type]
	if !ok {
		b = baseFracs[TypeQuarter]
	}
	// Each dot adds half of the remaining value: 1 dot -> *1.5,
	// 2 dots -> *1.75, computed as (2^(dots+1)-1)/2^dots.
	num := int64(1)<<uint(d.Dots+1) - 1
	den := int64(1) << uint(d.Dots)
	return b.Mul(NewFrac(num, den))
}

// Length returns the duration's total length as a fraction of a
// whole note, base times accumulated scaling — what the walker calls
// to advance total_time/time_since_bar.
func (d Duration) Length() Frac {
	return d.Base().Mul(d.Scaling)
}

// Scale multiplies the scaling factor by f, used for \scaleDurations,
// tuplet ratios, and multi-measure rest replication.
func (d Duration) Scale(f Frac) Duration {
	d.Scaling = d.Scaling.Mul(f)
	return d
}

// CheckDivs computes the new divisions value required so that this
// duration, at the given current divisions-per-quarter, remains an
// integer number of divisions. It returns the multiplier that must be
// applied to divisions (mult=1 means no change needed).
//
// mult = denominator( simplify(4 * divisions * scaling * base) )
func CheckDivs(d Duration, divisions int64) int64 {
	four := Frac{4, 1}
	divs := Frac{divisions, 1}
	val := four.Mul(divs).Mul(d.Scaling).Mul(d.Base())
	if val.Den <= 0 {
		return 1
	}
	return val.Den
}

// Package fixed provides the 9-decimal fixed-point arithmetic used by higher
// layers to derive the integer magnitudes that enter ledger cells.
//
// Values are non-negative by construction. All operations truncate to nine
// decimal places, so arithmetic is deterministic across platforms with no
// floating point anywhere.
package fixed

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Places is the fixed decimal precision of every Value.
const Places = 9

// Arithmetic sentinel errors.
var (
	ErrDividedByZero      = errors.New("tally: division by zero")
	ErrSubtrahendTooLarge = errors.New("tally: subtrahend exceeds minuend")
)

// Value is a non-negative fixed-point number with nine decimal places.
// The zero value is ready to use and equals Zero().
type Value struct {
	d decimal.Decimal
}

func trunc(d decimal.Decimal) Value {
	return Value{d: d.Truncate(Places)}
}

// ──────────────────────────────────────────────────
// Constructors
// ──────────────────────────────────────────────────

// Zero returns the zero value.
func Zero() Value { return Value{} }

// One returns the value 1.
func One() Value { return FromInt(1) }

// FromInt returns n as a fixed-point value.
func FromInt(n uint64) Value {
	return Value{d: decimal.NewFromUint64(n)}
}

// FromPercent returns n percent, i.e. n/100.
func FromPercent(n uint64) Value {
	return trunc(decimal.NewFromUint64(n).Shift(-2))
}

// FromBps returns n basis points, i.e. n/10000.
func FromBps(n uint64) Value {
	return trunc(decimal.NewFromUint64(n).Shift(-4))
}

// FromRatio returns num/den. A zero denominator fails with ErrDividedByZero.
func FromRatio(num, den uint64) (Value, error) {
	if den == 0 {
		return Zero(), ErrDividedByZero
	}
	return trunc(decimal.NewFromUint64(num).Div(decimal.NewFromUint64(den))), nil
}

// ──────────────────────────────────────────────────
// Arithmetic
// ──────────────────────────────────────────────────

// Add returns v + o.
func (v Value) Add(o Value) Value {
	return Value{d: v.d.Add(o.d)}
}

// Sub returns v - o, failing with ErrSubtrahendTooLarge if the result would
// be negative. Values never go below zero.
func (v Value) Sub(o Value) (Value, error) {
	if o.d.GreaterThan(v.d) {
		return Zero(), ErrSubtrahendTooLarge
	}
	return Value{d: v.d.Sub(o.d)}, nil
}

// SaturatingSub returns v - o, clamped to zero.
func (v Value) SaturatingSub(o Value) Value {
	if o.d.GreaterThan(v.d) {
		return Zero()
	}
	return Value{d: v.d.Sub(o.d)}
}

// Mul returns v * o truncated to nine decimal places.
func (v Value) Mul(o Value) Value {
	return trunc(v.d.Mul(o.d))
}

// Div returns v / o truncated to nine decimal places. A zero divisor fails
// with ErrDividedByZero.
func (v Value) Div(o Value) (Value, error) {
	if o.d.IsZero() {
		return Zero(), ErrDividedByZero
	}
	return trunc(v.d.Div(o.d)), nil
}

// Pow returns v raised to an integer exponent by repeated squaring,
// truncating to nine decimal places after each multiplication. Pow(0) is 1.
func (v Value) Pow(exp uint64) Value {
	result := One()
	base := v
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		exp >>= 1
		if exp > 0 {
			base = base.Mul(base)
		}
	}
	return result
}

// Floor truncates to the largest integer not greater than v.
func (v Value) Floor() uint64 {
	return v.d.Floor().BigInt().Uint64()
}

// Ceil rounds up to the smallest integer not less than v.
func (v Value) Ceil() uint64 {
	return v.d.Ceil().BigInt().Uint64()
}

// ──────────────────────────────────────────────────
// Ordering
// ──────────────────────────────────────────────────

// Cmp compares v and o, returning -1, 0, or 1.
func (v Value) Cmp(o Value) int { return v.d.Cmp(o.d) }

// Equal reports v == o.
func (v Value) Equal(o Value) bool { return v.d.Equal(o.d) }

// LessThan reports v < o.
func (v Value) LessThan(o Value) bool { return v.d.LessThan(o.d) }

// GreaterThan reports v > o.
func (v Value) GreaterThan(o Value) bool { return v.d.GreaterThan(o.d) }

// IsZero reports whether v is exactly zero.
func (v Value) IsZero() bool { return v.d.IsZero() }

// String returns the decimal representation.
func (v Value) String() string { return v.d.String() }

// Package money provides the exact fixed-point decimal type used for all
// monetary values. Amounts are backed by an arbitrary-precision integer
// mantissa with an explicit scale; binary floating point is never used for
// storage or comparison.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every externally visible amount
// is normalized to. Intermediate arithmetic may carry more precision;
// rounding to Scale happens when a value is emitted.
const Scale = 6

var (
	ErrMalformedNumber = errors.New("money: malformed decimal number")
	ErrDivisionByZero  = errors.New("money: division by zero")
)

var hundred = decimal.NewFromInt(100)

// Decimal is an immutable exact decimal value. The zero value is 0.
type Decimal struct {
	d decimal.Decimal
}

// New parses a decimal-formatted string. String input is the preferred
// constructor for monetary values because it carries no float precision loss.
func New(value string) (Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: %q", ErrMalformedNumber, value)
	}

	return Decimal{d: d}, nil
}

// MustNew is New for trusted literals; it panics on malformed input.
func MustNew(value string) Decimal {
	d, err := New(value)
	if err != nil {
		panic(err)
	}

	return d
}

// FromInt builds a Decimal from an integer amount.
func FromInt(value int64) Decimal {
	return Decimal{d: decimal.NewFromInt(value)}
}

// FromFloat builds a Decimal from a float. Prefer New: float input may have
// already lost precision before it gets here.
func FromFloat(value float64) Decimal {
	return Decimal{d: decimal.NewFromFloat(value)}
}

// FromDecimal wraps a raw decimal value, e.g. one scanned from the database.
func FromDecimal(d decimal.Decimal) Decimal {
	return Decimal{d: d}
}

// Zero returns the zero amount.
func Zero() Decimal {
	return Decimal{}
}

func (m Decimal) Add(other Decimal) Decimal {
	return Decimal{d: m.d.Add(other.d)}
}

func (m Decimal) Sub(other Decimal) Decimal {
	return Decimal{d: m.d.Sub(other.d)}
}

func (m Decimal) Mul(other Decimal) Decimal {
	return Decimal{d: m.d.Mul(other.d)}
}

// Div divides by other at the given scale, rounding half-up. Division
// requires an explicit scale: the quotient of two exact decimals need not
// terminate.
func (m Decimal) Div(other Decimal, scale int32) (Decimal, error) {
	if other.d.IsZero() {
		return Decimal{}, ErrDivisionByZero
	}

	return Decimal{d: m.d.DivRound(other.d, scale)}, nil
}

// Percentage computes value × p ⁄ 100 rounded half-up to scale.
func (m Decimal) Percentage(p Decimal, scale int32) Decimal {
	return Decimal{d: m.d.Mul(p.d).DivRound(hundred, scale)}
}

// Round rounds half-up to the given number of fractional digits.
func (m Decimal) Round(scale int32) Decimal {
	return Decimal{d: m.d.Round(scale)}
}

func (m Decimal) Neg() Decimal {
	return Decimal{d: m.d.Neg()}
}

func (m Decimal) Abs() Decimal {
	return Decimal{d: m.d.Abs()}
}

// Cmp returns -1, 0 or 1. Comparison is exact; no epsilon, no floats.
func (m Decimal) Cmp(other Decimal) int {
	return m.d.Cmp(other.d)
}

func (m Decimal) Equal(other Decimal) bool {
	return m.d.Equal(other.d)
}

func (m Decimal) LessThan(other Decimal) bool {
	return m.d.LessThan(other.d)
}

func (m Decimal) LessThanOrEqual(other Decimal) bool {
	return m.d.LessThanOrEqual(other.d)
}

func (m Decimal) GreaterThan(other Decimal) bool {
	return m.d.GreaterThan(other.d)
}

func (m Decimal) IsZero() bool {
	return m.d.IsZero()
}

func (m Decimal) IsPositive() bool {
	return m.d.IsPositive()
}

func (m Decimal) IsNegative() bool {
	return m.d.IsNegative()
}

// Fixed renders the value with exactly scale fractional digits, half-up.
func (m Decimal) Fixed(scale int32) string {
	return m.d.StringFixed(scale)
}

// String renders the value normalized to the standard 6-digit scale.
func (m Decimal) String() string {
	return m.Fixed(Scale)
}

// Decimal exposes the underlying raw value for storage adapters.
func (m Decimal) Decimal() decimal.Decimal {
	return m.d
}

// MarshalJSON encodes the amount as a decimal string at the standard scale.
func (m Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or a bare JSON number.
func (m *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*m = Decimal{}
		return nil
	}

	d, err := New(s)
	if err != nil {
		return err
	}

	*m = d

	return nil
}

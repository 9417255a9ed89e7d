// Package ledger implements the fixed-point value types used for all money
// and percentage math in Payday.
//
// Money is always rounded to exactly two fractional digits. Binary floating
// point is never used for sums or comparisons.
package ledger

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits for all ledger values.
const Places = 2

// Epsilon is the tolerance for comparisons of derived values, e.g.
// the sum of allocated and remaining amounts of an income event.
var Epsilon = decimal.New(1, -Places)

// Money is an amount of money with two fractional digits.
type Money decimal.Decimal

// ZeroMoney is the zero amount.
var ZeroMoney = Money(decimal.Zero.Round(Places))

// NewMoney returns value * 10^exp, rounded to cents.
func NewMoney(value int64, exp int32) Money {
	return MoneyFromDecimal(decimal.New(value, exp))
}

// MoneyFromDecimal rounds a decimal to cents.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money(d.Round(Places))
}

// ParseMoney parses a decimal string like "1500.25".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroMoney, fmt.Errorf("%q is not a valid amount of money: %w", s, err)
	}

	return MoneyFromDecimal(d), nil
}

// MustParseMoney is like ParseMoney, but panics on invalid input.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// SumMoney adds up all values.
func SumMoney(values ...Money) Money {
	sum := ZeroMoney
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.Decimal(m)
}

func (m Money) Add(n Money) Money {
	return MoneyFromDecimal(m.Decimal().Add(n.Decimal()))
}

func (m Money) Sub(n Money) Money {
	return MoneyFromDecimal(m.Decimal().Sub(n.Decimal()))
}

func (m Money) Neg() Money {
	return MoneyFromDecimal(m.Decimal().Neg())
}

func (m Money) Abs() Money {
	return MoneyFromDecimal(m.Decimal().Abs())
}

// Percent returns p percent of m, rounded to cents.
func (m Money) Percent(p Percentage) Money {
	return MoneyFromDecimal(m.Decimal().Mul(p.Decimal()).Div(hundred))
}

// Min returns the smaller of m and n.
func (m Money) Min(n Money) Money {
	if m.Cmp(n) <= 0 {
		return m
	}
	return n
}

// Cmp compares m and n exactly and returns -1, 0 or +1.
func (m Money) Cmp(n Money) int {
	return m.Decimal().Cmp(n.Decimal())
}

// Equal reports whether m and n are the exact same amount.
func (m Money) Equal(n Money) bool {
	return m.Cmp(n) == 0
}

func (m Money) GreaterThan(n Money) bool {
	return m.Cmp(n) > 0
}

func (m Money) GreaterThanOrEqual(n Money) bool {
	return m.Cmp(n) >= 0
}

func (m Money) LessThan(n Money) bool {
	return m.Cmp(n) < 0
}

func (m Money) LessThanOrEqual(n Money) bool {
	return m.Cmp(n) <= 0
}

func (m Money) IsZero() bool {
	return m.Decimal().IsZero()
}

func (m Money) IsPositive() bool {
	return m.Decimal().IsPositive()
}

func (m Money) IsNegative() bool {
	return m.Decimal().IsNegative()
}

// ApproxEqual reports whether m and n differ by at most Epsilon.
func (m Money) ApproxEqual(n Money) bool {
	return m.Decimal().Sub(n.Decimal()).Abs().LessThanOrEqual(Epsilon)
}

// String returns the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(Places)
}

// MarshalJSON implements the json.Marshaler interface.
//
// Amounts are encoded as strings to keep clients from parsing them as floats.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Both quoted and unquoted numbers are accepted.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%s is not a valid amount of money: %w", data, err)
	}

	*m = MoneyFromDecimal(d)
	return nil
}

// Scan reads the value from the database.
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}

	*m = MoneyFromDecimal(d)
	return nil
}

// Value returns the value for the SQL driver to write to the database.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// GormDataType defines the data type used by gorm for the type.
func (Money) GormDataType() string {
	return "DECIMAL(20,2)"
}

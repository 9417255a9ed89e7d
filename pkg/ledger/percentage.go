package ledger

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percentage is a percentage with two fractional digits.
//
// Values outside of [0, 100] can be represented so that sums and
// differences can be computed. Use InRange to validate user input.
type Percentage decimal.Decimal

var (
	ZeroPercentage    = Percentage(decimal.Zero.Round(Places))
	HundredPercentage = Percentage(hundred.Round(Places))
)

func NewPercentage(value int64, exp int32) Percentage {
	return PercentageFromDecimal(decimal.New(value, exp))
}

// PercentageFromDecimal rounds a decimal to two fractional digits.
func PercentageFromDecimal(d decimal.Decimal) Percentage {
	return Percentage(d.Round(Places))
}

// ParsePercentage parses a decimal string like "62.5".
func ParsePercentage(s string) (Percentage, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroPercentage, fmt.Errorf("%q is not a valid percentage: %w", s, err)
	}

	return PercentageFromDecimal(d), nil
}

// MustParsePercentage is like ParsePercentage, but panics on invalid input.
func MustParsePercentage(s string) Percentage {
	p, err := ParsePercentage(s)
	if err != nil {
		panic(err)
	}
	return p
}

// SumPercentages adds up all values.
func SumPercentages(values ...Percentage) Percentage {
	sum := ZeroPercentage
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum
}

// Decimal returns the underlying decimal value.
func (p Percentage) Decimal() decimal.Decimal {
	return decimal.Decimal(p)
}

func (p Percentage) Add(q Percentage) Percentage {
	return PercentageFromDecimal(p.Decimal().Add(q.Decimal()))
}

func (p Percentage) Sub(q Percentage) Percentage {
	return PercentageFromDecimal(p.Decimal().Sub(q.Decimal()))
}

func (p Percentage) Cmp(q Percentage) int {
	return p.Decimal().Cmp(q.Decimal())
}

func (p Percentage) Equal(q Percentage) bool {
	return p.Cmp(q) == 0
}

func (p Percentage) GreaterThan(q Percentage) bool {
	return p.Cmp(q) > 0
}

func (p Percentage) IsZero() bool {
	return p.Decimal().IsZero()
}

// InRange reports whether p is within [0, 100].
func (p Percentage) InRange() bool {
	return !p.Decimal().IsNegative() && p.Decimal().LessThanOrEqual(hundred)
}

// Clamp limits p to [0, 100].
func (p Percentage) Clamp() Percentage {
	if p.Decimal().IsNegative() {
		return ZeroPercentage
	}

	if p.Decimal().GreaterThan(hundred) {
		return HundredPercentage
	}

	return p
}

// ApproxEqual reports whether p and q differ by at most Epsilon.
func (p Percentage) ApproxEqual(q Percentage) bool {
	return p.Decimal().Sub(q.Decimal()).Abs().LessThanOrEqual(Epsilon)
}

// String returns the percentage with exactly two fractional digits.
func (p Percentage) String() string {
	return p.Decimal().StringFixed(Places)
}

// MarshalJSON implements the json.Marshaler interface.
func (p Percentage) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Both quoted and unquoted numbers are accepted.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%s is not a valid percentage: %w", data, err)
	}

	*p = PercentageFromDecimal(d)
	return nil
}

// Scan reads the value from the database.
func (p *Percentage) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}

	*p = PercentageFromDecimal(d)
	return nil
}

// Value returns the value for the SQL driver to write to the database.
func (p Percentage) Value() (driver.Value, error) {
	return p.String(), nil
}

// GormDataType defines the data type used by gorm for the type.
func (Percentage) GormDataType() string {
	return "DECIMAL(5,2)"
}

// Package money holds the two-decimal amount type persisted as numeric(10,2).
package money

import (
	"github.com/shopspring/decimal"
)

const Scale = 2

// Max is the largest magnitude a numeric(10,2) column stores.
var Max = decimal.RequireFromString("99999999.99")

// Amount is a decimal that always renders with two fraction digits in JSON.
type Amount struct {
	decimal.Decimal
}

func New(d decimal.Decimal) Amount {
	return Amount{Decimal: d.Round(Scale)}
}

func FromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return New(d), nil
}

func MustString(s string) Amount {
	return New(decimal.RequireFromString(s))
}

// Fits reports whether a can be stored without overflowing the column.
func (a Amount) Fits() bool {
	return a.Abs().LessThanOrEqual(Max)
}

func (a Amount) String() string {
	return a.Decimal.StringFixed(Scale)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (Amount) GormDataType() string {
	return "numeric(10,2)"
}

package payment

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyEUR is the only currency the gateway accepts.
const CurrencyEUR = "EUR"

// Amount is an immutable monetary quantity. It is not validated on construction;
// Gateway.Pay owns the positivity and currency checks.
type Amount struct {
	value    decimal.Decimal
	currency string
}

func NewAmount(value decimal.Decimal, currency string) Amount {
	return Amount{value: value, currency: currency}
}

// ParseAmount builds an Amount from a decimal literal such as "12.50".
func ParseAmount(value, currency string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrMalformedAmount, value)
	}
	return NewAmount(d, currency), nil
}

func (a Amount) Value() decimal.Decimal { return a.value }
func (a Amount) Currency() string       { return a.currency }

func (a Amount) IsPositive() bool { return a.value.IsPositive() }

func (a Amount) String() string {
	if a.currency == "" {
		return a.value.String()
	}
	return a.value.StringFixed(2) + " " + a.currency
}

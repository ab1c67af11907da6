package money

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is an ISO 4217 currency code.
type Currency struct {
	code string
}

// NewCurrency creates a Currency after validating the code is exactly 3 uppercase letters.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	return Currency{code: code}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level
// variable initialization only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string { return c.code }

// String returns the currency code.
func (c Currency) String() string { return c.code }

// Currencies the export desk settles in. CAD is the base currency: agreed
// prices, commissions and bonuses are always denominated in CAD.
var (
	CAD = MustCurrency("CAD")
	USD = MustCurrency("USD")
	EUR = MustCurrency("EUR")
	JPY = MustCurrency("JPY")
)

// Amount represents an immutable monetary amount with currency.
type Amount struct {
	value    decimal.Decimal
	currency Currency
}

// NewAmount creates an Amount from a decimal value and currency.
func NewAmount(value decimal.Decimal, currency Currency) Amount {
	return Amount{value: value, currency: currency}
}

// ParseAmount parses an amount string and currency code into an Amount.
func ParseAmount(value string, currency string) (Amount, error) {
	cur, err := NewCurrency(currency)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid currency: %w", err)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return Amount{value: d, currency: cur}, nil
}

// Value returns the decimal value.
func (a Amount) Value() decimal.Decimal { return a.value }

// Currency returns the currency.
func (a Amount) Currency() Currency { return a.currency }

// IsZero reports whether the value is zero.
func (a Amount) IsZero() bool { return a.value.IsZero() }

// IsPositive reports whether the value is strictly greater than zero.
func (a Amount) IsPositive() bool { return a.value.IsPositive() }

// Add returns the sum of a and other. Currencies must match.
func (a Amount) Add(other Amount) (Amount, error) {
	if a.currency != other.currency {
		return Amount{}, fmt.Errorf("currency mismatch: cannot add %s to %s", other.currency, a.currency)
	}
	return Amount{value: a.value.Add(other.value), currency: a.currency}, nil
}

// Sub returns the difference of a minus other. Currencies must match.
func (a Amount) Sub(other Amount) (Amount, error) {
	if a.currency != other.currency {
		return Amount{}, fmt.Errorf("currency mismatch: cannot subtract %s from %s", other.currency, a.currency)
	}
	return Amount{value: a.value.Sub(other.value), currency: a.currency}, nil
}

// Equal reports whether both value and currency match.
func (a Amount) Equal(other Amount) bool {
	return a.currency == other.currency && a.value.Equal(other.value)
}

// String formats the amount as "<value> <currency>", for example "30000.00 CAD".
func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.value.StringFixed(2), a.currency.Code())
}

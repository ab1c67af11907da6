package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Registry is a read-only table of supported currencies and their exchange
// rates to USD. It is loaded once at startup and injected wherever USD
// reporting figures are needed; nothing in the core writes to it.
//
// Exchange rates carry six fractional digits.
type Registry struct {
	rates map[Currency]decimal.Decimal
}

// NewRegistry builds a Registry from a currency -> rate-to-USD map.
func NewRegistry(rates map[Currency]decimal.Decimal) *Registry {
	cp := make(map[Currency]decimal.Decimal, len(rates))
	for c, r := range rates {
		cp[c] = r.Round(6)
	}
	return &Registry{rates: cp}
}

// DefaultRegistry returns a registry seeded with the desk's supported
// currencies. Production deployments overwrite these at startup from the
// rates table.
func DefaultRegistry() *Registry {
	return NewRegistry(map[Currency]decimal.Decimal{
		CAD: decimal.RequireFromString("0.730000"),
		USD: decimal.RequireFromString("1.000000"),
		EUR: decimal.RequireFromString("1.080000"),
		JPY: decimal.RequireFromString("0.006700"),
	})
}

// Supported reports whether the currency is registered.
func (r *Registry) Supported(c Currency) bool {
	_, ok := r.rates[c]
	return ok
}

// RateToUSD returns the exchange rate from the given currency to USD.
func (r *Registry) RateToUSD(c Currency) (decimal.Decimal, error) {
	rate, ok := r.rates[c]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("unsupported currency %s", c)
	}
	return rate, nil
}

// ConvertToUSD converts the value from the given currency to USD, rounded to
// two fractional digits.
func (r *Registry) ConvertToUSD(value decimal.Decimal, from Currency) (decimal.Decimal, error) {
	rate, err := r.RateToUSD(from)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return value.Mul(rate).Round(2), nil
}

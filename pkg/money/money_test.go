package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurrency(t *testing.T) {
	t.Run("valid code", func(t *testing.T) {
		c, err := NewCurrency("CAD")
		require.NoError(t, err)
		assert.Equal(t, "CAD", c.Code())
	})

	t.Run("lowercase rejected", func(t *testing.T) {
		_, err := NewCurrency("cad")
		assert.Error(t, err)
	})

	t.Run("wrong length rejected", func(t *testing.T) {
		_, err := NewCurrency("CADX")
		assert.Error(t, err)
	})
}

func TestAmountArithmetic(t *testing.T) {
	a := NewAmount(decimal.NewFromInt(6000), CAD)
	b := NewAmount(decimal.NewFromInt(4500), CAD)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10500).Equal(sum.Value()))

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(diff.Value()))

	_, err = a.Add(NewAmount(decimal.NewFromInt(100), USD))
	assert.Error(t, err, "cross-currency add must fail")
}

func TestAmountString(t *testing.T) {
	a := NewAmount(decimal.RequireFromString("30000"), CAD)
	assert.Equal(t, "30000.00 CAD", a.String())
}

func TestRegistryConvertToUSD(t *testing.T) {
	reg := NewRegistry(map[Currency]decimal.Decimal{
		CAD: decimal.RequireFromString("0.730000"),
	})

	usd, err := reg.ConvertToUSD(decimal.NewFromInt(1000), CAD)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("730.00").Equal(usd))

	_, err = reg.ConvertToUSD(decimal.NewFromInt(1), JPY)
	assert.Error(t, err, "unregistered currency must fail")
}

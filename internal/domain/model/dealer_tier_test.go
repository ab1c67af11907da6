package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
)

func dealerWithQuarterlyDeals(deals int) model.DealerTier {
	return model.ReconstructDealerTier(
		"tier-1", "dealer-001", dealerTierLabel(deals), valueobject.MarketRegionStandard,
		deals, 0, deals,
		decimal.Zero, decimal.Zero, nil,
		false, false,
		false, false, false, false,
		1, tierInstant.AddDate(0, -2, 0), tierInstant,
	)
}

func dealerTierLabel(deals int) string {
	switch {
	case deals >= 50:
		return model.DealerTierPremier
	case deals >= 25:
		return model.DealerTierElite
	case deals >= 10:
		return model.DealerTierPreferred
	default:
		return model.DealerTierStandard
	}
}

func TestDealerTierBaseRate(t *testing.T) {
	cases := []struct {
		tier string
		rate string
	}{
		{model.DealerTierStandard, "5.0"},
		{model.DealerTierPreferred, "5.5"},
		{model.DealerTierElite, "6.0"},
		{model.DealerTierPremier, "6.5"},
	}
	for _, tc := range cases {
		got := model.DealerTierBaseRate(tc.tier)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.rate)),
			"%s should pay %s, got %s", tc.tier, tc.rate, got)
	}
}

func TestDealerTierThresholds(t *testing.T) {
	cases := []struct {
		deals int
		tier  string
	}{
		{1, model.DealerTierStandard},
		{9, model.DealerTierStandard},
		{10, model.DealerTierPreferred},
		{24, model.DealerTierPreferred},
		{25, model.DealerTierElite},
		{49, model.DealerTierElite},
		{50, model.DealerTierPremier},
	}
	for _, tc := range cases {
		tier := dealerWithQuarterlyDeals(tc.deals - 1)
		tier = tier.RecordCompletion(decimal.NewFromInt(30_000), decimal.NewFromInt(1500), tierToday, tierInstant)
		assert.Equal(t, tc.tier, tier.Tier(), "%d deals", tc.deals)
	}
}

func TestDealerCommissionRate(t *testing.T) {
	t.Run("region bonus is additive", func(t *testing.T) {
		cases := []struct {
			region valueobject.MarketRegion
			rate   string
		}{
			{valueobject.MarketRegionStandard, "5.0"},
			{valueobject.MarketRegionMajorProvince, "5.5"},
			{valueobject.MarketRegionMaritime, "5.75"},
			{valueobject.MarketRegionRural, "6.0"},
			{valueobject.MarketRegionFirstNations, "6.5"},
		}
		for _, tc := range cases {
			tier, err := model.NewDealerTier("dealer-001", tc.region, false, false, tierInstant)
			require.NoError(t, err)
			assert.True(t, tier.CommissionRate().Equal(decimal.RequireFromString(tc.rate)),
				"%s should pay %s, got %s", tc.region, tc.rate, tier.CommissionRate())
		}
	})

	t.Run("rate read before advancing pays the old tier", func(t *testing.T) {
		tier := dealerWithQuarterlyDeals(9) // standard, one short of preferred
		rate := tier.CommissionRate()
		tier = tier.RecordCompletion(decimal.NewFromInt(30_000), decimal.NewFromInt(1500), tierToday, tierInstant)

		assert.True(t, rate.Equal(decimal.RequireFromString("5.0")))
		assert.Equal(t, model.DealerTierPreferred, tier.Tier())
	})
}

func TestRegionForProvince(t *testing.T) {
	assert.True(t, valueobject.RegionForProvince("ON").Equal(valueobject.MarketRegionMajorProvince))
	assert.True(t, valueobject.RegionForProvince("NS").Equal(valueobject.MarketRegionMaritime))
	assert.True(t, valueobject.RegionForProvince("NU").Equal(valueobject.MarketRegionRural))
	assert.True(t, valueobject.RegionForProvince("XX").Equal(valueobject.MarketRegionStandard))
	assert.True(t, valueobject.RegionForProvince("").Equal(valueobject.MarketRegionStandard))
}

func TestDealerBonusFlags(t *testing.T) {
	t.Run("mark and read each flag", func(t *testing.T) {
		tier, err := model.NewDealerTier("dealer-001", valueobject.MarketRegionStandard, true, false, tierInstant)
		require.NoError(t, err)

		for _, bt := range []valueobject.BonusType{
			valueobject.BonusTypeWelcome,
			valueobject.BonusTypeFirstDeal,
			valueobject.BonusTypeFastStart,
			valueobject.BonusTypeCertification,
		} {
			assert.False(t, tier.BonusPaid(bt))
			tier, err = tier.MarkBonusPaid(bt, tierInstant)
			require.NoError(t, err)
			assert.True(t, tier.BonusPaid(bt))
		}
	})

	t.Run("second mark of the same flag fails", func(t *testing.T) {
		tier, err := model.NewDealerTier("dealer-001", valueobject.MarketRegionStandard, false, false, tierInstant)
		require.NoError(t, err)

		tier, err = tier.MarkBonusPaid(valueobject.BonusTypeFirstDeal, tierInstant)
		require.NoError(t, err)

		_, err = tier.MarkBonusPaid(valueobject.BonusTypeFirstDeal, tierInstant)
		assert.ErrorIs(t, err, valueobject.ErrPreconditionViolated)
	})
}

func TestDealerIsCertified(t *testing.T) {
	omvic, err := model.NewDealerTier("dealer-001", valueobject.MarketRegionStandard, true, false, tierInstant)
	require.NoError(t, err)
	assert.True(t, omvic.IsCertified())

	amvic, err := model.NewDealerTier("dealer-002", valueobject.MarketRegionStandard, false, true, tierInstant)
	require.NoError(t, err)
	assert.True(t, amvic.IsCertified())

	neither, err := model.NewDealerTier("dealer-003", valueobject.MarketRegionStandard, false, false, tierInstant)
	require.NoError(t, err)
	assert.False(t, neither.IsCertified())
}

func TestDealerResetPeriod(t *testing.T) {
	tier := dealerWithQuarterlyDeals(30) // elite

	reset := tier.ResetPeriod(tierInstant)
	assert.Equal(t, 0, reset.DealsThisQuarter())
	assert.Equal(t, 30, reset.DealsLastQuarter())
	assert.Equal(t, model.DealerTierStandard, reset.Tier())
	assert.Equal(t, 30, reset.TotalDeals())
}

package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
)

var (
	tierInstant = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tierToday   = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
)

func brokerWithMonthlyDeals(deals int) model.BrokerTier {
	return model.ReconstructBrokerTier(
		"tier-1", "broker-001", brokerTierLabel(deals), deals, decimal.Zero,
		deals, decimal.Zero, decimal.Zero,
		nil, 0, deals, decimal.Zero,
		1, tierInstant.AddDate(0, -2, 0), tierInstant,
	)
}

func brokerTierLabel(deals int) string {
	switch {
	case deals >= 80:
		return model.BrokerTierDiamond
	case deals >= 40:
		return model.BrokerTierPlatinum
	case deals >= 20:
		return model.BrokerTierGold
	case deals >= 10:
		return model.BrokerTierSilver
	case deals >= 5:
		return model.BrokerTierBronze
	default:
		return model.BrokerTierStarter
	}
}

func TestBrokerTierBaseRate(t *testing.T) {
	cases := []struct {
		tier string
		rate string
	}{
		{model.BrokerTierStarter, "3.0"},
		{model.BrokerTierBronze, "3.5"},
		{model.BrokerTierSilver, "4.0"},
		{model.BrokerTierGold, "4.5"},
		{model.BrokerTierPlatinum, "5.0"},
		{model.BrokerTierDiamond, "5.5"},
	}
	for _, tc := range cases {
		got := model.BrokerTierBaseRate(tc.tier)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.rate)),
			"%s should pay %s, got %s", tc.tier, tc.rate, got)
	}
}

func TestBrokerTierThresholds(t *testing.T) {
	cases := []struct {
		deals int
		tier  string
	}{
		{0, model.BrokerTierStarter},
		{4, model.BrokerTierStarter},
		{5, model.BrokerTierBronze},
		{9, model.BrokerTierBronze},
		{10, model.BrokerTierSilver},
		{19, model.BrokerTierSilver},
		{20, model.BrokerTierGold},
		{39, model.BrokerTierGold},
		{40, model.BrokerTierPlatinum},
		{79, model.BrokerTierPlatinum},
		{80, model.BrokerTierDiamond},
	}
	for _, tc := range cases {
		// Advancing from deals-1 must land on the expected label.
		if tc.deals == 0 {
			tier, err := model.NewBrokerTier("broker-001", tierInstant)
			require.NoError(t, err)
			assert.Equal(t, tc.tier, tier.Tier())
			continue
		}
		tier := brokerWithMonthlyDeals(tc.deals - 1)
		tier = tier.RecordCompletion(decimal.NewFromInt(30_000), decimal.NewFromInt(900), tierToday, tierInstant)
		assert.Equal(t, tc.tier, tier.Tier(), "%d deals", tc.deals)
	}
}

func TestBrokerTierRecordCompletion(t *testing.T) {
	t.Run("advances counters and watermark", func(t *testing.T) {
		tier, err := model.NewBrokerTier("broker-001", tierInstant)
		require.NoError(t, err)

		tier = tier.RecordCompletion(decimal.NewFromInt(30_000), decimal.NewFromInt(900), tierToday, tierInstant)

		assert.Equal(t, 1, tier.DealsThisMonth())
		assert.Equal(t, 1, tier.TotalDeals())
		assert.Equal(t, 1, tier.HighestMonth())
		assert.True(t, tier.VolumeThisMonth().Equal(decimal.NewFromInt(30_000)))
		assert.True(t, tier.TotalCommissionsEarned().Equal(decimal.NewFromInt(900)))
		assert.True(t, tier.AverageDealValue().Equal(decimal.NewFromInt(30_000)))
		require.NotNil(t, tier.LastDealDate())
		assert.Equal(t, tierToday, *tier.LastDealDate())
	})

	t.Run("running mean over several deals", func(t *testing.T) {
		tier, err := model.NewBrokerTier("broker-001", tierInstant)
		require.NoError(t, err)

		tier = tier.RecordCompletion(decimal.NewFromInt(20_000), decimal.NewFromInt(600), tierToday, tierInstant)
		tier = tier.RecordCompletion(decimal.NewFromInt(40_000), decimal.NewFromInt(1200), tierToday, tierInstant)
		tier = tier.RecordCompletion(decimal.NewFromInt(25_000), decimal.NewFromInt(750), tierToday, tierInstant)

		// (20000 + 40000 + 25000) / 3 = 28333.33
		assert.True(t, tier.AverageDealValue().Equal(decimal.RequireFromString("28333.33")),
			"got %s", tier.AverageDealValue())
	})

	t.Run("highest month survives a reset", func(t *testing.T) {
		tier := brokerWithMonthlyDeals(12)
		tier = tier.ResetPeriod(tierInstant)

		assert.Equal(t, 0, tier.DealsThisMonth())
		assert.Equal(t, model.BrokerTierStarter, tier.Tier())
		assert.Equal(t, 12, tier.HighestMonth())
		assert.Equal(t, 12, tier.TotalDeals())
	})
}

func TestBrokerStreak(t *testing.T) {
	tier, err := model.NewBrokerTier("broker-001", tierInstant)
	require.NoError(t, err)

	t.Run("first deal starts the streak", func(t *testing.T) {
		got := tier.RecordCompletion(decimal.NewFromInt(1000), decimal.NewFromInt(30), tierToday, tierInstant)
		assert.Equal(t, 1, got.StreakDays())
	})

	t.Run("consecutive days extend it", func(t *testing.T) {
		got := tier.RecordCompletion(decimal.NewFromInt(1000), decimal.NewFromInt(30), tierToday, tierInstant)
		got = got.RecordCompletion(decimal.NewFromInt(1000), decimal.NewFromInt(30), tierToday.AddDate(0, 0, 1), tierInstant)
		assert.Equal(t, 2, got.StreakDays())
	})

	t.Run("same day leaves it unchanged", func(t *testing.T) {
		got := tier.RecordCompletion(decimal.NewFromInt(1000), decimal.NewFromInt(30), tierToday, tierInstant)
		got = got.RecordCompletion(decimal.NewFromInt(1000), decimal.NewFromInt(30), tierToday, tierInstant)
		assert.Equal(t, 1, got.StreakDays())
	})

	t.Run("a gap restarts at one", func(t *testing.T) {
		got := tier.RecordCompletion(decimal.NewFromInt(1000), decimal.NewFromInt(30), tierToday, tierInstant)
		got = got.RecordCompletion(decimal.NewFromInt(1000), decimal.NewFromInt(30), tierToday.AddDate(0, 0, 3), tierInstant)
		assert.Equal(t, 1, got.StreakDays())
	})
}

func TestBrokerCommissionRate(t *testing.T) {
	t.Run("base plus achievement boost", func(t *testing.T) {
		tier := brokerWithMonthlyDeals(10) // silver, 4.0

		boosted, err := tier.GrantAchievementBoost(decimal.RequireFromString("0.5"), tierInstant)
		require.NoError(t, err)
		assert.True(t, boosted.CommissionRate().Equal(decimal.RequireFromString("4.5")))
	})

	t.Run("rejects negative boost", func(t *testing.T) {
		tier := brokerWithMonthlyDeals(10)
		_, err := tier.GrantAchievementBoost(decimal.RequireFromString("-1"), tierInstant)
		assert.Error(t, err)
	})

	t.Run("rate read before advancing pays the old tier", func(t *testing.T) {
		tier := brokerWithMonthlyDeals(19) // silver, one short of gold
		rate := tier.CommissionRate()
		tier = tier.RecordCompletion(decimal.NewFromInt(30_000), decimal.NewFromInt(1200), tierToday, tierInstant)

		assert.True(t, rate.Equal(decimal.RequireFromString("4.0")))
		assert.Equal(t, model.BrokerTierGold, tier.Tier())
	})
}

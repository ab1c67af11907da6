package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/service"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
)

var (
	policyInstant = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	policyToday   = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
)

func dealerTier(t *testing.T, totalDeals int, certified bool, onboarded time.Time) model.DealerTier {
	t.Helper()
	return model.ReconstructDealerTier(
		"tier-1", "dealer-001", model.DealerTierStandard, valueobject.MarketRegionStandard,
		totalDeals, 0, totalDeals,
		decimal.Zero, decimal.Zero, nil,
		certified, false,
		false, false, false, false,
		1, onboarded, onboarded,
	)
}

func bonusTypes(bonuses []model.BonusTransaction) []string {
	out := make([]string, 0, len(bonuses))
	for _, b := range bonuses {
		out = append(out, b.BonusType().String())
	}
	return out
}

func TestResolveDealer(t *testing.T) {
	policy := service.NewCommissionPolicy()

	t.Run("commission uses the rate in force before the counters move", func(t *testing.T) {
		// Nine quarterly deals: still standard, the tenth flips to preferred.
		tier := dealerTier(t, 9, false, policyInstant.AddDate(-1, 0, 0))

		res, err := policy.ResolveDealer(tier, "deal-010", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		// 30000 * 5.0% = 1500.00, not the preferred 5.5%.
		assert.True(t, res.Commission.Amount().Equal(decimal.NewFromInt(1500)),
			"got %s", res.Commission.Amount())
		assert.True(t, res.Commission.Percentage().Equal(decimal.RequireFromString("5.0")))
		assert.Equal(t, model.DealerTierPreferred, res.Tier.Tier())
	})

	t.Run("commission amount rounds to cents", func(t *testing.T) {
		tier := dealerTier(t, 9, false, policyInstant.AddDate(-1, 0, 0))

		res, err := policy.ResolveDealer(tier, "deal-010", decimal.RequireFromString("33333.33"), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		// 33333.33 * 5.0% = 1666.6665, rounds to 1666.67.
		assert.True(t, res.Commission.Amount().Equal(decimal.RequireFromString("1666.67")),
			"got %s", res.Commission.Amount())
	})

	t.Run("region bonus raises the applied rate", func(t *testing.T) {
		tier := model.ReconstructDealerTier(
			"tier-1", "dealer-001", model.DealerTierStandard, valueobject.MarketRegionFirstNations,
			2, 0, 2,
			decimal.Zero, decimal.Zero, nil,
			false, false,
			false, false, false, false,
			1, policyInstant.AddDate(-1, 0, 0), policyInstant,
		)

		res, err := policy.ResolveDealer(tier, "deal-003", decimal.NewFromInt(10_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		// 5.0 base + 1.5 region = 6.5% of 10000.
		assert.True(t, res.Commission.Amount().Equal(decimal.NewFromInt(650)))
	})

	t.Run("certified first completion grants welcome and first-deal only", func(t *testing.T) {
		tier := dealerTier(t, 0, true, policyInstant.AddDate(0, 0, -3))

		res, err := policy.ResolveDealer(tier, "deal-001", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		// CAD 1500 total: welcome 500 + first-deal 1000. The certification
		// bonus needs welcome on record from a prior completion.
		assert.Equal(t, []string{"WELCOME", "FIRST_DEAL"}, bonusTypes(res.Bonuses))
		assert.True(t, res.Tier.BonusPaid(valueobject.BonusTypeWelcome))
		assert.True(t, res.Tier.BonusPaid(valueobject.BonusTypeFirstDeal))
		assert.False(t, res.Tier.BonusPaid(valueobject.BonusTypeCertification))
		assert.False(t, res.Tier.BonusPaid(valueobject.BonusTypeFastStart))
	})

	t.Run("certification follows on the next completion after welcome", func(t *testing.T) {
		tier := dealerTier(t, 0, true, policyInstant.AddDate(0, 0, -3))

		first, err := policy.ResolveDealer(tier, "deal-001", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		second, err := policy.ResolveDealer(first.Tier, "deal-002", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		assert.Equal(t, []string{"CERTIFICATION"}, bonusTypes(second.Bonuses))
		assert.True(t, second.Tier.BonusPaid(valueobject.BonusTypeCertification))
	})

	t.Run("uncertified first completion earns first-deal only", func(t *testing.T) {
		tier := dealerTier(t, 0, false, policyInstant.AddDate(0, 0, -3))

		res, err := policy.ResolveDealer(tier, "deal-001", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		assert.Equal(t, []string{"FIRST_DEAL"}, bonusTypes(res.Bonuses))
	})

	t.Run("fifth deal inside thirty days earns fast-start", func(t *testing.T) {
		tier := dealerTier(t, 4, false, policyInstant.AddDate(0, 0, -20))
		tier, err := tier.MarkBonusPaid(valueobject.BonusTypeFirstDeal, policyInstant)
		require.NoError(t, err)

		res, err := policy.ResolveDealer(tier, "deal-005", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		assert.Equal(t, []string{"FAST_START"}, bonusTypes(res.Bonuses))
		require.Len(t, res.Bonuses, 1)
		assert.True(t, res.Bonuses[0].Amount().Equal(model.FastStartBonusAmount))
	})

	t.Run("fifth deal after the window earns nothing", func(t *testing.T) {
		tier := dealerTier(t, 4, false, policyInstant.AddDate(0, 0, -45))
		tier, err := tier.MarkBonusPaid(valueobject.BonusTypeFirstDeal, policyInstant)
		require.NoError(t, err)

		res, err := policy.ResolveDealer(tier, "deal-005", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		assert.Empty(t, res.Bonuses)
	})

	t.Run("paid flags close every gate on replay", func(t *testing.T) {
		tier := dealerTier(t, 0, true, policyInstant.AddDate(0, 0, -3))

		first, err := policy.ResolveDealer(tier, "deal-001", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)
		require.NotEmpty(t, first.Bonuses)

		second, err := policy.ResolveDealer(first.Tier, "deal-002", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)
		require.Equal(t, []string{"CERTIFICATION"}, bonusTypes(second.Bonuses))

		// With every flag set and totalDeals past one, later resolutions
		// grant nothing.
		third, err := policy.ResolveDealer(second.Tier, "deal-003", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)
		assert.Empty(t, third.Bonuses)
	})

	t.Run("bonus rows carry the triggering deal", func(t *testing.T) {
		tier := dealerTier(t, 0, false, policyInstant.AddDate(0, 0, -3))

		res, err := policy.ResolveDealer(tier, "deal-001", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		require.Len(t, res.Bonuses, 1)
		bonus := res.Bonuses[0]
		assert.Equal(t, "deal-001", bonus.DealID())
		assert.Equal(t, "dealer-001", bonus.UserID())
		assert.True(t, bonus.Amount().Equal(model.FirstDealBonusAmount))
		assert.Equal(t, "CAD", bonus.Currency())
	})
}

func TestResolveBroker(t *testing.T) {
	policy := service.NewCommissionPolicy()

	t.Run("commission at the pre-advance rate", func(t *testing.T) {
		// Nineteen monthly deals: silver, the twentieth flips to gold.
		tier := model.ReconstructBrokerTier(
			"tier-1", "broker-001", model.BrokerTierSilver, 19, decimal.Zero,
			19, decimal.Zero, decimal.Zero,
			nil, 0, 19, decimal.Zero,
			1, policyInstant.AddDate(-1, 0, 0), policyInstant,
		)

		res, err := policy.ResolveBroker(tier, "deal-020", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		// 30000 * 4.0% = 1200.00 at the silver rate.
		assert.True(t, res.Commission.Amount().Equal(decimal.NewFromInt(1200)),
			"got %s", res.Commission.Amount())
		assert.True(t, res.Commission.Role().Equal(valueobject.CommissionRoleBroker))
		assert.Equal(t, model.BrokerTierGold, res.Tier.Tier())
	})

	t.Run("advances counters and earnings", func(t *testing.T) {
		tier, err := model.NewBrokerTier("broker-001", policyInstant)
		require.NoError(t, err)

		res, err := policy.ResolveBroker(tier, "deal-001", decimal.NewFromInt(30_000), "CAD", policyToday, policyInstant)
		require.NoError(t, err)

		assert.Equal(t, 1, res.Tier.TotalDeals())
		assert.Equal(t, 1, res.Tier.StreakDays())
		assert.True(t, res.Tier.TotalCommissionsEarned().Equal(res.Commission.Amount()))
	})
}

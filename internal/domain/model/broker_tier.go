package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// BrokerTier aggregate root
// ---------------------------------------------------------------------------

// Broker tier labels, derived from the monthly deal counter.
const (
	BrokerTierStarter  = "STARTER"
	BrokerTierBronze   = "BRONZE"
	BrokerTierSilver   = "SILVER"
	BrokerTierGold     = "GOLD"
	BrokerTierPlatinum = "PLATINUM"
	BrokerTierDiamond  = "DIAMOND"
)

// BrokerTierBaseRate returns the base commission percentage for a broker
// tier label.
func BrokerTierBaseRate(tier string) decimal.Decimal {
	switch tier {
	case BrokerTierDiamond:
		return decimal.RequireFromString("5.5")
	case BrokerTierPlatinum:
		return decimal.RequireFromString("5.0")
	case BrokerTierGold:
		return decimal.RequireFromString("4.5")
	case BrokerTierSilver:
		return decimal.RequireFromString("4.0")
	case BrokerTierBronze:
		return decimal.RequireFromString("3.5")
	default:
		return decimal.RequireFromString("3.0")
	}
}

// brokerTierForDeals maps a monthly deal count to a tier label.
func brokerTierForDeals(dealsThisMonth int) string {
	switch {
	case dealsThisMonth >= 80:
		return BrokerTierDiamond
	case dealsThisMonth >= 40:
		return BrokerTierPlatinum
	case dealsThisMonth >= 20:
		return BrokerTierGold
	case dealsThisMonth >= 10:
		return BrokerTierSilver
	case dealsThisMonth >= 5:
		return BrokerTierBronze
	default:
		return BrokerTierStarter
	}
}

// BrokerTier tracks one broker's rolling performance. The monthly counters
// reset at month boundaries via ResetPeriod; everything else is cumulative.
type BrokerTier struct {
	id                     string
	brokerID               string
	tier                   string
	dealsThisMonth         int
	volumeThisMonth        decimal.Decimal
	totalDeals             int
	totalCommissionsEarned decimal.Decimal
	averageDealValue       decimal.Decimal
	lastDealDate           *time.Time
	streakDays             int
	highestMonth           int
	achievementBoost       decimal.Decimal
	version                int
	createdAt              time.Time
	updatedAt              time.Time
}

// NewBrokerTier creates a starter-tier row for a broker's first completion.
func NewBrokerTier(brokerID string, now time.Time) (BrokerTier, error) {
	if brokerID == "" {
		return BrokerTier{}, fmt.Errorf("%w: broker ID is required", valueobject.ErrPreconditionViolated)
	}
	return BrokerTier{
		id:                     uuid.New().String(),
		brokerID:               brokerID,
		tier:                   BrokerTierStarter,
		volumeThisMonth:        decimal.Zero,
		totalCommissionsEarned: decimal.Zero,
		averageDealValue:       decimal.Zero,
		achievementBoost:       decimal.Zero,
		version:                1,
		createdAt:              now,
		updatedAt:              now,
	}, nil
}

// ReconstructBrokerTier rebuilds the aggregate from persistence.
func ReconstructBrokerTier(
	id, brokerID, tier string,
	dealsThisMonth int,
	volumeThisMonth decimal.Decimal,
	totalDeals int,
	totalCommissionsEarned, averageDealValue decimal.Decimal,
	lastDealDate *time.Time,
	streakDays, highestMonth int,
	achievementBoost decimal.Decimal,
	version int,
	createdAt, updatedAt time.Time,
) BrokerTier {
	return BrokerTier{
		id:                     id,
		brokerID:               brokerID,
		tier:                   tier,
		dealsThisMonth:         dealsThisMonth,
		volumeThisMonth:        volumeThisMonth,
		totalDeals:             totalDeals,
		totalCommissionsEarned: totalCommissionsEarned,
		averageDealValue:       averageDealValue,
		lastDealDate:           lastDealDate,
		streakDays:             streakDays,
		highestMonth:           highestMonth,
		achievementBoost:       achievementBoost,
		version:                version,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
}

// CommissionRate is the rate applied to the NEXT completion: tier base plus
// the permanent achievement boost. The caller reads this before advancing
// the counters, so the transitioning deal itself pays out at the old tier.
func (b BrokerTier) CommissionRate() decimal.Decimal {
	return BrokerTierBaseRate(b.tier).Add(b.achievementBoost)
}

// RecordCompletion advances the counters for one completed deal. today must
// be midnight in the business time zone; the streak compares calendar days,
// not instants.
func (b BrokerTier) RecordCompletion(agreedPrice, commissionAmount decimal.Decimal, today time.Time, now time.Time) BrokerTier {
	out := b
	out.dealsThisMonth++
	out.totalDeals++
	out.volumeThisMonth = out.volumeThisMonth.Add(agreedPrice)
	out.totalCommissionsEarned = out.totalCommissionsEarned.Add(commissionAmount)
	out.averageDealValue = runningMean(b.averageDealValue, b.totalDeals, agreedPrice)

	out.streakDays = nextStreak(b.streakDays, b.lastDealDate, today)
	d := today
	out.lastDealDate = &d

	out.tier = brokerTierForDeals(out.dealsThisMonth)
	if out.dealsThisMonth > out.highestMonth {
		out.highestMonth = out.dealsThisMonth
	}
	out.updatedAt = now
	return out
}

// nextStreak: consecutive-day completions extend the streak, a same-day
// completion leaves it alone, anything else restarts at 1.
func nextStreak(current int, lastDealDate *time.Time, today time.Time) int {
	if lastDealDate == nil {
		return 1
	}
	switch {
	case lastDealDate.Equal(today):
		return current
	case lastDealDate.Equal(today.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

// GrantAchievementBoost permanently raises the broker's rate by the given
// percentage points.
func (b BrokerTier) GrantAchievementBoost(boost decimal.Decimal, now time.Time) (BrokerTier, error) {
	if boost.IsNegative() {
		return b, fmt.Errorf("%w: achievement boost must not be negative", valueobject.ErrAmountInvalid)
	}
	out := b
	out.achievementBoost = b.achievementBoost.Add(boost)
	out.updatedAt = now
	return out, nil
}

// ResetPeriod zeroes the monthly counters at a month boundary and
// recomputes the tier. Cumulative counters and the streak survive.
func (b BrokerTier) ResetPeriod(now time.Time) BrokerTier {
	out := b
	out.dealsThisMonth = 0
	out.volumeThisMonth = decimal.Zero
	out.tier = brokerTierForDeals(0)
	out.updatedAt = now
	return out
}

// runningMean folds one more observation into an average over n prior ones.
func runningMean(mean decimal.Decimal, n int, next decimal.Decimal) decimal.Decimal {
	total := mean.Mul(decimal.NewFromInt(int64(n))).Add(next)
	return total.Div(decimal.NewFromInt(int64(n + 1))).Round(2)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (b BrokerTier) ID() string                               { return b.id }
func (b BrokerTier) BrokerID() string                         { return b.brokerID }
func (b BrokerTier) Tier() string                             { return b.tier }
func (b BrokerTier) DealsThisMonth() int                      { return b.dealsThisMonth }
func (b BrokerTier) VolumeThisMonth() decimal.Decimal         { return b.volumeThisMonth }
func (b BrokerTier) TotalDeals() int                          { return b.totalDeals }
func (b BrokerTier) TotalCommissionsEarned() decimal.Decimal  { return b.totalCommissionsEarned }
func (b BrokerTier) AverageDealValue() decimal.Decimal        { return b.averageDealValue }
func (b BrokerTier) LastDealDate() *time.Time                 { return b.lastDealDate }
func (b BrokerTier) StreakDays() int                          { return b.streakDays }
func (b BrokerTier) HighestMonth() int                        { return b.highestMonth }
func (b BrokerTier) AchievementBoost() decimal.Decimal        { return b.achievementBoost }
func (b BrokerTier) Version() int                             { return b.version }
func (b BrokerTier) CreatedAt() time.Time                     { return b.createdAt }
func (b BrokerTier) UpdatedAt() time.Time                     { return b.updatedAt }

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/postgres"
)

// BrokerTierRepo implements port.BrokerTierRepository. Tier rows are hot:
// the completion hook locks them with FOR UPDATE for the shortest span the
// fan-out allows.
type BrokerTierRepo struct {
	q postgres.Querier
}

// NewBrokerTierRepo creates a PostgreSQL-backed broker tier repository.
func NewBrokerTierRepo(q postgres.Querier) *BrokerTierRepo {
	return &BrokerTierRepo{q: q}
}

const brokerTierColumns = `
	id, broker_id, tier, deals_this_month, volume_this_month,
	total_deals, total_commissions_earned, average_deal_value,
	last_deal_date, streak_days, highest_month, achievement_boost,
	version, created_at, updated_at
`

// Save persists a broker tier row with optimistic locking.
func (r *BrokerTierRepo) Save(ctx context.Context, tier model.BrokerTier) error {
	query := `
		INSERT INTO broker_tiers (` + brokerTierColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (broker_id) DO UPDATE SET
			tier                     = EXCLUDED.tier,
			deals_this_month         = EXCLUDED.deals_this_month,
			volume_this_month        = EXCLUDED.volume_this_month,
			total_deals              = EXCLUDED.total_deals,
			total_commissions_earned = EXCLUDED.total_commissions_earned,
			average_deal_value       = EXCLUDED.average_deal_value,
			last_deal_date           = EXCLUDED.last_deal_date,
			streak_days              = EXCLUDED.streak_days,
			highest_month            = EXCLUDED.highest_month,
			achievement_boost        = EXCLUDED.achievement_boost,
			version                  = broker_tiers.version + 1,
			updated_at               = EXCLUDED.updated_at
		WHERE broker_tiers.version = $13
	`
	tag, err := r.q.Exec(ctx, query,
		tier.ID(), tier.BrokerID(), tier.Tier(), tier.DealsThisMonth(), tier.VolumeThisMonth(),
		tier.TotalDeals(), tier.TotalCommissionsEarned(), tier.AverageDealValue(),
		tier.LastDealDate(), tier.StreakDays(), tier.HighestMonth(), tier.AchievementBoost(),
		tier.Version(), tier.CreatedAt(), tier.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save broker tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save broker tier %s: %w", tier.BrokerID(), valueobject.ErrConcurrentUpdate)
	}
	return nil
}

// FindByBrokerID retrieves the tier row for a broker.
func (r *BrokerTierRepo) FindByBrokerID(ctx context.Context, brokerID string) (model.BrokerTier, error) {
	query := `SELECT ` + brokerTierColumns + ` FROM broker_tiers WHERE broker_id = $1`
	return scanBrokerTierRow(r.q.QueryRow(ctx, query, brokerID))
}

// FindByBrokerIDForUpdate locks the tier row for the enclosing transaction.
func (r *BrokerTierRepo) FindByBrokerIDForUpdate(ctx context.Context, brokerID string) (model.BrokerTier, error) {
	query := `SELECT ` + brokerTierColumns + ` FROM broker_tiers WHERE broker_id = $1 FOR UPDATE`
	return scanBrokerTierRow(r.q.QueryRow(ctx, query, brokerID))
}

// ResetMonthly zeroes every broker's monthly counters and drops tiers back
// to the zero-deal label. Runs at the first instant of each month.
func (r *BrokerTierRepo) ResetMonthly(ctx context.Context) (int64, error) {
	query := `
		UPDATE broker_tiers SET
			deals_this_month  = 0,
			volume_this_month = 0,
			tier              = $1,
			version           = version + 1,
			updated_at        = now()
	`
	tag, err := r.q.Exec(ctx, query, model.BrokerTierStarter)
	if err != nil {
		return 0, fmt.Errorf("reset broker tiers: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanBrokerTierRow(s scannable) (model.BrokerTier, error) {
	var (
		id, brokerID, tier             string
		dealsThisMonth                 int
		volumeThisMonth                decimal.Decimal
		totalDeals                     int
		totalCommissions, averageValue decimal.Decimal
		lastDealDate                   *time.Time
		streakDays, highestMonth       int
		achievementBoost               decimal.Decimal
		version                        int
		createdAt, updatedAt           time.Time
	)

	err := s.Scan(
		&id, &brokerID, &tier, &dealsThisMonth, &volumeThisMonth,
		&totalDeals, &totalCommissions, &averageValue,
		&lastDealDate, &streakDays, &highestMonth, &achievementBoost,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.BrokerTier{}, mapFindErr(fmt.Errorf("scan broker tier: %w", err))
	}

	return model.ReconstructBrokerTier(
		id, brokerID, tier, dealsThisMonth, volumeThisMonth,
		totalDeals, totalCommissions, averageValue,
		lastDealDate, streakDays, highestMonth, achievementBoost,
		version, createdAt, updatedAt,
	), nil
}

// ---------------------------------------------------------------------------
// Dealer tiers
// ---------------------------------------------------------------------------

// DealerTierRepo implements port.DealerTierRepository.
type DealerTierRepo struct {
	q postgres.Querier
}

// NewDealerTierRepo creates a PostgreSQL-backed dealer tier repository.
func NewDealerTierRepo(q postgres.Querier) *DealerTierRepo {
	return &DealerTierRepo{q: q}
}

const dealerTierColumns = `
	id, dealer_id, tier, market_region,
	deals_this_quarter, deals_last_quarter, total_deals,
	total_commissions_earned, average_deal_value, last_deal_date,
	omvic_certified, amvic_certified,
	welcome_bonus_paid, first_deal_bonus_paid, fast_start_bonus_paid, certification_bonus_paid,
	version, created_at, updated_at
`

// Save persists a dealer tier row with optimistic locking.
func (r *DealerTierRepo) Save(ctx context.Context, tier model.DealerTier) error {
	query := `
		INSERT INTO dealer_tiers (` + dealerTierColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (dealer_id) DO UPDATE SET
			tier                     = EXCLUDED.tier,
			market_region            = EXCLUDED.market_region,
			deals_this_quarter       = EXCLUDED.deals_this_quarter,
			deals_last_quarter       = EXCLUDED.deals_last_quarter,
			total_deals              = EXCLUDED.total_deals,
			total_commissions_earned = EXCLUDED.total_commissions_earned,
			average_deal_value       = EXCLUDED.average_deal_value,
			last_deal_date           = EXCLUDED.last_deal_date,
			omvic_certified          = EXCLUDED.omvic_certified,
			amvic_certified          = EXCLUDED.amvic_certified,
			welcome_bonus_paid       = EXCLUDED.welcome_bonus_paid,
			first_deal_bonus_paid    = EXCLUDED.first_deal_bonus_paid,
			fast_start_bonus_paid    = EXCLUDED.fast_start_bonus_paid,
			certification_bonus_paid = EXCLUDED.certification_bonus_paid,
			version                  = dealer_tiers.version + 1,
			updated_at               = EXCLUDED.updated_at
		WHERE dealer_tiers.version = $17
	`
	tag, err := r.q.Exec(ctx, query,
		tier.ID(), tier.DealerID(), tier.Tier(), tier.MarketRegion().String(),
		tier.DealsThisQuarter(), tier.DealsLastQuarter(), tier.TotalDeals(),
		tier.TotalCommissionsEarned(), tier.AverageDealValue(), tier.LastDealDate(),
		tier.OmvicCertified(), tier.AmvicCertified(),
		tier.BonusPaid(valueobject.BonusTypeWelcome), tier.BonusPaid(valueobject.BonusTypeFirstDeal),
		tier.BonusPaid(valueobject.BonusTypeFastStart), tier.BonusPaid(valueobject.BonusTypeCertification),
		tier.Version(), tier.CreatedAt(), tier.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save dealer tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save dealer tier %s: %w", tier.DealerID(), valueobject.ErrConcurrentUpdate)
	}
	return nil
}

// FindByDealerID retrieves the tier row for a dealer.
func (r *DealerTierRepo) FindByDealerID(ctx context.Context, dealerID string) (model.DealerTier, error) {
	query := `SELECT ` + dealerTierColumns + ` FROM dealer_tiers WHERE dealer_id = $1`
	return scanDealerTierRow(r.q.QueryRow(ctx, query, dealerID))
}

// FindByDealerIDForUpdate locks the tier row for the enclosing transaction.
func (r *DealerTierRepo) FindByDealerIDForUpdate(ctx context.Context, dealerID string) (model.DealerTier, error) {
	query := `SELECT ` + dealerTierColumns + ` FROM dealer_tiers WHERE dealer_id = $1 FOR UPDATE`
	return scanDealerTierRow(r.q.QueryRow(ctx, query, dealerID))
}

// ResetQuarterly rolls every dealer's quarterly window. Runs at the first
// instant of each quarter.
func (r *DealerTierRepo) ResetQuarterly(ctx context.Context) (int64, error) {
	query := `
		UPDATE dealer_tiers SET
			deals_last_quarter = deals_this_quarter,
			deals_this_quarter = 0,
			tier               = $1,
			version            = version + 1,
			updated_at         = now()
	`
	tag, err := r.q.Exec(ctx, query, model.DealerTierStandard)
	if err != nil {
		return 0, fmt.Errorf("reset dealer tiers: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanDealerTierRow(s scannable) (model.DealerTier, error) {
	var (
		id, dealerID, tier                     string
		regionStr                              string
		dealsThisQuarter, dealsLastQuarter     int
		totalDeals                             int
		totalCommissions, averageValue         decimal.Decimal
		lastDealDate                           *time.Time
		omvic, amvic                           bool
		welcomePaid, firstDealPaid             bool
		fastStartPaid, certificationPaid       bool
		version                                int
		createdAt, updatedAt                   time.Time
	)

	err := s.Scan(
		&id, &dealerID, &tier, &regionStr,
		&dealsThisQuarter, &dealsLastQuarter, &totalDeals,
		&totalCommissions, &averageValue, &lastDealDate,
		&omvic, &amvic,
		&welcomePaid, &firstDealPaid, &fastStartPaid, &certificationPaid,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.DealerTier{}, mapFindErr(fmt.Errorf("scan dealer tier: %w", err))
	}

	region, err := valueobject.NewMarketRegion(regionStr)
	if err != nil {
		return model.DealerTier{}, fmt.Errorf("parse market region: %w", err)
	}

	return model.ReconstructDealerTier(
		id, dealerID, tier, region,
		dealsThisQuarter, dealsLastQuarter, totalDeals,
		totalCommissions, averageValue, lastDealDate,
		omvic, amvic,
		welcomePaid, firstDealPaid, fastStartPaid, certificationPaid,
		version, createdAt, updatedAt,
	), nil
}

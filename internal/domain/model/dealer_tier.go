package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// DealerTier aggregate root
// ---------------------------------------------------------------------------

// Dealer tier labels, derived from the quarterly deal counter.
const (
	DealerTierStandard  = "STANDARD"
	DealerTierPreferred = "PREFERRED"
	DealerTierElite     = "ELITE"
	DealerTierPremier   = "PREMIER"
)

// DealerTierBaseRate returns the base commission percentage for a dealer
// tier label.
func DealerTierBaseRate(tier string) decimal.Decimal {
	switch tier {
	case DealerTierPremier:
		return decimal.RequireFromString("6.5")
	case DealerTierElite:
		return decimal.RequireFromString("6.0")
	case DealerTierPreferred:
		return decimal.RequireFromString("5.5")
	default:
		return decimal.RequireFromString("5.0")
	}
}

// dealerTierForDeals maps a quarterly deal count to a tier label.
func dealerTierForDeals(dealsThisQuarter int) string {
	switch {
	case dealsThisQuarter >= 50:
		return DealerTierPremier
	case dealsThisQuarter >= 25:
		return DealerTierElite
	case dealsThisQuarter >= 10:
		return DealerTierPreferred
	default:
		return DealerTierStandard
	}
}

// DealerTier tracks one dealer's rolling performance plus the onboarding
// bonus flags. The quarterly counters reset at quarter boundaries via
// ResetPeriod; the bonus flags are monotonic and act as the at-most-once
// guard for bonus grants.
type DealerTier struct {
	id                     string
	dealerID               string
	tier                   string
	marketRegion           valueobject.MarketRegion
	dealsThisQuarter       int
	dealsLastQuarter       int
	totalDeals             int
	totalCommissionsEarned decimal.Decimal
	averageDealValue       decimal.Decimal
	lastDealDate           *time.Time
	omvicCertified         bool
	amvicCertified         bool
	welcomeBonusPaid       bool
	firstDealBonusPaid     bool
	fastStartBonusPaid     bool
	certificationBonusPaid bool
	version                int
	createdAt              time.Time
	updatedAt              time.Time
}

// NewDealerTier creates a standard-tier row for a dealer's first completion.
func NewDealerTier(dealerID string, region valueobject.MarketRegion, omvicCertified, amvicCertified bool, now time.Time) (DealerTier, error) {
	if dealerID == "" {
		return DealerTier{}, fmt.Errorf("%w: dealer ID is required", valueobject.ErrPreconditionViolated)
	}
	if region.IsZero() {
		region = valueobject.MarketRegionStandard
	}
	return DealerTier{
		id:                     uuid.New().String(),
		dealerID:               dealerID,
		tier:                   DealerTierStandard,
		marketRegion:           region,
		totalCommissionsEarned: decimal.Zero,
		averageDealValue:       decimal.Zero,
		omvicCertified:         omvicCertified,
		amvicCertified:         amvicCertified,
		version:                1,
		createdAt:              now,
		updatedAt:              now,
	}, nil
}

// ReconstructDealerTier rebuilds the aggregate from persistence.
func ReconstructDealerTier(
	id, dealerID, tier string,
	marketRegion valueobject.MarketRegion,
	dealsThisQuarter, dealsLastQuarter, totalDeals int,
	totalCommissionsEarned, averageDealValue decimal.Decimal,
	lastDealDate *time.Time,
	omvicCertified, amvicCertified bool,
	welcomeBonusPaid, firstDealBonusPaid, fastStartBonusPaid, certificationBonusPaid bool,
	version int,
	createdAt, updatedAt time.Time,
) DealerTier {
	return DealerTier{
		id:                     id,
		dealerID:               dealerID,
		tier:                   tier,
		marketRegion:           marketRegion,
		dealsThisQuarter:       dealsThisQuarter,
		dealsLastQuarter:       dealsLastQuarter,
		totalDeals:             totalDeals,
		totalCommissionsEarned: totalCommissionsEarned,
		averageDealValue:       averageDealValue,
		lastDealDate:           lastDealDate,
		omvicCertified:         omvicCertified,
		amvicCertified:         amvicCertified,
		welcomeBonusPaid:       welcomeBonusPaid,
		firstDealBonusPaid:     firstDealBonusPaid,
		fastStartBonusPaid:     fastStartBonusPaid,
		certificationBonusPaid: certificationBonusPaid,
		version:                version,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
}

// CommissionRate is the rate applied to the NEXT completion: tier base plus
// the additive market-region bonus. Read before advancing counters so the
// transitioning deal pays out at the old tier.
func (d DealerTier) CommissionRate() decimal.Decimal {
	return DealerTierBaseRate(d.tier).Add(d.marketRegion.CommissionBonus())
}

// RecordCompletion advances the counters for one completed deal.
func (d DealerTier) RecordCompletion(agreedPrice, commissionAmount decimal.Decimal, today time.Time, now time.Time) DealerTier {
	out := d
	out.dealsThisQuarter++
	out.totalDeals++
	out.totalCommissionsEarned = out.totalCommissionsEarned.Add(commissionAmount)
	out.averageDealValue = runningMean(d.averageDealValue, d.totalDeals, agreedPrice)
	t := today
	out.lastDealDate = &t
	out.tier = dealerTierForDeals(out.dealsThisQuarter)
	out.updatedAt = now
	return out
}

// IsCertified reports whether the dealer holds either provincial sales
// certification (OMVIC for Ontario, AMVIC for Alberta).
func (d DealerTier) IsCertified() bool {
	return d.omvicCertified || d.amvicCertified
}

// MarkBonusPaid flips the at-most-once flag for the given bonus type. A
// second call for the same type fails, which is what makes bonus grants
// idempotent under event replay.
func (d DealerTier) MarkBonusPaid(bonusType valueobject.BonusType, now time.Time) (DealerTier, error) {
	out := d
	switch {
	case bonusType.Equal(valueobject.BonusTypeWelcome):
		if d.welcomeBonusPaid {
			return d, fmt.Errorf("%w: welcome bonus already paid to dealer %s", valueobject.ErrPreconditionViolated, d.dealerID)
		}
		out.welcomeBonusPaid = true
	case bonusType.Equal(valueobject.BonusTypeFirstDeal):
		if d.firstDealBonusPaid {
			return d, fmt.Errorf("%w: first-deal bonus already paid to dealer %s", valueobject.ErrPreconditionViolated, d.dealerID)
		}
		out.firstDealBonusPaid = true
	case bonusType.Equal(valueobject.BonusTypeFastStart):
		if d.fastStartBonusPaid {
			return d, fmt.Errorf("%w: fast-start bonus already paid to dealer %s", valueobject.ErrPreconditionViolated, d.dealerID)
		}
		out.fastStartBonusPaid = true
	case bonusType.Equal(valueobject.BonusTypeCertification):
		if d.certificationBonusPaid {
			return d, fmt.Errorf("%w: certification bonus already paid to dealer %s", valueobject.ErrPreconditionViolated, d.dealerID)
		}
		out.certificationBonusPaid = true
	default:
		return d, fmt.Errorf("%w: unknown bonus type %s", valueobject.ErrPreconditionViolated, bonusType)
	}
	out.updatedAt = now
	return out, nil
}

// BonusPaid reports the flag for the given bonus type.
func (d DealerTier) BonusPaid(bonusType valueobject.BonusType) bool {
	switch {
	case bonusType.Equal(valueobject.BonusTypeWelcome):
		return d.welcomeBonusPaid
	case bonusType.Equal(valueobject.BonusTypeFirstDeal):
		return d.firstDealBonusPaid
	case bonusType.Equal(valueobject.BonusTypeFastStart):
		return d.fastStartBonusPaid
	case bonusType.Equal(valueobject.BonusTypeCertification):
		return d.certificationBonusPaid
	default:
		return false
	}
}

// ResetPeriod rolls the quarterly window at a quarter boundary: the current
// counter moves to last-quarter, the tier is recomputed from zero.
func (d DealerTier) ResetPeriod(now time.Time) DealerTier {
	out := d
	out.dealsLastQuarter = d.dealsThisQuarter
	out.dealsThisQuarter = 0
	out.tier = dealerTierForDeals(0)
	out.updatedAt = now
	return out
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (d DealerTier) ID() string                               { return d.id }
func (d DealerTier) DealerID() string                         { return d.dealerID }
func (d DealerTier) Tier() string                             { return d.tier }
func (d DealerTier) MarketRegion() valueobject.MarketRegion   { return d.marketRegion }
func (d DealerTier) DealsThisQuarter() int                    { return d.dealsThisQuarter }
func (d DealerTier) DealsLastQuarter() int                    { return d.dealsLastQuarter }
func (d DealerTier) TotalDeals() int                          { return d.totalDeals }
func (d DealerTier) TotalCommissionsEarned() decimal.Decimal  { return d.totalCommissionsEarned }
func (d DealerTier) AverageDealValue() decimal.Decimal        { return d.averageDealValue }
func (d DealerTier) LastDealDate() *time.Time                 { return d.lastDealDate }
func (d DealerTier) OmvicCertified() bool                     { return d.omvicCertified }
func (d DealerTier) AmvicCertified() bool                     { return d.amvicCertified }
func (d DealerTier) Version() int                             { return d.version }
func (d DealerTier) CreatedAt() time.Time                     { return d.createdAt }
func (d DealerTier) UpdatedAt() time.Time                     { return d.updatedAt }

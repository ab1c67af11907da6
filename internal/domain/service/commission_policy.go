package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
)

// CommissionPolicy is the pure decision core of the completion resolver.
// Given the current tier rows it produces the commission records, the
// advanced tier rows and any qualifying bonuses for one completed deal.
// It never touches storage; the use case layer persists what it returns.
type CommissionPolicy struct{}

func NewCommissionPolicy() *CommissionPolicy {
	return &CommissionPolicy{}
}

// DealerResolution is the outcome of resolving the dealer side of one
// completion.
type DealerResolution struct {
	Commission model.Commission
	Tier       model.DealerTier
	Bonuses    []model.BonusTransaction
}

// BrokerResolution is the outcome of resolving the broker side of one
// completion.
type BrokerResolution struct {
	Commission model.Commission
	Tier       model.BrokerTier
}

// fastStartWindow is how long after onboarding the fast-start bonus can
// still be earned.
const fastStartWindow = 30 * 24 * time.Hour

// ResolveDealer computes the dealer commission at the tier's current rate,
// advances the tier counters, and grants any onboarding bonuses the
// advanced state qualifies for. The commission rate is read before the
// counters move, so the deal that bumps a dealer into a higher tier still
// pays out at the old rate.
func (p *CommissionPolicy) ResolveDealer(
	tier model.DealerTier,
	dealID string,
	agreedPrice decimal.Decimal,
	currency string,
	today, now time.Time,
) (DealerResolution, error) {
	rate := tier.CommissionRate()
	amount := agreedPrice.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)

	commission, err := model.NewCommission(dealID, tier.DealerID(), valueobject.CommissionRoleDealer, amount, rate, currency, now)
	if err != nil {
		return DealerResolution{}, fmt.Errorf("create dealer commission: %w", err)
	}

	advanced := tier.RecordCompletion(agreedPrice, amount, today, now)

	bonuses, advanced, err := p.qualifyBonuses(advanced, dealID, now)
	if err != nil {
		return DealerResolution{}, fmt.Errorf("qualify dealer bonuses: %w", err)
	}

	return DealerResolution{
		Commission: commission,
		Tier:       advanced,
		Bonuses:    bonuses,
	}, nil
}

// qualifyBonuses walks the onboarding bonus ladder in its fixed order.
// Each grant flips the paid flag on the tier row, so a replayed completion
// event finds every gate closed.
func (p *CommissionPolicy) qualifyBonuses(tier model.DealerTier, dealID string, now time.Time) ([]model.BonusTransaction, model.DealerTier, error) {
	var bonuses []model.BonusTransaction

	// The certification gate reads the welcome flag as it was persisted, not
	// as flipped within this resolution: a certified dealer's first
	// completion pays welcome + first-deal, certification waits for the next.
	welcomeOnRecord := tier.BonusPaid(valueobject.BonusTypeWelcome)

	grant := func(bonusType valueobject.BonusType, description string) error {
		bonus, err := model.NewBonusTransaction(tier.DealerID(), dealID, bonusType, description, now)
		if err != nil {
			return err
		}
		updated, err := tier.MarkBonusPaid(bonusType, now)
		if err != nil {
			return err
		}
		tier = updated
		bonuses = append(bonuses, bonus)
		return nil
	}

	if !tier.BonusPaid(valueobject.BonusTypeWelcome) && tier.TotalDeals() == 1 && tier.IsCertified() {
		if err := grant(valueobject.BonusTypeWelcome, "Welcome bonus on first certified completion"); err != nil {
			return nil, tier, err
		}
	}
	if !tier.BonusPaid(valueobject.BonusTypeFirstDeal) && tier.TotalDeals() == 1 {
		if err := grant(valueobject.BonusTypeFirstDeal, "First completed deal"); err != nil {
			return nil, tier, err
		}
	}
	if !tier.BonusPaid(valueobject.BonusTypeFastStart) && tier.TotalDeals() >= 5 && now.Sub(tier.CreatedAt()) <= fastStartWindow {
		if err := grant(valueobject.BonusTypeFastStart, "Five deals within thirty days of onboarding"); err != nil {
			return nil, tier, err
		}
	}
	if !tier.BonusPaid(valueobject.BonusTypeCertification) && tier.IsCertified() && welcomeOnRecord {
		if err := grant(valueobject.BonusTypeCertification, "Provincial certification bonus"); err != nil {
			return nil, tier, err
		}
	}

	return bonuses, tier, nil
}

// ResolveBroker computes the broker commission at the tier's current rate
// and advances the broker counters, streak and highest-month watermark.
func (p *CommissionPolicy) ResolveBroker(
	tier model.BrokerTier,
	dealID string,
	agreedPrice decimal.Decimal,
	currency string,
	today, now time.Time,
) (BrokerResolution, error) {
	rate := tier.CommissionRate()
	amount := agreedPrice.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)

	commission, err := model.NewCommission(dealID, tier.BrokerID(), valueobject.CommissionRoleBroker, amount, rate, currency, now)
	if err != nil {
		return BrokerResolution{}, fmt.Errorf("create broker commission: %w", err)
	}

	advanced := tier.RecordCompletion(agreedPrice, amount, today, now)

	return BrokerResolution{
		Commission: commission,
		Tier:       advanced,
	}, nil
}

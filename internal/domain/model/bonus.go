package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/event"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// BonusTransaction aggregate root
// ---------------------------------------------------------------------------

// Standard one-time dealer onboarding payout amounts, in CAD.
var (
	WelcomeBonusAmount       = decimal.NewFromInt(500)
	FirstDealBonusAmount     = decimal.NewFromInt(1000)
	FastStartBonusAmount     = decimal.NewFromInt(2500)
	CertificationBonusAmount = decimal.NewFromInt(500)
)

// BonusAmountFor returns the fixed payout for a bonus type.
func BonusAmountFor(bonusType valueobject.BonusType) decimal.Decimal {
	switch {
	case bonusType.Equal(valueobject.BonusTypeWelcome):
		return WelcomeBonusAmount
	case bonusType.Equal(valueobject.BonusTypeFirstDeal):
		return FirstDealBonusAmount
	case bonusType.Equal(valueobject.BonusTypeFastStart):
		return FastStartBonusAmount
	case bonusType.Equal(valueobject.BonusTypeCertification):
		return CertificationBonusAmount
	default:
		return decimal.Zero
	}
}

// BonusTransaction is a one-time payout to a dealer on a qualifying
// onboarding event. Append-only: rows are never updated after insertion.
// The (user, bonus_type) uniqueness is enforced twice, by the paid flag on
// the tier row and by a unique index in storage.
type BonusTransaction struct {
	id           string
	userID       string
	dealID       string
	bonusType    valueobject.BonusType
	amount       decimal.Decimal
	currency     string
	description  string
	createdAt    time.Time
	domainEvents []event.DomainEvent
}

// NewBonusTransaction creates a bonus payout record with the standard
// amount for its type.
func NewBonusTransaction(
	userID, dealID string,
	bonusType valueobject.BonusType,
	description string,
	now time.Time,
) (BonusTransaction, error) {
	if userID == "" {
		return BonusTransaction{}, fmt.Errorf("%w: user ID is required", valueobject.ErrPreconditionViolated)
	}
	if bonusType.IsZero() {
		return BonusTransaction{}, fmt.Errorf("%w: bonus type is required", valueobject.ErrPreconditionViolated)
	}

	amount := BonusAmountFor(bonusType)
	if !amount.IsPositive() {
		return BonusTransaction{}, fmt.Errorf("%w: no payout defined for bonus type %s", valueobject.ErrAmountInvalid, bonusType)
	}

	id := uuid.New().String()
	b := BonusTransaction{
		id:          id,
		userID:      userID,
		dealID:      dealID,
		bonusType:   bonusType,
		amount:      amount,
		currency:    "CAD",
		description: description,
		createdAt:   now,
	}
	b.domainEvents = append(b.domainEvents, event.NewBonusGranted(id, userID, bonusType.String(), amount, now))
	return b, nil
}

// ReconstructBonusTransaction rebuilds the record from persistence.
func ReconstructBonusTransaction(
	id, userID, dealID string,
	bonusType valueobject.BonusType,
	amount decimal.Decimal,
	currency, description string,
	createdAt time.Time,
) BonusTransaction {
	return BonusTransaction{
		id:          id,
		userID:      userID,
		dealID:      dealID,
		bonusType:   bonusType,
		amount:      amount,
		currency:    currency,
		description: description,
		createdAt:   createdAt,
	}
}

func (b BonusTransaction) ID() string                        { return b.id }
func (b BonusTransaction) UserID() string                    { return b.userID }
func (b BonusTransaction) DealID() string                    { return b.dealID }
func (b BonusTransaction) BonusType() valueobject.BonusType  { return b.bonusType }
func (b BonusTransaction) Amount() decimal.Decimal           { return b.amount }
func (b BonusTransaction) Currency() string                  { return b.currency }
func (b BonusTransaction) Description() string               { return b.description }
func (b BonusTransaction) CreatedAt() time.Time              { return b.createdAt }
func (b BonusTransaction) DomainEvents() []event.DomainEvent { return b.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (b BonusTransaction) ClearEvents() BonusTransaction {
	out := b
	out.domainEvents = nil
	return out
}

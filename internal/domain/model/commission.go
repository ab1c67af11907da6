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
// Commission aggregate root
// ---------------------------------------------------------------------------

// Commission is one payout earned on one completed deal by one recipient in
// one role. Created only by the completion resolver; status moves
// monotonically PENDING -> APPROVED -> PAID, any non-terminal -> CANCELLED.
type Commission struct {
	id           string
	dealID       string
	recipientID  string
	role         valueobject.CommissionRole
	amount       decimal.Decimal
	currency     string
	amountUSD    *decimal.Decimal
	fxRate       *decimal.Decimal
	percentage   decimal.Decimal
	status       valueobject.CommissionStatus
	approvedAt   *time.Time
	paidAt       *time.Time
	version      int
	createdAt    time.Time
	updatedAt    time.Time
	domainEvents []event.DomainEvent
}

// NewCommission creates a PENDING commission.
func NewCommission(
	dealID, recipientID string,
	role valueobject.CommissionRole,
	amount, percentage decimal.Decimal,
	currency string,
	now time.Time,
) (Commission, error) {
	if dealID == "" || recipientID == "" {
		return Commission{}, fmt.Errorf("%w: deal ID and recipient ID are required", valueobject.ErrPreconditionViolated)
	}
	if role.IsZero() {
		return Commission{}, fmt.Errorf("%w: commission role is required", valueobject.ErrPreconditionViolated)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return Commission{}, fmt.Errorf("%w: commission amount must be positive", valueobject.ErrAmountInvalid)
	}
	if percentage.LessThanOrEqual(decimal.Zero) {
		return Commission{}, fmt.Errorf("%w: commission percentage must be positive", valueobject.ErrAmountInvalid)
	}

	id := uuid.New().String()
	c := Commission{
		id:          id,
		dealID:      dealID,
		recipientID: recipientID,
		role:        role,
		amount:      amount.Round(2),
		currency:    currency,
		percentage:  percentage.Round(2),
		status:      valueobject.CommissionStatusPending,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}
	c.domainEvents = append(c.domainEvents, event.NewCommissionCreated(
		id, dealID, recipientID, role.String(), c.amount, c.percentage, now,
	))
	return c, nil
}

// ReconstructCommission rebuilds the aggregate from persistence.
func ReconstructCommission(
	id, dealID, recipientID string,
	role valueobject.CommissionRole,
	amount decimal.Decimal,
	currency string,
	amountUSD, fxRate *decimal.Decimal,
	percentage decimal.Decimal,
	status valueobject.CommissionStatus,
	approvedAt, paidAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) Commission {
	return Commission{
		id:          id,
		dealID:      dealID,
		recipientID: recipientID,
		role:        role,
		amount:      amount,
		currency:    currency,
		amountUSD:   amountUSD,
		fxRate:      fxRate,
		percentage:  percentage,
		status:      status,
		approvedAt:  approvedAt,
		paidAt:      paidAt,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Approve moves a pending commission to APPROVED.
func (c Commission) Approve(now time.Time) (Commission, error) {
	if !c.status.Equal(valueobject.CommissionStatusPending) {
		return c, fmt.Errorf("%w: commission %s -> APPROVED", valueobject.ErrInvalidStatusTransition, c.status)
	}
	out := c
	out.status = valueobject.CommissionStatusApproved
	at := now
	out.approvedAt = &at
	out.updatedAt = now
	out.domainEvents = copyEvents(c.domainEvents)
	return out, nil
}

// MarkPaid moves an approved commission to PAID after settlement.
func (c Commission) MarkPaid(now time.Time) (Commission, error) {
	if !c.status.Equal(valueobject.CommissionStatusApproved) {
		return c, fmt.Errorf("%w: commission %s -> PAID", valueobject.ErrInvalidStatusTransition, c.status)
	}
	out := c
	out.status = valueobject.CommissionStatusPaid
	at := now
	out.paidAt = &at
	out.updatedAt = now
	out.domainEvents = copyEvents(c.domainEvents)
	return out, nil
}

// Cancel moves a non-terminal commission to CANCELLED.
func (c Commission) Cancel(now time.Time) (Commission, error) {
	if c.status.IsTerminal() {
		return c, fmt.Errorf("%w: commission %s -> CANCELLED", valueobject.ErrInvalidStatusTransition, c.status)
	}
	out := c
	out.status = valueobject.CommissionStatusCancelled
	out.updatedAt = now
	out.domainEvents = copyEvents(c.domainEvents)
	return out, nil
}

// WithUSDAmount stamps the reporting figures at the locked exchange rate.
func (c Commission) WithUSDAmount(fxRate decimal.Decimal, now time.Time) (Commission, error) {
	if !fxRate.IsPositive() {
		return c, fmt.Errorf("%w: exchange rate must be positive", valueobject.ErrAmountInvalid)
	}
	out := c
	usd := c.amount.Mul(fxRate).Round(2)
	rate := fxRate.Round(6)
	out.amountUSD = &usd
	out.fxRate = &rate
	out.updatedAt = now
	out.domainEvents = copyEvents(c.domainEvents)
	return out, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (c Commission) ID() string                              { return c.id }
func (c Commission) DealID() string                          { return c.dealID }
func (c Commission) RecipientID() string                     { return c.recipientID }
func (c Commission) Role() valueobject.CommissionRole        { return c.role }
func (c Commission) Amount() decimal.Decimal                 { return c.amount }
func (c Commission) Currency() string                        { return c.currency }
func (c Commission) AmountUSD() *decimal.Decimal             { return c.amountUSD }
func (c Commission) FxRate() *decimal.Decimal                { return c.fxRate }
func (c Commission) Percentage() decimal.Decimal             { return c.percentage }
func (c Commission) Status() valueobject.CommissionStatus    { return c.status }
func (c Commission) ApprovedAt() *time.Time                  { return c.approvedAt }
func (c Commission) PaidAt() *time.Time                      { return c.paidAt }
func (c Commission) Version() int                            { return c.version }
func (c Commission) CreatedAt() time.Time                    { return c.createdAt }
func (c Commission) UpdatedAt() time.Time                    { return c.updatedAt }
func (c Commission) DomainEvents() []event.DomainEvent       { return c.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (c Commission) ClearEvents() Commission {
	out := c
	out.domainEvents = nil
	return out
}

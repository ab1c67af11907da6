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
// Deal aggregate root
// ---------------------------------------------------------------------------

// Deal is the sale of one vehicle to one buyer by one dealer, optionally via
// one broker. It is an immutable aggregate: mutations return a new copy.
//
// The deal owns its lifecycle status and derived payment status; all money
// movement happens on the FinancialTerms aggregate and is reflected back
// here through SetPaymentStatus.
type Deal struct {
	id            string
	buyerID       string
	dealerID      string
	brokerID      string // empty when no broker is involved
	vehicleID     string
	agreedPrice   decimal.Decimal
	currency      string
	paymentMethod string
	paymentStatus valueobject.PaymentStatus
	status        valueobject.DealStatus
	completedAt   *time.Time
	version       int
	createdAt     time.Time
	updatedAt     time.Time
	domainEvents  []event.DomainEvent
}

// NewDeal creates a deal in PENDING_DOCS with payment status PENDING.
func NewDeal(
	buyerID, dealerID, brokerID, vehicleID string,
	agreedPrice decimal.Decimal,
	currency, paymentMethod string,
	now time.Time,
) (Deal, error) {
	if buyerID == "" {
		return Deal{}, fmt.Errorf("%w: buyer ID is required", valueobject.ErrPreconditionViolated)
	}
	if dealerID == "" {
		return Deal{}, fmt.Errorf("%w: dealer ID is required", valueobject.ErrPreconditionViolated)
	}
	if vehicleID == "" {
		return Deal{}, fmt.Errorf("%w: vehicle ID is required", valueobject.ErrPreconditionViolated)
	}
	if agreedPrice.LessThanOrEqual(decimal.Zero) {
		return Deal{}, fmt.Errorf("%w: agreed price must be positive", valueobject.ErrAmountInvalid)
	}
	if currency == "" {
		return Deal{}, fmt.Errorf("%w: currency is required", valueobject.ErrPreconditionViolated)
	}

	return Deal{
		id:            uuid.New().String(),
		buyerID:       buyerID,
		dealerID:      dealerID,
		brokerID:      brokerID,
		vehicleID:     vehicleID,
		agreedPrice:   agreedPrice.Round(2),
		currency:      currency,
		paymentMethod: paymentMethod,
		paymentStatus: valueobject.PaymentStatusPending,
		status:        valueobject.DealStatusPendingDocs,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructDeal rebuilds a Deal aggregate from persistence.
func ReconstructDeal(
	id, buyerID, dealerID, brokerID, vehicleID string,
	agreedPrice decimal.Decimal,
	currency, paymentMethod string,
	paymentStatus valueobject.PaymentStatus,
	status valueobject.DealStatus,
	completedAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) Deal {
	return Deal{
		id:            id,
		buyerID:       buyerID,
		dealerID:      dealerID,
		brokerID:      brokerID,
		vehicleID:     vehicleID,
		agreedPrice:   agreedPrice,
		currency:      currency,
		paymentMethod: paymentMethod,
		paymentStatus: paymentStatus,
		status:        status,
		completedAt:   completedAt,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// AdvanceTo moves the deal to the next lifecycle state. Only transitions in
// the lifecycle table are allowed; cancellation is legal from any
// non-terminal state. Reaching COMPLETED stamps the completion time and
// raises DealCompleted.
func (d Deal) AdvanceTo(next valueobject.DealStatus, now time.Time) (Deal, error) {
	if !d.status.CanTransitionTo(next) {
		return d, fmt.Errorf("%w: %s -> %s", valueobject.ErrInvalidStatusTransition, d.status, next)
	}

	out := d
	out.status = next
	out.updatedAt = now
	out.domainEvents = copyEvents(d.domainEvents)
	out.domainEvents = append(out.domainEvents, event.NewDealStatusChanged(d.id, d.status.String(), next.String(), now))

	switch {
	case next.Equal(valueobject.DealStatusCompleted):
		at := now
		out.completedAt = &at
		out.domainEvents = append(out.domainEvents, event.NewDealCompleted(d.id, d.agreedPrice, d.dealerID, d.brokerID, now))
	case next.Equal(valueobject.DealStatusCancelled):
		out.domainEvents = append(out.domainEvents, event.NewDealCancelled(d.id, d.status.String(), now))
	}

	return out, nil
}

// Cancel moves the deal to CANCELLED from any non-terminal state.
func (d Deal) Cancel(now time.Time) (Deal, error) {
	return d.AdvanceTo(valueobject.DealStatusCancelled, now)
}

// SetPaymentStatus records the payment status derived by the terms manager.
// Only the terms manager calls this; nothing else writes payment state.
func (d Deal) SetPaymentStatus(ps valueobject.PaymentStatus, now time.Time) Deal {
	if d.paymentStatus.Equal(ps) {
		return d
	}
	out := d
	out.paymentStatus = ps
	out.updatedAt = now
	out.domainEvents = copyEvents(d.domainEvents)
	return out
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (d Deal) ID() string                                { return d.id }
func (d Deal) BuyerID() string                           { return d.buyerID }
func (d Deal) DealerID() string                          { return d.dealerID }
func (d Deal) BrokerID() string                          { return d.brokerID }
func (d Deal) HasBroker() bool                           { return d.brokerID != "" }
func (d Deal) VehicleID() string                         { return d.vehicleID }
func (d Deal) AgreedPrice() decimal.Decimal              { return d.agreedPrice }
func (d Deal) Currency() string                          { return d.currency }
func (d Deal) PaymentMethod() string                     { return d.paymentMethod }
func (d Deal) PaymentStatus() valueobject.PaymentStatus  { return d.paymentStatus }
func (d Deal) Status() valueobject.DealStatus            { return d.status }
func (d Deal) CompletedAt() *time.Time                   { return d.completedAt }
func (d Deal) Version() int                              { return d.version }
func (d Deal) CreatedAt() time.Time                      { return d.createdAt }
func (d Deal) UpdatedAt() time.Time                      { return d.updatedAt }
func (d Deal) DomainEvents() []event.DomainEvent         { return d.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (d Deal) ClearEvents() Deal {
	out := d
	out.domainEvents = nil
	return out
}

func copyEvents(in []event.DomainEvent) []event.DomainEvent {
	if in == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(in))
	copy(out, in)
	return out
}

package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// DealStatus – immutable value object
// ---------------------------------------------------------------------------

// DealStatus represents the operational lifecycle stage of a deal.
type DealStatus struct {
	value string
}

const (
	dealStatusPendingDocs     = "PENDING_DOCS"
	dealStatusDocsVerified    = "DOCS_VERIFIED"
	dealStatusPaymentPending  = "PAYMENT_PENDING"
	dealStatusPaymentReceived = "PAYMENT_RECEIVED"
	dealStatusReadyToShip     = "READY_TO_SHIP"
	dealStatusShipped         = "SHIPPED"
	dealStatusCompleted       = "COMPLETED"
	dealStatusCancelled       = "CANCELLED"
)

var (
	DealStatusPendingDocs     = DealStatus{value: dealStatusPendingDocs}
	DealStatusDocsVerified    = DealStatus{value: dealStatusDocsVerified}
	DealStatusPaymentPending  = DealStatus{value: dealStatusPaymentPending}
	DealStatusPaymentReceived = DealStatus{value: dealStatusPaymentReceived}
	DealStatusReadyToShip     = DealStatus{value: dealStatusReadyToShip}
	DealStatusShipped         = DealStatus{value: dealStatusShipped}
	DealStatusCompleted       = DealStatus{value: dealStatusCompleted}
	DealStatusCancelled       = DealStatus{value: dealStatusCancelled}
)

var validDealStatuses = map[string]DealStatus{
	dealStatusPendingDocs:     DealStatusPendingDocs,
	dealStatusDocsVerified:    DealStatusDocsVerified,
	dealStatusPaymentPending:  DealStatusPaymentPending,
	dealStatusPaymentReceived: DealStatusPaymentReceived,
	dealStatusReadyToShip:     DealStatusReadyToShip,
	dealStatusShipped:         DealStatusShipped,
	dealStatusCompleted:       DealStatusCompleted,
	dealStatusCancelled:       DealStatusCancelled,
}

// dealTransitions is the single source of truth for legal lifecycle moves.
// Cancellation from any non-terminal state is handled in CanTransitionTo.
var dealTransitions = map[string]string{
	dealStatusPendingDocs:     dealStatusDocsVerified,
	dealStatusDocsVerified:    dealStatusPaymentPending,
	dealStatusPaymentPending:  dealStatusPaymentReceived,
	dealStatusPaymentReceived: dealStatusReadyToShip,
	dealStatusReadyToShip:     dealStatusShipped,
	dealStatusShipped:         dealStatusCompleted,
}

// NewDealStatus creates a DealStatus from a raw string.
func NewDealStatus(s string) (DealStatus, error) {
	v, ok := validDealStatuses[s]
	if !ok {
		return DealStatus{}, fmt.Errorf("invalid deal status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s DealStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s DealStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s DealStatus) Equal(other DealStatus) bool { return s.value == other.value }

// IsTerminal reports whether no further transitions are permitted.
func (s DealStatus) IsTerminal() bool {
	return s.value == dealStatusCompleted || s.value == dealStatusCancelled
}

// CanTransitionTo reports whether moving to next is a legal lifecycle step.
func (s DealStatus) CanTransitionTo(next DealStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next.Equal(DealStatusCancelled) {
		return true
	}
	return dealTransitions[s.value] == next.value
}

// ---------------------------------------------------------------------------
// PaymentStatus – immutable value object
// ---------------------------------------------------------------------------

// PaymentStatus represents how much of a deal's price has settled.
type PaymentStatus struct {
	value string
}

const (
	paymentStatusPending  = "PENDING"
	paymentStatusPartial  = "PARTIAL"
	paymentStatusPaid     = "PAID"
	paymentStatusRefunded = "REFUNDED"
	paymentStatusFailed   = "FAILED"
)

var (
	PaymentStatusPending  = PaymentStatus{value: paymentStatusPending}
	PaymentStatusPartial  = PaymentStatus{value: paymentStatusPartial}
	PaymentStatusPaid     = PaymentStatus{value: paymentStatusPaid}
	PaymentStatusRefunded = PaymentStatus{value: paymentStatusRefunded}
	PaymentStatusFailed   = PaymentStatus{value: paymentStatusFailed}
)

var validPaymentStatuses = map[string]PaymentStatus{
	paymentStatusPending:  PaymentStatusPending,
	paymentStatusPartial:  PaymentStatusPartial,
	paymentStatusPaid:     PaymentStatusPaid,
	paymentStatusRefunded: PaymentStatusRefunded,
	paymentStatusFailed:   PaymentStatusFailed,
}

// NewPaymentStatus creates a PaymentStatus from a raw string.
func NewPaymentStatus(s string) (PaymentStatus, error) {
	v, ok := validPaymentStatuses[s]
	if !ok {
		return PaymentStatus{}, fmt.Errorf("invalid payment status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s PaymentStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s PaymentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s PaymentStatus) Equal(other PaymentStatus) bool { return s.value == other.value }

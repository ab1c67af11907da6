package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// CommissionRole – immutable value object
// ---------------------------------------------------------------------------

// CommissionRole identifies which party on the deal earns a commission.
type CommissionRole struct {
	value string
}

const (
	commissionRoleBroker = "BROKER"
	commissionRoleDealer = "DEALER"
)

var (
	CommissionRoleBroker = CommissionRole{value: commissionRoleBroker}
	CommissionRoleDealer = CommissionRole{value: commissionRoleDealer}
)

var validCommissionRoles = map[string]CommissionRole{
	commissionRoleBroker: CommissionRoleBroker,
	commissionRoleDealer: CommissionRoleDealer,
}

// NewCommissionRole creates a CommissionRole from a raw string.
func NewCommissionRole(s string) (CommissionRole, error) {
	v, ok := validCommissionRoles[s]
	if !ok {
		return CommissionRole{}, fmt.Errorf("invalid commission role: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (r CommissionRole) String() string { return r.value }

// IsZero returns true when not initialised.
func (r CommissionRole) IsZero() bool { return r.value == "" }

// Equal returns true when both roles match.
func (r CommissionRole) Equal(other CommissionRole) bool { return r.value == other.value }

// ---------------------------------------------------------------------------
// CommissionStatus – immutable value object
// ---------------------------------------------------------------------------

// CommissionStatus represents the payout state of a commission. Transitions
// are monotonic: PENDING -> APPROVED -> PAID, any non-terminal -> CANCELLED.
type CommissionStatus struct {
	value string
}

const (
	commissionStatusPending   = "PENDING"
	commissionStatusApproved  = "APPROVED"
	commissionStatusPaid      = "PAID"
	commissionStatusCancelled = "CANCELLED"
)

var (
	CommissionStatusPending   = CommissionStatus{value: commissionStatusPending}
	CommissionStatusApproved  = CommissionStatus{value: commissionStatusApproved}
	CommissionStatusPaid      = CommissionStatus{value: commissionStatusPaid}
	CommissionStatusCancelled = CommissionStatus{value: commissionStatusCancelled}
)

var validCommissionStatuses = map[string]CommissionStatus{
	commissionStatusPending:   CommissionStatusPending,
	commissionStatusApproved:  CommissionStatusApproved,
	commissionStatusPaid:      CommissionStatusPaid,
	commissionStatusCancelled: CommissionStatusCancelled,
}

// NewCommissionStatus creates a CommissionStatus from a raw string.
func NewCommissionStatus(s string) (CommissionStatus, error) {
	v, ok := validCommissionStatuses[s]
	if !ok {
		return CommissionStatus{}, fmt.Errorf("invalid commission status: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (s CommissionStatus) String() string { return s.value }

// IsZero returns true when not initialised.
func (s CommissionStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses match.
func (s CommissionStatus) Equal(other CommissionStatus) bool { return s.value == other.value }

// IsTerminal reports whether the commission can no longer change state.
func (s CommissionStatus) IsTerminal() bool {
	return s.value == commissionStatusPaid || s.value == commissionStatusCancelled
}

// ---------------------------------------------------------------------------
// BonusType – immutable value object
// ---------------------------------------------------------------------------

// BonusType keys one-time dealer onboarding payouts. At most one bonus per
// (dealer, type) is ever granted.
type BonusType struct {
	value string
}

const (
	bonusTypeWelcome       = "WELCOME"
	bonusTypeFirstDeal     = "FIRST_DEAL"
	bonusTypeFastStart     = "FAST_START"
	bonusTypeCertification = "CERTIFICATION"
)

var (
	BonusTypeWelcome       = BonusType{value: bonusTypeWelcome}
	BonusTypeFirstDeal     = BonusType{value: bonusTypeFirstDeal}
	BonusTypeFastStart     = BonusType{value: bonusTypeFastStart}
	BonusTypeCertification = BonusType{value: bonusTypeCertification}
)

var validBonusTypes = map[string]BonusType{
	bonusTypeWelcome:       BonusTypeWelcome,
	bonusTypeFirstDeal:     BonusTypeFirstDeal,
	bonusTypeFastStart:     BonusTypeFastStart,
	bonusTypeCertification: BonusTypeCertification,
}

// NewBonusType creates a BonusType from a raw string.
func NewBonusType(s string) (BonusType, error) {
	v, ok := validBonusTypes[s]
	if !ok {
		return BonusType{}, fmt.Errorf("invalid bonus type: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (t BonusType) String() string { return t.value }

// IsZero returns true when not initialised.
func (t BonusType) IsZero() bool { return t.value == "" }

// Equal returns true when both types match.
func (t BonusType) Equal(other BonusType) bool { return t.value == other.value }

package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// MilestoneType – immutable value object
// ---------------------------------------------------------------------------

// MilestoneType classifies a step in a deal's payment schedule.
type MilestoneType struct {
	value string
}

const (
	milestoneTypeDeposit       = "DEPOSIT"
	milestoneTypeInspection    = "INSPECTION"
	milestoneTypeDocumentation = "DOCUMENTATION"
	milestoneTypePreShipment   = "PRE_SHIPMENT"
	milestoneTypeDelivery      = "DELIVERY"
	milestoneTypeCustom        = "CUSTOM"
)

var (
	MilestoneTypeDeposit       = MilestoneType{value: milestoneTypeDeposit}
	MilestoneTypeInspection    = MilestoneType{value: milestoneTypeInspection}
	MilestoneTypeDocumentation = MilestoneType{value: milestoneTypeDocumentation}
	MilestoneTypePreShipment   = MilestoneType{value: milestoneTypePreShipment}
	MilestoneTypeDelivery      = MilestoneType{value: milestoneTypeDelivery}
	MilestoneTypeCustom        = MilestoneType{value: milestoneTypeCustom}
)

var validMilestoneTypes = map[string]MilestoneType{
	milestoneTypeDeposit:       MilestoneTypeDeposit,
	milestoneTypeInspection:    MilestoneTypeInspection,
	milestoneTypeDocumentation: MilestoneTypeDocumentation,
	milestoneTypePreShipment:   MilestoneTypePreShipment,
	milestoneTypeDelivery:      MilestoneTypeDelivery,
	milestoneTypeCustom:        MilestoneTypeCustom,
}

// NewMilestoneType creates a MilestoneType from a raw string.
func NewMilestoneType(s string) (MilestoneType, error) {
	v, ok := validMilestoneTypes[s]
	if !ok {
		return MilestoneType{}, fmt.Errorf("invalid milestone type: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (t MilestoneType) String() string { return t.value }

// IsZero returns true when not initialised.
func (t MilestoneType) IsZero() bool { return t.value == "" }

// Equal returns true when both types match.
func (t MilestoneType) Equal(other MilestoneType) bool { return t.value == other.value }

// ---------------------------------------------------------------------------
// MilestoneStatus – immutable value object
// ---------------------------------------------------------------------------

// MilestoneStatus represents the paid state of one schedule step.
type MilestoneStatus struct {
	value string
}

const (
	milestoneStatusPending = "PENDING"
	milestoneStatusPartial = "PARTIAL"
	milestoneStatusPaid    = "PAID"
	milestoneStatusOverdue = "OVERDUE"
	milestoneStatusWaived  = "WAIVED"
)

var (
	MilestoneStatusPending = MilestoneStatus{value: milestoneStatusPending}
	MilestoneStatusPartial = MilestoneStatus{value: milestoneStatusPartial}
	MilestoneStatusPaid    = MilestoneStatus{value: milestoneStatusPaid}
	MilestoneStatusOverdue = MilestoneStatus{value: milestoneStatusOverdue}
	MilestoneStatusWaived  = MilestoneStatus{value: milestoneStatusWaived}
)

var validMilestoneStatuses = map[string]MilestoneStatus{
	milestoneStatusPending: MilestoneStatusPending,
	milestoneStatusPartial: MilestoneStatusPartial,
	milestoneStatusPaid:    MilestoneStatusPaid,
	milestoneStatusOverdue: MilestoneStatusOverdue,
	milestoneStatusWaived:  MilestoneStatusWaived,
}

// NewMilestoneStatus creates a MilestoneStatus from a raw string.
func NewMilestoneStatus(s string) (MilestoneStatus, error) {
	v, ok := validMilestoneStatuses[s]
	if !ok {
		return MilestoneStatus{}, fmt.Errorf("invalid milestone status: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (s MilestoneStatus) String() string { return s.value }

// IsZero returns true when not initialised.
func (s MilestoneStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses match.
func (s MilestoneStatus) Equal(other MilestoneStatus) bool { return s.value == other.value }

// Allocatable reports whether a payment may still be applied to a milestone
// in this status.
func (s MilestoneStatus) Allocatable() bool {
	switch s.value {
	case milestoneStatusPending, milestoneStatusPartial, milestoneStatusOverdue:
		return true
	default:
		return false
	}
}

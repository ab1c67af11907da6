package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// FinancingPlanStatus – immutable value object
// ---------------------------------------------------------------------------

// FinancingPlanStatus represents the lifecycle stage of a financing plan.
type FinancingPlanStatus struct {
	value string
}

const (
	planStatusPendingApproval = "PENDING_APPROVAL"
	planStatusApproved        = "APPROVED"
	planStatusActive          = "ACTIVE"
	planStatusCompleted       = "COMPLETED"
	planStatusDefaulted       = "DEFAULTED"
	planStatusCancelled       = "CANCELLED"
)

var (
	FinancingPlanStatusPendingApproval = FinancingPlanStatus{value: planStatusPendingApproval}
	FinancingPlanStatusApproved        = FinancingPlanStatus{value: planStatusApproved}
	FinancingPlanStatusActive          = FinancingPlanStatus{value: planStatusActive}
	FinancingPlanStatusCompleted       = FinancingPlanStatus{value: planStatusCompleted}
	FinancingPlanStatusDefaulted       = FinancingPlanStatus{value: planStatusDefaulted}
	FinancingPlanStatusCancelled       = FinancingPlanStatus{value: planStatusCancelled}
)

var validFinancingPlanStatuses = map[string]FinancingPlanStatus{
	planStatusPendingApproval: FinancingPlanStatusPendingApproval,
	planStatusApproved:        FinancingPlanStatusApproved,
	planStatusActive:          FinancingPlanStatusActive,
	planStatusCompleted:       FinancingPlanStatusCompleted,
	planStatusDefaulted:       FinancingPlanStatusDefaulted,
	planStatusCancelled:       FinancingPlanStatusCancelled,
}

// NewFinancingPlanStatus creates a FinancingPlanStatus from a raw string.
func NewFinancingPlanStatus(s string) (FinancingPlanStatus, error) {
	v, ok := validFinancingPlanStatuses[s]
	if !ok {
		return FinancingPlanStatus{}, fmt.Errorf("invalid financing plan status: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (s FinancingPlanStatus) String() string { return s.value }

// IsZero returns true when not initialised.
func (s FinancingPlanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses match.
func (s FinancingPlanStatus) Equal(other FinancingPlanStatus) bool { return s.value == other.value }

// IsTerminal reports whether the plan can no longer change state.
func (s FinancingPlanStatus) IsTerminal() bool {
	switch s.value {
	case planStatusCompleted, planStatusDefaulted, planStatusCancelled:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// InstallmentStatus – immutable value object
// ---------------------------------------------------------------------------

// InstallmentStatus represents the paid state of one financing installment.
type InstallmentStatus struct {
	value string
}

const (
	installmentStatusPending   = "PENDING"
	installmentStatusPaid      = "PAID"
	installmentStatusLate      = "LATE"
	installmentStatusDefaulted = "DEFAULTED"
)

var (
	InstallmentStatusPending   = InstallmentStatus{value: installmentStatusPending}
	InstallmentStatusPaid      = InstallmentStatus{value: installmentStatusPaid}
	InstallmentStatusLate      = InstallmentStatus{value: installmentStatusLate}
	InstallmentStatusDefaulted = InstallmentStatus{value: installmentStatusDefaulted}
)

var validInstallmentStatuses = map[string]InstallmentStatus{
	installmentStatusPending:   InstallmentStatusPending,
	installmentStatusPaid:      InstallmentStatusPaid,
	installmentStatusLate:      InstallmentStatusLate,
	installmentStatusDefaulted: InstallmentStatusDefaulted,
}

// NewInstallmentStatus creates an InstallmentStatus from a raw string.
func NewInstallmentStatus(s string) (InstallmentStatus, error) {
	v, ok := validInstallmentStatuses[s]
	if !ok {
		return InstallmentStatus{}, fmt.Errorf("invalid installment status: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (s InstallmentStatus) String() string { return s.value }

// IsZero returns true when not initialised.
func (s InstallmentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses match.
func (s InstallmentStatus) Equal(other InstallmentStatus) bool { return s.value == other.value }

package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MilestoneSpec describes one step of a payment schedule before it is
// attached to a deal's financial terms. These are the only recognised
// options per milestone.
type MilestoneSpec struct {
	Type           MilestoneType
	Name           string
	Description    string
	Sequence       int
	PercentOfTotal decimal.Decimal
	DaysFromNow    int
}

// ScheduleSpec is an ordered configuration for a full payment schedule.
// The percentages must sum to 100 (±0.01).
type ScheduleSpec struct {
	Milestones []MilestoneSpec
}

// percentSumTolerance allows a cent of rounding slack on the 100% check.
var percentSumTolerance = decimal.RequireFromString("0.01")

// Validate checks the structural invariants of the spec: at least one
// milestone, positive unique sequences, non-negative percentages summing to
// 100 within tolerance, and non-negative day offsets.
func (s ScheduleSpec) Validate() error {
	if len(s.Milestones) == 0 {
		return fmt.Errorf("schedule spec must contain at least one milestone")
	}

	sum := decimal.Zero
	seen := make(map[int]bool, len(s.Milestones))
	for _, m := range s.Milestones {
		if m.Sequence <= 0 {
			return fmt.Errorf("milestone %q: sequence must be positive, got %d", m.Name, m.Sequence)
		}
		if seen[m.Sequence] {
			return fmt.Errorf("milestone %q: duplicate sequence %d", m.Name, m.Sequence)
		}
		seen[m.Sequence] = true
		if m.Type.IsZero() {
			return fmt.Errorf("milestone %q: type is required", m.Name)
		}
		if m.PercentOfTotal.IsNegative() {
			return fmt.Errorf("milestone %q: percent of total must not be negative", m.Name)
		}
		if m.DaysFromNow < 0 {
			return fmt.Errorf("milestone %q: days from now must not be negative", m.Name)
		}
		sum = sum.Add(m.PercentOfTotal)
	}

	if sum.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(percentSumTolerance) {
		return fmt.Errorf("milestone percentages must sum to 100, got %s", sum)
	}
	return nil
}

// StandardSchedule is the desk's default five-step export schedule:
// 20/15/25/25/15 percent due 3/10/20/30/45 days out.
func StandardSchedule() ScheduleSpec {
	pct := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return ScheduleSpec{
		Milestones: []MilestoneSpec{
			{Type: MilestoneTypeDeposit, Name: "Deposit", Description: "Initial deposit to secure the vehicle", Sequence: 1, PercentOfTotal: pct("20"), DaysFromNow: 3},
			{Type: MilestoneTypeInspection, Name: "Inspection", Description: "Due on completion of third-party inspection", Sequence: 2, PercentOfTotal: pct("15"), DaysFromNow: 10},
			{Type: MilestoneTypeDocumentation, Name: "Documentation", Description: "Due when export documentation is verified", Sequence: 3, PercentOfTotal: pct("25"), DaysFromNow: 20},
			{Type: MilestoneTypePreShipment, Name: "Pre-shipment", Description: "Due before the vehicle is booked for shipping", Sequence: 4, PercentOfTotal: pct("25"), DaysFromNow: 30},
			{Type: MilestoneTypeDelivery, Name: "Delivery", Description: "Final balance due on delivery", Sequence: 5, PercentOfTotal: pct("15"), DaysFromNow: 45},
		},
	}
}

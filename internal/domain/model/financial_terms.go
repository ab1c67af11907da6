package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/event"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// FinancialTerms aggregate root (Deal Financial Lifecycle Core)
// ---------------------------------------------------------------------------

// PaymentMilestone is one ordered step of a deal's payment schedule. The
// rows are owned by the FinancialTerms aggregate and never mutated outside
// it.
type PaymentMilestone struct {
	ID          string
	Type        valueobject.MilestoneType
	Name        string
	Description string
	Sequence    int
	AmountDue   decimal.Decimal
	AmountPaid  decimal.Decimal
	Currency    string
	DueDate     time.Time
	Status      valueobject.MilestoneStatus
	PaymentIDs  []string
}

// IsOverdue reports whether the milestone is past due and not settled or
// waived.
func (m PaymentMilestone) IsOverdue(now time.Time) bool {
	if m.Status.Equal(valueobject.MilestoneStatusPaid) || m.Status.Equal(valueobject.MilestoneStatusWaived) {
		return false
	}
	return now.After(m.DueDate)
}

// MilestoneAllocation reports how much of one payment landed on one
// milestone.
type MilestoneAllocation struct {
	MilestoneID string
	Sequence    int
	Amount      decimal.Decimal
}

// FinancialTerms is the monetary contract attached to exactly one deal. It
// owns the deposit/balance invariants and the milestone schedule; every
// mutation keeps:
//
//	deposit_amount    = round(total_price * deposit_pct / 100, 2)
//	balance_remaining = total_price - total_paid
//	deposit_paid     <=> total_paid >= deposit_amount
//
// Overpayment is tolerated: total_paid may exceed total_price and the
// excess stays on the terms.
type FinancialTerms struct {
	id               string
	dealID           string
	totalPrice       decimal.Decimal
	currency         string
	depositPct       decimal.Decimal
	depositAmount    decimal.Decimal
	depositDueDate   time.Time
	depositPaid      bool
	depositPaidAt    *time.Time
	balanceRemaining decimal.Decimal
	balanceDueDate   *time.Time
	totalPaid        decimal.Decimal
	lockedFxRate     *decimal.Decimal
	fxLockedAt       *time.Time
	paymentTermDays  int
	gracePeriodDays  int
	isFinanced       bool
	refundableDeposit bool
	milestones       []PaymentMilestone
	version          int
	createdAt        time.Time
	updatedAt        time.Time
	domainEvents     []event.DomainEvent
}

// depositLeadTime is how long a buyer has to produce the deposit.
const depositLeadTime = 3 * 24 * time.Hour

// NewFinancialTerms creates terms for a deal. The deposit is due three days
// out; the balance is due paymentTermDays after that.
func NewFinancialTerms(
	dealID string,
	totalPrice decimal.Decimal,
	depositPct decimal.Decimal,
	paymentTermDays, gracePeriodDays int,
	currency string,
	now time.Time,
) (FinancialTerms, error) {
	if dealID == "" {
		return FinancialTerms{}, fmt.Errorf("%w: deal ID is required", valueobject.ErrPreconditionViolated)
	}
	if totalPrice.LessThanOrEqual(decimal.Zero) {
		return FinancialTerms{}, fmt.Errorf("%w: total price must be positive", valueobject.ErrAmountInvalid)
	}
	if depositPct.IsNegative() || depositPct.GreaterThan(decimal.NewFromInt(100)) {
		return FinancialTerms{}, fmt.Errorf("%w: deposit percentage must be within [0,100]", valueobject.ErrInvariantBroken)
	}
	if paymentTermDays <= 0 {
		return FinancialTerms{}, fmt.Errorf("%w: payment term days must be positive", valueobject.ErrInvariantBroken)
	}
	if gracePeriodDays < 0 {
		return FinancialTerms{}, fmt.Errorf("%w: grace period days must not be negative", valueobject.ErrInvariantBroken)
	}
	if currency == "" {
		return FinancialTerms{}, fmt.Errorf("%w: currency is required", valueobject.ErrPreconditionViolated)
	}

	id := uuid.New().String()
	totalPrice = totalPrice.Round(2)
	depositAmount := totalPrice.Mul(depositPct).Div(decimal.NewFromInt(100)).Round(2)
	balanceDue := now.Add(depositLeadTime).AddDate(0, 0, paymentTermDays)

	terms := FinancialTerms{
		id:               id,
		dealID:           dealID,
		totalPrice:       totalPrice,
		currency:         currency,
		depositPct:       depositPct,
		depositAmount:    depositAmount,
		depositDueDate:   now.Add(depositLeadTime),
		balanceRemaining: totalPrice,
		balanceDueDate:   &balanceDue,
		totalPaid:        decimal.Zero,
		paymentTermDays:  paymentTermDays,
		gracePeriodDays:  gracePeriodDays,
		refundableDeposit: true,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}

	terms.domainEvents = append(terms.domainEvents, event.NewTermsCreated(
		id, dealID, totalPrice, depositAmount, currency, now,
	))

	return terms, nil
}

// ReconstructFinancialTerms rebuilds the aggregate from persistence.
func ReconstructFinancialTerms(
	id, dealID string,
	totalPrice decimal.Decimal,
	currency string,
	depositPct, depositAmount decimal.Decimal,
	depositDueDate time.Time,
	depositPaid bool,
	depositPaidAt *time.Time,
	balanceRemaining decimal.Decimal,
	balanceDueDate *time.Time,
	totalPaid decimal.Decimal,
	lockedFxRate *decimal.Decimal,
	fxLockedAt *time.Time,
	paymentTermDays, gracePeriodDays int,
	isFinanced, refundableDeposit bool,
	milestones []PaymentMilestone,
	version int,
	createdAt, updatedAt time.Time,
) FinancialTerms {
	return FinancialTerms{
		id:               id,
		dealID:           dealID,
		totalPrice:       totalPrice,
		currency:         currency,
		depositPct:       depositPct,
		depositAmount:    depositAmount,
		depositDueDate:   depositDueDate,
		depositPaid:      depositPaid,
		depositPaidAt:    depositPaidAt,
		balanceRemaining: balanceRemaining,
		balanceDueDate:   balanceDueDate,
		totalPaid:        totalPaid,
		lockedFxRate:     lockedFxRate,
		fxLockedAt:       fxLockedAt,
		paymentTermDays:  paymentTermDays,
		gracePeriodDays:  gracePeriodDays,
		isFinanced:       isFinanced,
		refundableDeposit: refundableDeposit,
		milestones:       copyMilestones(milestones),
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ---------------------------------------------------------------------------
// Schedule attachment
// ---------------------------------------------------------------------------

// AttachSchedule materialises a validated ScheduleSpec into milestones. It
// rejects terms that already carry a schedule. The last milestone absorbs
// rounding drift so the amounts sum to the total price exactly when the
// spec is a full 100% split.
func (t FinancialTerms) AttachSchedule(spec valueobject.ScheduleSpec, now time.Time) (FinancialTerms, error) {
	if len(t.milestones) > 0 {
		return t, fmt.Errorf("%w: terms %s already have a payment schedule", valueobject.ErrPreconditionViolated, t.id)
	}
	if err := spec.Validate(); err != nil {
		return t, fmt.Errorf("%w: %v", valueobject.ErrInvariantBroken, err)
	}

	specs := make([]valueobject.MilestoneSpec, len(spec.Milestones))
	copy(specs, spec.Milestones)
	sort.Slice(specs, func(i, j int) bool { return specs[i].Sequence < specs[j].Sequence })

	milestones := make([]PaymentMilestone, 0, len(specs))
	allocated := decimal.Zero
	for i, ms := range specs {
		amount := t.totalPrice.Mul(ms.PercentOfTotal).Div(decimal.NewFromInt(100)).Round(2)
		if i == len(specs)-1 {
			amount = t.totalPrice.Sub(allocated)
		}
		allocated = allocated.Add(amount)

		milestones = append(milestones, PaymentMilestone{
			ID:          uuid.New().String(),
			Type:        ms.Type,
			Name:        ms.Name,
			Description: ms.Description,
			Sequence:    ms.Sequence,
			AmountDue:   amount,
			AmountPaid:  decimal.Zero,
			Currency:    t.currency,
			DueDate:     now.AddDate(0, 0, ms.DaysFromNow),
			Status:      valueobject.MilestoneStatusPending,
		})
	}

	out := t
	out.milestones = milestones
	out.updatedAt = now
	out.domainEvents = copyEvents(t.domainEvents)
	out.domainEvents = append(out.domainEvents, event.NewScheduleAttached(t.id, t.dealID, len(milestones), now))
	return out, nil
}

// ---------------------------------------------------------------------------
// Payment recording and allocation
// ---------------------------------------------------------------------------

// RecordPayment applies one settled payment to the terms: aggregate totals
// first, then in-order allocation across open milestones. Any amount left
// after every open milestone is saturated stays on the terms as an
// overpayment.
func (t FinancialTerms) RecordPayment(
	paymentID string,
	amount decimal.Decimal,
	currency string,
	now time.Time,
) (FinancialTerms, []MilestoneAllocation, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return t, nil, fmt.Errorf("%w: payment amount must be positive, got %s", valueobject.ErrAmountInvalid, amount)
	}
	if amount.Exponent() < -2 {
		return t, nil, fmt.Errorf("%w: payment amount %s has more than two fractional digits", valueobject.ErrAmountInvalid, amount)
	}
	if currency != t.currency {
		return t, nil, fmt.Errorf("%w: payment currency %s does not match terms currency %s",
			valueobject.ErrPreconditionViolated, currency, t.currency)
	}

	out := t
	out.milestones = copyMilestones(t.milestones)
	out.domainEvents = copyEvents(t.domainEvents)

	prevBalance := out.balanceRemaining

	out.totalPaid = out.totalPaid.Add(amount)
	out.balanceRemaining = out.totalPrice.Sub(out.totalPaid)

	if !out.depositPaid && out.totalPaid.GreaterThanOrEqual(out.depositAmount) {
		out.depositPaid = true
		at := now
		out.depositPaidAt = &at
		if out.balanceDueDate == nil {
			due := now.AddDate(0, 0, out.paymentTermDays)
			out.balanceDueDate = &due
		}
		out.domainEvents = append(out.domainEvents, event.NewDepositPaid(out.id, out.dealID, out.depositAmount, now))
	}

	allocations := out.allocate(paymentID, amount, now)

	if prevBalance.IsPositive() && !out.balanceRemaining.IsPositive() {
		out.domainEvents = append(out.domainEvents, event.NewDealFullyPaid(out.dealID, out.totalPaid, now))
	}

	out.updatedAt = now
	return out, allocations, nil
}

// allocate distributes the amount across open milestones in sequence order.
// Mutates out-of-place copies only; the caller already cloned the slice.
func (t *FinancialTerms) allocate(paymentID string, amount decimal.Decimal, now time.Time) []MilestoneAllocation {
	order := make([]int, 0, len(t.milestones))
	for i := range t.milestones {
		if t.milestones[i].Status.Allocatable() {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.milestones[order[a]].Sequence < t.milestones[order[b]].Sequence
	})

	var allocations []MilestoneAllocation
	remaining := amount

	for _, i := range order {
		if !remaining.IsPositive() {
			break
		}
		m := &t.milestones[i]

		open := m.AmountDue.Sub(m.AmountPaid)
		if !open.IsPositive() {
			continue
		}

		take := decimal.Min(remaining, open)
		m.AmountPaid = m.AmountPaid.Add(take)
		m.PaymentIDs = append(m.PaymentIDs, paymentID)

		switch {
		case m.AmountPaid.GreaterThanOrEqual(m.AmountDue):
			m.Status = valueobject.MilestoneStatusPaid
		default:
			m.Status = valueobject.MilestoneStatusPartial
		}
		if m.IsOverdue(now) {
			m.Status = valueobject.MilestoneStatusOverdue
		}

		allocations = append(allocations, MilestoneAllocation{
			MilestoneID: m.ID,
			Sequence:    m.Sequence,
			Amount:      take,
		})
		remaining = remaining.Sub(take)
	}

	return allocations
}

// WaiveMilestone marks the milestone with the given sequence as waived.
// Paid milestones cannot be waived.
func (t FinancialTerms) WaiveMilestone(sequence int, now time.Time) (FinancialTerms, error) {
	out := t
	out.milestones = copyMilestones(t.milestones)
	out.domainEvents = copyEvents(t.domainEvents)

	for i := range out.milestones {
		m := &out.milestones[i]
		if m.Sequence != sequence {
			continue
		}
		if m.Status.Equal(valueobject.MilestoneStatusPaid) {
			return t, fmt.Errorf("%w: milestone %d is already paid", valueobject.ErrPreconditionViolated, sequence)
		}
		m.Status = valueobject.MilestoneStatusWaived
		out.updatedAt = now
		return out, nil
	}
	return t, fmt.Errorf("%w: milestone with sequence %d", valueobject.ErrNotFound, sequence)
}

// MarkFinanced flags the terms as financed. Called when a financing plan is
// attached to the deal.
func (t FinancialTerms) MarkFinanced(now time.Time) FinancialTerms {
	if t.isFinanced {
		return t
	}
	out := t
	out.isFinanced = true
	out.updatedAt = now
	out.domainEvents = copyEvents(t.domainEvents)
	return out
}

// LockExchangeRate pins the CAD/USD rate used for reporting figures.
func (t FinancialTerms) LockExchangeRate(rate decimal.Decimal, now time.Time) (FinancialTerms, error) {
	if !rate.IsPositive() {
		return t, fmt.Errorf("%w: exchange rate must be positive", valueobject.ErrAmountInvalid)
	}
	out := t
	r := rate.Round(6)
	out.lockedFxRate = &r
	at := now
	out.fxLockedAt = &at
	out.updatedAt = now
	out.domainEvents = copyEvents(t.domainEvents)
	return out, nil
}

// ---------------------------------------------------------------------------
// Read-side helpers
// ---------------------------------------------------------------------------

// DerivePaymentStatus returns the deal payment status implied by the
// current totals: PAID once the balance is gone, PARTIAL once anything has
// settled, otherwise the current status is kept.
func (t FinancialTerms) DerivePaymentStatus(current valueobject.PaymentStatus) valueobject.PaymentStatus {
	switch {
	case !t.balanceRemaining.IsPositive():
		return valueobject.PaymentStatusPaid
	case t.totalPaid.IsPositive():
		return valueobject.PaymentStatusPartial
	default:
		return current
	}
}

// DepositOverdue reports whether the deposit is unpaid past its due date
// plus the grace period.
func (t FinancialTerms) DepositOverdue(now time.Time) bool {
	if t.depositPaid {
		return false
	}
	return now.After(t.depositDueDate.AddDate(0, 0, t.gracePeriodDays))
}

// BalanceOverdue reports whether an outstanding balance is past its due
// date plus the grace period.
func (t FinancialTerms) BalanceOverdue(now time.Time) bool {
	if !t.balanceRemaining.IsPositive() || t.balanceDueDate == nil {
		return false
	}
	return now.After(t.balanceDueDate.AddDate(0, 0, t.gracePeriodDays))
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (t FinancialTerms) ID() string                        { return t.id }
func (t FinancialTerms) DealID() string                    { return t.dealID }
func (t FinancialTerms) TotalPrice() decimal.Decimal       { return t.totalPrice }
func (t FinancialTerms) Currency() string                  { return t.currency }
func (t FinancialTerms) DepositPct() decimal.Decimal       { return t.depositPct }
func (t FinancialTerms) DepositAmount() decimal.Decimal    { return t.depositAmount }
func (t FinancialTerms) DepositDueDate() time.Time         { return t.depositDueDate }
func (t FinancialTerms) DepositPaid() bool                 { return t.depositPaid }
func (t FinancialTerms) DepositPaidAt() *time.Time         { return t.depositPaidAt }
func (t FinancialTerms) BalanceRemaining() decimal.Decimal { return t.balanceRemaining }
func (t FinancialTerms) BalanceDueDate() *time.Time        { return t.balanceDueDate }
func (t FinancialTerms) TotalPaid() decimal.Decimal        { return t.totalPaid }
func (t FinancialTerms) LockedFxRate() *decimal.Decimal    { return t.lockedFxRate }
func (t FinancialTerms) FxLockedAt() *time.Time            { return t.fxLockedAt }
func (t FinancialTerms) PaymentTermDays() int              { return t.paymentTermDays }
func (t FinancialTerms) GracePeriodDays() int              { return t.gracePeriodDays }
func (t FinancialTerms) IsFinanced() bool                  { return t.isFinanced }
func (t FinancialTerms) RefundableDeposit() bool           { return t.refundableDeposit }
func (t FinancialTerms) Version() int                      { return t.version }
func (t FinancialTerms) CreatedAt() time.Time              { return t.createdAt }
func (t FinancialTerms) UpdatedAt() time.Time              { return t.updatedAt }
func (t FinancialTerms) DomainEvents() []event.DomainEvent { return t.domainEvents }

// Milestones returns a defensive copy of the schedule.
func (t FinancialTerms) Milestones() []PaymentMilestone {
	return copyMilestones(t.milestones)
}

// ClearEvents returns a copy with an empty event list.
func (t FinancialTerms) ClearEvents() FinancialTerms {
	out := t
	out.domainEvents = nil
	return out
}

func copyMilestones(in []PaymentMilestone) []PaymentMilestone {
	if in == nil {
		return nil
	}
	out := make([]PaymentMilestone, len(in))
	copy(out, in)
	for i := range out {
		if out[i].PaymentIDs != nil {
			ids := make([]string, len(out[i].PaymentIDs))
			copy(ids, out[i].PaymentIDs)
			out[i].PaymentIDs = ids
		}
	}
	return out
}

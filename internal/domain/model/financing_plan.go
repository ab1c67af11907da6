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
// FinancingPlan aggregate root
// ---------------------------------------------------------------------------

// FinancingInstallment is one row of a plan's amortization schedule, owned
// by the FinancingPlan aggregate. AmountPaid accumulates partial payments;
// a row settles once AmountPaid covers Total plus any accrued LateFee.
type FinancingInstallment struct {
	ID               string
	PlanID           string
	Period           int
	DueDate          time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	LateFee          decimal.Decimal
	AmountPaid       decimal.Decimal
	RemainingBalance decimal.Decimal
	Status           valueobject.InstallmentStatus
	DaysLate         int
	PaidAt           *time.Time
}

// AmountOwed is the full settlement figure for the row.
func (i FinancingInstallment) AmountOwed() decimal.Decimal {
	return i.Total.Add(i.LateFee)
}

// maxTermMonths caps financing terms at ten years.
const maxTermMonths = 120

// Recognized financing types. The set is advisory; lenders occasionally
// bring their own product names, so the field stays a free-form tag.
const (
	FinancingTypeBankLoan     = "BANK_LOAN"
	FinancingTypeDealerCredit = "DEALER_CREDIT"
	FinancingTypeLease        = "LEASE"
)

// InstallmentLateFee is the flat fee added the first time an installment
// goes late, in the plan currency.
var InstallmentLateFee = decimal.NewFromInt(25)

// FinancingPlan is a fixed-payment loan attached to a deal. The installment
// schedule is computed once at creation and never recomputed; recording
// payments only flips row statuses.
type FinancingPlan struct {
	id             string
	dealID         string
	financingType  string
	lender         string
	creditScore    *int
	downPayment    decimal.Decimal
	principal      decimal.Decimal
	annualRatePct  decimal.Decimal
	termMonths     int
	monthlyPayment decimal.Decimal
	totalInterest  decimal.Decimal
	currency       string
	status         valueobject.FinancingPlanStatus
	installments   []FinancingInstallment
	version        int
	createdAt      time.Time
	updatedAt      time.Time
	domainEvents   []event.DomainEvent
}

// NewFinancingPlan creates a plan in PENDING_APPROVAL and builds its full
// amortization schedule. The financed principal is totalPrice minus the
// down payment; the first installment falls due 30 days out.
func NewFinancingPlan(
	dealID, financingType, lender string,
	totalPrice, downPayment, annualRatePct decimal.Decimal,
	termMonths int,
	creditScore *int,
	currency string,
	now time.Time,
) (FinancingPlan, error) {
	if dealID == "" {
		return FinancingPlan{}, fmt.Errorf("%w: deal ID is required", valueobject.ErrPreconditionViolated)
	}
	if financingType == "" {
		return FinancingPlan{}, fmt.Errorf("%w: financing type is required", valueobject.ErrPreconditionViolated)
	}
	if creditScore != nil && (*creditScore < 300 || *creditScore > 900) {
		return FinancingPlan{}, fmt.Errorf("%w: credit score must be within [300,900], got %d", valueobject.ErrPreconditionViolated, *creditScore)
	}
	if downPayment.IsNegative() {
		return FinancingPlan{}, fmt.Errorf("%w: down payment must not be negative", valueobject.ErrAmountInvalid)
	}
	principal := totalPrice.Sub(downPayment).Round(2)
	if principal.LessThanOrEqual(decimal.Zero) {
		return FinancingPlan{}, fmt.Errorf("%w: down payment %s leaves nothing to finance", valueobject.ErrAmountInvalid, downPayment)
	}
	if termMonths <= 0 || termMonths > maxTermMonths {
		return FinancingPlan{}, fmt.Errorf("%w: term must be within (0,%d] months, got %d", valueobject.ErrInvariantBroken, maxTermMonths, termMonths)
	}
	if annualRatePct.IsNegative() || annualRatePct.GreaterThan(decimal.NewFromInt(100)) {
		return FinancingPlan{}, fmt.Errorf("%w: annual rate must be within [0,100], got %s", valueobject.ErrInvariantBroken, annualRatePct)
	}

	id := uuid.New().String()
	monthly := ComputeMonthlyPayment(principal, annualRatePct, termMonths)
	schedule := BuildAmortizationSchedule(principal, annualRatePct, termMonths, now.Add(installmentInterval))

	installments := make([]FinancingInstallment, 0, len(schedule))
	for _, entry := range schedule {
		installments = append(installments, FinancingInstallment{
			ID:               uuid.New().String(),
			PlanID:           id,
			Period:           entry.Period,
			DueDate:          entry.DueDate,
			Principal:        entry.Principal,
			Interest:         entry.Interest,
			Total:            entry.Total,
			LateFee:          decimal.Zero,
			AmountPaid:       decimal.Zero,
			RemainingBalance: entry.RemainingBalance,
			Status:           valueobject.InstallmentStatusPending,
		})
	}

	plan := FinancingPlan{
		id:             id,
		dealID:         dealID,
		financingType:  financingType,
		lender:         lender,
		creditScore:    creditScore,
		downPayment:    downPayment.Round(2),
		principal:      principal,
		annualRatePct:  annualRatePct.Round(2),
		termMonths:     termMonths,
		monthlyPayment: monthly,
		totalInterest:  TotalInterest(monthly, termMonths, principal),
		currency:       currency,
		status:         valueobject.FinancingPlanStatusPendingApproval,
		installments:   installments,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}

	plan.domainEvents = append(plan.domainEvents, event.NewFinancingAttached(
		id, dealID, principal, monthly, termMonths, lender, now,
	))

	return plan, nil
}

// ReconstructFinancingPlan rebuilds the aggregate from persistence.
func ReconstructFinancingPlan(
	id, dealID, financingType, lender string,
	downPayment, principal, annualRatePct decimal.Decimal,
	termMonths int,
	monthlyPayment, totalInterest decimal.Decimal,
	currency string,
	status valueobject.FinancingPlanStatus,
	creditScore *int,
	installments []FinancingInstallment,
	version int,
	createdAt, updatedAt time.Time,
) FinancingPlan {
	return FinancingPlan{
		id:             id,
		dealID:         dealID,
		financingType:  financingType,
		lender:         lender,
		creditScore:    creditScore,
		downPayment:    downPayment,
		principal:      principal,
		annualRatePct:  annualRatePct,
		termMonths:     termMonths,
		monthlyPayment: monthlyPayment,
		totalInterest:  totalInterest,
		currency:       currency,
		status:         status,
		installments:   copyInstallments(installments),
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// Approve moves a pending plan to APPROVED.
func (p FinancingPlan) Approve(now time.Time) (FinancingPlan, error) {
	if !p.status.Equal(valueobject.FinancingPlanStatusPendingApproval) {
		return p, fmt.Errorf("%w: financing plan %s -> APPROVED", valueobject.ErrInvalidStatusTransition, p.status)
	}
	return p.withStatus(valueobject.FinancingPlanStatusApproved, now), nil
}

// Activate moves an approved plan to ACTIVE. Repayment tracking starts here.
func (p FinancingPlan) Activate(now time.Time) (FinancingPlan, error) {
	if !p.status.Equal(valueobject.FinancingPlanStatusApproved) {
		return p, fmt.Errorf("%w: financing plan %s -> ACTIVE", valueobject.ErrInvalidStatusTransition, p.status)
	}
	return p.withStatus(valueobject.FinancingPlanStatusActive, now), nil
}

// MarkDefaulted moves an active plan to DEFAULTED.
func (p FinancingPlan) MarkDefaulted(now time.Time) (FinancingPlan, error) {
	if !p.status.Equal(valueobject.FinancingPlanStatusActive) {
		return p, fmt.Errorf("%w: financing plan %s -> DEFAULTED", valueobject.ErrInvalidStatusTransition, p.status)
	}
	return p.withStatus(valueobject.FinancingPlanStatusDefaulted, now), nil
}

// Cancel moves a non-terminal plan to CANCELLED.
func (p FinancingPlan) Cancel(now time.Time) (FinancingPlan, error) {
	if p.status.IsTerminal() {
		return p, fmt.Errorf("%w: financing plan %s -> CANCELLED", valueobject.ErrInvalidStatusTransition, p.status)
	}
	return p.withStatus(valueobject.FinancingPlanStatusCancelled, now), nil
}

// RecordInstallmentPayment applies an amount to the installment for the
// given period. The amount accumulates on the row; the row settles once it
// covers the installment total plus any late fee, and when the last open
// installment settles the plan completes.
func (p FinancingPlan) RecordInstallmentPayment(period int, amount decimal.Decimal, now time.Time) (FinancingPlan, error) {
	if !p.status.Equal(valueobject.FinancingPlanStatusActive) {
		return p, fmt.Errorf("%w: plan must be active to record installments, is %s", valueobject.ErrPreconditionViolated, p.status)
	}
	if !amount.IsPositive() {
		return p, fmt.Errorf("%w: installment payment must be positive, got %s", valueobject.ErrAmountInvalid, amount)
	}

	out := p
	out.installments = copyInstallments(p.installments)
	out.domainEvents = copyEvents(p.domainEvents)

	found := false
	allPaid := true
	for i := range out.installments {
		inst := &out.installments[i]
		if inst.Period == period {
			if inst.Status.Equal(valueobject.InstallmentStatusPaid) {
				return p, fmt.Errorf("%w: installment %d is already paid", valueobject.ErrPreconditionViolated, period)
			}
			inst.AmountPaid = inst.AmountPaid.Add(amount)
			if inst.AmountPaid.GreaterThanOrEqual(inst.AmountOwed()) {
				inst.Status = valueobject.InstallmentStatusPaid
				at := now
				inst.PaidAt = &at
			}
			found = true
		}
		if !inst.Status.Equal(valueobject.InstallmentStatusPaid) {
			allPaid = false
		}
	}
	if !found {
		return p, fmt.Errorf("%w: installment period %d", valueobject.ErrNotFound, period)
	}

	if allPaid {
		out.status = valueobject.FinancingPlanStatusCompleted
	}
	out.updatedAt = now
	return out, nil
}

// MarkLateInstallments flips unpaid installments past their due date to
// LATE, charges the flat late fee on the flip, and refreshes the days-late
// counter on every overdue row. The returned count reports newly late rows.
func (p FinancingPlan) MarkLateInstallments(now time.Time) (FinancingPlan, int) {
	out := p
	out.installments = copyInstallments(p.installments)
	out.domainEvents = copyEvents(p.domainEvents)

	changed := 0
	touched := false
	for i := range out.installments {
		inst := &out.installments[i]
		if inst.Status.Equal(valueobject.InstallmentStatusPaid) || !now.After(inst.DueDate) {
			continue
		}
		inst.DaysLate = int(now.Sub(inst.DueDate).Hours() / 24)
		touched = true
		if inst.Status.Equal(valueobject.InstallmentStatusPending) {
			inst.Status = valueobject.InstallmentStatusLate
			inst.LateFee = inst.LateFee.Add(InstallmentLateFee)
			changed++
		}
	}
	if touched {
		out.updatedAt = now
	}
	return out, changed
}

func (p FinancingPlan) withStatus(next valueobject.FinancingPlanStatus, now time.Time) FinancingPlan {
	out := p
	out.status = next
	out.updatedAt = now
	out.domainEvents = copyEvents(p.domainEvents)
	return out
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (p FinancingPlan) ID() string                                 { return p.id }
func (p FinancingPlan) DealID() string                             { return p.dealID }
func (p FinancingPlan) FinancingType() string                      { return p.financingType }
func (p FinancingPlan) Lender() string                             { return p.lender }
func (p FinancingPlan) CreditScore() *int                          { return p.creditScore }
func (p FinancingPlan) DownPayment() decimal.Decimal               { return p.downPayment }
func (p FinancingPlan) Principal() decimal.Decimal                 { return p.principal }
func (p FinancingPlan) AnnualRatePct() decimal.Decimal             { return p.annualRatePct }
func (p FinancingPlan) TermMonths() int                            { return p.termMonths }
func (p FinancingPlan) MonthlyPayment() decimal.Decimal            { return p.monthlyPayment }
func (p FinancingPlan) TotalInterest() decimal.Decimal             { return p.totalInterest }
func (p FinancingPlan) Currency() string                           { return p.currency }
func (p FinancingPlan) Status() valueobject.FinancingPlanStatus    { return p.status }
func (p FinancingPlan) Version() int                               { return p.version }
func (p FinancingPlan) CreatedAt() time.Time                       { return p.createdAt }
func (p FinancingPlan) UpdatedAt() time.Time                       { return p.updatedAt }
func (p FinancingPlan) DomainEvents() []event.DomainEvent          { return p.domainEvents }

// Installments returns a defensive copy of the schedule rows.
func (p FinancingPlan) Installments() []FinancingInstallment {
	return copyInstallments(p.installments)
}

// ClearEvents returns a copy with an empty event list.
func (p FinancingPlan) ClearEvents() FinancingPlan {
	out := p
	out.domainEvents = nil
	return out
}

func copyInstallments(in []FinancingInstallment) []FinancingInstallment {
	if in == nil {
		return nil
	}
	out := make([]FinancingInstallment, len(in))
	copy(out, in)
	return out
}

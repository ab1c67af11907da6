package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/anungis437/nzila-eexports-sub001/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Financial terms events
// ---------------------------------------------------------------------------

// TermsCreated is raised when financial terms are first attached to a deal.
type TermsCreated struct {
	events.BaseEvent
	DealID        string          `json:"deal_id"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Currency      string          `json:"currency"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
}

func NewTermsCreated(termsID, dealID string, totalPrice, depositAmount decimal.Decimal, currency string, at time.Time) TermsCreated {
	return TermsCreated{
		BaseEvent:     events.NewBaseEvent("deal.terms_created", termsID, "FinancialTerms", at),
		DealID:        dealID,
		TotalPrice:    totalPrice,
		Currency:      currency,
		DepositAmount: depositAmount,
	}
}

// ScheduleAttached is raised when a milestone schedule is attached to terms.
type ScheduleAttached struct {
	events.BaseEvent
	DealID         string `json:"deal_id"`
	MilestoneCount int    `json:"milestone_count"`
}

func NewScheduleAttached(termsID, dealID string, milestoneCount int, at time.Time) ScheduleAttached {
	return ScheduleAttached{
		BaseEvent:      events.NewBaseEvent("deal.schedule_attached", termsID, "FinancialTerms", at),
		DealID:         dealID,
		MilestoneCount: milestoneCount,
	}
}

// DepositPaid is raised when cumulative payments cover the deposit amount.
type DepositPaid struct {
	events.BaseEvent
	DealID        string          `json:"deal_id"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
}

func NewDepositPaid(termsID, dealID string, depositAmount decimal.Decimal, at time.Time) DepositPaid {
	return DepositPaid{
		BaseEvent:     events.NewBaseEvent("deal.deposit_paid", termsID, "FinancialTerms", at),
		DealID:        dealID,
		DepositAmount: depositAmount,
	}
}

// DealFullyPaid is raised when balance remaining crosses to zero or below.
type DealFullyPaid struct {
	events.BaseEvent
	DealID    string          `json:"deal_id"`
	TotalPaid decimal.Decimal `json:"total_paid"`
}

func NewDealFullyPaid(dealID string, totalPaid decimal.Decimal, at time.Time) DealFullyPaid {
	return DealFullyPaid{
		BaseEvent: events.NewBaseEvent("deal.fully_paid", dealID, "Deal", at),
		DealID:    dealID,
		TotalPaid: totalPaid,
	}
}

// ---------------------------------------------------------------------------
// Financing events
// ---------------------------------------------------------------------------

// FinancingAttached is raised when a financing plan and its installment
// schedule are created for a deal.
type FinancingAttached struct {
	events.BaseEvent
	DealID         string          `json:"deal_id"`
	Principal      decimal.Decimal `json:"principal"`
	TermMonths     int             `json:"term_months"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Lender         string          `json:"lender"`
}

func NewFinancingAttached(planID, dealID string, principal, monthlyPayment decimal.Decimal, termMonths int, lender string, at time.Time) FinancingAttached {
	return FinancingAttached{
		BaseEvent:      events.NewBaseEvent("deal.financing_attached", planID, "FinancingPlan", at),
		DealID:         dealID,
		Principal:      principal,
		TermMonths:     termMonths,
		MonthlyPayment: monthlyPayment,
		Lender:         lender,
	}
}

// ---------------------------------------------------------------------------
// Deal lifecycle events
// ---------------------------------------------------------------------------

// DealStatusChanged is raised on every legal lifecycle transition.
type DealStatusChanged struct {
	events.BaseEvent
	From string `json:"from"`
	To   string `json:"to"`
}

func NewDealStatusChanged(dealID, from, to string, at time.Time) DealStatusChanged {
	return DealStatusChanged{
		BaseEvent: events.NewBaseEvent("deal.status_changed", dealID, "Deal", at),
		From:      from,
		To:        to,
	}
}

// DealCompleted is raised when the lifecycle reaches COMPLETED. The
// commission resolver runs off this event.
type DealCompleted struct {
	events.BaseEvent
	DealID      string          `json:"deal_id"`
	AgreedPrice decimal.Decimal `json:"agreed_price"`
	DealerID    string          `json:"dealer_id"`
	BrokerID    string          `json:"broker_id,omitempty"`
}

func NewDealCompleted(dealID string, agreedPrice decimal.Decimal, dealerID, brokerID string, at time.Time) DealCompleted {
	return DealCompleted{
		BaseEvent:   events.NewBaseEvent("deal.completed", dealID, "Deal", at),
		DealID:      dealID,
		AgreedPrice: agreedPrice,
		DealerID:    dealerID,
		BrokerID:    brokerID,
	}
}

// DealCancelled is raised when a deal is cancelled from a non-terminal state.
type DealCancelled struct {
	events.BaseEvent
	From string `json:"from"`
}

func NewDealCancelled(dealID, from string, at time.Time) DealCancelled {
	return DealCancelled{
		BaseEvent: events.NewBaseEvent("deal.cancelled", dealID, "Deal", at),
		From:      from,
	}
}

// ---------------------------------------------------------------------------
// Commission and bonus events
// ---------------------------------------------------------------------------

// CommissionCreated is raised for each commission fanned out on completion.
type CommissionCreated struct {
	events.BaseEvent
	DealID      string          `json:"deal_id"`
	RecipientID string          `json:"recipient_id"`
	Role        string          `json:"role"`
	Amount      decimal.Decimal `json:"amount"`
	Percentage  decimal.Decimal `json:"percentage"`
}

func NewCommissionCreated(commissionID, dealID, recipientID, role string, amount, percentage decimal.Decimal, at time.Time) CommissionCreated {
	return CommissionCreated{
		BaseEvent:   events.NewBaseEvent("commission.created", commissionID, "Commission", at),
		DealID:      dealID,
		RecipientID: recipientID,
		Role:        role,
		Amount:      amount,
		Percentage:  percentage,
	}
}

// BonusGranted is raised when a one-time dealer onboarding bonus is paid.
type BonusGranted struct {
	events.BaseEvent
	UserID    string          `json:"user_id"`
	BonusType string          `json:"bonus_type"`
	Amount    decimal.Decimal `json:"amount"`
}

func NewBonusGranted(bonusID, userID, bonusType string, amount decimal.Decimal, at time.Time) BonusGranted {
	return BonusGranted{
		BaseEvent: events.NewBaseEvent("bonus.granted", bonusID, "BonusTransaction", at),
		UserID:    userID,
		BonusType: bonusType,
		Amount:    amount,
	}
}

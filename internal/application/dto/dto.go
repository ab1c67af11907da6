package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateDealRequest carries the data needed to open a new deal.
type CreateDealRequest struct {
	BuyerID       string          `json:"buyer_id"`
	DealerID      string          `json:"dealer_id"`
	BrokerID      string          `json:"broker_id,omitempty"`
	VehicleID     string          `json:"vehicle_id"`
	AgreedPrice   decimal.Decimal `json:"agreed_price"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
}

// CreateTermsRequest carries the data needed to attach financial terms to a
// deal.
type CreateTermsRequest struct {
	DealID          string          `json:"deal_id"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Currency        string          `json:"currency"`
	DepositPct      decimal.Decimal `json:"deposit_pct"`
	PaymentTermDays int             `json:"payment_term_days"`
	GracePeriodDays int             `json:"grace_period_days"`
}

// MilestoneSpecRequest is one row of a custom payment schedule.
type MilestoneSpecRequest struct {
	Type           string          `json:"type"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Sequence       int             `json:"sequence"`
	PercentOfTotal decimal.Decimal `json:"percent_of_total"`
	DaysFromNow    int             `json:"days_from_now"`
}

// AttachScheduleRequest attaches a milestone schedule to existing terms. An
// empty Milestones list selects the standard five-milestone split.
type AttachScheduleRequest struct {
	DealID     string                 `json:"deal_id"`
	Milestones []MilestoneSpecRequest `json:"milestones,omitempty"`
}

// ProcessPaymentRequest applies one settled payment to a deal.
type ProcessPaymentRequest struct {
	DealID    string          `json:"deal_id"`
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

// AttachFinancingRequest attaches a financing plan to a deal. An omitted
// FinancingType selects the standard bank loan.
type AttachFinancingRequest struct {
	DealID        string          `json:"deal_id"`
	FinancingType string          `json:"financing_type,omitempty"`
	Lender        string          `json:"lender"`
	DownPayment   decimal.Decimal `json:"down_payment"`
	AnnualRatePct decimal.Decimal `json:"annual_rate_pct"`
	TermMonths    int             `json:"term_months"`
	CreditScore   *int            `json:"credit_score,omitempty"`
}

// AdvanceDealRequest moves a deal to the next lifecycle state.
type AdvanceDealRequest struct {
	DealID string `json:"deal_id"`
	Status string `json:"status"`
}

// CompleteDealRequest fires the completion resolver for a deal. Province
// and certification fields seed a dealer tier row on first completion.
type CompleteDealRequest struct {
	DealID         string `json:"deal_id"`
	DealerProvince string `json:"dealer_province,omitempty"`
	OmvicCertified bool   `json:"omvic_certified,omitempty"`
	AmvicCertified bool   `json:"amvic_certified,omitempty"`
}

// UpdateCommissionStatusRequest transitions one commission.
type UpdateCommissionStatusRequest struct {
	CommissionID string `json:"commission_id"`
	Status       string `json:"status"`
}

// WaiveMilestoneRequest waives one milestone on a deal's schedule.
type WaiveMilestoneRequest struct {
	DealID   string `json:"deal_id"`
	Sequence int    `json:"sequence"`
}

// GetDealSummaryRequest identifies a deal to summarise.
type GetDealSummaryRequest struct {
	DealID string `json:"deal_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// DealResponse is the external representation of a deal.
type DealResponse struct {
	ID            string          `json:"id"`
	BuyerID       string          `json:"buyer_id"`
	DealerID      string          `json:"dealer_id"`
	BrokerID      string          `json:"broker_id,omitempty"`
	VehicleID     string          `json:"vehicle_id"`
	AgreedPrice   decimal.Decimal `json:"agreed_price"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	PaymentStatus string          `json:"payment_status"`
	Status        string          `json:"status"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MilestoneResponse is the external representation of one schedule step.
type MilestoneResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Sequence   int             `json:"sequence"`
	AmountDue  decimal.Decimal `json:"amount_due"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Currency   string          `json:"currency"`
	DueDate    time.Time       `json:"due_date"`
	Status     string          `json:"status"`
	PaymentIDs []string        `json:"payment_ids,omitempty"`
}

// TermsResponse is the external representation of financial terms.
type TermsResponse struct {
	ID               string              `json:"id"`
	DealID           string              `json:"deal_id"`
	TotalPrice       decimal.Decimal     `json:"total_price"`
	Currency         string              `json:"currency"`
	DepositPct       decimal.Decimal     `json:"deposit_pct"`
	DepositAmount    decimal.Decimal     `json:"deposit_amount"`
	DepositDueDate   time.Time           `json:"deposit_due_date"`
	DepositPaid      bool                `json:"deposit_paid"`
	DepositPaidAt    *time.Time          `json:"deposit_paid_at,omitempty"`
	BalanceRemaining decimal.Decimal     `json:"balance_remaining"`
	BalanceDueDate   *time.Time          `json:"balance_due_date,omitempty"`
	TotalPaid        decimal.Decimal     `json:"total_paid"`
	IsFinanced       bool                `json:"is_financed"`
	Milestones       []MilestoneResponse `json:"milestones,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// AllocationResponse reports how a payment landed on one milestone.
type AllocationResponse struct {
	MilestoneID string          `json:"milestone_id"`
	Sequence    int             `json:"sequence"`
	Amount      decimal.Decimal `json:"amount"`
}

// PaymentResponse is the result of processing one payment.
type PaymentResponse struct {
	DealID           string               `json:"deal_id"`
	PaymentID        string               `json:"payment_id"`
	AmountApplied    decimal.Decimal      `json:"amount_applied"`
	TotalPaid        decimal.Decimal      `json:"total_paid"`
	BalanceRemaining decimal.Decimal      `json:"balance_remaining"`
	DepositPaid      bool                 `json:"deposit_paid"`
	PaymentStatus    string               `json:"payment_status"`
	FullyPaid        bool                 `json:"fully_paid"`
	Allocations      []AllocationResponse `json:"allocations,omitempty"`
}

// InstallmentResponse is one row of a financing plan's schedule.
type InstallmentResponse struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Total            decimal.Decimal `json:"total"`
	LateFee          decimal.Decimal `json:"late_fee"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           string          `json:"status"`
	DaysLate         int             `json:"days_late,omitempty"`
}

// FinancingPlanResponse is the external representation of a financing plan.
type FinancingPlanResponse struct {
	ID             string                `json:"id"`
	DealID         string                `json:"deal_id"`
	FinancingType  string                `json:"financing_type"`
	Lender         string                `json:"lender,omitempty"`
	CreditScore    *int                  `json:"credit_score,omitempty"`
	DownPayment    decimal.Decimal       `json:"down_payment"`
	Principal      decimal.Decimal       `json:"principal"`
	AnnualRatePct  decimal.Decimal       `json:"annual_rate_pct"`
	TermMonths     int                   `json:"term_months"`
	MonthlyPayment decimal.Decimal       `json:"monthly_payment"`
	TotalInterest  decimal.Decimal       `json:"total_interest"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	Currency       string                `json:"currency"`
	Status         string                `json:"status"`
	Installments   []InstallmentResponse `json:"installments,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// CommissionResponse is the external representation of a commission.
type CommissionResponse struct {
	ID          string           `json:"id"`
	DealID      string           `json:"deal_id"`
	RecipientID string           `json:"recipient_id"`
	Role        string           `json:"role"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    string           `json:"currency"`
	AmountUSD   *decimal.Decimal `json:"amount_usd,omitempty"`
	Percentage  decimal.Decimal  `json:"percentage"`
	Status      string           `json:"status"`
	ApprovedAt  *time.Time       `json:"approved_at,omitempty"`
	PaidAt      *time.Time       `json:"paid_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// BonusResponse is the external representation of a bonus payout.
type BonusResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	DealID    string          `json:"deal_id,omitempty"`
	BonusType string          `json:"bonus_type"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// CompleteDealResponse is the result of running the completion resolver.
type CompleteDealResponse struct {
	DealID      string               `json:"deal_id"`
	Status      string               `json:"status"`
	Commissions []CommissionResponse `json:"commissions"`
	Bonuses     []BonusResponse      `json:"bonuses,omitempty"`
	Replayed    bool                 `json:"replayed"`
}

// DealSummaryResponse is the read-side projection of a deal's finances.
type DealSummaryResponse struct {
	Deal             DealResponse          `json:"deal"`
	Terms            *TermsResponse        `json:"terms,omitempty"`
	Financing        *FinancingPlanResponse `json:"financing,omitempty"`
	DepositOverdue   bool                  `json:"deposit_overdue"`
	BalanceOverdue   bool                  `json:"balance_overdue"`
	DaysLate         int                   `json:"days_late"`
	OverdueMilestones int                  `json:"overdue_milestones"`
	TotalPriceUSD    *decimal.Decimal      `json:"total_price_usd,omitempty"`
}

// ResetPeriodsResponse reports how many tier rows each reset touched.
type ResetPeriodsResponse struct {
	BrokersReset int64 `json:"brokers_reset"`
	DealersReset int64 `json:"dealers_reset"`
}

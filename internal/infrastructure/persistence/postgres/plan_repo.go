package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/postgres"
)

// PlanRepo implements port.FinancingPlanRepository. A plan inserts with its
// full installment schedule in one batch; later saves only touch statuses.
type PlanRepo struct {
	q postgres.Querier
}

// NewPlanRepo creates a PostgreSQL-backed financing plan repository.
func NewPlanRepo(q postgres.Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

const planColumns = `
	id, deal_id, financing_type, lender, credit_score,
	down_payment, principal, annual_rate_pct,
	term_months, monthly_payment, total_interest, currency, status,
	version, created_at, updated_at
`

// Save persists the plan and upserts its installments.
func (r *PlanRepo) Save(ctx context.Context, plan model.FinancingPlan) error {
	query := `
		INSERT INTO financing_plans (` + planColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (id) DO UPDATE SET
			status     = EXCLUDED.status,
			version    = financing_plans.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE financing_plans.version = $14
	`
	tag, err := r.q.Exec(ctx, query,
		plan.ID(), plan.DealID(), plan.FinancingType(), plan.Lender(), plan.CreditScore(),
		plan.DownPayment(), plan.Principal(), plan.AnnualRatePct(),
		plan.TermMonths(), plan.MonthlyPayment(), plan.TotalInterest(), plan.Currency(), plan.Status().String(),
		plan.Version(), plan.CreatedAt(), plan.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("save plan for deal %s: %w", plan.DealID(), valueobject.ErrConcurrentUpdate)
		}
		return fmt.Errorf("save plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save plan %s: %w", plan.ID(), valueobject.ErrConcurrentUpdate)
	}

	for _, inst := range plan.Installments() {
		instQuery := `
			INSERT INTO financing_installments (
				id, plan_id, period, due_date,
				principal, interest, total, late_fee, amount_paid,
				remaining_balance, status, days_late, paid_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			ON CONFLICT (plan_id, period) DO UPDATE SET
				late_fee    = EXCLUDED.late_fee,
				amount_paid = EXCLUDED.amount_paid,
				status      = EXCLUDED.status,
				days_late   = EXCLUDED.days_late,
				paid_at     = EXCLUDED.paid_at
		`
		_, err := r.q.Exec(ctx, instQuery,
			inst.ID, plan.ID(), inst.Period, inst.DueDate,
			inst.Principal, inst.Interest, inst.Total, inst.LateFee, inst.AmountPaid,
			inst.RemainingBalance, inst.Status.String(), inst.DaysLate, inst.PaidAt,
		)
		if err != nil {
			return fmt.Errorf("save installment %d: %w", inst.Period, err)
		}
	}
	return nil
}

// FindByID retrieves a plan and its installments by plan ID.
func (r *PlanRepo) FindByID(ctx context.Context, id string) (model.FinancingPlan, error) {
	query := `SELECT ` + planColumns + ` FROM financing_plans WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FindByDealID retrieves the plan attached to a deal.
func (r *PlanRepo) FindByDealID(ctx context.Context, dealID string) (model.FinancingPlan, error) {
	query := `SELECT ` + planColumns + ` FROM financing_plans WHERE deal_id = $1`
	return r.findOne(ctx, query, dealID)
}

// ExistsForDeal reports whether the deal already carries a plan.
func (r *PlanRepo) ExistsForDeal(ctx context.Context, dealID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM financing_plans WHERE deal_id = $1)`, dealID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check plan exists: %w", err)
	}
	return exists, nil
}

func (r *PlanRepo) findOne(ctx context.Context, query string, arg any) (model.FinancingPlan, error) {
	plan, err := scanPlanRow(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		return model.FinancingPlan{}, err
	}
	installments, err := r.loadInstallments(ctx, plan.ID())
	if err != nil {
		return model.FinancingPlan{}, err
	}
	return model.ReconstructFinancingPlan(
		plan.ID(), plan.DealID(), plan.FinancingType(), plan.Lender(),
		plan.DownPayment(), plan.Principal(), plan.AnnualRatePct(),
		plan.TermMonths(), plan.MonthlyPayment(), plan.TotalInterest(),
		plan.Currency(), plan.Status(), plan.CreditScore(), installments,
		plan.Version(), plan.CreatedAt(), plan.UpdatedAt(),
	), nil
}

func (r *PlanRepo) loadInstallments(ctx context.Context, planID string) ([]model.FinancingInstallment, error) {
	query := `
		SELECT id, period, due_date, principal, interest, total, late_fee, amount_paid,
		       remaining_balance, status, days_late, paid_at
		FROM financing_installments
		WHERE plan_id = $1
		ORDER BY period
	`
	rows, err := r.q.Query(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	var installments []model.FinancingInstallment
	for rows.Next() {
		var (
			inst      model.FinancingInstallment
			statusStr string
		)
		err := rows.Scan(
			&inst.ID, &inst.Period, &inst.DueDate,
			&inst.Principal, &inst.Interest, &inst.Total, &inst.LateFee, &inst.AmountPaid,
			&inst.RemainingBalance, &statusStr, &inst.DaysLate, &inst.PaidAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		if inst.Status, err = valueobject.NewInstallmentStatus(statusStr); err != nil {
			return nil, fmt.Errorf("parse installment status: %w", err)
		}
		inst.PlanID = planID
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}

func scanPlanRow(s scannable) (model.FinancingPlan, error) {
	var (
		id, dealID, financingType, lender string
		creditScore                       *int
		downPayment, principal            decimal.Decimal
		annualRatePct                     decimal.Decimal
		termMonths                        int
		monthlyPayment, totalInterest     decimal.Decimal
		currency, statusStr               string
		version                           int
		createdAt, updatedAt              time.Time
	)

	err := s.Scan(
		&id, &dealID, &financingType, &lender, &creditScore,
		&downPayment, &principal, &annualRatePct,
		&termMonths, &monthlyPayment, &totalInterest, &currency, &statusStr,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.FinancingPlan{}, mapFindErr(fmt.Errorf("scan plan: %w", err))
	}

	status, err := valueobject.NewFinancingPlanStatus(statusStr)
	if err != nil {
		return model.FinancingPlan{}, fmt.Errorf("parse plan status: %w", err)
	}

	return model.ReconstructFinancingPlan(
		id, dealID, financingType, lender, downPayment, principal, annualRatePct,
		termMonths, monthlyPayment, totalInterest, currency, status,
		creditScore, nil, version, createdAt, updatedAt,
	), nil
}

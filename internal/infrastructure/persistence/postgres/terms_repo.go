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

// TermsRepo implements port.FinancialTermsRepository. The terms row and its
// milestone rows always persist together.
type TermsRepo struct {
	q postgres.Querier
}

// NewTermsRepo creates a PostgreSQL-backed financial terms repository.
func NewTermsRepo(q postgres.Querier) *TermsRepo {
	return &TermsRepo{q: q}
}

const termsColumns = `
	id, deal_id, total_price, currency,
	deposit_pct, deposit_amount, deposit_due_date, deposit_paid, deposit_paid_at,
	balance_remaining, balance_due_date, total_paid,
	locked_fx_rate, fx_locked_at,
	payment_term_days, grace_period_days, is_financed, refundable_deposit,
	version, created_at, updated_at
`

// Save persists terms and upserts every milestone under the same optimistic
// version check.
func (r *TermsRepo) Save(ctx context.Context, terms model.FinancialTerms) error {
	query := `
		INSERT INTO financial_terms (` + termsColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (id) DO UPDATE SET
			deposit_paid      = EXCLUDED.deposit_paid,
			deposit_paid_at   = EXCLUDED.deposit_paid_at,
			balance_remaining = EXCLUDED.balance_remaining,
			balance_due_date  = EXCLUDED.balance_due_date,
			total_paid        = EXCLUDED.total_paid,
			locked_fx_rate    = EXCLUDED.locked_fx_rate,
			fx_locked_at      = EXCLUDED.fx_locked_at,
			is_financed       = EXCLUDED.is_financed,
			version           = financial_terms.version + 1,
			updated_at        = EXCLUDED.updated_at
		WHERE financial_terms.version = $19
	`
	tag, err := r.q.Exec(ctx, query,
		terms.ID(), terms.DealID(), terms.TotalPrice(), terms.Currency(),
		terms.DepositPct(), terms.DepositAmount(), terms.DepositDueDate(), terms.DepositPaid(), terms.DepositPaidAt(),
		terms.BalanceRemaining(), terms.BalanceDueDate(), terms.TotalPaid(),
		terms.LockedFxRate(), terms.FxLockedAt(),
		terms.PaymentTermDays(), terms.GracePeriodDays(), terms.IsFinanced(), terms.RefundableDeposit(),
		terms.Version(), terms.CreatedAt(), terms.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save terms: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save terms %s: %w", terms.ID(), valueobject.ErrConcurrentUpdate)
	}

	for _, m := range terms.Milestones() {
		milestoneQuery := `
			INSERT INTO payment_milestones (
				id, terms_id, milestone_type, name, description, sequence,
				amount_due, amount_paid, currency, due_date, status, payment_ids
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (terms_id, sequence) DO UPDATE SET
				amount_paid = EXCLUDED.amount_paid,
				status      = EXCLUDED.status,
				payment_ids = EXCLUDED.payment_ids
		`
		_, err := r.q.Exec(ctx, milestoneQuery,
			m.ID, terms.ID(), m.Type.String(), m.Name, m.Description, m.Sequence,
			m.AmountDue, m.AmountPaid, m.Currency, m.DueDate, m.Status.String(), m.PaymentIDs,
		)
		if err != nil {
			return fmt.Errorf("save milestone %d: %w", m.Sequence, err)
		}
	}
	return nil
}

// FindByID retrieves terms and milestones by terms ID.
func (r *TermsRepo) FindByID(ctx context.Context, id string) (model.FinancialTerms, error) {
	query := `SELECT ` + termsColumns + ` FROM financial_terms WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FindByDealID retrieves the terms attached to a deal.
func (r *TermsRepo) FindByDealID(ctx context.Context, dealID string) (model.FinancialTerms, error) {
	query := `SELECT ` + termsColumns + ` FROM financial_terms WHERE deal_id = $1`
	return r.findOne(ctx, query, dealID)
}

// FindByDealIDForUpdate locks the terms row for the span of the enclosing
// transaction. Milestone rows are covered by the parent lock; nothing else
// writes them.
func (r *TermsRepo) FindByDealIDForUpdate(ctx context.Context, dealID string) (model.FinancialTerms, error) {
	query := `SELECT ` + termsColumns + ` FROM financial_terms WHERE deal_id = $1 FOR UPDATE`
	return r.findOne(ctx, query, dealID)
}

func (r *TermsRepo) findOne(ctx context.Context, query string, arg any) (model.FinancialTerms, error) {
	terms, err := scanTermsRow(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		return model.FinancialTerms{}, err
	}
	milestones, err := r.loadMilestones(ctx, terms.ID())
	if err != nil {
		return model.FinancialTerms{}, err
	}
	return reconstructWithMilestones(terms, milestones), nil
}

func (r *TermsRepo) loadMilestones(ctx context.Context, termsID string) ([]model.PaymentMilestone, error) {
	query := `
		SELECT id, milestone_type, name, description, sequence,
		       amount_due, amount_paid, currency, due_date, status, payment_ids
		FROM payment_milestones
		WHERE terms_id = $1
		ORDER BY sequence
	`
	rows, err := r.q.Query(ctx, query, termsID)
	if err != nil {
		return nil, fmt.Errorf("query milestones: %w", err)
	}
	defer rows.Close()

	var milestones []model.PaymentMilestone
	for rows.Next() {
		var (
			m          model.PaymentMilestone
			typeStr    string
			statusStr  string
			paymentIDs []string
		)
		err := rows.Scan(
			&m.ID, &typeStr, &m.Name, &m.Description, &m.Sequence,
			&m.AmountDue, &m.AmountPaid, &m.Currency, &m.DueDate, &statusStr, &paymentIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		if m.Type, err = valueobject.NewMilestoneType(typeStr); err != nil {
			return nil, fmt.Errorf("parse milestone type: %w", err)
		}
		if m.Status, err = valueobject.NewMilestoneStatus(statusStr); err != nil {
			return nil, fmt.Errorf("parse milestone status: %w", err)
		}
		m.PaymentIDs = paymentIDs
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func scanTermsRow(s scannable) (model.FinancialTerms, error) {
	var (
		id, dealID                     string
		totalPrice                     decimal.Decimal
		currency                       string
		depositPct, depositAmount      decimal.Decimal
		depositDueDate                 time.Time
		depositPaid                    bool
		depositPaidAt                  *time.Time
		balanceRemaining               decimal.Decimal
		balanceDueDate                 *time.Time
		totalPaid                      decimal.Decimal
		lockedFxRate                   *decimal.Decimal
		fxLockedAt                     *time.Time
		paymentTermDays, gracePeriod   int
		isFinanced, refundableDeposit  bool
		version                        int
		createdAt, updatedAt           time.Time
	)

	err := s.Scan(
		&id, &dealID, &totalPrice, &currency,
		&depositPct, &depositAmount, &depositDueDate, &depositPaid, &depositPaidAt,
		&balanceRemaining, &balanceDueDate, &totalPaid,
		&lockedFxRate, &fxLockedAt,
		&paymentTermDays, &gracePeriod, &isFinanced, &refundableDeposit,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.FinancialTerms{}, mapFindErr(fmt.Errorf("scan terms: %w", err))
	}

	return model.ReconstructFinancialTerms(
		id, dealID, totalPrice, currency,
		depositPct, depositAmount, depositDueDate, depositPaid, depositPaidAt,
		balanceRemaining, balanceDueDate, totalPaid,
		lockedFxRate, fxLockedAt,
		paymentTermDays, gracePeriod, isFinanced, refundableDeposit,
		nil, version, createdAt, updatedAt,
	), nil
}

func reconstructWithMilestones(t model.FinancialTerms, milestones []model.PaymentMilestone) model.FinancialTerms {
	return model.ReconstructFinancialTerms(
		t.ID(), t.DealID(), t.TotalPrice(), t.Currency(),
		t.DepositPct(), t.DepositAmount(), t.DepositDueDate(), t.DepositPaid(), t.DepositPaidAt(),
		t.BalanceRemaining(), t.BalanceDueDate(), t.TotalPaid(),
		t.LockedFxRate(), t.FxLockedAt(),
		t.PaymentTermDays(), t.GracePeriodDays(), t.IsFinanced(), t.RefundableDeposit(),
		milestones, t.Version(), t.CreatedAt(), t.UpdatedAt(),
	)
}

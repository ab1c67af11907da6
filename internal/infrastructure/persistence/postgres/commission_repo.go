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

// CommissionRepo implements port.CommissionRepository.
type CommissionRepo struct {
	q postgres.Querier
}

// NewCommissionRepo creates a PostgreSQL-backed commission repository.
func NewCommissionRepo(q postgres.Querier) *CommissionRepo {
	return &CommissionRepo{q: q}
}

const commissionColumns = `
	id, deal_id, recipient_id, role,
	amount, currency, amount_usd, fx_rate, percentage,
	status, approved_at, paid_at,
	version, created_at, updated_at
`

// Save persists a commission with optimistic locking. The unique index on
// (deal_id, recipient_id, role) makes a racing resolver fan-out lose
// cleanly as a concurrent update.
func (r *CommissionRepo) Save(ctx context.Context, c model.Commission) error {
	query := `
		INSERT INTO commissions (` + commissionColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (id) DO UPDATE SET
			amount_usd  = EXCLUDED.amount_usd,
			fx_rate     = EXCLUDED.fx_rate,
			status      = EXCLUDED.status,
			approved_at = EXCLUDED.approved_at,
			paid_at     = EXCLUDED.paid_at,
			version     = commissions.version + 1,
			updated_at  = EXCLUDED.updated_at
		WHERE commissions.version = $13
	`
	tag, err := r.q.Exec(ctx, query,
		c.ID(), c.DealID(), c.RecipientID(), c.Role().String(),
		c.Amount(), c.Currency(), c.AmountUSD(), c.FxRate(), c.Percentage(),
		c.Status().String(), c.ApprovedAt(), c.PaidAt(),
		c.Version(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("save commission for deal %s: %w", c.DealID(), valueobject.ErrConcurrentUpdate)
		}
		return fmt.Errorf("save commission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save commission %s: %w", c.ID(), valueobject.ErrConcurrentUpdate)
	}
	return nil
}

// FindByID retrieves one commission.
func (r *CommissionRepo) FindByID(ctx context.Context, id string) (model.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE id = $1`
	return scanCommissionRow(r.q.QueryRow(ctx, query, id))
}

// FindByDealID retrieves every commission on a deal.
func (r *CommissionRepo) FindByDealID(ctx context.Context, dealID string) ([]model.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE deal_id = $1 ORDER BY created_at`
	return r.queryMany(ctx, query, dealID)
}

// FindByRecipientID retrieves every commission earned by a recipient.
func (r *CommissionRepo) FindByRecipientID(ctx context.Context, recipientID string) ([]model.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE recipient_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, recipientID)
}

// ExistsForDeal is the completion resolver's idempotence gate.
func (r *CommissionRepo) ExistsForDeal(ctx context.Context, dealID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM commissions WHERE deal_id = $1)`, dealID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check commission exists: %w", err)
	}
	return exists, nil
}

// FindPendingOlderThan retrieves commissions pending for at least the given
// number of days, for the auto-approval sweep.
func (r *CommissionRepo) FindPendingOlderThan(ctx context.Context, days int) ([]model.Commission, error) {
	query := `
		SELECT ` + commissionColumns + `
		FROM commissions
		WHERE status = 'PENDING' AND created_at <= now() - make_interval(days => $1)
		ORDER BY created_at
	`
	return r.queryMany(ctx, query, days)
}

func (r *CommissionRepo) queryMany(ctx context.Context, query string, args ...any) ([]model.Commission, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query commissions: %w", err)
	}
	defer rows.Close()

	var commissions []model.Commission
	for rows.Next() {
		c, err := scanCommissionRow(rows)
		if err != nil {
			return nil, err
		}
		commissions = append(commissions, c)
	}
	return commissions, rows.Err()
}

func scanCommissionRow(s scannable) (model.Commission, error) {
	var (
		id, dealID, recipientID, roleStr string
		amount                           decimal.Decimal
		currency                         string
		amountUSD, fxRate                *decimal.Decimal
		percentage                       decimal.Decimal
		statusStr                        string
		approvedAt, paidAt               *time.Time
		version                          int
		createdAt, updatedAt             time.Time
	)

	err := s.Scan(
		&id, &dealID, &recipientID, &roleStr,
		&amount, &currency, &amountUSD, &fxRate, &percentage,
		&statusStr, &approvedAt, &paidAt,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Commission{}, mapFindErr(fmt.Errorf("scan commission: %w", err))
	}

	role, err := valueobject.NewCommissionRole(roleStr)
	if err != nil {
		return model.Commission{}, fmt.Errorf("parse commission role: %w", err)
	}
	status, err := valueobject.NewCommissionStatus(statusStr)
	if err != nil {
		return model.Commission{}, fmt.Errorf("parse commission status: %w", err)
	}

	return model.ReconstructCommission(
		id, dealID, recipientID, role,
		amount, currency, amountUSD, fxRate, percentage,
		status, approvedAt, paidAt,
		version, createdAt, updatedAt,
	), nil
}

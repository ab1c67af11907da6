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

// BonusRepo implements port.BonusRepository. The table carries a unique
// index on (user_id, bonus_type); together with the paid flag on the tier
// row that makes bonus grants at-most-once even under replay.
type BonusRepo struct {
	q postgres.Querier
}

// NewBonusRepo creates a PostgreSQL-backed bonus repository.
func NewBonusRepo(q postgres.Querier) *BonusRepo {
	return &BonusRepo{q: q}
}

// Save inserts a bonus payout. Bonuses are append-only.
func (r *BonusRepo) Save(ctx context.Context, bonus model.BonusTransaction) error {
	query := `
		INSERT INTO bonus_transactions (
			id, user_id, deal_id, bonus_type, amount, currency, description, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	dealID := any(bonus.DealID())
	if bonus.DealID() == "" {
		dealID = nil
	}
	_, err := r.q.Exec(ctx, query,
		bonus.ID(), bonus.UserID(), dealID, bonus.BonusType().String(),
		bonus.Amount(), bonus.Currency(), bonus.Description(), bonus.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("save bonus %s for %s: %w", bonus.BonusType(), bonus.UserID(), valueobject.ErrConcurrentUpdate)
		}
		return fmt.Errorf("save bonus: %w", err)
	}
	return nil
}

// FindByUserID retrieves every bonus paid to a user.
func (r *BonusRepo) FindByUserID(ctx context.Context, userID string) ([]model.BonusTransaction, error) {
	query := `
		SELECT id, user_id, deal_id, bonus_type, amount, currency, description, created_at
		FROM bonus_transactions
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query bonuses: %w", err)
	}
	defer rows.Close()

	var bonuses []model.BonusTransaction
	for rows.Next() {
		var (
			id, uID, typeStr, currency, description string
			dealID                                  *string
			amount                                  decimal.Decimal
			createdAt                               time.Time
		)
		if err := rows.Scan(&id, &uID, &dealID, &typeStr, &amount, &currency, &description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan bonus: %w", err)
		}
		bonusType, err := valueobject.NewBonusType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("parse bonus type: %w", err)
		}
		deal := ""
		if dealID != nil {
			deal = *dealID
		}
		bonuses = append(bonuses, model.ReconstructBonusTransaction(
			id, uID, deal, bonusType, amount, currency, description, createdAt,
		))
	}
	return bonuses, rows.Err()
}

// Exists reports whether the user already received the given bonus type.
func (r *BonusRepo) Exists(ctx context.Context, userID string, bonusType valueobject.BonusType) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bonus_transactions WHERE user_id = $1 AND bonus_type = $2)`,
		userID, bonusType.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check bonus exists: %w", err)
	}
	return exists, nil
}

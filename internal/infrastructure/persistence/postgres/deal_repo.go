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

// DealRepo implements port.DealRepository. It runs against either the pool
// or a transaction, whichever Querier it is constructed with.
type DealRepo struct {
	q postgres.Querier
}

// NewDealRepo creates a PostgreSQL-backed deal repository.
func NewDealRepo(q postgres.Querier) *DealRepo {
	return &DealRepo{q: q}
}

const dealColumns = `
	id, buyer_id, dealer_id, broker_id, vehicle_id,
	agreed_price, currency, payment_method,
	payment_status, status, completed_at,
	version, created_at, updated_at
`

// Save persists a deal with optimistic locking: an update that misses the
// expected version affects zero rows and surfaces ErrConcurrentUpdate.
func (r *DealRepo) Save(ctx context.Context, deal model.Deal) error {
	query := `
		INSERT INTO deals (` + dealColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			payment_status = EXCLUDED.payment_status,
			status         = EXCLUDED.status,
			completed_at   = EXCLUDED.completed_at,
			version        = deals.version + 1,
			updated_at     = EXCLUDED.updated_at
		WHERE deals.version = $12
	`
	brokerID := any(deal.BrokerID())
	if deal.BrokerID() == "" {
		brokerID = nil
	}
	tag, err := r.q.Exec(ctx, query,
		deal.ID(), deal.BuyerID(), deal.DealerID(), brokerID, deal.VehicleID(),
		deal.AgreedPrice(), deal.Currency(), deal.PaymentMethod(),
		deal.PaymentStatus().String(), deal.Status().String(), deal.CompletedAt(),
		deal.Version(), deal.CreatedAt(), deal.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save deal %s: %w", deal.ID(), valueobject.ErrConcurrentUpdate)
	}
	return nil
}

// FindByID retrieves one deal.
func (r *DealRepo) FindByID(ctx context.Context, id string) (model.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`
	return scanDealRow(r.q.QueryRow(ctx, query, id))
}

// FindByDealerID retrieves every deal for a dealer, newest first.
func (r *DealRepo) FindByDealerID(ctx context.Context, dealerID string) ([]model.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE dealer_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, dealerID)
	if err != nil {
		return nil, fmt.Errorf("query deals: %w", err)
	}
	defer rows.Close()

	var deals []model.Deal
	for rows.Next() {
		deal, err := scanDealRow(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}

func scanDealRow(s scannable) (model.Deal, error) {
	var (
		id, buyerID, dealerID, vehicleID string
		brokerID                         *string
		agreedPrice                      decimal.Decimal
		currency, paymentMethod          string
		paymentStatusStr, statusStr      string
		completedAt                      *time.Time
		version                          int
		createdAt, updatedAt             time.Time
	)

	err := s.Scan(
		&id, &buyerID, &dealerID, &brokerID, &vehicleID,
		&agreedPrice, &currency, &paymentMethod,
		&paymentStatusStr, &statusStr, &completedAt,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Deal{}, mapFindErr(fmt.Errorf("scan deal: %w", err))
	}

	paymentStatus, err := valueobject.NewPaymentStatus(paymentStatusStr)
	if err != nil {
		return model.Deal{}, fmt.Errorf("parse payment status: %w", err)
	}
	status, err := valueobject.NewDealStatus(statusStr)
	if err != nil {
		return model.Deal{}, fmt.Errorf("parse deal status: %w", err)
	}

	broker := ""
	if brokerID != nil {
		broker = *brokerID
	}

	return model.ReconstructDeal(
		id, buyerID, dealerID, broker, vehicleID,
		agreedPrice, currency, paymentMethod,
		paymentStatus, status, completedAt,
		version, createdAt, updatedAt,
	), nil
}

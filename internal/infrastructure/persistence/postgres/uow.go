package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/pkg/postgres"
)

// UnitOfWork implements port.UnitOfWork over a pgx transaction. Every
// repository handed to the callback is bound to the same tx, so a payment
// write, its milestone updates, and its outbox entries commit or roll back
// together.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork creates a transaction manager over the given pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// WithinTx runs fn inside a single database transaction.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.TxRepos) error) error {
	return postgres.WithTransaction(ctx, u.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewTxRepos(tx))
	})
}

// NewTxRepos assembles the repository set bound to a single querier.
func NewTxRepos(q postgres.Querier) port.TxRepos {
	return port.TxRepos{
		Deals:       NewDealRepo(q),
		Terms:       NewTermsRepo(q),
		Plans:       NewPlanRepo(q),
		BrokerTiers: NewBrokerTierRepo(q),
		DealerTiers: NewDealerTierRepo(q),
		Commissions: NewCommissionRepo(q),
		Bonuses:     NewBonusRepo(q),
		Outbox:      NewOutboxRepo(q),
	}
}

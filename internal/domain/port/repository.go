package port

import (
	"context"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/event"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/events"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// DealRepository persists and retrieves deals.
type DealRepository interface {
	Save(ctx context.Context, deal model.Deal) error
	FindByID(ctx context.Context, id string) (model.Deal, error)
	FindByDealerID(ctx context.Context, dealerID string) ([]model.Deal, error)
}

// FinancialTermsRepository persists and retrieves financial terms together
// with their owned milestones. FindByDealIDForUpdate takes a row lock and
// must run inside a transaction.
type FinancialTermsRepository interface {
	Save(ctx context.Context, terms model.FinancialTerms) error
	FindByID(ctx context.Context, id string) (model.FinancialTerms, error)
	FindByDealID(ctx context.Context, dealID string) (model.FinancialTerms, error)
	FindByDealIDForUpdate(ctx context.Context, dealID string) (model.FinancialTerms, error)
}

// FinancingPlanRepository persists and retrieves financing plans together
// with their installment schedules.
type FinancingPlanRepository interface {
	Save(ctx context.Context, plan model.FinancingPlan) error
	FindByID(ctx context.Context, id string) (model.FinancingPlan, error)
	FindByDealID(ctx context.Context, dealID string) (model.FinancingPlan, error)
	ExistsForDeal(ctx context.Context, dealID string) (bool, error)
}

// BrokerTierRepository persists and retrieves broker performance rows.
// ResetMonthly is the month-boundary job: it zeroes every broker's monthly
// counters and recomputes tiers in one statement.
type BrokerTierRepository interface {
	Save(ctx context.Context, tier model.BrokerTier) error
	FindByBrokerID(ctx context.Context, brokerID string) (model.BrokerTier, error)
	FindByBrokerIDForUpdate(ctx context.Context, brokerID string) (model.BrokerTier, error)
	ResetMonthly(ctx context.Context) (int64, error)
}

// DealerTierRepository persists and retrieves dealer performance rows.
// ResetQuarterly rolls deals_this_quarter into deals_last_quarter for every
// dealer and recomputes tiers.
type DealerTierRepository interface {
	Save(ctx context.Context, tier model.DealerTier) error
	FindByDealerID(ctx context.Context, dealerID string) (model.DealerTier, error)
	FindByDealerIDForUpdate(ctx context.Context, dealerID string) (model.DealerTier, error)
	ResetQuarterly(ctx context.Context) (int64, error)
}

// CommissionRepository persists and retrieves commissions. ExistsForDeal is
// the resolver's idempotence check.
type CommissionRepository interface {
	Save(ctx context.Context, commission model.Commission) error
	FindByID(ctx context.Context, id string) (model.Commission, error)
	FindByDealID(ctx context.Context, dealID string) ([]model.Commission, error)
	FindByRecipientID(ctx context.Context, recipientID string) ([]model.Commission, error)
	ExistsForDeal(ctx context.Context, dealID string) (bool, error)
	FindPendingOlderThan(ctx context.Context, days int) ([]model.Commission, error)
}

// BonusRepository persists bonus payouts. Rows are append-only; Exists
// backs the (user, bonus_type) uniqueness check.
type BonusRepository interface {
	Save(ctx context.Context, bonus model.BonusTransaction) error
	FindByUserID(ctx context.Context, userID string) ([]model.BonusTransaction, error)
	Exists(ctx context.Context, userID string, bonusType valueobject.BonusType) (bool, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...event.DomainEvent) error
}

// OutboxRepository stores events for the transactional outbox relay.
type OutboxRepository = events.OutboxRepository

// ---------------------------------------------------------------------------
// Unit of work
// ---------------------------------------------------------------------------

// TxRepos bundles transaction-scoped repositories handed to a unit of work
// callback. Every repository in the bundle runs on the same transaction.
type TxRepos struct {
	Deals       DealRepository
	Terms       FinancialTermsRepository
	Plans       FinancingPlanRepository
	BrokerTiers BrokerTierRepository
	DealerTiers DealerTierRepository
	Commissions CommissionRepository
	Bonuses     BonusRepository
	Outbox      OutboxRepository
}

// UnitOfWork runs a function atomically: every write through the supplied
// TxRepos commits or rolls back together.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

package usecase_test

import (
	"context"
	"fmt"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/event"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/events"
)

// ---------------------------------------------------------------------------
// Function-field mocks
// ---------------------------------------------------------------------------

type mockDealRepository struct {
	findByIDFunc       func(ctx context.Context, id string) (model.Deal, error)
	findByDealerIDFunc func(ctx context.Context, dealerID string) ([]model.Deal, error)
	saveFunc           func(ctx context.Context, d model.Deal) error
	savedDeals         []model.Deal
}

func (m *mockDealRepository) Save(ctx context.Context, d model.Deal) error {
	m.savedDeals = append(m.savedDeals, d)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, d)
	}
	return nil
}

func (m *mockDealRepository) FindByID(ctx context.Context, id string) (model.Deal, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Deal{}, valueobject.ErrNotFound
}

func (m *mockDealRepository) FindByDealerID(ctx context.Context, dealerID string) ([]model.Deal, error) {
	if m.findByDealerIDFunc != nil {
		return m.findByDealerIDFunc(ctx, dealerID)
	}
	return nil, nil
}

type mockTermsRepository struct {
	findByIDFunc        func(ctx context.Context, id string) (model.FinancialTerms, error)
	findByDealIDFunc    func(ctx context.Context, dealID string) (model.FinancialTerms, error)
	findForUpdateFunc   func(ctx context.Context, dealID string) (model.FinancialTerms, error)
	saveFunc            func(ctx context.Context, t model.FinancialTerms) error
	savedTerms          []model.FinancialTerms
}

func (m *mockTermsRepository) Save(ctx context.Context, t model.FinancialTerms) error {
	m.savedTerms = append(m.savedTerms, t)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, t)
	}
	return nil
}

func (m *mockTermsRepository) FindByID(ctx context.Context, id string) (model.FinancialTerms, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.FinancialTerms{}, valueobject.ErrNotFound
}

func (m *mockTermsRepository) FindByDealID(ctx context.Context, dealID string) (model.FinancialTerms, error) {
	if m.findByDealIDFunc != nil {
		return m.findByDealIDFunc(ctx, dealID)
	}
	return model.FinancialTerms{}, valueobject.ErrNotFound
}

func (m *mockTermsRepository) FindByDealIDForUpdate(ctx context.Context, dealID string) (model.FinancialTerms, error) {
	if m.findForUpdateFunc != nil {
		return m.findForUpdateFunc(ctx, dealID)
	}
	return m.FindByDealID(ctx, dealID)
}

type mockPlanRepository struct {
	findByIDFunc     func(ctx context.Context, id string) (model.FinancingPlan, error)
	findByDealIDFunc func(ctx context.Context, dealID string) (model.FinancingPlan, error)
	existsFunc       func(ctx context.Context, dealID string) (bool, error)
	saveFunc         func(ctx context.Context, p model.FinancingPlan) error
	savedPlans       []model.FinancingPlan
}

func (m *mockPlanRepository) Save(ctx context.Context, p model.FinancingPlan) error {
	m.savedPlans = append(m.savedPlans, p)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, p)
	}
	return nil
}

func (m *mockPlanRepository) FindByID(ctx context.Context, id string) (model.FinancingPlan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.FinancingPlan{}, valueobject.ErrNotFound
}

func (m *mockPlanRepository) FindByDealID(ctx context.Context, dealID string) (model.FinancingPlan, error) {
	if m.findByDealIDFunc != nil {
		return m.findByDealIDFunc(ctx, dealID)
	}
	return model.FinancingPlan{}, valueobject.ErrNotFound
}

func (m *mockPlanRepository) ExistsForDeal(ctx context.Context, dealID string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, dealID)
	}
	return false, nil
}

type mockBrokerTierRepository struct {
	findFunc      func(ctx context.Context, brokerID string) (model.BrokerTier, error)
	resetFunc     func(ctx context.Context) (int64, error)
	saveFunc      func(ctx context.Context, t model.BrokerTier) error
	savedTiers    []model.BrokerTier
}

func (m *mockBrokerTierRepository) Save(ctx context.Context, t model.BrokerTier) error {
	m.savedTiers = append(m.savedTiers, t)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, t)
	}
	return nil
}

func (m *mockBrokerTierRepository) FindByBrokerID(ctx context.Context, brokerID string) (model.BrokerTier, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, brokerID)
	}
	return model.BrokerTier{}, valueobject.ErrNotFound
}

func (m *mockBrokerTierRepository) FindByBrokerIDForUpdate(ctx context.Context, brokerID string) (model.BrokerTier, error) {
	return m.FindByBrokerID(ctx, brokerID)
}

func (m *mockBrokerTierRepository) ResetMonthly(ctx context.Context) (int64, error) {
	if m.resetFunc != nil {
		return m.resetFunc(ctx)
	}
	return 0, nil
}

type mockDealerTierRepository struct {
	findFunc   func(ctx context.Context, dealerID string) (model.DealerTier, error)
	resetFunc  func(ctx context.Context) (int64, error)
	saveFunc   func(ctx context.Context, t model.DealerTier) error
	savedTiers []model.DealerTier
}

func (m *mockDealerTierRepository) Save(ctx context.Context, t model.DealerTier) error {
	m.savedTiers = append(m.savedTiers, t)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, t)
	}
	return nil
}

func (m *mockDealerTierRepository) FindByDealerID(ctx context.Context, dealerID string) (model.DealerTier, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, dealerID)
	}
	return model.DealerTier{}, valueobject.ErrNotFound
}

func (m *mockDealerTierRepository) FindByDealerIDForUpdate(ctx context.Context, dealerID string) (model.DealerTier, error) {
	return m.FindByDealerID(ctx, dealerID)
}

func (m *mockDealerTierRepository) ResetQuarterly(ctx context.Context) (int64, error) {
	if m.resetFunc != nil {
		return m.resetFunc(ctx)
	}
	return 0, nil
}

type mockCommissionRepository struct {
	findByIDFunc          func(ctx context.Context, id string) (model.Commission, error)
	findByDealIDFunc      func(ctx context.Context, dealID string) ([]model.Commission, error)
	findByRecipientFunc   func(ctx context.Context, recipientID string) ([]model.Commission, error)
	existsFunc            func(ctx context.Context, dealID string) (bool, error)
	findPendingFunc       func(ctx context.Context, days int) ([]model.Commission, error)
	saveFunc              func(ctx context.Context, c model.Commission) error
	savedCommissions      []model.Commission
}

func (m *mockCommissionRepository) Save(ctx context.Context, c model.Commission) error {
	m.savedCommissions = append(m.savedCommissions, c)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, c)
	}
	return nil
}

func (m *mockCommissionRepository) FindByID(ctx context.Context, id string) (model.Commission, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Commission{}, valueobject.ErrNotFound
}

func (m *mockCommissionRepository) FindByDealID(ctx context.Context, dealID string) ([]model.Commission, error) {
	if m.findByDealIDFunc != nil {
		return m.findByDealIDFunc(ctx, dealID)
	}
	return nil, nil
}

func (m *mockCommissionRepository) FindByRecipientID(ctx context.Context, recipientID string) ([]model.Commission, error) {
	if m.findByRecipientFunc != nil {
		return m.findByRecipientFunc(ctx, recipientID)
	}
	return nil, nil
}

func (m *mockCommissionRepository) ExistsForDeal(ctx context.Context, dealID string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, dealID)
	}
	return false, nil
}

func (m *mockCommissionRepository) FindPendingOlderThan(ctx context.Context, days int) ([]model.Commission, error) {
	if m.findPendingFunc != nil {
		return m.findPendingFunc(ctx, days)
	}
	return nil, nil
}

type mockBonusRepository struct {
	existsFunc   func(ctx context.Context, userID string, bonusType valueobject.BonusType) (bool, error)
	saveFunc     func(ctx context.Context, b model.BonusTransaction) error
	savedBonuses []model.BonusTransaction
}

func (m *mockBonusRepository) Save(ctx context.Context, b model.BonusTransaction) error {
	m.savedBonuses = append(m.savedBonuses, b)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, b)
	}
	return nil
}

func (m *mockBonusRepository) FindByUserID(ctx context.Context, userID string) ([]model.BonusTransaction, error) {
	return nil, nil
}

func (m *mockBonusRepository) Exists(ctx context.Context, userID string, bonusType valueobject.BonusType) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, userID, bonusType)
	}
	return false, nil
}

type mockOutboxRepository struct {
	storeFunc     func(ctx context.Context, entries []events.OutboxEntry) error
	storedEntries []events.OutboxEntry
}

func (m *mockOutboxRepository) Store(ctx context.Context, entries []events.OutboxEntry) error {
	m.storedEntries = append(m.storedEntries, entries...)
	if m.storeFunc != nil {
		return m.storeFunc(ctx, entries)
	}
	return nil
}

func (m *mockOutboxRepository) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	return nil, nil
}

func (m *mockOutboxRepository) MarkPublished(ctx context.Context, ids []string) error {
	return nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, evts ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, evts...)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	return nil
}

// mockUnitOfWork runs the callback against the supplied repositories with
// no real transaction underneath.
type mockUnitOfWork struct {
	repos     port.TxRepos
	beginErr  error
	txCount   int
}

func (m *mockUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.TxRepos) error) error {
	if m.beginErr != nil {
		return fmt.Errorf("begin tx: %w", m.beginErr)
	}
	m.txCount++
	return fn(ctx, m.repos)
}

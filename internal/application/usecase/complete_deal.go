package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/service"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
	"github.com/anungis437/nzila-eexports-sub001/pkg/events"
	"github.com/anungis437/nzila-eexports-sub001/pkg/observability"
)

// CompleteDealUseCase is the tier and commission resolver. It transitions
// the deal to COMPLETED and, in the same transaction, fans out the dealer
// and broker commissions, advances both tier rows and grants qualifying
// onboarding bonuses.
//
// The whole operation is idempotent on the deal: a second invocation finds
// existing commissions and returns them without writing anything.
type CompleteDealUseCase struct {
	uow    port.UnitOfWork
	policy *service.CommissionPolicy
	clk    clock.Clock
}

// NewCompleteDealUseCase wires dependencies.
func NewCompleteDealUseCase(uow port.UnitOfWork, policy *service.CommissionPolicy, clk clock.Clock) *CompleteDealUseCase {
	return &CompleteDealUseCase{uow: uow, policy: policy, clk: clk}
}

// Execute completes the deal and resolves its payouts.
func (uc *CompleteDealUseCase) Execute(
	ctx context.Context,
	req dto.CompleteDealRequest,
) (dto.CompleteDealResponse, error) {
	resp, err := uc.executeOnce(ctx, req)
	if errors.Is(err, valueobject.ErrConcurrentUpdate) {
		resp, err = uc.executeOnce(ctx, req)
	}
	return resp, err
}

func (uc *CompleteDealUseCase) executeOnce(
	ctx context.Context,
	req dto.CompleteDealRequest,
) (dto.CompleteDealResponse, error) {
	now := uc.clk.Now()
	today := uc.clk.Today()

	var resp dto.CompleteDealResponse
	err := uc.uow.WithinTx(ctx, func(ctx context.Context, repos port.TxRepos) error {
		deal, err := repos.Deals.FindByID(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("find deal: %w", err)
		}

		// 1. Idempotence gate: existing commissions mean the resolver
		//    already ran for this deal.
		done, err := repos.Commissions.ExistsForDeal(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("check existing commissions: %w", err)
		}
		if done {
			existing, err := repos.Commissions.FindByDealID(ctx, req.DealID)
			if err != nil {
				return fmt.Errorf("load existing commissions: %w", err)
			}
			resp = dto.CompleteDealResponse{
				DealID:   deal.ID(),
				Status:   deal.Status().String(),
				Replayed: true,
			}
			for _, c := range existing {
				resp.Commissions = append(resp.Commissions, toCommissionResponse(c))
			}
			return nil
		}

		// 2. Transition the deal. Already-completed deals skip this but
		//    still resolve payouts (crash between the status write and the
		//    fan-out leaves no commissions behind).
		if !deal.Status().Equal(valueobject.DealStatusCompleted) {
			deal, err = deal.AdvanceTo(valueobject.DealStatusCompleted, now)
			if err != nil {
				return fmt.Errorf("complete deal: %w", err)
			}
			if err := repos.Deals.Save(ctx, deal); err != nil {
				return fmt.Errorf("save deal: %w", err)
			}
		}

		var allEvents []events.DomainEvent
		allEvents = append(allEvents, deal.DomainEvents()...)

		resp = dto.CompleteDealResponse{DealID: deal.ID(), Status: deal.Status().String()}

		// 3. Dealer commission, tier advance and bonuses.
		dealerTier, err := uc.loadOrCreateDealerTier(ctx, repos, deal.DealerID(), req, now)
		if err != nil {
			return err
		}
		dealerRes, err := uc.policy.ResolveDealer(dealerTier, deal.ID(), deal.AgreedPrice(), deal.Currency(), today, now)
		if err != nil {
			return fmt.Errorf("resolve dealer: %w", err)
		}
		if err := repos.Commissions.Save(ctx, dealerRes.Commission); err != nil {
			return fmt.Errorf("save dealer commission: %w", err)
		}
		if err := repos.DealerTiers.Save(ctx, dealerRes.Tier); err != nil {
			return fmt.Errorf("save dealer tier: %w", err)
		}
		for _, bonus := range dealerRes.Bonuses {
			if err := repos.Bonuses.Save(ctx, bonus); err != nil {
				return fmt.Errorf("save bonus: %w", err)
			}
			allEvents = append(allEvents, bonus.DomainEvents()...)
			resp.Bonuses = append(resp.Bonuses, toBonusResponse(bonus))
			observability.BonusesGranted.Inc()
		}
		allEvents = append(allEvents, dealerRes.Commission.DomainEvents()...)
		resp.Commissions = append(resp.Commissions, toCommissionResponse(dealerRes.Commission))
		observability.CommissionsCreated.Inc()

		// 4. Broker commission and tier advance, when a broker is on the deal.
		if deal.HasBroker() {
			brokerTier, err := uc.loadOrCreateBrokerTier(ctx, repos, deal.BrokerID(), now)
			if err != nil {
				return err
			}
			brokerRes, err := uc.policy.ResolveBroker(brokerTier, deal.ID(), deal.AgreedPrice(), deal.Currency(), today, now)
			if err != nil {
				return fmt.Errorf("resolve broker: %w", err)
			}
			if err := repos.Commissions.Save(ctx, brokerRes.Commission); err != nil {
				return fmt.Errorf("save broker commission: %w", err)
			}
			if err := repos.BrokerTiers.Save(ctx, brokerRes.Tier); err != nil {
				return fmt.Errorf("save broker tier: %w", err)
			}
			allEvents = append(allEvents, brokerRes.Commission.DomainEvents()...)
			resp.Commissions = append(resp.Commissions, toCommissionResponse(brokerRes.Commission))
			observability.CommissionsCreated.Inc()
		}

		// 5. Stage every event in the outbox with the writes.
		if err := repos.Outbox.Store(ctx, events.NewOutboxEntries(allEvents)); err != nil {
			return fmt.Errorf("store outbox: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.CompleteDealResponse{}, err
	}
	return resp, nil
}

// loadOrCreateDealerTier fetches the dealer's tier row under lock, seeding
// a standard-tier row on the dealer's first completion.
func (uc *CompleteDealUseCase) loadOrCreateDealerTier(
	ctx context.Context,
	repos port.TxRepos,
	dealerID string,
	req dto.CompleteDealRequest,
	now time.Time,
) (model.DealerTier, error) {
	tier, err := repos.DealerTiers.FindByDealerIDForUpdate(ctx, dealerID)
	if err == nil {
		return tier, nil
	}
	if !errors.Is(err, valueobject.ErrNotFound) {
		return model.DealerTier{}, fmt.Errorf("find dealer tier: %w", err)
	}
	region := valueobject.RegionForProvince(req.DealerProvince)
	tier, err = model.NewDealerTier(dealerID, region, req.OmvicCertified, req.AmvicCertified, now)
	if err != nil {
		return model.DealerTier{}, fmt.Errorf("new dealer tier: %w", err)
	}
	return tier, nil
}

// loadOrCreateBrokerTier fetches the broker's tier row under lock, seeding
// a starter-tier row on the broker's first completion.
func (uc *CompleteDealUseCase) loadOrCreateBrokerTier(
	ctx context.Context,
	repos port.TxRepos,
	brokerID string,
	now time.Time,
) (model.BrokerTier, error) {
	tier, err := repos.BrokerTiers.FindByBrokerIDForUpdate(ctx, brokerID)
	if err == nil {
		return tier, nil
	}
	if !errors.Is(err, valueobject.ErrNotFound) {
		return model.BrokerTier{}, fmt.Errorf("find broker tier: %w", err)
	}
	tier, err = model.NewBrokerTier(brokerID, now)
	if err != nil {
		return model.BrokerTier{}, fmt.Errorf("new broker tier: %w", err)
	}
	return tier, nil
}

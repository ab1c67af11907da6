package usecase

import (
	"context"
	"fmt"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
	"github.com/anungis437/nzila-eexports-sub001/pkg/events"
)

// AttachFinancingUseCase attaches a financing plan to a deal. The plan and
// all of its installments persist atomically, and the deal's terms are
// flagged as financed in the same transaction.
type AttachFinancingUseCase struct {
	uow port.UnitOfWork
	clk clock.Clock
}

// NewAttachFinancingUseCase wires dependencies.
func NewAttachFinancingUseCase(uow port.UnitOfWork, clk clock.Clock) *AttachFinancingUseCase {
	return &AttachFinancingUseCase{uow: uow, clk: clk}
}

// Execute builds the amortized plan and persists it.
func (uc *AttachFinancingUseCase) Execute(
	ctx context.Context,
	req dto.AttachFinancingRequest,
) (dto.FinancingPlanResponse, error) {
	now := uc.clk.Now()

	var resp dto.FinancingPlanResponse
	err := uc.uow.WithinTx(ctx, func(ctx context.Context, repos port.TxRepos) error {
		// 1. The deal must exist and be open.
		deal, err := repos.Deals.FindByID(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("find deal: %w", err)
		}
		if deal.Status().IsTerminal() {
			return fmt.Errorf("%w: deal %s is %s", valueobject.ErrPreconditionViolated, deal.ID(), deal.Status())
		}

		// 2. One plan per deal.
		exists, err := repos.Plans.ExistsForDeal(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("check existing plan: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: deal %s already has a financing plan", valueobject.ErrPreconditionViolated, req.DealID)
		}

		// 3. Lock the terms; the financed flag advances with the plan insert.
		terms, err := repos.Terms.FindByDealIDForUpdate(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("find terms: %w", err)
		}

		// 4. Build the plan against the terms' total price.
		financingType := req.FinancingType
		if financingType == "" {
			financingType = model.FinancingTypeBankLoan
		}
		plan, err := model.NewFinancingPlan(
			req.DealID, financingType, req.Lender,
			terms.TotalPrice(), req.DownPayment, req.AnnualRatePct,
			req.TermMonths, req.CreditScore, terms.Currency(), now,
		)
		if err != nil {
			return fmt.Errorf("new financing plan: %w", err)
		}

		terms = terms.MarkFinanced(now)

		// 5. Persist plan, installments and terms together.
		if err := repos.Plans.Save(ctx, plan); err != nil {
			return fmt.Errorf("save plan: %w", err)
		}
		if err := repos.Terms.Save(ctx, terms); err != nil {
			return fmt.Errorf("save terms: %w", err)
		}

		// 6. Stage events in the outbox.
		if err := repos.Outbox.Store(ctx, events.NewOutboxEntries(plan.DomainEvents())); err != nil {
			return fmt.Errorf("store outbox: %w", err)
		}

		resp = toPlanResponse(plan)
		return nil
	})
	if err != nil {
		return dto.FinancingPlanResponse{}, err
	}
	return resp, nil
}

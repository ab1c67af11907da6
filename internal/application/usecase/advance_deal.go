package usecase

import (
	"context"
	"fmt"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
)

// AdvanceDealUseCase moves a deal along its lifecycle. Transitions into
// COMPLETED are rejected here; completion runs through the resolver in
// CompleteDealUseCase so commissions always fan out with it.
type AdvanceDealUseCase struct {
	dealRepo  port.DealRepository
	termsRepo port.FinancialTermsRepository
	publisher port.EventPublisher
	clk       clock.Clock
}

// NewAdvanceDealUseCase wires dependencies.
func NewAdvanceDealUseCase(
	dealRepo port.DealRepository,
	termsRepo port.FinancialTermsRepository,
	publisher port.EventPublisher,
	clk clock.Clock,
) *AdvanceDealUseCase {
	return &AdvanceDealUseCase{
		dealRepo:  dealRepo,
		termsRepo: termsRepo,
		publisher: publisher,
		clk:       clk,
	}
}

// Execute applies the requested transition.
func (uc *AdvanceDealUseCase) Execute(
	ctx context.Context,
	req dto.AdvanceDealRequest,
) (dto.DealResponse, error) {
	now := uc.clk.Now()

	// 1. Parse the target status.
	next, err := valueobject.NewDealStatus(req.Status)
	if err != nil {
		return dto.DealResponse{}, fmt.Errorf("%w: %v", valueobject.ErrPreconditionViolated, err)
	}
	if next.Equal(valueobject.DealStatusCompleted) {
		return dto.DealResponse{}, fmt.Errorf("%w: completion must run through the completion resolver", valueobject.ErrPreconditionViolated)
	}

	// 2. Load the deal.
	deal, err := uc.dealRepo.FindByID(ctx, req.DealID)
	if err != nil {
		return dto.DealResponse{}, fmt.Errorf("find deal: %w", err)
	}

	// 3. The money gates: PAYMENT_RECEIVED requires the deposit to be in,
	// READY_TO_SHIP requires the balance cleared.
	switch {
	case next.Equal(valueobject.DealStatusPaymentReceived):
		terms, err := uc.termsRepo.FindByDealID(ctx, req.DealID)
		if err != nil {
			return dto.DealResponse{}, fmt.Errorf("find terms: %w", err)
		}
		if !terms.DepositPaid() {
			return dto.DealResponse{}, fmt.Errorf("%w: deposit of %s not yet paid",
				valueobject.ErrPreconditionViolated, terms.DepositAmount())
		}
	case next.Equal(valueobject.DealStatusReadyToShip):
		terms, err := uc.termsRepo.FindByDealID(ctx, req.DealID)
		if err != nil {
			return dto.DealResponse{}, fmt.Errorf("find terms: %w", err)
		}
		if terms.BalanceRemaining().IsPositive() {
			return dto.DealResponse{}, fmt.Errorf("%w: balance of %s still outstanding",
				valueobject.ErrPreconditionViolated, terms.BalanceRemaining())
		}
	}

	// 4. Transition.
	deal, err = deal.AdvanceTo(next, now)
	if err != nil {
		return dto.DealResponse{}, fmt.Errorf("advance deal: %w", err)
	}

	// 5. Persist and publish.
	if err := uc.dealRepo.Save(ctx, deal); err != nil {
		return dto.DealResponse{}, fmt.Errorf("save deal: %w", err)
	}
	if err := uc.publisher.Publish(ctx, deal.DomainEvents()...); err != nil {
		return dto.DealResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toDealResponse(deal), nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
	"github.com/anungis437/nzila-eexports-sub001/pkg/events"
	"github.com/anungis437/nzila-eexports-sub001/pkg/observability"
)

// ProcessPaymentUseCase applies one settled payment to a deal. The whole
// operation runs in a single transaction: the terms row is locked, totals
// and milestones advance together, the deal's payment status is rederived,
// and the raised events land in the outbox atomically with the writes.
type ProcessPaymentUseCase struct {
	uow port.UnitOfWork
	clk clock.Clock
}

// NewProcessPaymentUseCase wires dependencies.
func NewProcessPaymentUseCase(uow port.UnitOfWork, clk clock.Clock) *ProcessPaymentUseCase {
	return &ProcessPaymentUseCase{uow: uow, clk: clk}
}

// Execute processes the payment. A concurrent-update conflict is retried
// once with fresh reads before surfacing to the caller.
func (uc *ProcessPaymentUseCase) Execute(
	ctx context.Context,
	req dto.ProcessPaymentRequest,
) (dto.PaymentResponse, error) {
	resp, err := uc.executeOnce(ctx, req)
	if errors.Is(err, valueobject.ErrConcurrentUpdate) {
		resp, err = uc.executeOnce(ctx, req)
	}
	if err == nil {
		observability.PaymentsProcessed.Inc()
		if resp.FullyPaid {
			observability.DealsFullyPaid.Inc()
		}
	}
	return resp, err
}

func (uc *ProcessPaymentUseCase) executeOnce(
	ctx context.Context,
	req dto.ProcessPaymentRequest,
) (dto.PaymentResponse, error) {
	now := uc.clk.Now()

	var resp dto.PaymentResponse
	err := uc.uow.WithinTx(ctx, func(ctx context.Context, repos port.TxRepos) error {
		// 1. Lock the terms row for the span of the allocation.
		terms, err := repos.Terms.FindByDealIDForUpdate(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("find terms: %w", err)
		}

		deal, err := repos.Deals.FindByID(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("find deal: %w", err)
		}
		if deal.Status().IsTerminal() {
			return fmt.Errorf("%w: deal %s is %s", valueobject.ErrPreconditionViolated, deal.ID(), deal.Status())
		}

		// 2. Apply the payment and allocate across milestones.
		wasPaid := !terms.BalanceRemaining().IsPositive()
		terms, allocations, err := terms.RecordPayment(req.PaymentID, req.Amount, req.Currency, now)
		if err != nil {
			return fmt.Errorf("record payment: %w", err)
		}

		// 3. Rederive the deal's payment status.
		deal = deal.SetPaymentStatus(terms.DerivePaymentStatus(deal.PaymentStatus()), now)

		// 4. Persist both aggregates.
		if err := repos.Terms.Save(ctx, terms); err != nil {
			return fmt.Errorf("save terms: %w", err)
		}
		if err := repos.Deals.Save(ctx, deal); err != nil {
			return fmt.Errorf("save deal: %w", err)
		}

		// 5. Stage events in the outbox.
		evts := append(terms.DomainEvents(), deal.DomainEvents()...)
		if err := repos.Outbox.Store(ctx, events.NewOutboxEntries(evts)); err != nil {
			return fmt.Errorf("store outbox: %w", err)
		}

		allocs := make([]dto.AllocationResponse, 0, len(allocations))
		for _, a := range allocations {
			allocs = append(allocs, dto.AllocationResponse{
				MilestoneID: a.MilestoneID,
				Sequence:    a.Sequence,
				Amount:      a.Amount,
			})
		}
		resp = dto.PaymentResponse{
			DealID:           req.DealID,
			PaymentID:        req.PaymentID,
			AmountApplied:    req.Amount,
			TotalPaid:        terms.TotalPaid(),
			BalanceRemaining: terms.BalanceRemaining(),
			DepositPaid:      terms.DepositPaid(),
			PaymentStatus:    deal.PaymentStatus().String(),
			FullyPaid:        !wasPaid && !terms.BalanceRemaining().IsPositive(),
		}
		resp.Allocations = allocs
		return nil
	})
	if err != nil {
		return dto.PaymentResponse{}, err
	}
	return resp, nil
}

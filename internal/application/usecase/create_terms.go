package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
)

// CreateTermsUseCase attaches financial terms to an existing deal. A deal
// carries at most one set of terms.
type CreateTermsUseCase struct {
	dealRepo  port.DealRepository
	termsRepo port.FinancialTermsRepository
	publisher port.EventPublisher
	clk       clock.Clock
}

// NewCreateTermsUseCase wires dependencies.
func NewCreateTermsUseCase(
	dealRepo port.DealRepository,
	termsRepo port.FinancialTermsRepository,
	publisher port.EventPublisher,
	clk clock.Clock,
) *CreateTermsUseCase {
	return &CreateTermsUseCase{
		dealRepo:  dealRepo,
		termsRepo: termsRepo,
		publisher: publisher,
		clk:       clk,
	}
}

// Execute creates and persists the terms.
func (uc *CreateTermsUseCase) Execute(
	ctx context.Context,
	req dto.CreateTermsRequest,
) (dto.TermsResponse, error) {
	now := uc.clk.Now()

	// 1. The deal must exist and be open.
	deal, err := uc.dealRepo.FindByID(ctx, req.DealID)
	if err != nil {
		return dto.TermsResponse{}, fmt.Errorf("find deal: %w", err)
	}
	if deal.Status().IsTerminal() {
		return dto.TermsResponse{}, fmt.Errorf("%w: deal %s is %s", valueobject.ErrPreconditionViolated, deal.ID(), deal.Status())
	}

	// 2. Reject a second set of terms.
	if _, err := uc.termsRepo.FindByDealID(ctx, req.DealID); err == nil {
		return dto.TermsResponse{}, fmt.Errorf("%w: deal %s already has financial terms", valueobject.ErrPreconditionViolated, req.DealID)
	} else if !errors.Is(err, valueobject.ErrNotFound) {
		return dto.TermsResponse{}, fmt.Errorf("find terms: %w", err)
	}

	// 3. Terms currency must match the deal.
	if req.Currency != deal.Currency() {
		return dto.TermsResponse{}, fmt.Errorf("%w: terms currency %s does not match deal currency %s",
			valueobject.ErrPreconditionViolated, req.Currency, deal.Currency())
	}

	// 4. Build and persist. Omitted knobs take the standard values: a 20%
	// deposit on 30-day payment terms.
	depositPct := req.DepositPct
	if depositPct.IsZero() {
		depositPct = decimal.NewFromInt(20)
	}
	paymentTermDays := req.PaymentTermDays
	if paymentTermDays == 0 {
		paymentTermDays = 30
	}
	terms, err := model.NewFinancialTerms(
		req.DealID, req.TotalPrice, depositPct,
		paymentTermDays, req.GracePeriodDays, req.Currency, now,
	)
	if err != nil {
		return dto.TermsResponse{}, fmt.Errorf("new terms: %w", err)
	}
	if err := uc.termsRepo.Save(ctx, terms); err != nil {
		return dto.TermsResponse{}, fmt.Errorf("save terms: %w", err)
	}

	// 5. Publish events.
	if err := uc.publisher.Publish(ctx, terms.DomainEvents()...); err != nil {
		return dto.TermsResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toTermsResponse(terms), nil
}

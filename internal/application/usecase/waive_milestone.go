package usecase

import (
	"context"
	"fmt"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
)

// WaiveMilestoneUseCase waives one milestone on a deal's schedule. Waived
// milestones drop out of future payment allocations; the deal's totals are
// untouched.
type WaiveMilestoneUseCase struct {
	termsRepo port.FinancialTermsRepository
	clk       clock.Clock
}

// NewWaiveMilestoneUseCase wires dependencies.
func NewWaiveMilestoneUseCase(termsRepo port.FinancialTermsRepository, clk clock.Clock) *WaiveMilestoneUseCase {
	return &WaiveMilestoneUseCase{termsRepo: termsRepo, clk: clk}
}

// Execute waives the milestone and persists the terms.
func (uc *WaiveMilestoneUseCase) Execute(
	ctx context.Context,
	req dto.WaiveMilestoneRequest,
) (dto.TermsResponse, error) {
	now := uc.clk.Now()

	terms, err := uc.termsRepo.FindByDealID(ctx, req.DealID)
	if err != nil {
		return dto.TermsResponse{}, fmt.Errorf("find terms: %w", err)
	}

	terms, err = terms.WaiveMilestone(req.Sequence, now)
	if err != nil {
		return dto.TermsResponse{}, fmt.Errorf("waive milestone: %w", err)
	}

	if err := uc.termsRepo.Save(ctx, terms); err != nil {
		return dto.TermsResponse{}, fmt.Errorf("save terms: %w", err)
	}
	return toTermsResponse(terms), nil
}

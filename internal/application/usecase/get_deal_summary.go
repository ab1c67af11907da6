package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
	"github.com/anungis437/nzila-eexports-sub001/pkg/money"
)

// GetDealSummaryUseCase assembles the read-side projection of a deal:
// lifecycle state, terms, schedule health and the optional financing plan.
// Overdue flags are computed against the clock at read time, never stored.
type GetDealSummaryUseCase struct {
	dealRepo  port.DealRepository
	termsRepo port.FinancialTermsRepository
	planRepo  port.FinancingPlanRepository
	fx        *money.Registry
	clk       clock.Clock
}

// NewGetDealSummaryUseCase wires dependencies.
func NewGetDealSummaryUseCase(
	dealRepo port.DealRepository,
	termsRepo port.FinancialTermsRepository,
	planRepo port.FinancingPlanRepository,
	fx *money.Registry,
	clk clock.Clock,
) *GetDealSummaryUseCase {
	return &GetDealSummaryUseCase{
		dealRepo:  dealRepo,
		termsRepo: termsRepo,
		planRepo:  planRepo,
		fx:        fx,
		clk:       clk,
	}
}

// Execute builds the summary.
func (uc *GetDealSummaryUseCase) Execute(
	ctx context.Context,
	req dto.GetDealSummaryRequest,
) (dto.DealSummaryResponse, error) {
	now := uc.clk.Now()

	deal, err := uc.dealRepo.FindByID(ctx, req.DealID)
	if err != nil {
		return dto.DealSummaryResponse{}, fmt.Errorf("find deal: %w", err)
	}

	resp := dto.DealSummaryResponse{Deal: toDealResponse(deal)}

	terms, err := uc.termsRepo.FindByDealID(ctx, req.DealID)
	switch {
	case err == nil:
		tr := toTermsResponse(terms)
		resp.Terms = &tr
		resp.DepositOverdue = terms.DepositOverdue(now)
		resp.BalanceOverdue = terms.BalanceOverdue(now)
		if resp.BalanceOverdue && terms.BalanceDueDate() != nil {
			resp.DaysLate = int(now.Sub(*terms.BalanceDueDate()).Hours() / 24)
		}
		for _, m := range terms.Milestones() {
			if m.IsOverdue(now) {
				resp.OverdueMilestones++
			}
		}
		uc.attachUSDFigure(&resp, terms)
	case errors.Is(err, valueobject.ErrNotFound):
		// A deal without terms is a valid early state.
	default:
		return dto.DealSummaryResponse{}, fmt.Errorf("find terms: %w", err)
	}

	plan, err := uc.planRepo.FindByDealID(ctx, req.DealID)
	switch {
	case err == nil:
		pr := toPlanResponse(plan)
		resp.Financing = &pr
	case errors.Is(err, valueobject.ErrNotFound):
	default:
		return dto.DealSummaryResponse{}, fmt.Errorf("find plan: %w", err)
	}

	return resp, nil
}

// attachUSDFigure converts the total price for reporting. A terms row with
// a locked rate uses it; otherwise the registry's current rate applies.
// Unsupported currencies just omit the figure.
func (uc *GetDealSummaryUseCase) attachUSDFigure(resp *dto.DealSummaryResponse, terms model.FinancialTerms) {
	if rate := terms.LockedFxRate(); rate != nil {
		usd := terms.TotalPrice().Mul(*rate).Round(2)
		resp.TotalPriceUSD = &usd
		return
	}
	cur, err := money.NewCurrency(terms.Currency())
	if err != nil {
		return
	}
	usd, err := uc.fx.ConvertToUSD(terms.TotalPrice(), cur)
	if err != nil {
		return
	}
	resp.TotalPriceUSD = &usd
}

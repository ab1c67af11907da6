package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/application/usecase"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
)

func financingFixture(t *testing.T) (*usecase.AttachFinancingUseCase, *mockPlanRepository, *mockTermsRepository) {
	t.Helper()
	dealRepo := &mockDealRepository{
		findByIDFunc: func(ctx context.Context, id string) (model.Deal, error) {
			// 36000 CAD deal; financing covers the price minus the down payment.
			return model.ReconstructDeal(
				id, "buyer-001", "dealer-001", "", "vehicle-001",
				decimal.NewFromInt(36000), "CAD", "FINANCED",
				valueobject.PaymentStatusPending,
				valueobject.DealStatusPaymentPending,
				nil, 1, testInstant, testInstant,
			), nil
		},
	}
	terms, err := model.NewFinancialTerms(
		"deal-001", decimal.NewFromInt(36000), decimal.NewFromInt(0),
		30, 5, "CAD", testInstant,
	)
	require.NoError(t, err)
	termsRepo := &mockTermsRepository{
		findForUpdateFunc: func(ctx context.Context, dealID string) (model.FinancialTerms, error) {
			return terms.ClearEvents(), nil
		},
	}
	planRepo := &mockPlanRepository{}
	uow := &mockUnitOfWork{repos: port.TxRepos{
		Deals:  dealRepo,
		Terms:  termsRepo,
		Plans:  planRepo,
		Outbox: &mockOutboxRepository{},
	}}
	return usecase.NewAttachFinancingUseCase(uow, clock.Fixed{Instant: testInstant}), planRepo, termsRepo
}

func TestAttachFinancing_Execute(t *testing.T) {
	t.Run("builds the amortized plan and flags the terms", func(t *testing.T) {
		uc, planRepo, termsRepo := financingFixture(t)

		resp, err := uc.Execute(context.Background(), dto.AttachFinancingRequest{
			DealID:        "deal-001",
			Lender:        "Scotiabank",
			DownPayment:   decimal.NewFromInt(6000),
			AnnualRatePct: decimal.NewFromInt(6),
			TermMonths:    60,
		})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(30000).Equal(resp.Principal))
		assert.True(t, decimal.RequireFromString("579.98").Equal(resp.MonthlyPayment), "got %s", resp.MonthlyPayment)
		assert.Equal(t, "PENDING_APPROVAL", resp.Status)
		require.Len(t, resp.Installments, 60)

		// Principal portions reassemble the financed amount and the
		// balance closes at zero.
		sum := decimal.Zero
		for _, inst := range resp.Installments {
			sum = sum.Add(inst.Principal)
		}
		assert.True(t, sum.Sub(decimal.NewFromInt(30000)).Abs().LessThanOrEqual(decimal.RequireFromString("0.01")))
		assert.True(t, resp.Installments[59].RemainingBalance.IsZero())

		// Total interest lands near 4799 for this contract.
		assert.True(t, resp.TotalInterest.Sub(decimal.NewFromInt(4799)).Abs().LessThan(decimal.NewFromInt(1)),
			"total interest %s", resp.TotalInterest)

		require.Len(t, planRepo.savedPlans, 1)
		require.Len(t, termsRepo.savedTerms, 1)
		assert.True(t, termsRepo.savedTerms[0].IsFinanced())
	})

	t.Run("rejects a second plan for the same deal", func(t *testing.T) {
		uc, planRepo, _ := financingFixture(t)
		planRepo.existsFunc = func(ctx context.Context, dealID string) (bool, error) {
			return true, nil
		}

		_, err := uc.Execute(context.Background(), dto.AttachFinancingRequest{
			DealID: "deal-001", DownPayment: decimal.NewFromInt(6000),
			AnnualRatePct: decimal.NewFromInt(6), TermMonths: 60,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, valueobject.ErrPreconditionViolated)
	})

	t.Run("rejects a term outside the allowed range", func(t *testing.T) {
		uc, _, _ := financingFixture(t)

		_, err := uc.Execute(context.Background(), dto.AttachFinancingRequest{
			DealID: "deal-001", DownPayment: decimal.NewFromInt(6000),
			AnnualRatePct: decimal.NewFromInt(6), TermMonths: 121,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, valueobject.ErrInvariantBroken)
	})

	t.Run("rejects a down payment that leaves nothing to finance", func(t *testing.T) {
		uc, _, _ := financingFixture(t)

		_, err := uc.Execute(context.Background(), dto.AttachFinancingRequest{
			DealID: "deal-001", DownPayment: decimal.NewFromInt(36000),
			AnnualRatePct: decimal.NewFromInt(6), TermMonths: 60,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, valueobject.ErrAmountInvalid)
	})
}

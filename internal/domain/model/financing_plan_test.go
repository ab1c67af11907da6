package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
)

var planInstant = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newPlan(t *testing.T) model.FinancingPlan {
	t.Helper()
	plan, err := model.NewFinancingPlan(
		"deal-001", model.FinancingTypeBankLoan, "Scotiabank",
		decimal.NewFromInt(36_000), decimal.NewFromInt(6000), decimal.NewFromInt(6),
		60, nil, "CAD", planInstant,
	)
	require.NoError(t, err)
	return plan.ClearEvents()
}

func activePlan(t *testing.T) model.FinancingPlan {
	t.Helper()
	plan, err := newPlan(t).Approve(planInstant)
	require.NoError(t, err)
	plan, err = plan.Activate(planInstant)
	require.NoError(t, err)
	return plan
}

func TestNewFinancingPlan(t *testing.T) {
	t.Run("builds the schedule from the financed principal", func(t *testing.T) {
		plan := newPlan(t)

		assert.True(t, plan.Principal().Equal(decimal.NewFromInt(30_000)))
		assert.True(t, plan.MonthlyPayment().Equal(decimal.NewFromFloat(579.98)))
		assert.True(t, plan.Status().Equal(valueobject.FinancingPlanStatusPendingApproval))
		assert.Equal(t, model.FinancingTypeBankLoan, plan.FinancingType())
		assert.Nil(t, plan.CreditScore())

		installments := plan.Installments()
		require.Len(t, installments, 60)
		assert.Equal(t, planInstant.Add(30*24*time.Hour), installments[0].DueDate)
		assert.True(t, installments[59].RemainingBalance.IsZero())

		for _, inst := range installments {
			assert.True(t, inst.Status.Equal(valueobject.InstallmentStatusPending))
			assert.Equal(t, plan.ID(), inst.PlanID)
			assert.True(t, inst.LateFee.IsZero())
			assert.True(t, inst.AmountPaid.IsZero())
			assert.Zero(t, inst.DaysLate)
		}
	})

	t.Run("carries an optional credit score", func(t *testing.T) {
		score := 720
		plan, err := model.NewFinancingPlan(
			"deal-001", model.FinancingTypeDealerCredit, "Scotiabank",
			decimal.NewFromInt(36_000), decimal.NewFromInt(6000), decimal.NewFromInt(6),
			60, &score, "CAD", planInstant,
		)
		require.NoError(t, err)
		require.NotNil(t, plan.CreditScore())
		assert.Equal(t, 720, *plan.CreditScore())
		assert.Equal(t, model.FinancingTypeDealerCredit, plan.FinancingType())
	})

	t.Run("rejects an out-of-range credit score", func(t *testing.T) {
		score := 150
		_, err := model.NewFinancingPlan(
			"deal-001", model.FinancingTypeBankLoan, "Scotiabank",
			decimal.NewFromInt(36_000), decimal.NewFromInt(6000), decimal.NewFromInt(6),
			60, &score, "CAD", planInstant,
		)
		assert.ErrorIs(t, err, valueobject.ErrPreconditionViolated)
	})

	t.Run("rejects a down payment that covers the price", func(t *testing.T) {
		_, err := model.NewFinancingPlan("deal-001", model.FinancingTypeBankLoan, "Scotiabank",
			decimal.NewFromInt(36_000), decimal.NewFromInt(36_000), decimal.NewFromInt(6),
			60, nil, "CAD", planInstant)
		assert.ErrorIs(t, err, valueobject.ErrAmountInvalid)
	})

	t.Run("rejects terms beyond ten years", func(t *testing.T) {
		_, err := model.NewFinancingPlan("deal-001", model.FinancingTypeBankLoan, "Scotiabank",
			decimal.NewFromInt(36_000), decimal.NewFromInt(6000), decimal.NewFromInt(6),
			121, nil, "CAD", planInstant)
		assert.ErrorIs(t, err, valueobject.ErrInvariantBroken)
	})

	t.Run("rejects absurd rates", func(t *testing.T) {
		_, err := model.NewFinancingPlan("deal-001", model.FinancingTypeBankLoan, "Scotiabank",
			decimal.NewFromInt(36_000), decimal.NewFromInt(6000), decimal.NewFromInt(101),
			60, nil, "CAD", planInstant)
		assert.ErrorIs(t, err, valueobject.ErrInvariantBroken)
	})
}

func TestFinancingPlanTransitions(t *testing.T) {
	t.Run("pending to approved to active", func(t *testing.T) {
		plan := activePlan(t)
		assert.True(t, plan.Status().Equal(valueobject.FinancingPlanStatusActive))
	})

	t.Run("cannot activate before approval", func(t *testing.T) {
		_, err := newPlan(t).Activate(planInstant)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})

	t.Run("default only from active", func(t *testing.T) {
		plan := activePlan(t)
		defaulted, err := plan.MarkDefaulted(planInstant)
		require.NoError(t, err)
		assert.True(t, defaulted.Status().Equal(valueobject.FinancingPlanStatusDefaulted))

		_, err = newPlan(t).MarkDefaulted(planInstant)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})

	t.Run("cancel is legal until terminal", func(t *testing.T) {
		cancelled, err := newPlan(t).Cancel(planInstant)
		require.NoError(t, err)
		assert.True(t, cancelled.Status().Equal(valueobject.FinancingPlanStatusCancelled))

		_, err = cancelled.Cancel(planInstant)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})
}

func TestRecordInstallmentPayment(t *testing.T) {
	monthly := decimal.NewFromFloat(579.98)

	t.Run("full settlement flips the row and stamps the time", func(t *testing.T) {
		plan := activePlan(t)

		plan, err := plan.RecordInstallmentPayment(1, monthly, planInstant.AddDate(0, 1, 0))
		require.NoError(t, err)

		first := plan.Installments()[0]
		assert.True(t, first.Status.Equal(valueobject.InstallmentStatusPaid))
		assert.True(t, first.AmountPaid.Equal(monthly))
		require.NotNil(t, first.PaidAt)
		assert.True(t, plan.Status().Equal(valueobject.FinancingPlanStatusActive))
	})

	t.Run("partial payment accumulates without settling", func(t *testing.T) {
		plan := activePlan(t)

		plan, err := plan.RecordInstallmentPayment(1, decimal.NewFromInt(300), planInstant)
		require.NoError(t, err)

		first := plan.Installments()[0]
		assert.True(t, first.Status.Equal(valueobject.InstallmentStatusPending))
		assert.True(t, first.AmountPaid.Equal(decimal.NewFromInt(300)))
		assert.Nil(t, first.PaidAt)

		plan, err = plan.RecordInstallmentPayment(1, decimal.NewFromFloat(279.98), planInstant)
		require.NoError(t, err)
		first = plan.Installments()[0]
		assert.True(t, first.Status.Equal(valueobject.InstallmentStatusPaid))
		require.NotNil(t, first.PaidAt)
	})

	t.Run("a late row settles only with the fee included", func(t *testing.T) {
		plan := activePlan(t)
		plan, changed := plan.MarkLateInstallments(planInstant.Add(31 * 24 * time.Hour))
		require.Equal(t, 1, changed)

		// The monthly figure alone no longer covers the row.
		plan, err := plan.RecordInstallmentPayment(1, monthly, planInstant)
		require.NoError(t, err)
		assert.True(t, plan.Installments()[0].Status.Equal(valueobject.InstallmentStatusLate))

		plan, err = plan.RecordInstallmentPayment(1, model.InstallmentLateFee, planInstant)
		require.NoError(t, err)
		first := plan.Installments()[0]
		assert.True(t, first.Status.Equal(valueobject.InstallmentStatusPaid))
		assert.True(t, first.AmountPaid.Equal(first.AmountOwed()))
	})

	t.Run("last settlement completes the plan", func(t *testing.T) {
		plan, err := model.NewFinancingPlan("deal-001", model.FinancingTypeBankLoan, "Scotiabank",
			decimal.NewFromInt(12_000), decimal.NewFromInt(6000), decimal.Zero,
			3, nil, "CAD", planInstant)
		require.NoError(t, err)
		plan, err = plan.Approve(planInstant)
		require.NoError(t, err)
		plan, err = plan.Activate(planInstant)
		require.NoError(t, err)

		for period := 1; period <= 3; period++ {
			plan, err = plan.RecordInstallmentPayment(period, decimal.NewFromInt(2000), planInstant)
			require.NoError(t, err)
		}
		assert.True(t, plan.Status().Equal(valueobject.FinancingPlanStatusCompleted))
	})

	t.Run("rejects double payment and unknown periods", func(t *testing.T) {
		plan := activePlan(t)
		plan, err := plan.RecordInstallmentPayment(1, monthly, planInstant)
		require.NoError(t, err)

		_, err = plan.RecordInstallmentPayment(1, monthly, planInstant)
		assert.ErrorIs(t, err, valueobject.ErrPreconditionViolated)

		_, err = plan.RecordInstallmentPayment(99, monthly, planInstant)
		assert.ErrorIs(t, err, valueobject.ErrNotFound)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		plan := activePlan(t)
		_, err := plan.RecordInstallmentPayment(1, decimal.Zero, planInstant)
		assert.ErrorIs(t, err, valueobject.ErrAmountInvalid)
	})

	t.Run("rejects payments on inactive plans", func(t *testing.T) {
		_, err := newPlan(t).RecordInstallmentPayment(1, monthly, planInstant)
		assert.ErrorIs(t, err, valueobject.ErrPreconditionViolated)
	})
}

func TestMarkLateInstallments(t *testing.T) {
	plan := activePlan(t)

	// Two periods past due: 30 and 60 days out.
	sweep := planInstant.Add(61 * 24 * time.Hour)
	plan, changed := plan.MarkLateInstallments(sweep)

	assert.Equal(t, 2, changed)
	installments := plan.Installments()
	assert.True(t, installments[0].Status.Equal(valueobject.InstallmentStatusLate))
	assert.True(t, installments[1].Status.Equal(valueobject.InstallmentStatusLate))
	assert.True(t, installments[2].Status.Equal(valueobject.InstallmentStatusPending))

	// The flip charges the flat fee and stamps the days-late counter.
	assert.True(t, installments[0].LateFee.Equal(model.InstallmentLateFee))
	assert.True(t, installments[1].LateFee.Equal(model.InstallmentLateFee))
	assert.Equal(t, 31, installments[0].DaysLate)
	assert.Equal(t, 1, installments[1].DaysLate)

	// A later sweep flips nothing new, refreshes the counters, and never
	// charges the fee twice.
	plan, changed = plan.MarkLateInstallments(sweep.Add(24 * time.Hour))
	assert.Equal(t, 0, changed)
	installments = plan.Installments()
	assert.True(t, installments[0].LateFee.Equal(model.InstallmentLateFee))
	assert.Equal(t, 32, installments[0].DaysLate)
}

package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
)

func TestComputeMonthlyPayment(t *testing.T) {
	t.Run("standard vehicle loan", func(t *testing.T) {
		// $30,000 at 6% for 60 months.
		monthly := model.ComputeMonthlyPayment(
			decimal.NewFromInt(30_000), decimal.NewFromInt(6), 60,
		)
		assert.True(t, monthly.Equal(decimal.NewFromFloat(579.98)),
			"expected 579.98, got %s", monthly)
	})

	t.Run("zero rate splits evenly", func(t *testing.T) {
		monthly := model.ComputeMonthlyPayment(
			decimal.NewFromInt(12_000), decimal.Zero, 12,
		)
		assert.True(t, monthly.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("degenerate inputs yield zero", func(t *testing.T) {
		assert.True(t, model.ComputeMonthlyPayment(decimal.NewFromInt(10_000), decimal.NewFromInt(5), 0).IsZero())
		assert.True(t, model.ComputeMonthlyPayment(decimal.Zero, decimal.NewFromInt(5), 12).IsZero())
	})
}

func TestBuildAmortizationSchedule_VehicleLoan(t *testing.T) {
	principal := decimal.NewFromInt(30_000)
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	schedule := model.BuildAmortizationSchedule(principal, decimal.NewFromInt(6), 60, start)
	require.Len(t, schedule, 60)

	first := schedule[0]
	assert.Equal(t, 1, first.Period)
	assert.Equal(t, start, first.DueDate)

	// First month interest = 30000 * 0.06/12 = 150.00.
	assert.True(t, first.Interest.Equal(decimal.NewFromInt(150)),
		"first interest should be 150.00, got %s", first.Interest)
	assert.True(t, first.Principal.Equal(decimal.NewFromFloat(429.98)),
		"first principal should be 429.98, got %s", first.Principal)

	// Due dates run on a 30-day billing cycle.
	assert.Equal(t, start.Add(30*24*time.Hour), schedule[1].DueDate)

	// Balance closes at exactly zero.
	last := schedule[59]
	assert.Equal(t, 60, last.Period)
	assert.True(t, last.RemainingBalance.IsZero(),
		"final remaining balance should be zero, got %s", last.RemainingBalance)

	// Principal portions sum to the original principal.
	totalPrincipal := decimal.Zero
	totalInterest := decimal.Zero
	for _, e := range schedule {
		totalPrincipal = totalPrincipal.Add(e.Principal)
		totalInterest = totalInterest.Add(e.Interest)
	}
	assert.True(t, totalPrincipal.Equal(principal),
		"total principal should equal 30000, got %s", totalPrincipal)

	// Whole-plan interest for this loan is roughly $4,799.
	assert.True(t,
		totalInterest.Sub(decimal.NewFromInt(4799)).Abs().LessThan(decimal.NewFromInt(1)),
		"total interest should be approximately 4799, got %s", totalInterest,
	)
}

func TestBuildAmortizationSchedule_ZeroRate(t *testing.T) {
	schedule := model.BuildAmortizationSchedule(
		decimal.NewFromInt(12_000), decimal.Zero, 12,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.Len(t, schedule, 12)

	for _, e := range schedule {
		assert.True(t, e.Interest.IsZero(), "interest should be zero on a zero-rate plan")
		assert.True(t, e.Principal.Equal(decimal.NewFromInt(1000)),
			"period %d principal should be 1000, got %s", e.Period, e.Principal)
	}
	assert.True(t, schedule[11].RemainingBalance.IsZero())
}

func TestBuildAmortizationSchedule_DriftLandsInLastRow(t *testing.T) {
	// $10,000 at 7% over 36 months produces fractional-cent drift that the
	// final row must absorb.
	principal := decimal.NewFromInt(10_000)
	schedule := model.BuildAmortizationSchedule(principal, decimal.NewFromInt(7), 36,
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	require.Len(t, schedule, 36)

	last := schedule[35]
	assert.True(t, last.RemainingBalance.IsZero())
	assert.True(t, last.Total.Equal(last.Principal.Add(last.Interest)))

	totalPrincipal := decimal.Zero
	for _, e := range schedule {
		totalPrincipal = totalPrincipal.Add(e.Principal)
	}
	assert.True(t, totalPrincipal.Equal(principal),
		"total principal should equal 10000 exactly, got %s", totalPrincipal)
}

func TestBuildAmortizationSchedule_DegenerateInputs(t *testing.T) {
	assert.Nil(t, model.BuildAmortizationSchedule(decimal.NewFromInt(1000), decimal.NewFromInt(5), 0, time.Now()))
	assert.Nil(t, model.BuildAmortizationSchedule(decimal.Zero, decimal.NewFromInt(5), 12, time.Now()))
}

func TestTotalInterest(t *testing.T) {
	total := model.TotalInterest(decimal.NewFromFloat(579.98), 60, decimal.NewFromInt(30_000))
	assert.True(t, total.Equal(decimal.NewFromFloat(4798.80)),
		"expected 4798.80, got %s", total)
}

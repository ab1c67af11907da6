package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// AmortizationEntry is an immutable value object representing one period in
// an amortization schedule.
type AmortizationEntry struct {
	DueDate          time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	RemainingBalance decimal.Decimal
	Period           int
}

// installmentInterval is the calendar gap between consecutive installment
// due dates. The desk bills on a 30-day cycle, not on calendar months.
const installmentInterval = 30 * 24 * time.Hour

// ComputeMonthlyPayment returns the fixed monthly payment for a financed
// principal at the given annual percentage rate over termMonths.
//
// Zero-rate plans split the principal evenly. Otherwise:
//
//	r       = annualRatePct / 100 / 12
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// rounded to two fractional digits.
func ComputeMonthlyPayment(principal, annualRatePct decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	if annualRatePct.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	}

	// float64 for the power term, decimal for the monetary result.
	monthlyRate := annualRatePct.InexactFloat64() / 100.0 / 12.0
	n := float64(termMonths)
	factor := math.Pow(1+monthlyRate, n)
	payment := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)

	return decimal.NewFromFloat(payment).Round(2)
}

// BuildAmortizationSchedule computes a fixed-payment schedule with one entry
// per month. Each entry is due 30 calendar days after the previous one,
// starting at firstPaymentDate.
//
// Interest per period is round(remaining * r, 2); the principal portion is
// the fixed payment minus interest. The final period takes the whole
// remaining balance as principal and sets interest to payment minus
// principal, so rounding drift is absorbed there and the balance closes at
// exactly zero.
func BuildAmortizationSchedule(
	principal, annualRatePct decimal.Decimal,
	termMonths int,
	firstPaymentDate time.Time,
) []AmortizationEntry {
	if termMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	monthly := ComputeMonthlyPayment(principal, annualRatePct, termMonths)
	monthlyRate := annualRatePct.
		Div(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(12)).
		Round(10)

	schedule := make([]AmortizationEntry, 0, termMonths)
	remaining := principal
	dueDate := firstPaymentDate

	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := monthly.Sub(interest)

		if period == termMonths {
			// Close the balance exactly; drift lands in the last row.
			principalPart = remaining
			interest = monthly.Sub(principalPart)
		}

		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          dueDate,
			Principal:        principalPart,
			Interest:         interest,
			Total:            principalPart.Add(interest),
			RemainingBalance: remaining,
		})

		dueDate = dueDate.Add(installmentInterval)
	}

	return schedule
}

// TotalInterest returns monthly * termMonths - principal, the whole-plan
// interest implied by the fixed payment.
func TotalInterest(monthly decimal.Decimal, termMonths int, principal decimal.Decimal) decimal.Decimal {
	return monthly.Mul(decimal.NewFromInt(int64(termMonths))).Sub(principal).Round(2)
}

package statutory

import "github.com/shopspring/decimal"

// HealthLevy computes max(earnings * rate, minimum contribution). When the
// tenant has not configured the levy the second return is false and the
// amount is zero; missing config degrades one deduction, it must not block a
// whole batch.
func HealthLevy(earnings decimal.Decimal, rates HealthLevyRates) (decimal.Decimal, bool) {
	if !rates.Configured {
		return decimal.Zero, false
	}

	if earnings.IsNegative() {
		earnings = decimal.Zero
	}

	levy := decimal.Max(earnings.Mul(rates.Rate), rates.MinimumContribution)
	return levy, true
}

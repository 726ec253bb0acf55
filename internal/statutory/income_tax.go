package statutory

import "github.com/shopspring/decimal"

// IncomeTax walks the ordered band list, charging each band's width at its
// rate until taxable income is exhausted, then subtracts the personal relief
// without going below zero. An empty band list taxes nothing. No intermediate
// rounding: the walk is exact to the cent by construction.
func IncomeTax(taxable decimal.Decimal, bands []TaxBand, personalRelief decimal.Decimal) TaxResult {
	remaining := decimal.Max(taxable, decimal.Zero)
	grossTax := decimal.Zero

	for _, band := range bands {
		if remaining.IsZero() {
			break
		}

		chargeable := remaining
		if band.Width != nil {
			chargeable = decimal.Min(remaining, *band.Width)
		}

		grossTax = grossTax.Add(chargeable.Mul(band.Rate))
		remaining = remaining.Sub(chargeable)
	}

	netTax := decimal.Max(grossTax.Sub(personalRelief), decimal.Zero)

	return TaxResult{
		GrossTax: grossTax,
		Relief:   personalRelief,
		NetTax:   netTax,
	}
}

// Package statutory holds the pure deduction calculators: tiered social
// security, the health levy with its contribution floor, the housing levy and
// the progressive income tax. The functions take plain rate values, never a
// database entity, do no I/O and keep full decimal precision; rounding is the
// presentation layer's job.
package statutory

import "github.com/shopspring/decimal"

// Contribution is a paired employee/employer amount.
type Contribution struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// SocialSecurityRates describes the two contribution tiers. Tier 1 covers
// earnings up to Tier1Ceiling, tier 2 the span between the two ceilings.
type SocialSecurityRates struct {
	Tier1Ceiling decimal.Decimal
	Tier1Rate    decimal.Decimal
	Tier2Ceiling decimal.Decimal
	Tier2Rate    decimal.Decimal
}

// HealthLevyRates may be partially configured per tenant; nil fields mean the
// tenant has not supplied that value yet.
type HealthLevyRates struct {
	Rate                decimal.Decimal
	MinimumContribution decimal.Decimal
	Configured          bool
}

// HousingLevyRates mirrors HealthLevyRates for the housing levy.
type HousingLevyRates struct {
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal
	Configured   bool
}

// TaxBand charges Width of taxable income at Rate. A nil Width marks the
// final band, which absorbs all remaining income.
type TaxBand struct {
	Width *decimal.Decimal
	Rate  decimal.Decimal
}

// TaxResult reports the band walk before and after personal relief. Relief is
// echoed back so callers can expose it even when gross tax is below it.
type TaxResult struct {
	GrossTax decimal.Decimal
	Relief   decimal.Decimal
	NetTax   decimal.Decimal
}

package statutory

import "github.com/shopspring/decimal"

// HousingLevy computes the employee and employer housing contributions on
// gross earnings. Unconfigured rates degrade to a zero pair, same policy as
// the health levy.
func HousingLevy(earnings decimal.Decimal, rates HousingLevyRates) (Contribution, bool) {
	if !rates.Configured {
		return Contribution{Employee: decimal.Zero, Employer: decimal.Zero}, false
	}

	if earnings.IsNegative() {
		earnings = decimal.Zero
	}

	return Contribution{
		Employee: earnings.Mul(rates.EmployeeRate),
		Employer: earnings.Mul(rates.EmployerRate),
	}, true
}

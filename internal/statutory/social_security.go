package statutory

import "github.com/shopspring/decimal"

// SocialSecurity computes the two-tier contribution on pensionable earnings.
// Employee and employer shares are equal. Zero earnings yield a literal zero
// contribution; there is no fixed minimum. The overall cap falls out of the
// ceilings: earnings at or above Tier2Ceiling always produce the same amount.
func SocialSecurity(pensionable decimal.Decimal, rates SocialSecurityRates) Contribution {
	if pensionable.IsNegative() {
		pensionable = decimal.Zero
	}

	tier1 := decimal.Min(pensionable, rates.Tier1Ceiling).Mul(rates.Tier1Rate)

	tier2Base := decimal.Min(pensionable, rates.Tier2Ceiling).Sub(rates.Tier1Ceiling)
	if tier2Base.IsNegative() {
		tier2Base = decimal.Zero
	}
	tier2 := tier2Base.Mul(rates.Tier2Rate)

	total := tier1.Add(tier2)
	return Contribution{Employee: total, Employer: total}
}

package statutory_test

import (
	"testing"

	"go-payday/internal/statutory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func defaultSocialSecurityRates() statutory.SocialSecurityRates {
	return statutory.SocialSecurityRates{
		Tier1Ceiling: dec("8000"),
		Tier1Rate:    dec("0.06"),
		Tier2Ceiling: dec("72000"),
		Tier2Rate:    dec("0.06"),
	}
}

func defaultTaxBands() []statutory.TaxBand {
	return []statutory.TaxBand{
		{Width: decPtr("24000"), Rate: dec("0.10")},
		{Width: decPtr("8333"), Rate: dec("0.25")},
		{Width: nil, Rate: dec("0.30")},
	}
}

func TestSocialSecurity(t *testing.T) {
	rates := defaultSocialSecurityRates()

	tests := []struct {
		name     string
		earnings string
		want     string
	}{
		{"zero earnings yields zero, not a fixed minimum", "0", "0"},
		{"inside tier 1", "5000", "300"},
		{"exactly tier 1 ceiling", "8000", "480"},
		{"spanning both tiers", "40000", "2400"},
		{"exactly tier 2 ceiling", "72000", "4320"},
		{"above tier 2 ceiling is capped", "250000", "4320"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statutory.SocialSecurity(dec(tt.earnings), rates)

			assert.True(t, got.Employee.Equal(dec(tt.want)),
				"employee contribution: got %s, want %s", got.Employee, tt.want)
			assert.True(t, got.Employee.Equal(got.Employer),
				"employee and employer shares must be equal")
		})
	}
}

func TestSocialSecurity_MonotonicAndCapped(t *testing.T) {
	rates := defaultSocialSecurityRates()
	cap := statutory.SocialSecurity(rates.Tier2Ceiling, rates).Employee

	prev := decimal.Zero
	for e := decimal.Zero; e.LessThanOrEqual(dec("100000")); e = e.Add(dec("2500")) {
		got := statutory.SocialSecurity(e, rates)

		assert.True(t, got.Employee.GreaterThanOrEqual(prev),
			"contribution decreased at earnings %s", e)
		assert.True(t, got.Employee.LessThanOrEqual(cap),
			"contribution exceeded cap at earnings %s", e)
		prev = got.Employee
	}
}

func TestHealthLevy(t *testing.T) {
	rates := statutory.HealthLevyRates{
		Rate:                dec("0.0275"),
		MinimumContribution: dec("300"),
		Configured:          true,
	}

	t.Run("minimum applies when the percentage is below it", func(t *testing.T) {
		levy, ok := statutory.HealthLevy(dec("10000"), rates)
		assert.True(t, ok)
		assert.True(t, levy.Equal(dec("300")), "got %s", levy)
	})

	t.Run("percentage applies above the floor", func(t *testing.T) {
		levy, ok := statutory.HealthLevy(dec("40000"), rates)
		assert.True(t, ok)
		assert.True(t, levy.Equal(dec("1100")), "got %s", levy)
	})

	t.Run("zero earnings still pays the floor", func(t *testing.T) {
		levy, ok := statutory.HealthLevy(decimal.Zero, rates)
		assert.True(t, ok)
		assert.True(t, levy.Equal(dec("300")), "got %s", levy)
	})

	t.Run("missing configuration degrades to zero", func(t *testing.T) {
		levy, ok := statutory.HealthLevy(dec("40000"), statutory.HealthLevyRates{})
		assert.False(t, ok)
		assert.True(t, levy.IsZero())
	})
}

func TestHousingLevy(t *testing.T) {
	rates := statutory.HousingLevyRates{
		EmployeeRate: dec("0.015"),
		EmployerRate: dec("0.015"),
		Configured:   true,
	}

	t.Run("both shares computed on gross", func(t *testing.T) {
		levy, ok := statutory.HousingLevy(dec("40000"), rates)
		assert.True(t, ok)
		assert.True(t, levy.Employee.Equal(dec("600")), "got %s", levy.Employee)
		assert.True(t, levy.Employer.Equal(dec("600")), "got %s", levy.Employer)
	})

	t.Run("missing configuration degrades to a zero pair", func(t *testing.T) {
		levy, ok := statutory.HousingLevy(dec("40000"), statutory.HousingLevyRates{})
		assert.False(t, ok)
		assert.True(t, levy.Employee.IsZero())
		assert.True(t, levy.Employer.IsZero())
	})
}

func TestIncomeTax(t *testing.T) {
	relief := dec("2400")

	tests := []struct {
		name      string
		taxable   string
		wantGross string
		wantNet   string
	}{
		{"zero taxable income", "0", "0", "0"},
		{"inside the first band, relief swallows the tax", "20000", "2000", "0"},
		{"two bands consumed", "30000", "3900", "1500"},
		{"all three bands consumed", "50000", "9783.35", "7383.35"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statutory.IncomeTax(dec(tt.taxable), defaultTaxBands(), relief)

			assert.True(t, got.GrossTax.Equal(dec(tt.wantGross)),
				"gross tax: got %s, want %s", got.GrossTax, tt.wantGross)
			assert.True(t, got.NetTax.Equal(dec(tt.wantNet)),
				"net tax: got %s, want %s", got.NetTax, tt.wantNet)
			assert.True(t, got.Relief.Equal(relief))
		})
	}
}

func TestIncomeTax_EmptyBandList(t *testing.T) {
	got := statutory.IncomeTax(dec("30000"), nil, dec("2400"))

	assert.True(t, got.GrossTax.IsZero())
	assert.True(t, got.NetTax.IsZero())
	// Relief is still reported for observability, just never subtracted below zero
	assert.True(t, got.Relief.Equal(dec("2400")))
}

func TestIncomeTax_Monotonic(t *testing.T) {
	bands := defaultTaxBands()
	relief := dec("2400")

	prev := decimal.Zero
	for taxable := decimal.Zero; taxable.LessThanOrEqual(dec("120000")); taxable = taxable.Add(dec("1750")) {
		got := statutory.IncomeTax(taxable, bands, relief)

		assert.True(t, got.GrossTax.GreaterThanOrEqual(prev),
			"gross tax decreased at taxable %s", taxable)
		assert.True(t, got.NetTax.Equal(decimal.Max(got.GrossTax.Sub(relief), decimal.Zero)),
			"net tax is not max(0, gross-relief) at taxable %s", taxable)
		prev = got.GrossTax
	}
}

func TestIncomeTax_NoIntermediateRounding(t *testing.T) {
	// 10001.5 taxable at an awkward rate must keep cents exact through the walk
	bands := []statutory.TaxBand{
		{Width: decPtr("10000"), Rate: dec("0.105")},
		{Width: nil, Rate: dec("0.3335")},
	}

	got := statutory.IncomeTax(dec("10001.5"), bands, decimal.Zero)

	// 10000*0.105 + 1.5*0.3335 = 1050 + 0.50025
	assert.True(t, got.GrossTax.Equal(dec("1050.50025")), "got %s", got.GrossTax)
}

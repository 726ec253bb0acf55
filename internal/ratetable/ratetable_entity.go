package ratetable

import (
	"sort"
	"time"

	"go-payday/internal/statutory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateTable is an immutable statutory-rate snapshot. Versions are append-only
// per company; pay records reference the version they were computed against
// so later rate changes never alter historical figures.
type RateTable struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_company_version,unique" json:"company_id"`
	Version   int       `gorm:"not null;index:idx_company_version,unique" json:"version"`

	SocialSecurityTier1Ceiling decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"social_security_tier1_ceiling"`
	SocialSecurityTier1Rate    decimal.Decimal `gorm:"type:numeric(9,6);not null" json:"social_security_tier1_rate"`
	SocialSecurityTier2Ceiling decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"social_security_tier2_ceiling"`
	SocialSecurityTier2Rate    decimal.Decimal `gorm:"type:numeric(9,6);not null" json:"social_security_tier2_rate"`

	// Nullable: a tenant may not have configured these levies yet. The
	// calculators degrade to zero instead of failing the batch.
	HealthLevyRate    *decimal.Decimal `gorm:"type:numeric(9,6)" json:"health_levy_rate"`
	HealthLevyMinimum *decimal.Decimal `gorm:"type:numeric(14,2)" json:"health_levy_minimum"`

	HousingLevyEmployeeRate *decimal.Decimal `gorm:"type:numeric(9,6)" json:"housing_levy_employee_rate"`
	HousingLevyEmployerRate *decimal.Decimal `gorm:"type:numeric(9,6)" json:"housing_levy_employer_rate"`

	PersonalRelief decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"personal_relief"`

	TaxBands []TaxBand `gorm:"foreignKey:RateTableID" json:"tax_bands"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TaxBand charges Width of taxable income at Rate; the final band of a table
// has a NULL width and absorbs all remaining income.
type TaxBand struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RateTableID uuid.UUID        `gorm:"type:uuid;not null;index" json:"rate_table_id"`
	Ordinal     int              `gorm:"not null" json:"ordinal"`
	Width       *decimal.Decimal `gorm:"type:numeric(14,2)" json:"width"`
	Rate        decimal.Decimal  `gorm:"type:numeric(9,6);not null" json:"rate"`
}

func (rt *RateTable) SocialSecurityRates() statutory.SocialSecurityRates {
	return statutory.SocialSecurityRates{
		Tier1Ceiling: rt.SocialSecurityTier1Ceiling,
		Tier1Rate:    rt.SocialSecurityTier1Rate,
		Tier2Ceiling: rt.SocialSecurityTier2Ceiling,
		Tier2Rate:    rt.SocialSecurityTier2Rate,
	}
}

func (rt *RateTable) HealthLevyRates() statutory.HealthLevyRates {
	if rt.HealthLevyRate == nil || rt.HealthLevyMinimum == nil {
		return statutory.HealthLevyRates{}
	}
	return statutory.HealthLevyRates{
		Rate:                *rt.HealthLevyRate,
		MinimumContribution: *rt.HealthLevyMinimum,
		Configured:          true,
	}
}

func (rt *RateTable) HousingLevyRates() statutory.HousingLevyRates {
	if rt.HousingLevyEmployeeRate == nil || rt.HousingLevyEmployerRate == nil {
		return statutory.HousingLevyRates{}
	}
	return statutory.HousingLevyRates{
		EmployeeRate: *rt.HousingLevyEmployeeRate,
		EmployerRate: *rt.HousingLevyEmployerRate,
		Configured:   true,
	}
}

// Bands returns the tax bands in charging order.
func (rt *RateTable) Bands() []statutory.TaxBand {
	sorted := make([]TaxBand, len(rt.TaxBands))
	copy(sorted, rt.TaxBands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ordinal < sorted[j].Ordinal })

	bands := make([]statutory.TaxBand, len(sorted))
	for i, b := range sorted {
		bands[i] = statutory.TaxBand{Width: b.Width, Rate: b.Rate}
	}
	return bands
}

package ratetable

import "github.com/shopspring/decimal"

type TaxBandInput struct {
	Width *decimal.Decimal `json:"width"`
	Rate  decimal.Decimal  `json:"rate"`
}

type CreateRateTableRequest struct {
	SocialSecurityTier1Ceiling decimal.Decimal `json:"social_security_tier1_ceiling" binding:"required"`
	SocialSecurityTier1Rate    decimal.Decimal `json:"social_security_tier1_rate" binding:"required"`
	SocialSecurityTier2Ceiling decimal.Decimal `json:"social_security_tier2_ceiling" binding:"required"`
	SocialSecurityTier2Rate    decimal.Decimal `json:"social_security_tier2_rate" binding:"required"`

	HealthLevyRate    *decimal.Decimal `json:"health_levy_rate"`
	HealthLevyMinimum *decimal.Decimal `json:"health_levy_minimum"`

	HousingLevyEmployeeRate *decimal.Decimal `json:"housing_levy_employee_rate"`
	HousingLevyEmployerRate *decimal.Decimal `json:"housing_levy_employer_rate"`

	PersonalRelief decimal.Decimal `json:"personal_relief"`

	TaxBands []TaxBandInput `json:"tax_bands"`
}

type TaxBandResponse struct {
	Ordinal int              `json:"ordinal"`
	Width   *decimal.Decimal `json:"width"`
	Rate    decimal.Decimal  `json:"rate"`
}

type RateTableResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Version   int    `json:"version"`

	SocialSecurityTier1Ceiling decimal.Decimal `json:"social_security_tier1_ceiling"`
	SocialSecurityTier1Rate    decimal.Decimal `json:"social_security_tier1_rate"`
	SocialSecurityTier2Ceiling decimal.Decimal `json:"social_security_tier2_ceiling"`
	SocialSecurityTier2Rate    decimal.Decimal `json:"social_security_tier2_rate"`

	HealthLevyRate    *decimal.Decimal `json:"health_levy_rate,omitempty"`
	HealthLevyMinimum *decimal.Decimal `json:"health_levy_minimum,omitempty"`

	HousingLevyEmployeeRate *decimal.Decimal `json:"housing_levy_employee_rate,omitempty"`
	HousingLevyEmployerRate *decimal.Decimal `json:"housing_levy_employer_rate,omitempty"`

	PersonalRelief decimal.Decimal `json:"personal_relief"`

	TaxBands []TaxBandResponse `json:"tax_bands"`

	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

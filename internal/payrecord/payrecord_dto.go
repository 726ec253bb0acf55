package payrecord

import "github.com/shopspring/decimal"

type PayRecordResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Number     string `json:"number"`
	Period     string `json:"period"`

	GradeID            string          `json:"grade_id"`
	RateTableID        string          `json:"rate_table_id"`
	BasicSalary        decimal.Decimal `json:"basic_salary"`
	HouseAllowance     decimal.Decimal `json:"house_allowance"`
	TransportAllowance decimal.Decimal `json:"transport_allowance"`
	HardshipAllowance  decimal.Decimal `json:"hardship_allowance"`
	SpecialAllowance   decimal.Decimal `json:"special_allowance"`
	GrossPay           decimal.Decimal `json:"gross_pay"`

	SocialSecurityEmployee decimal.Decimal `json:"social_security_employee"`
	SocialSecurityEmployer decimal.Decimal `json:"social_security_employer"`
	TaxableIncome          decimal.Decimal `json:"taxable_income"`
	HealthLevy             decimal.Decimal `json:"health_levy"`
	HousingLevyEmployee    decimal.Decimal `json:"housing_levy_employee"`
	HousingLevyEmployer    decimal.Decimal `json:"housing_levy_employer"`
	IncomeTaxGross         decimal.Decimal `json:"income_tax_gross"`
	PersonalRelief         decimal.Decimal `json:"personal_relief"`
	IncomeTax              decimal.Decimal `json:"income_tax"`

	AdvancesRecovered  decimal.Decimal `json:"advances_recovered"`
	DamagesRecovered   decimal.Decimal `json:"damages_recovered"`
	ReimbursementsPaid decimal.Decimal `json:"reimbursements_paid"`

	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`

	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

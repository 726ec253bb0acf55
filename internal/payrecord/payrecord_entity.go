package payrecord

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusApproved        = "APPROVED"
	StatusPaid            = "PAID"
	StatusRejected        = "REJECTED"
	StatusCancelled       = "CANCELLED"
)

// PayRecord is the immutable result of one payroll calculation for one
// employee and one period. The partial unique index on (employee_id,
// period_year, period_month) WHERE status <> 'CANCELLED' (see migrations) is
// the idempotency backstop: a concurrent or retried run hits 23505 instead of
// producing a second record, while a cancelled record stays for audit without
// blocking a re-run. Gorm tags cannot express the predicate, so the entity
// only declares the plain composite index.
type PayRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_employee_period" json:"employee_id"`

	Number      string `gorm:"type:varchar(20);not null" json:"number"`
	PeriodYear  int    `gorm:"not null;index:idx_employee_period" json:"period_year"`
	PeriodMonth int    `gorm:"not null;index:idx_employee_period" json:"period_month"`

	// Snapshot of the inputs the figures were computed from; later grade
	// edits never change what a finalized record says it paid.
	GradeID            uuid.UUID       `gorm:"type:uuid;not null" json:"grade_id"`
	RateTableID        uuid.UUID       `gorm:"type:uuid;not null" json:"rate_table_id"`
	BasicSalary        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"basic_salary"`
	HouseAllowance     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"house_allowance"`
	TransportAllowance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"transport_allowance"`
	HardshipAllowance  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"hardship_allowance"`
	SpecialAllowance   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"special_allowance"`
	GrossPay           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"gross_pay"`

	SocialSecurityEmployee decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"social_security_employee"`
	SocialSecurityEmployer decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"social_security_employer"`
	TaxableIncome          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"taxable_income"`
	HealthLevy             decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"health_levy"`
	HousingLevyEmployee    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"housing_levy_employee"`
	HousingLevyEmployer    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"housing_levy_employer"`
	IncomeTaxGross         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"income_tax_gross"`
	PersonalRelief         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"personal_relief"`
	IncomeTax              decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"income_tax"`

	AdvancesRecovered  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"advances_recovered"`
	DamagesRecovered   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"damages_recovered"`
	ReimbursementsPaid decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"reimbursements_paid"`

	TotalDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_deductions"`
	NetPay          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"net_pay"`

	Status      string    `gorm:"type:varchar(20);not null;default:'PENDING_APPROVAL';index" json:"status"`
	ProcessedBy uuid.UUID `gorm:"type:uuid;not null" json:"processed_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PayRecord) TableName() string {
	return "pay_records"
}

func (p *PayRecord) Period() string {
	return fmt.Sprintf("%04d-%02d", p.PeriodYear, p.PeriodMonth)
}

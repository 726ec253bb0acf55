package obligation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Obligation kinds. Advances and damage charges reduce net pay,
// reimbursements increase it.
const (
	KindAdvance       = "ADVANCE"
	KindDamage        = "DAMAGE"
	KindReimbursement = "REIMBURSEMENT"
)

const (
	StatusPending         = "PENDING"
	StatusApproved        = "APPROVED"
	StatusRejected        = "REJECTED"
	StatusSettled         = "SETTLED"
	StatusSettledManually = "SETTLED_MANUALLY"
)

// Obligation is an open financial claim against or in favor of an employee.
// Only APPROVED obligations are eligible for settlement; a settled row keeps
// the pay record that consumed it and the period string.
type Obligation struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_company_obligation_status" json:"company_id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`

	Kind        string          `gorm:"type:varchar(20);not null;index" json:"kind"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	Status      string          `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_company_obligation_status" json:"status"`

	// Stamped at settlement
	PayRecordID   *uuid.UUID `gorm:"type:uuid;index" json:"pay_record_id,omitempty"`
	SettledPeriod *string    `gorm:"type:varchar(7)" json:"settled_period,omitempty"`

	ApprovedBy *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Obligation) TableName() string {
	return "obligations"
}

func ValidKind(kind string) bool {
	switch kind {
	case KindAdvance, KindDamage, KindReimbursement:
		return true
	}
	return false
}

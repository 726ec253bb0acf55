package grade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompensationGrade carries the basic salary and the fixed set of named
// allowances. Grades referenced by a finalized pay record are never edited in
// place as far as that record is concerned: the run snapshots every figure.
type CompensationGrade struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_company_grade_name,unique" json:"company_id"`
	Name      string    `gorm:"type:varchar(120);not null;index:idx_company_grade_name,unique" json:"name"`

	BasicSalary        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"basic_salary"`
	HouseAllowance     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"house_allowance"`
	TransportAllowance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"transport_allowance"`
	HardshipAllowance  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"hardship_allowance"`
	SpecialAllowance   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"special_allowance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Gross is basic plus every named allowance.
func (g *CompensationGrade) Gross() decimal.Decimal {
	return g.BasicSalary.
		Add(g.HouseAllowance).
		Add(g.TransportAllowance).
		Add(g.HardshipAllowance).
		Add(g.SpecialAllowance)
}

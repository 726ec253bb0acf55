package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Employee is owned by the HR collaborator; the payroll core consumes the
// grade reference and the active flag only.
type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	GradeID   *uuid.UUID `gorm:"type:uuid" json:"grade_id"`
	FullName  string     `gorm:"column:full_name" json:"full_name"`
	Email     string     `gorm:"uniqueIndex" json:"email"`
	Status    string     `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (e *Employee) IsActive() bool {
	return e.Status == StatusActive
}

package grade

import (
	"context"

	"go-payday/internal/tenant"

	"gorm.io/gorm"
)

// Grade CRUD belongs to the HR master-data collaborator; the payroll core
// only reads.
//
//go:generate mockgen -source=grade_repo.go -destination=mock/grade_repo_mock.go -package=mock
type Repository interface {
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*CompensationGrade, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*CompensationGrade, error) {
	var g CompensationGrade
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

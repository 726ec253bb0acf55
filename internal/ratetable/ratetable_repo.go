package ratetable

import (
	"context"
	"errors"

	"go-payday/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=ratetable_repo.go -destination=mock/ratetable_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, table *RateTable) error
	FindCurrentByCompany(ctx context.Context, companyID string) (*RateTable, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*RateTable, error)
	CurrentVersion(ctx context.Context, companyID string) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, table *RateTable) error {
	// Association create runs table + bands in one gorm transaction
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *repository) FindCurrentByCompany(ctx context.Context, companyID string) (*RateTable, error) {
	var table RateTable
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("TaxBands", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordinal ASC")
		}).
		Order("version DESC").
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*RateTable, error) {
	var table RateTable
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("TaxBands", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordinal ASC")
		}).
		First(&table, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *repository) CurrentVersion(ctx context.Context, companyID string) (int, error) {
	var version int
	err := r.db.WithContext(ctx).
		Model(&RateTable{}).
		Scopes(tenant.Scope(companyID)).
		Select("COALESCE(MAX(version), 0)").
		Scan(&version).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	return version, nil
}

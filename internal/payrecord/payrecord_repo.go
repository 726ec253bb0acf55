package payrecord

import (
	"context"
	"database/sql"
	"errors"

	payrecorderrors "go-payday/internal/payrecord/errors"
	"go-payday/internal/tenant"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type QueryFilter struct {
	EmployeeID  string
	PeriodYear  int
	PeriodMonth int
	Status      string
	Page        int
	PerPage     int
}

//go:generate mockgen -source=payrecord_repo.go -destination=mock/payrecord_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *PayRecord) error
	ExistsForPeriod(ctx context.Context, companyID string, employeeID string, year, month int) (bool, error)
	FindAllByCompany(ctx context.Context, companyID string, filter QueryFilter) ([]PayRecord, int64, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayRecord, error)
	UpdateStatus(ctx context.Context, companyID string, id string, from, to string) error
	// MarkCancelled is the compensation step: when obligation settlement
	// fails after the record was committed, the record is voided rather
	// than deleted so the attempt stays auditable.
	MarkCancelled(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

func (r *repository) Create(ctx context.Context, record *PayRecord) error {
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payrecorderrors.ErrDuplicatePeriod
		}
		return err
	}
	return nil
}

func (r *repository) ExistsForPeriod(ctx context.Context, companyID string, employeeID string, year, month int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayRecord{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND period_year = ? AND period_month = ?", employeeID, year, month).
		Where("status <> ?", StatusCancelled).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter QueryFilter) ([]PayRecord, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&PayRecord{}).
		Scopes(tenant.Scope(companyID))

	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.PeriodYear != 0 {
		db = db.Where("period_year = ?", filter.PeriodYear)
	}
	if filter.PeriodMonth != 0 {
		db = db.Where("period_month = ?", filter.PeriodMonth)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PerPage > 0 {
		db = db.Offset((filter.Page - 1) * filter.PerPage).Limit(filter.PerPage)
	}

	var records []PayRecord
	err := db.Order("period_year DESC, period_month DESC, created_at DESC").Find(&records).Error
	return records, total, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayRecord, error) {
	var record PayRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) UpdateStatus(ctx context.Context, companyID string, id string, from, to string) error {
	const query = `
UPDATE pay_records
SET status = $1, updated_at = NOW()
WHERE id = $2 AND company_id = $3 AND status = $4
`
	res, err := r.execer().ExecContext(ctx, query, to, id, companyID, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return payrecorderrors.ErrInvalidTransition
	}
	return nil
}

func (r *repository) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	const query = `
UPDATE pay_records
SET status = $1, updated_at = NOW()
WHERE id = $2
`
	_, err := r.execer().ExecContext(ctx, query, StatusCancelled, id)
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

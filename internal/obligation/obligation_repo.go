package obligation

import (
	"context"
	"database/sql"

	obligationerrors "go-payday/internal/obligation/errors"
	"go-payday/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QueryFilter struct {
	EmployeeID string
	Kind       string
	Status     string
}

//go:generate mockgen -source=obligation_repo.go -destination=mock/obligation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, obligation *Obligation) error
	FindAllByCompany(ctx context.Context, companyID string, filter QueryFilter) ([]Obligation, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Obligation, error)
	ListApprovedByEmployee(ctx context.Context, companyID string, employeeID string, kind string) ([]Obligation, error)
	// Settle flips an APPROVED obligation to SETTLED, stamping the owning pay
	// record and period. It refuses any other starting status so a retried
	// run can never consume the same obligation twice.
	Settle(ctx context.Context, id uuid.UUID, payRecordID uuid.UUID, period string) error
	SettleManually(ctx context.Context, companyID string, id string, period string) error
	UpdateStatus(ctx context.Context, companyID string, id string, from, to string, actorID uuid.UUID) error
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

func (r *repository) Create(ctx context.Context, obligation *Obligation) error {
	return r.db.WithContext(ctx).Create(obligation).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter QueryFilter) ([]Obligation, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC")

	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Kind != "" {
		db = db.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var obligations []Obligation
	err := db.Find(&obligations).Error
	return obligations, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Obligation, error) {
	var obligation Obligation
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&obligation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &obligation, nil
}

func (r *repository) ListApprovedByEmployee(ctx context.Context, companyID string, employeeID string, kind string) ([]Obligation, error) {
	var obligations []Obligation
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("kind = ?", kind).
		Where("status = ?", StatusApproved).
		Order("created_at ASC").
		Find(&obligations).Error
	return obligations, err
}

func (r *repository) Settle(ctx context.Context, id uuid.UUID, payRecordID uuid.UUID, period string) error {
	const query = `
UPDATE obligations
SET status = $1, pay_record_id = $2, settled_period = $3, updated_at = NOW()
WHERE id = $4 AND status = $5
`
	res, err := r.execer().ExecContext(ctx, query, StatusSettled, payRecordID, period, id, StatusApproved)
	if err != nil {
		return err
	}
	return requireOneRow(res, obligationerrors.ErrNotApproved)
}

func (r *repository) SettleManually(ctx context.Context, companyID string, id string, period string) error {
	const query = `
UPDATE obligations
SET status = $1, settled_period = $2, updated_at = NOW()
WHERE id = $3 AND company_id = $4 AND status = $5
`
	res, err := r.execer().ExecContext(ctx, query, StatusSettledManually, period, id, companyID, StatusApproved)
	if err != nil {
		return err
	}
	return requireOneRow(res, obligationerrors.ErrNotApproved)
}

func (r *repository) UpdateStatus(ctx context.Context, companyID string, id string, from, to string, actorID uuid.UUID) error {
	const query = `
UPDATE obligations
SET status = $1, approved_by = $2, approved_at = NOW(), updated_at = NOW()
WHERE id = $3 AND company_id = $4 AND status = $5
`
	res, err := r.execer().ExecContext(ctx, query, to, actorID, id, companyID, from)
	if err != nil {
		return err
	}
	return requireOneRow(res, obligationerrors.ErrNotPending)
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func requireOneRow(res sql.Result, stateErr error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return stateErr
	}
	return nil
}

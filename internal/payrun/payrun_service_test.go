package payrun

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-payday/internal/employee"
	"go-payday/internal/grade"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/obligation"
	"go-payday/internal/payrecord"
	payrecorderrors "go-payday/internal/payrecord/errors"
	payrunerrors "go-payday/internal/payrun/errors"
	"go-payday/internal/ratetable"
	ratetableerrors "go-payday/internal/ratetable/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeEmployeeRepo struct {
	findFn func(ctx context.Context, companyID, id string) (*employee.Employee, error)
	listFn func(ctx context.Context, companyID string) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	return f.findFn(ctx, companyID, id)
}

func (f *fakeEmployeeRepo) ListActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return f.listFn(ctx, companyID)
}

type fakeGradeRepo struct {
	findFn func(ctx context.Context, companyID, id string) (*grade.CompensationGrade, error)
}

func (f *fakeGradeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*grade.CompensationGrade, error) {
	return f.findFn(ctx, companyID, id)
}

type fakePayRecordRepo struct {
	payrecord.Repository
	existsFn    func(ctx context.Context, companyID, employeeID string, year, month int) (bool, error)
	createFn    func(ctx context.Context, record *payrecord.PayRecord) error
	cancelledID *uuid.UUID
}

func (f *fakePayRecordRepo) WithTx(tx *sql.Tx) payrecord.Repository { return f }

func (f *fakePayRecordRepo) ExistsForPeriod(ctx context.Context, companyID, employeeID string, year, month int) (bool, error) {
	return f.existsFn(ctx, companyID, employeeID, year, month)
}

func (f *fakePayRecordRepo) Create(ctx context.Context, record *payrecord.PayRecord) error {
	return f.createFn(ctx, record)
}

func (f *fakePayRecordRepo) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	f.cancelledID = &id
	return nil
}

type fakeObligationRepo struct {
	obligation.Repository
	listFn    func(ctx context.Context, companyID, employeeID, kind string) ([]obligation.Obligation, error)
	settleErr error
	settled   []uuid.UUID
}

func (f *fakeObligationRepo) WithTx(tx *sql.Tx) obligation.Repository { return f }

func (f *fakeObligationRepo) ListApprovedByEmployee(ctx context.Context, companyID, employeeID, kind string) ([]obligation.Obligation, error) {
	return f.listFn(ctx, companyID, employeeID, kind)
}

func (f *fakeObligationRepo) Settle(ctx context.Context, id, payRecordID uuid.UUID, period string) error {
	if f.settleErr != nil {
		return f.settleErr
	}
	f.settled = append(f.settled, id)
	return nil
}

type fakeRateTableService struct {
	ratetable.Service
	currentFn func(ctx context.Context, companyID string) (*ratetable.RateTable, error)
}

func (f *fakeRateTableService) Current(ctx context.Context, companyID string) (*ratetable.RateTable, error) {
	return f.currentFn(ctx, companyID)
}

type fakeCounterRepo struct {
	next int64
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutboxRepo struct {
	kafka.OutboxRepository
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// Standard statutory table: two 6% social security tiers capped at 8k/72k,
// 2.75% health levy floored at 300, 1.5% housing levy both sides, 10/25/30
// percent tax bands and a 2400 personal relief.
func testRateTable(companyID uuid.UUID) *ratetable.RateTable {
	return &ratetable.RateTable{
		ID:                         uuid.New(),
		CompanyID:                  companyID,
		Version:                    1,
		SocialSecurityTier1Ceiling: dec("8000"),
		SocialSecurityTier1Rate:    dec("0.06"),
		SocialSecurityTier2Ceiling: dec("72000"),
		SocialSecurityTier2Rate:    dec("0.06"),
		HealthLevyRate:             decPtr("0.0275"),
		HealthLevyMinimum:          decPtr("300"),
		HousingLevyEmployeeRate:    decPtr("0.015"),
		HousingLevyEmployerRate:    decPtr("0.015"),
		PersonalRelief:             dec("2400"),
		TaxBands: []ratetable.TaxBand{
			{Ordinal: 1, Width: decPtr("24000"), Rate: dec("0.1")},
			{Ordinal: 2, Width: decPtr("8333"), Rate: dec("0.25")},
			{Ordinal: 3, Width: nil, Rate: dec("0.3")},
		},
	}
}

type runFixture struct {
	companyID  uuid.UUID
	employeeID uuid.UUID
	gradeID    uuid.UUID

	db   *sql.DB
	mock sqlmock.Sqlmock

	employees   *fakeEmployeeRepo
	grades      *fakeGradeRepo
	payRecords  *fakePayRecordRepo
	obligations *fakeObligationRepo
	rateTables  *fakeRateTableService
	outbox      *fakeOutboxRepo
}

func newRunFixture(t *testing.T) *runFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &runFixture{
		companyID:  uuid.New(),
		employeeID: uuid.New(),
		gradeID:    uuid.New(),
		db:         db,
		mock:       mock,
	}

	f.employees = &fakeEmployeeRepo{
		listFn: func(ctx context.Context, companyID string) ([]employee.Employee, error) {
			return []employee.Employee{{
				ID:        f.employeeID,
				CompanyID: f.companyID,
				GradeID:   &f.gradeID,
				Status:    employee.StatusActive,
			}}, nil
		},
	}
	f.grades = &fakeGradeRepo{
		findFn: func(ctx context.Context, companyID, id string) (*grade.CompensationGrade, error) {
			return &grade.CompensationGrade{
				ID:                 f.gradeID,
				CompanyID:          f.companyID,
				BasicSalary:        dec("32000"),
				HouseAllowance:     dec("5000"),
				TransportAllowance: dec("3000"),
			}, nil
		},
	}
	f.payRecords = &fakePayRecordRepo{
		existsFn: func(ctx context.Context, companyID, employeeID string, year, month int) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, record *payrecord.PayRecord) error {
			return nil
		},
	}
	f.obligations = &fakeObligationRepo{
		listFn: func(ctx context.Context, companyID, employeeID, kind string) ([]obligation.Obligation, error) {
			return nil, nil
		},
	}
	f.rateTables = &fakeRateTableService{
		currentFn: func(ctx context.Context, companyID string) (*ratetable.RateTable, error) {
			return testRateTable(f.companyID), nil
		},
	}
	f.outbox = &fakeOutboxRepo{}

	return f
}

func (f *runFixture) service() Service {
	return NewService(Config{
		DB:             f.db,
		EmployeeRepo:   f.employees,
		GradeRepo:      f.grades,
		PayRecordRepo:  f.payRecords,
		ObligationRepo: f.obligations,
		RateTables:     f.rateTables,
		CounterRepo:    &fakeCounterRepo{},
		OutboxRepo:     f.outbox,
		WorkerLimit:    1,
	})
}

func TestRunComputesStatutoryFigures(t *testing.T) {
	f := newRunFixture(t)

	advanceID := uuid.New()
	reimbursementID := uuid.New()
	f.obligations.listFn = func(ctx context.Context, companyID, employeeID, kind string) ([]obligation.Obligation, error) {
		switch kind {
		case obligation.KindAdvance:
			return []obligation.Obligation{{ID: advanceID, Amount: dec("1000")}}, nil
		case obligation.KindReimbursement:
			return []obligation.Obligation{{ID: reimbursementID, Amount: dec("500")}}, nil
		}
		return nil, nil
	}

	var created *payrecord.PayRecord
	f.payRecords.createFn = func(ctx context.Context, record *payrecord.PayRecord) error {
		created = record
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service().Run(context.Background(), f.companyID.String(), uuid.New().String(), RunPayrollRequest{
		Period: "2026-03",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 0, resp.Failed)

	require.NotNil(t, created)
	assert.Equal(t, "PAY-2026-0001", created.Number)
	assert.Equal(t, 2026, created.PeriodYear)
	assert.Equal(t, 3, created.PeriodMonth)
	assert.Equal(t, payrecord.StatusPendingApproval, created.Status)

	assert.True(t, created.GrossPay.Equal(dec("40000")), "gross %s", created.GrossPay)
	assert.True(t, created.BasicSalary.Equal(dec("32000")))
	assert.True(t, created.HouseAllowance.Equal(dec("5000")))
	assert.True(t, created.TransportAllowance.Equal(dec("3000")))
	assert.True(t, created.HardshipAllowance.IsZero())
	assert.True(t, created.SpecialAllowance.IsZero())
	assert.True(t, created.SocialSecurityEmployee.Equal(dec("2400")), "ss %s", created.SocialSecurityEmployee)
	assert.True(t, created.SocialSecurityEmployer.Equal(dec("2400")))
	assert.True(t, created.TaxableIncome.Equal(dec("37600")))
	assert.True(t, created.HealthLevy.Equal(dec("1100")), "health %s", created.HealthLevy)
	assert.True(t, created.HousingLevyEmployee.Equal(dec("600")))
	assert.True(t, created.IncomeTaxGross.Equal(dec("6063.35")), "gross tax %s", created.IncomeTaxGross)
	assert.True(t, created.IncomeTax.Equal(dec("3663.35")), "net tax %s", created.IncomeTax)
	assert.True(t, created.AdvancesRecovered.Equal(dec("1000")))
	assert.True(t, created.ReimbursementsPaid.Equal(dec("500")))
	assert.True(t, created.TotalDeductions.Equal(dec("8763.35")), "deductions %s", created.TotalDeductions)
	assert.True(t, created.NetPay.Equal(dec("31736.65")), "net %s", created.NetPay)

	assert.ElementsMatch(t, []uuid.UUID{advanceID, reimbursementID}, f.obligations.settled)
	require.Len(t, f.outbox.created, 1)
	assert.Equal(t, "pay_record", f.outbox.created[0].AggregateType)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRunSkipsAlreadyProcessedEmployee(t *testing.T) {
	f := newRunFixture(t)
	f.payRecords.existsFn = func(ctx context.Context, companyID, employeeID string, year, month int) (bool, error) {
		return true, nil
	}

	resp, err := f.service().Run(context.Background(), f.companyID.String(), uuid.New().String(), RunPayrollRequest{
		Period: "2026-03",
	})

	require.NoError(t, err)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, FailureAlreadyProcessed, resp.Failures[0].Code)
}

func TestRunMapsDuplicateInsertToAlreadyProcessed(t *testing.T) {
	f := newRunFixture(t)
	f.payRecords.createFn = func(ctx context.Context, record *payrecord.PayRecord) error {
		return payrecorderrors.ErrDuplicatePeriod
	}

	resp, err := f.service().Run(context.Background(), f.companyID.String(), uuid.New().String(), RunPayrollRequest{
		Period: "2026-03",
	})

	require.NoError(t, err)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, FailureAlreadyProcessed, resp.Failures[0].Code)
	assert.Nil(t, f.payRecords.cancelledID)
}

func TestRunCancelsRecordWhenSettlementFails(t *testing.T) {
	f := newRunFixture(t)

	f.obligations.listFn = func(ctx context.Context, companyID, employeeID, kind string) ([]obligation.Obligation, error) {
		if kind == obligation.KindAdvance {
			return []obligation.Obligation{{ID: uuid.New(), Amount: dec("1000")}}, nil
		}
		return nil, nil
	}
	f.obligations.settleErr = errors.New("settle guard lost")

	var created *payrecord.PayRecord
	f.payRecords.createFn = func(ctx context.Context, record *payrecord.PayRecord) error {
		created = record
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	resp, err := f.service().Run(context.Background(), f.companyID.String(), uuid.New().String(), RunPayrollRequest{
		Period: "2026-03",
	})

	require.NoError(t, err)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, FailureObligationSettlement, resp.Failures[0].Code)
	assert.Equal(t, 0, resp.Succeeded)

	require.NotNil(t, created)
	require.NotNil(t, f.payRecords.cancelledID)
	assert.Equal(t, created.ID, *f.payRecords.cancelledID)
	assert.Empty(t, f.outbox.created)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRunRejectsIneligibleEmployees(t *testing.T) {
	f := newRunFixture(t)

	inactive := uuid.New()
	gradeless := uuid.New()
	f.employees.listFn = func(ctx context.Context, companyID string) ([]employee.Employee, error) {
		return []employee.Employee{
			{ID: inactive, CompanyID: f.companyID, GradeID: &f.gradeID, Status: employee.StatusInactive},
			{ID: gradeless, CompanyID: f.companyID, Status: employee.StatusActive},
		}, nil
	}

	resp, err := f.service().Run(context.Background(), f.companyID.String(), uuid.New().String(), RunPayrollRequest{
		Period: "2026-03",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Succeeded)
	require.Len(t, resp.Failures, 2)
	for _, failure := range resp.Failures {
		assert.Equal(t, FailureNotEligible, failure.Code)
	}
}

func TestRunWithoutRateTableFailsEveryEmployee(t *testing.T) {
	f := newRunFixture(t)
	f.rateTables.currentFn = func(ctx context.Context, companyID string) (*ratetable.RateTable, error) {
		return nil, ratetableerrors.ErrNoRateTable
	}

	resp, err := f.service().Run(context.Background(), f.companyID.String(), uuid.New().String(), RunPayrollRequest{
		Period: "2026-03",
	})

	require.NoError(t, err)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, FailureMissingRates, resp.Failures[0].Code)
	assert.Equal(t, f.employeeID.String(), resp.Failures[0].EmployeeID)
}

func TestRunZeroEarningsEmployee(t *testing.T) {
	f := newRunFixture(t)
	f.grades.findFn = func(ctx context.Context, companyID, id string) (*grade.CompensationGrade, error) {
		return &grade.CompensationGrade{ID: f.gradeID, CompanyID: f.companyID}, nil
	}

	var created *payrecord.PayRecord
	f.payRecords.createFn = func(ctx context.Context, record *payrecord.PayRecord) error {
		created = record
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service().Run(context.Background(), f.companyID.String(), uuid.New().String(), RunPayrollRequest{
		Period: "2026-03",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	require.NotNil(t, created)
	assert.True(t, created.GrossPay.IsZero())
	assert.True(t, created.SocialSecurityEmployee.IsZero())
	assert.True(t, created.IncomeTax.IsZero())
	// The health levy floor still applies at zero earnings
	assert.True(t, created.HealthLevy.Equal(dec("300")), "health %s", created.HealthLevy)
	assert.True(t, created.TotalDeductions.Equal(dec("300")), "deductions %s", created.TotalDeductions)
	assert.True(t, created.NetPay.Equal(dec("-300")), "net %s", created.NetPay)
}

func TestRunSucceedsAfterCancelledRecord(t *testing.T) {
	f := newRunFixture(t)

	// A prior CANCELLED record leaves the partial unique index free: the
	// pre-check reports no live record and the insert does not collide.
	f.payRecords.existsFn = func(ctx context.Context, companyID, employeeID string, year, month int) (bool, error) {
		return false, nil
	}

	var created *payrecord.PayRecord
	f.payRecords.createFn = func(ctx context.Context, record *payrecord.PayRecord) error {
		created = record
		return nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service().Run(context.Background(), f.companyID.String(), uuid.New().String(), RunPayrollRequest{
		Period: "2026-03",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Empty(t, resp.Failures)
	require.NotNil(t, created)
	assert.Equal(t, payrecord.StatusPendingApproval, created.Status)
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	f := newRunFixture(t)

	createCalled := false
	f.payRecords.createFn = func(ctx context.Context, record *payrecord.PayRecord) error {
		createCalled = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := f.service().Run(ctx, f.companyID.String(), uuid.New().String(), RunPayrollRequest{
		Period: "2026-03",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Succeeded)
	assert.Empty(t, resp.Failures, "unstarted employees must not be reported as failures")
	assert.False(t, createCalled)
}

func TestRunRejectsMalformedPeriod(t *testing.T) {
	f := newRunFixture(t)

	_, err := f.service().Run(context.Background(), f.companyID.String(), uuid.New().String(), RunPayrollRequest{
		Period: "March 2026",
	})

	assert.ErrorIs(t, err, payrunerrors.ErrInvalidPeriod)
}

func TestRunSelectsExplicitEmployees(t *testing.T) {
	f := newRunFixture(t)

	missing := uuid.New()
	f.employees.findFn = func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
		if id == f.employeeID.String() {
			return &employee.Employee{
				ID:        f.employeeID,
				CompanyID: f.companyID,
				GradeID:   &f.gradeID,
				Status:    employee.StatusActive,
			}, nil
		}
		return nil, gorm.ErrRecordNotFound
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service().Run(context.Background(), f.companyID.String(), uuid.New().String(), RunPayrollRequest{
		Period:      "2026-03",
		EmployeeIDs: []string{f.employeeID.String(), missing.String()},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, missing.String(), resp.Failures[0].EmployeeID)
	assert.Equal(t, FailureNotEligible, resp.Failures[0].Code)
}

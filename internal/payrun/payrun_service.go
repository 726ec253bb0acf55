package payrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-payday/internal/employee"
	"go-payday/internal/events"
	"go-payday/internal/grade"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/obligation"
	"go-payday/internal/payrecord"
	payrecorderrors "go-payday/internal/payrecord/errors"
	payrunerrors "go-payday/internal/payrun/errors"
	"go-payday/internal/ratetable"
	ratetableerrors "go-payday/internal/ratetable/errors"
	"go-payday/internal/shared/contextutil"
	"go-payday/internal/shared/counter"
	"go-payday/internal/statutory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultWorkerLimit = 8
	payRecordCounter   = "pay_record"
)

//go:generate mockgen -source=payrun_service.go -destination=mock/payrun_service_mock.go -package=mock
type Service interface {
	Run(ctx context.Context, companyID, actorID string, req RunPayrollRequest) (RunPayrollResponse, error)
}

type service struct {
	db             *sql.DB
	employeeRepo   employee.Repository
	gradeRepo      grade.Repository
	payRecordRepo  payrecord.Repository
	obligationRepo obligation.Repository
	rateTables     ratetable.Service
	counterRepo    counter.Repository
	outboxRepo     kafka.OutboxRepository
	workerLimit    int
	logger         *zap.Logger
}

type Config struct {
	DB             *sql.DB
	EmployeeRepo   employee.Repository
	GradeRepo      grade.Repository
	PayRecordRepo  payrecord.Repository
	ObligationRepo obligation.Repository
	RateTables     ratetable.Service
	CounterRepo    counter.Repository
	OutboxRepo     kafka.OutboxRepository
	WorkerLimit    int
	Logger         *zap.Logger
}

func NewService(cfg Config) Service {
	if cfg.WorkerLimit <= 0 {
		cfg.WorkerLimit = defaultWorkerLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.L().Named("payrun.service")
	}
	return &service{
		db:             cfg.DB,
		employeeRepo:   cfg.EmployeeRepo,
		gradeRepo:      cfg.GradeRepo,
		payRecordRepo:  cfg.PayRecordRepo,
		obligationRepo: cfg.ObligationRepo,
		rateTables:     cfg.RateTables,
		counterRepo:    cfg.CounterRepo,
		outboxRepo:     cfg.OutboxRepo,
		workerLimit:    cfg.WorkerLimit,
		logger:         cfg.Logger,
	}
}

func (s *service) Run(ctx context.Context, companyID, actorID string, req RunPayrollRequest) (RunPayrollResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return RunPayrollResponse{}, payrunerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunPayrollResponse{}, payrunerrors.ErrInvalidActorID
	}

	period, err := time.Parse("2006-01", req.Period)
	if err != nil {
		return RunPayrollResponse{}, payrunerrors.ErrInvalidPeriod
	}
	year, month := period.Year(), int(period.Month())

	employees, preFailures, err := s.resolveEmployees(ctx, companyID, req.EmployeeIDs)
	if err != nil {
		return RunPayrollResponse{}, err
	}
	if len(employees) == 0 && len(preFailures) == 0 {
		return RunPayrollResponse{}, payrunerrors.ErrNoEmployees
	}

	logger := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("company_id", companyID),
		zap.String("period", req.Period),
	)

	resp := RunPayrollResponse{Period: req.Period, Failures: preFailures}

	// One rate table read per run: every employee in the batch is computed
	// against the same version.
	table, err := s.rateTables.Current(ctx, companyID)
	if err != nil {
		if errors.Is(err, ratetableerrors.ErrNoRateTable) {
			for _, emp := range employees {
				resp.Failures = append(resp.Failures, RunFailure{
					EmployeeID: emp.ID.String(),
					Code:       FailureMissingRates,
					Reason:     "no rate table configured for company",
				})
			}
			resp.Failed = len(resp.Failures)
			return resp, nil
		}
		return RunPayrollResponse{}, err
	}

	if !table.HealthLevyRates().Configured {
		logger.Warn("health levy rates not configured, levy skipped for this run")
	}
	if !table.HousingLevyRates().Configured {
		logger.Warn("housing levy rates not configured, levy skipped for this run")
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.workerLimit)

	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			// A cancelled run skips not-yet-started employees outright; they
			// are neither processed nor reported as failures.
			if ctx.Err() != nil {
				return nil
			}

			record, failure := s.processEmployee(ctx, logger, table, &emp, companyID, actorUUID, year, month)

			mu.Lock()
			defer mu.Unlock()
			if failure != nil {
				resp.Failures = append(resp.Failures, *failure)
				return nil
			}
			resp.Processed = append(resp.Processed, payrecord.MapToResponse(*record))
			return nil
		})
	}

	// Workers report per-employee failures through the response, never as an
	// error, so Wait cannot fail here.
	_ = g.Wait()

	resp.Succeeded = len(resp.Processed)
	resp.Failed = len(resp.Failures)

	logger.Info("payroll run finished",
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed),
	)

	return resp, nil
}

func (s *service) resolveEmployees(ctx context.Context, companyID string, ids []string) ([]employee.Employee, []RunFailure, error) {
	if len(ids) == 0 {
		employees, err := s.employeeRepo.ListActiveByCompany(ctx, companyID)
		return employees, nil, err
	}

	var (
		employees []employee.Employee
		failures  []RunFailure
	)
	for _, id := range ids {
		emp, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				failures = append(failures, RunFailure{
					EmployeeID: id,
					Code:       FailureNotEligible,
					Reason:     "employee not found in company",
				})
				continue
			}
			return nil, nil, err
		}
		employees = append(employees, *emp)
	}
	return employees, failures, nil
}

func (s *service) processEmployee(
	ctx context.Context,
	logger *zap.Logger,
	table *ratetable.RateTable,
	emp *employee.Employee,
	companyID string,
	actorID uuid.UUID,
	year, month int,
) (*payrecord.PayRecord, *RunFailure) {
	employeeID := emp.ID.String()
	fail := func(code, reason string) (*payrecord.PayRecord, *RunFailure) {
		return nil, &RunFailure{EmployeeID: employeeID, Code: code, Reason: reason}
	}

	if !emp.IsActive() {
		return fail(FailureNotEligible, "employee is not active")
	}
	if emp.GradeID == nil {
		return fail(FailureNotEligible, "employee has no compensation grade")
	}

	exists, err := s.payRecordRepo.ExistsForPeriod(ctx, companyID, employeeID, year, month)
	if err != nil {
		return fail(FailurePersistence, err.Error())
	}
	if exists {
		return fail(FailureAlreadyProcessed, "pay record already exists for this period")
	}

	compGrade, err := s.gradeRepo.FindByIDAndCompany(ctx, companyID, emp.GradeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(FailureNotEligible, "compensation grade not found")
		}
		return fail(FailurePersistence, err.Error())
	}

	record, toSettle, err := s.buildRecord(ctx, table, emp, compGrade, companyID, actorID, year, month)
	if err != nil {
		return fail(FailurePersistence, err.Error())
	}

	// Phase one: commit the record on its own. The unique period index makes
	// this the point where a concurrent duplicate loses.
	if err := s.payRecordRepo.Create(ctx, record); err != nil {
		if errors.Is(err, payrecorderrors.ErrDuplicatePeriod) {
			return fail(FailureAlreadyProcessed, "pay record already exists for this period")
		}
		return fail(FailurePersistence, err.Error())
	}

	// Phase two: settle obligations and enqueue the event in one transaction.
	// If it fails the record is voided so a retry starts clean.
	if err := s.settleAndPublish(ctx, record, toSettle); err != nil {
		logger.Error("obligation settlement failed, cancelling pay record",
			zap.String("employee_id", employeeID),
			zap.String("pay_record_id", record.ID.String()),
			zap.Error(err),
		)
		if cancelErr := s.payRecordRepo.MarkCancelled(ctx, record.ID); cancelErr != nil {
			logger.Error("compensating cancellation failed",
				zap.String("pay_record_id", record.ID.String()),
				zap.Error(cancelErr),
			)
		}
		return fail(FailureObligationSettlement, err.Error())
	}

	return record, nil
}

func (s *service) buildRecord(
	ctx context.Context,
	table *ratetable.RateTable,
	emp *employee.Employee,
	compGrade *grade.CompensationGrade,
	companyID string,
	actorID uuid.UUID,
	year, month int,
) (*payrecord.PayRecord, []obligation.Obligation, error) {
	gross := compGrade.Gross()

	ss := statutory.SocialSecurity(gross, table.SocialSecurityRates())
	taxable := gross.Sub(ss.Employee)
	health, _ := statutory.HealthLevy(gross, table.HealthLevyRates())
	housing, _ := statutory.HousingLevy(gross, table.HousingLevyRates())
	tax := statutory.IncomeTax(taxable, table.Bands(), table.PersonalRelief)

	advances, err := s.obligationRepo.ListApprovedByEmployee(ctx, companyID, emp.ID.String(), obligation.KindAdvance)
	if err != nil {
		return nil, nil, err
	}
	damages, err := s.obligationRepo.ListApprovedByEmployee(ctx, companyID, emp.ID.String(), obligation.KindDamage)
	if err != nil {
		return nil, nil, err
	}
	reimbursements, err := s.obligationRepo.ListApprovedByEmployee(ctx, companyID, emp.ID.String(), obligation.KindReimbursement)
	if err != nil {
		return nil, nil, err
	}

	advancesSum := sumAmounts(advances)
	damagesSum := sumAmounts(damages)
	reimbursementsSum := sumAmounts(reimbursements)

	totalDeductions := ss.Employee.
		Add(health).
		Add(housing.Employee).
		Add(tax.NetTax).
		Add(advancesSum).
		Add(damagesSum)
	netPay := gross.Sub(totalDeductions).Add(reimbursementsSum)

	seq, err := s.counterRepo.GetNextValue(ctx, companyID, payRecordCounter)
	if err != nil {
		return nil, nil, err
	}

	record := &payrecord.PayRecord{
		ID:                     uuid.New(),
		CompanyID:              emp.CompanyID,
		EmployeeID:             emp.ID,
		Number:                 fmt.Sprintf("PAY-%04d-%04d", year, seq),
		PeriodYear:             year,
		PeriodMonth:            month,
		GradeID:                compGrade.ID,
		RateTableID:            table.ID,
		BasicSalary:            compGrade.BasicSalary,
		HouseAllowance:         compGrade.HouseAllowance,
		TransportAllowance:     compGrade.TransportAllowance,
		HardshipAllowance:      compGrade.HardshipAllowance,
		SpecialAllowance:       compGrade.SpecialAllowance,
		GrossPay:               gross,
		SocialSecurityEmployee: ss.Employee,
		SocialSecurityEmployer: ss.Employer,
		TaxableIncome:          taxable,
		HealthLevy:             health,
		HousingLevyEmployee:    housing.Employee,
		HousingLevyEmployer:    housing.Employer,
		IncomeTaxGross:         tax.GrossTax,
		PersonalRelief:         tax.Relief,
		IncomeTax:              tax.NetTax,
		AdvancesRecovered:      advancesSum,
		DamagesRecovered:       damagesSum,
		ReimbursementsPaid:     reimbursementsSum,
		TotalDeductions:        totalDeductions,
		NetPay:                 netPay,
		Status:                 payrecord.StatusPendingApproval,
		ProcessedBy:            actorID,
	}

	toSettle := make([]obligation.Obligation, 0, len(advances)+len(damages)+len(reimbursements))
	toSettle = append(toSettle, advances...)
	toSettle = append(toSettle, damages...)
	toSettle = append(toSettle, reimbursements...)

	return record, toSettle, nil
}

func (s *service) settleAndPublish(ctx context.Context, record *payrecord.PayRecord, toSettle []obligation.Obligation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	obTx := s.obligationRepo.WithTx(tx)
	for _, o := range toSettle {
		if err := obTx.Settle(ctx, o.ID, record.ID, record.Period()); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(events.PayRecordFinalizedEvent{
		EventType:   events.PayRecordFinalizedTopic,
		PayRecordID: record.ID.String(),
		CompanyID:   record.CompanyID.String(),
		EmployeeID:  record.EmployeeID.String(),
		Period:      record.Period(),
		NetPay:      record.NetPay.String(),
		ProcessedBy: record.ProcessedBy.String(),
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "pay_record",
		AggregateID:   record.ID.String(),
		EventType:     events.PayRecordFinalizedTopic,
		Topic:         events.PayRecordFinalizedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outboxEvent); err != nil {
		return err
	}
	if err := s.outboxRepo.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		return err
	}

	return tx.Commit()
}

func sumAmounts(obligations []obligation.Obligation) decimal.Decimal {
	total := decimal.Zero
	for _, o := range obligations {
		total = total.Add(o.Amount)
	}
	return total
}

package app

import (
	"database/sql"

	"go-payday/internal/employee"
	"go-payday/internal/grade"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/obligation"
	"go-payday/internal/payrecord"
	"go-payday/internal/payrun"
	"go-payday/internal/ratetable"
	"go-payday/internal/shared/counter"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry wires every feature package once; the binaries pick the pieces
// they need from it.
type Registry struct {
	EmployeeRepo employee.Repository
	GradeRepo    grade.Repository
	CounterRepo  counter.Repository
	OutboxRepo   kafka.OutboxRepository

	RateTableService ratetable.Service
	RateTableHandler *ratetable.Handler

	ObligationService obligation.Service
	ObligationHandler *obligation.Handler

	PayRecordService payrecord.Service
	PayRecordHandler *payrecord.Handler

	PayrunService payrun.Service
	PayrunHandler *payrun.Handler
}

func NewRegistry(gormDB *gorm.DB, sqlDB *sql.DB, rdb *redis.Client, logger *zap.Logger) *Registry {
	employeeRepo := employee.NewRepository(gormDB)
	gradeRepo := grade.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	rateTableRepo := ratetable.NewRepository(gormDB)
	rateTableService := ratetable.NewService(rateTableRepo, rdb, logger.Named("ratetable.service"))

	obligationRepo := obligation.NewRepository(gormDB, sqlDB)
	obligationService := obligation.NewService(obligationRepo, employeeRepo, logger.Named("obligation.service"))

	payRecordRepo := payrecord.NewRepository(gormDB, sqlDB)
	payRecordService := payrecord.NewService(payRecordRepo, logger.Named("payrecord.service"))

	payrunService := payrun.NewService(payrun.Config{
		DB:             sqlDB,
		EmployeeRepo:   employeeRepo,
		GradeRepo:      gradeRepo,
		PayRecordRepo:  payRecordRepo,
		ObligationRepo: obligationRepo,
		RateTables:     rateTableService,
		CounterRepo:    counterRepo,
		OutboxRepo:     outboxRepo,
		Logger:         logger.Named("payrun.service"),
	})

	return &Registry{
		EmployeeRepo: employeeRepo,
		GradeRepo:    gradeRepo,
		CounterRepo:  counterRepo,
		OutboxRepo:   outboxRepo,

		RateTableService: rateTableService,
		RateTableHandler: ratetable.NewHandler(rateTableService),

		ObligationService: obligationService,
		ObligationHandler: obligation.NewHandler(obligationService),

		PayRecordService: payRecordService,
		PayRecordHandler: payrecord.NewHandler(payRecordService),

		PayrunService: payrunService,
		PayrunHandler: payrun.NewHandler(payrunService, rdb),
	}
}

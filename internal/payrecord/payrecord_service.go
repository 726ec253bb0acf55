package payrecord

import (
	"context"
	"errors"
	"time"

	payrecorderrors "go-payday/internal/payrecord/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payrecord_service.go -destination=mock/payrecord_service_mock.go -package=mock
type Service interface {
	Approve(ctx context.Context, companyID, actorID string, id string) error
	Reject(ctx context.Context, companyID, actorID string, id string) error
	MarkAsPaid(ctx context.Context, companyID, actorID string, id string) error
	Cancel(ctx context.Context, companyID, actorID string, id string) error
	GetAll(ctx context.Context, companyID string, filter QueryFilter) ([]PayRecordResponse, int64, error)
	GetByID(ctx context.Context, companyID string, id string) (PayRecordResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrecord.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Approve(ctx context.Context, companyID, actorID string, id string) error {
	return s.transition(ctx, companyID, actorID, id, StatusPendingApproval, StatusApproved)
}

func (s *service) Reject(ctx context.Context, companyID, actorID string, id string) error {
	return s.transition(ctx, companyID, actorID, id, StatusPendingApproval, StatusRejected)
}

func (s *service) MarkAsPaid(ctx context.Context, companyID, actorID string, id string) error {
	return s.transition(ctx, companyID, actorID, id, StatusApproved, StatusPaid)
}

// Cancel voids a record that has not been approved yet. Records cancelled by
// the run's own compensation path take the same status without going through
// here.
func (s *service) Cancel(ctx context.Context, companyID, actorID string, id string) error {
	return s.transition(ctx, companyID, actorID, id, StatusPendingApproval, StatusCancelled)
}

func (s *service) transition(ctx context.Context, companyID, actorID, id, from, to string) error {
	if _, err := uuid.Parse(companyID); err != nil {
		return payrecorderrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return payrecorderrors.ErrInvalidActorID
	}

	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return payrecorderrors.ErrPayRecordNotFound
		}
		return err
	}

	if err := s.repo.UpdateStatus(ctx, companyID, id, from, to); err != nil {
		return err
	}

	s.logger.Info("pay record status changed",
		zap.String("pay_record_id", id),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("actor_id", actorID),
	)
	return nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter QueryFilter) ([]PayRecordResponse, int64, error) {
	records, total, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PayRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, MapToResponse(r))
	}
	return responses, total, nil
}

func (s *service) GetByID(ctx context.Context, companyID string, id string) (PayRecordResponse, error) {
	record, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayRecordResponse{}, payrecorderrors.ErrPayRecordNotFound
		}
		return PayRecordResponse{}, err
	}
	return MapToResponse(*record), nil
}

// MapToResponse is shared with the payroll run, which returns freshly
// created records in its response body.
func MapToResponse(r PayRecord) PayRecordResponse {
	return PayRecordResponse{
		ID:                     r.ID.String(),
		EmployeeID:             r.EmployeeID.String(),
		Number:                 r.Number,
		Period:                 r.Period(),
		GradeID:                r.GradeID.String(),
		RateTableID:            r.RateTableID.String(),
		BasicSalary:            r.BasicSalary,
		HouseAllowance:         r.HouseAllowance,
		TransportAllowance:     r.TransportAllowance,
		HardshipAllowance:      r.HardshipAllowance,
		SpecialAllowance:       r.SpecialAllowance,
		GrossPay:               r.GrossPay,
		SocialSecurityEmployee: r.SocialSecurityEmployee,
		SocialSecurityEmployer: r.SocialSecurityEmployer,
		TaxableIncome:          r.TaxableIncome,
		HealthLevy:             r.HealthLevy,
		HousingLevyEmployee:    r.HousingLevyEmployee,
		HousingLevyEmployer:    r.HousingLevyEmployer,
		IncomeTaxGross:         r.IncomeTaxGross,
		PersonalRelief:         r.PersonalRelief,
		IncomeTax:              r.IncomeTax,
		AdvancesRecovered:      r.AdvancesRecovered,
		DamagesRecovered:       r.DamagesRecovered,
		ReimbursementsPaid:     r.ReimbursementsPaid,
		TotalDeductions:        r.TotalDeductions,
		NetPay:                 r.NetPay,
		Status:                 r.Status,
		CreatedAt:              r.CreatedAt.Format(time.RFC3339),
	}
}

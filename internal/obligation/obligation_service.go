package obligation

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go-payday/internal/employee"
	obligationerrors "go-payday/internal/obligation/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

//go:generate mockgen -source=obligation_service.go -destination=mock/obligation_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateObligationRequest) (ObligationResponse, error)
	Approve(ctx context.Context, companyID, actorID string, id string) error
	Reject(ctx context.Context, companyID, actorID string, id string) error
	SettleManually(ctx context.Context, companyID string, id string, req SettleManuallyRequest) error
	GetAll(ctx context.Context, companyID string, filter QueryFilter) ([]ObligationResponse, error)
	GetByID(ctx context.Context, companyID string, id string) (ObligationResponse, error)
}

type service struct {
	repo         Repository
	employeeRepo employee.Repository
	logger       *zap.Logger
}

func NewService(repo Repository, employeeRepo employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("obligation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		repo:         repo,
		employeeRepo: employeeRepo,
		logger:       l,
	}
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	req CreateObligationRequest,
) (ObligationResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ObligationResponse{}, obligationerrors.ErrInvalidCompanyID
	}

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ObligationResponse{}, obligationerrors.ErrInvalidEmployeeID
	}

	if !ValidKind(req.Kind) {
		return ObligationResponse{}, obligationerrors.ErrInvalidKind
	}
	if !req.Amount.IsPositive() {
		return ObligationResponse{}, obligationerrors.ErrNonPositiveAmount
	}

	if _, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ObligationResponse{}, obligationerrors.ErrUnknownEmployee
		}
		return ObligationResponse{}, err
	}

	obligation := &Obligation{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		EmployeeID:  employeeUUID,
		Kind:        req.Kind,
		Amount:      req.Amount,
		Description: req.Description,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, obligation); err != nil {
		return ObligationResponse{}, err
	}

	s.logger.Info("obligation created",
		zap.String("obligation_id", obligation.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("kind", req.Kind),
	)

	return mapToResponse(*obligation), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID string, id string) error {
	return s.transition(ctx, companyID, actorID, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, companyID, actorID string, id string) error {
	return s.transition(ctx, companyID, actorID, id, StatusRejected)
}

func (s *service) transition(ctx context.Context, companyID, actorID, id, to string) error {
	if _, err := uuid.Parse(companyID); err != nil {
		return obligationerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return obligationerrors.ErrInvalidActorID
	}

	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return obligationerrors.ErrObligationNotFound
		}
		return err
	}

	return s.repo.UpdateStatus(ctx, companyID, id, StatusPending, to, actorUUID)
}

func (s *service) SettleManually(ctx context.Context, companyID string, id string, req SettleManuallyRequest) error {
	if _, err := uuid.Parse(companyID); err != nil {
		return obligationerrors.ErrInvalidCompanyID
	}
	if !periodPattern.MatchString(req.Period) {
		return obligationerrors.ErrInvalidPeriod
	}

	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return obligationerrors.ErrObligationNotFound
		}
		return err
	}

	if err := s.repo.SettleManually(ctx, companyID, id, req.Period); err != nil {
		return err
	}

	s.logger.Info("obligation settled manually",
		zap.String("obligation_id", id),
		zap.String("period", req.Period),
	)
	return nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter QueryFilter) ([]ObligationResponse, error) {
	obligations, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ObligationResponse, 0, len(obligations))
	for _, o := range obligations {
		responses = append(responses, mapToResponse(o))
	}
	return responses, nil
}

func (s *service) GetByID(ctx context.Context, companyID string, id string) (ObligationResponse, error) {
	obligation, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ObligationResponse{}, obligationerrors.ErrObligationNotFound
		}
		return ObligationResponse{}, err
	}
	return mapToResponse(*obligation), nil
}

func mapToResponse(o Obligation) ObligationResponse {
	resp := ObligationResponse{
		ID:            o.ID.String(),
		EmployeeID:    o.EmployeeID.String(),
		Kind:          o.Kind,
		Amount:        o.Amount,
		Description:   o.Description,
		Status:        o.Status,
		SettledPeriod: o.SettledPeriod,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	if o.PayRecordID != nil {
		id := o.PayRecordID.String()
		resp.PayRecordID = &id
	}
	return resp
}

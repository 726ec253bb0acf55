package ratetable

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	ratetableerrors "go-payday/internal/ratetable/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	CurrentKeyPrefix = "ratetables:current:"
	currentCacheTTL  = 10 * time.Minute
)

func GetCurrentKey(companyID string) string {
	return CurrentKeyPrefix + companyID
}

//go:generate mockgen -source=ratetable_service.go -destination=mock/ratetable_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateRateTableRequest) (RateTableResponse, error)
	GetCurrent(ctx context.Context, companyID string) (RateTableResponse, error)
	GetByID(ctx context.Context, companyID, id string) (RateTableResponse, error)
	// Current returns the entity itself; the payroll run loads it once per
	// invocation and passes the value into the calculators.
	Current(ctx context.Context, companyID string) (*RateTable, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("ratetable.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	req CreateRateTableRequest,
) (RateTableResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RateTableResponse{}, ratetableerrors.ErrInvalidCompanyID
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RateTableResponse{}, ratetableerrors.ErrInvalidActorID
	}

	if err := validateCreateRequest(req); err != nil {
		return RateTableResponse{}, err
	}

	version, err := s.repo.CurrentVersion(ctx, companyID)
	if err != nil {
		return RateTableResponse{}, err
	}

	table := &RateTable{
		ID:                         uuid.New(),
		CompanyID:                  companyUUID,
		Version:                    version + 1,
		SocialSecurityTier1Ceiling: req.SocialSecurityTier1Ceiling,
		SocialSecurityTier1Rate:    req.SocialSecurityTier1Rate,
		SocialSecurityTier2Ceiling: req.SocialSecurityTier2Ceiling,
		SocialSecurityTier2Rate:    req.SocialSecurityTier2Rate,
		HealthLevyRate:             req.HealthLevyRate,
		HealthLevyMinimum:          req.HealthLevyMinimum,
		HousingLevyEmployeeRate:    req.HousingLevyEmployeeRate,
		HousingLevyEmployerRate:    req.HousingLevyEmployerRate,
		PersonalRelief:             req.PersonalRelief,
		CreatedBy:                  actorUUID,
	}

	for i, band := range req.TaxBands {
		table.TaxBands = append(table.TaxBands, TaxBand{
			ID:          uuid.New(),
			RateTableID: table.ID,
			Ordinal:     i + 1,
			Width:       band.Width,
			Rate:        band.Rate,
		})
	}

	if err := s.repo.Create(ctx, table); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return RateTableResponse{}, ratetableerrors.ErrVersionConflict
		}
		return RateTableResponse{}, err
	}

	// A new version supersedes whatever is cached
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, GetCurrentKey(companyID)).Err(); err != nil {
			s.logger.Warn("invalidate rate table cache failed",
				zap.String("company_id", companyID),
				zap.Error(err),
			)
		}
	}

	return mapToResponse(*table), nil
}

func (s *service) GetCurrent(ctx context.Context, companyID string) (RateTableResponse, error) {
	table, err := s.Current(ctx, companyID)
	if err != nil {
		return RateTableResponse{}, err
	}
	return mapToResponse(*table), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (RateTableResponse, error) {
	table, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RateTableResponse{}, ratetableerrors.ErrRateTableNotFound
		}
		return RateTableResponse{}, err
	}
	return mapToResponse(*table), nil
}

func (s *service) Current(ctx context.Context, companyID string) (*RateTable, error) {
	cacheKey := GetCurrentKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var table RateTable
			if err := json.Unmarshal([]byte(cached), &table); err == nil {
				return &table, nil
			}
		}
	}

	// Collapse concurrent cache misses into a single database read
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		table, err := s.repo.FindCurrentByCompany(ctx, companyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ratetableerrors.ErrNoRateTable
			}
			return nil, err
		}

		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(table); marshalErr == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, currentCacheTTL).Err(); err != nil {
					s.logger.Warn("cache rate table failed",
						zap.String("company_id", companyID),
						zap.Error(err),
					)
				}
			}
		}

		return table, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*RateTable), nil
}

func validateCreateRequest(req CreateRateTableRequest) error {
	amounts := []decimal.Decimal{
		req.SocialSecurityTier1Ceiling, req.SocialSecurityTier1Rate,
		req.SocialSecurityTier2Ceiling, req.SocialSecurityTier2Rate,
		req.PersonalRelief,
	}
	for _, ptr := range []*decimal.Decimal{
		req.HealthLevyRate, req.HealthLevyMinimum,
		req.HousingLevyEmployeeRate, req.HousingLevyEmployerRate,
	} {
		if ptr != nil {
			amounts = append(amounts, *ptr)
		}
	}
	for _, a := range amounts {
		if a.IsNegative() {
			return ratetableerrors.ErrNegativeRate
		}
	}

	for i, band := range req.TaxBands {
		if band.Rate.IsNegative() {
			return ratetableerrors.ErrNegativeRate
		}
		last := i == len(req.TaxBands)-1
		if last {
			if band.Width != nil {
				return ratetableerrors.ErrInvalidBands
			}
			continue
		}
		if band.Width == nil || !band.Width.IsPositive() {
			return ratetableerrors.ErrInvalidBands
		}
	}

	return nil
}

func mapToResponse(table RateTable) RateTableResponse {
	resp := RateTableResponse{
		ID:                         table.ID.String(),
		CompanyID:                  table.CompanyID.String(),
		Version:                    table.Version,
		SocialSecurityTier1Ceiling: table.SocialSecurityTier1Ceiling,
		SocialSecurityTier1Rate:    table.SocialSecurityTier1Rate,
		SocialSecurityTier2Ceiling: table.SocialSecurityTier2Ceiling,
		SocialSecurityTier2Rate:    table.SocialSecurityTier2Rate,
		HealthLevyRate:             table.HealthLevyRate,
		HealthLevyMinimum:          table.HealthLevyMinimum,
		HousingLevyEmployeeRate:    table.HousingLevyEmployeeRate,
		HousingLevyEmployerRate:    table.HousingLevyEmployerRate,
		PersonalRelief:             table.PersonalRelief,
		CreatedBy:                  table.CreatedBy.String(),
		CreatedAt:                  table.CreatedAt.Format(time.RFC3339),
	}

	for _, band := range table.TaxBands {
		resp.TaxBands = append(resp.TaxBands, TaxBandResponse{
			Ordinal: band.Ordinal,
			Width:   band.Width,
			Rate:    band.Rate,
		})
	}

	return resp
}

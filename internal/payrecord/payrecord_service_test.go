package payrecord

import (
	"context"
	"database/sql"
	"testing"

	payrecorderrors "go-payday/internal/payrecord/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayRecordRepo struct {
	Repository
	findByIDFn     func(ctx context.Context, companyID, id string) (*PayRecord, error)
	updateStatusFn func(ctx context.Context, companyID, id, from, to string) error
}

func (f *fakePayRecordRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakePayRecordRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayRecord, error) {
	return f.findByIDFn(ctx, companyID, id)
}

func (f *fakePayRecordRepo) UpdateStatus(ctx context.Context, companyID, id, from, to string) error {
	return f.updateStatusFn(ctx, companyID, id, from, to)
}

func TestPayRecordTransitions(t *testing.T) {
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	recordID := uuid.New()

	repoFor := func(captured *[2]string, guardErr error) Repository {
		return &fakePayRecordRepo{
			findByIDFn: func(ctx context.Context, cID, id string) (*PayRecord, error) {
				return &PayRecord{ID: recordID}, nil
			},
			updateStatusFn: func(ctx context.Context, cID, id, from, to string) error {
				if guardErr != nil {
					return guardErr
				}
				*captured = [2]string{from, to}
				return nil
			},
		}
	}

	t.Run("approve requires pending approval", func(t *testing.T) {
		var captured [2]string
		svc := NewService(repoFor(&captured, nil))

		err := svc.Approve(context.Background(), companyID, actorID, recordID.String())

		assert.NoError(t, err)
		assert.Equal(t, [2]string{StatusPendingApproval, StatusApproved}, captured)
	})

	t.Run("mark as paid requires approved", func(t *testing.T) {
		var captured [2]string
		svc := NewService(repoFor(&captured, nil))

		err := svc.MarkAsPaid(context.Background(), companyID, actorID, recordID.String())

		assert.NoError(t, err)
		assert.Equal(t, [2]string{StatusApproved, StatusPaid}, captured)
	})

	t.Run("reject requires pending approval", func(t *testing.T) {
		var captured [2]string
		svc := NewService(repoFor(&captured, nil))

		err := svc.Reject(context.Background(), companyID, actorID, recordID.String())

		assert.NoError(t, err)
		assert.Equal(t, [2]string{StatusPendingApproval, StatusRejected}, captured)
	})

	t.Run("cancel requires pending approval", func(t *testing.T) {
		var captured [2]string
		svc := NewService(repoFor(&captured, nil))

		err := svc.Cancel(context.Background(), companyID, actorID, recordID.String())

		assert.NoError(t, err)
		assert.Equal(t, [2]string{StatusPendingApproval, StatusCancelled}, captured)
	})

	t.Run("guard failure surfaces invalid transition", func(t *testing.T) {
		var captured [2]string
		svc := NewService(repoFor(&captured, payrecorderrors.ErrInvalidTransition))

		err := svc.MarkAsPaid(context.Background(), companyID, actorID, recordID.String())

		assert.ErrorIs(t, err, payrecorderrors.ErrInvalidTransition)
	})

	t.Run("unknown record", func(t *testing.T) {
		repo := &fakePayRecordRepo{
			findByIDFn: func(ctx context.Context, cID, id string) (*PayRecord, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := NewService(repo)

		err := svc.Approve(context.Background(), companyID, actorID, recordID.String())

		assert.ErrorIs(t, err, payrecorderrors.ErrPayRecordNotFound)
	})
}

func TestPeriodFormatting(t *testing.T) {
	record := PayRecord{PeriodYear: 2026, PeriodMonth: 3}
	assert.Equal(t, "2026-03", record.Period())
}

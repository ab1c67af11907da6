package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/application/usecase"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
)

func pendingCommission(t *testing.T) model.Commission {
	t.Helper()
	c, err := model.NewCommission(
		"deal-001", "dealer-001", valueobject.CommissionRoleDealer,
		decimal.NewFromInt(1500), decimal.RequireFromString("5.0"), "CAD", testInstant,
	)
	require.NoError(t, err)
	return c.ClearEvents()
}

func TestUpdateCommissionStatus_Execute(t *testing.T) {
	newUC := func(repo *mockCommissionRepository) *usecase.UpdateCommissionStatusUseCase {
		return usecase.NewUpdateCommissionStatusUseCase(repo, &mockEventPublisher{}, clock.Fixed{Instant: testInstant})
	}

	t.Run("approves a pending commission", func(t *testing.T) {
		c := pendingCommission(t)
		repo := &mockCommissionRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Commission, error) {
				return c, nil
			},
		}
		uc := newUC(repo)

		resp, err := uc.Execute(context.Background(), dto.UpdateCommissionStatusRequest{
			CommissionID: c.ID(), Status: "APPROVED",
		})

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		require.NotNil(t, resp.ApprovedAt)
		require.Len(t, repo.savedCommissions, 1)
	})

	t.Run("rejects paid before approved", func(t *testing.T) {
		c := pendingCommission(t)
		repo := &mockCommissionRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Commission, error) {
				return c, nil
			},
		}
		uc := newUC(repo)

		_, err := uc.Execute(context.Background(), dto.UpdateCommissionStatusRequest{
			CommissionID: c.ID(), Status: "PAID",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})

	t.Run("cancels a non-terminal commission", func(t *testing.T) {
		c := pendingCommission(t)
		repo := &mockCommissionRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Commission, error) {
				return c, nil
			},
		}
		uc := newUC(repo)

		resp, err := uc.Execute(context.Background(), dto.UpdateCommissionStatusRequest{
			CommissionID: c.ID(), Status: "CANCELLED",
		})

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
	})

	t.Run("rejects a backtransition to pending", func(t *testing.T) {
		c := pendingCommission(t)
		repo := &mockCommissionRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Commission, error) {
				return c, nil
			},
		}
		uc := newUC(repo)

		_, err := uc.Execute(context.Background(), dto.UpdateCommissionStatusRequest{
			CommissionID: c.ID(), Status: "PENDING",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})
}

func TestUpdateCommissionStatus_AutoApprove(t *testing.T) {
	t.Run("approves every stale pending commission", func(t *testing.T) {
		stale := []model.Commission{pendingCommission(t), pendingCommission(t)}
		repo := &mockCommissionRepository{
			findPendingFunc: func(ctx context.Context, days int) ([]model.Commission, error) {
				assert.Equal(t, 7, days)
				return stale, nil
			},
		}
		uc := usecase.NewUpdateCommissionStatusUseCase(repo, &mockEventPublisher{}, clock.Fixed{Instant: testInstant.Add(8 * 24 * time.Hour)})

		approved, err := uc.AutoApprove(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, approved)
		require.Len(t, repo.savedCommissions, 2)
		for _, c := range repo.savedCommissions {
			assert.Equal(t, "APPROVED", c.Status().String())
		}
	})
}

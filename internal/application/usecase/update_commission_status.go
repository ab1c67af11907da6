package usecase

import (
	"context"
	"fmt"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
)

// autoApproveAfterDays is how long a commission sits pending before the
// sweep approves it without admin action.
const autoApproveAfterDays = 7

// UpdateCommissionStatusUseCase transitions a single commission. Status
// moves are monotonic; the aggregate enforces the legal edges.
type UpdateCommissionStatusUseCase struct {
	commissionRepo port.CommissionRepository
	publisher      port.EventPublisher
	clk            clock.Clock
}

// NewUpdateCommissionStatusUseCase wires dependencies.
func NewUpdateCommissionStatusUseCase(
	commissionRepo port.CommissionRepository,
	publisher port.EventPublisher,
	clk clock.Clock,
) *UpdateCommissionStatusUseCase {
	return &UpdateCommissionStatusUseCase{
		commissionRepo: commissionRepo,
		publisher:      publisher,
		clk:            clk,
	}
}

// Execute applies the requested transition.
func (uc *UpdateCommissionStatusUseCase) Execute(
	ctx context.Context,
	req dto.UpdateCommissionStatusRequest,
) (dto.CommissionResponse, error) {
	now := uc.clk.Now()

	// 1. Parse the target status.
	next, err := valueobject.NewCommissionStatus(req.Status)
	if err != nil {
		return dto.CommissionResponse{}, fmt.Errorf("%w: %v", valueobject.ErrPreconditionViolated, err)
	}

	// 2. Load and transition.
	commission, err := uc.commissionRepo.FindByID(ctx, req.CommissionID)
	if err != nil {
		return dto.CommissionResponse{}, fmt.Errorf("find commission: %w", err)
	}

	switch {
	case next.Equal(valueobject.CommissionStatusApproved):
		commission, err = commission.Approve(now)
	case next.Equal(valueobject.CommissionStatusPaid):
		commission, err = commission.MarkPaid(now)
	case next.Equal(valueobject.CommissionStatusCancelled):
		commission, err = commission.Cancel(now)
	default:
		err = fmt.Errorf("%w: cannot transition to %s", valueobject.ErrInvalidStatusTransition, next)
	}
	if err != nil {
		return dto.CommissionResponse{}, err
	}

	// 3. Persist and publish.
	if err := uc.commissionRepo.Save(ctx, commission); err != nil {
		return dto.CommissionResponse{}, fmt.Errorf("save commission: %w", err)
	}
	if err := uc.publisher.Publish(ctx, commission.DomainEvents()...); err != nil {
		return dto.CommissionResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toCommissionResponse(commission), nil
}

// AutoApprove is the scheduled sweep: every commission pending for seven or
// more days is approved. Returns how many rows were approved; a row that
// fails to save stops the sweep.
func (uc *UpdateCommissionStatusUseCase) AutoApprove(ctx context.Context) (int, error) {
	now := uc.clk.Now()

	stale, err := uc.commissionRepo.FindPendingOlderThan(ctx, autoApproveAfterDays)
	if err != nil {
		return 0, fmt.Errorf("find stale commissions: %w", err)
	}

	approved := 0
	for _, commission := range stale {
		updated, err := commission.Approve(now)
		if err != nil {
			// Raced with an admin transition; skip the row.
			continue
		}
		if err := uc.commissionRepo.Save(ctx, updated); err != nil {
			return approved, fmt.Errorf("save commission %s: %w", commission.ID(), err)
		}
		approved++
	}
	return approved, nil
}

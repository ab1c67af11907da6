package usecase

import (
	"context"
	"fmt"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
)

// AttachScheduleUseCase attaches a milestone payment schedule to a deal's
// financial terms. An empty milestone list selects the standard five-step
// export split.
type AttachScheduleUseCase struct {
	termsRepo port.FinancialTermsRepository
	publisher port.EventPublisher
	clk       clock.Clock
}

// NewAttachScheduleUseCase wires dependencies.
func NewAttachScheduleUseCase(
	termsRepo port.FinancialTermsRepository,
	publisher port.EventPublisher,
	clk clock.Clock,
) *AttachScheduleUseCase {
	return &AttachScheduleUseCase{
		termsRepo: termsRepo,
		publisher: publisher,
		clk:       clk,
	}
}

// Execute validates the spec, builds the milestones and persists the terms.
func (uc *AttachScheduleUseCase) Execute(
	ctx context.Context,
	req dto.AttachScheduleRequest,
) (dto.TermsResponse, error) {
	now := uc.clk.Now()

	// 1. Load the terms.
	terms, err := uc.termsRepo.FindByDealID(ctx, req.DealID)
	if err != nil {
		return dto.TermsResponse{}, fmt.Errorf("find terms: %w", err)
	}

	// 2. Resolve the schedule spec.
	spec, err := scheduleSpecFromRequest(req.Milestones)
	if err != nil {
		return dto.TermsResponse{}, err
	}

	// 3. Attach.
	terms, err = terms.AttachSchedule(spec, now)
	if err != nil {
		return dto.TermsResponse{}, fmt.Errorf("attach schedule: %w", err)
	}

	// 4. Persist and publish.
	if err := uc.termsRepo.Save(ctx, terms); err != nil {
		return dto.TermsResponse{}, fmt.Errorf("save terms: %w", err)
	}
	if err := uc.publisher.Publish(ctx, terms.DomainEvents()...); err != nil {
		return dto.TermsResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toTermsResponse(terms), nil
}

func scheduleSpecFromRequest(rows []dto.MilestoneSpecRequest) (valueobject.ScheduleSpec, error) {
	if len(rows) == 0 {
		return valueobject.StandardSchedule(), nil
	}

	specs := make([]valueobject.MilestoneSpec, 0, len(rows))
	for _, r := range rows {
		mt, err := valueobject.NewMilestoneType(r.Type)
		if err != nil {
			return valueobject.ScheduleSpec{}, fmt.Errorf("%w: %v", valueobject.ErrInvariantBroken, err)
		}
		specs = append(specs, valueobject.MilestoneSpec{
			Type:           mt,
			Name:           r.Name,
			Description:    r.Description,
			Sequence:       r.Sequence,
			PercentOfTotal: r.PercentOfTotal,
			DaysFromNow:    r.DaysFromNow,
		})
	}
	return valueobject.ScheduleSpec{Milestones: specs}, nil
}

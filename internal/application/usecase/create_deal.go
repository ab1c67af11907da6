package usecase

import (
	"context"
	"fmt"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/model"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
)

// CreateDealUseCase opens a new deal in its initial lifecycle state.
type CreateDealUseCase struct {
	dealRepo  port.DealRepository
	publisher port.EventPublisher
	clk       clock.Clock
}

// NewCreateDealUseCase wires dependencies.
func NewCreateDealUseCase(
	dealRepo port.DealRepository,
	publisher port.EventPublisher,
	clk clock.Clock,
) *CreateDealUseCase {
	return &CreateDealUseCase{
		dealRepo:  dealRepo,
		publisher: publisher,
		clk:       clk,
	}
}

// Execute creates and persists the deal.
func (uc *CreateDealUseCase) Execute(
	ctx context.Context,
	req dto.CreateDealRequest,
) (dto.DealResponse, error) {
	now := uc.clk.Now()

	// 1. Build the aggregate.
	deal, err := model.NewDeal(
		req.BuyerID, req.DealerID, req.BrokerID, req.VehicleID,
		req.AgreedPrice, req.Currency, req.PaymentMethod, now,
	)
	if err != nil {
		return dto.DealResponse{}, fmt.Errorf("new deal: %w", err)
	}

	// 2. Persist.
	if err := uc.dealRepo.Save(ctx, deal); err != nil {
		return dto.DealResponse{}, fmt.Errorf("save deal: %w", err)
	}

	// 3. Publish events.
	if err := uc.publisher.Publish(ctx, deal.DomainEvents()...); err != nil {
		return dto.DealResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toDealResponse(deal), nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/port"
)

// ResetPeriodsUseCase is the period-boundary job contract. ResetMonthly
// zeroes every broker's monthly counters; ResetQuarterly rolls every
// dealer's quarterly window. The scheduler invokes these at the first
// instant of each month and quarter.
type ResetPeriodsUseCase struct {
	brokerTiers port.BrokerTierRepository
	dealerTiers port.DealerTierRepository
}

// NewResetPeriodsUseCase wires dependencies.
func NewResetPeriodsUseCase(
	brokerTiers port.BrokerTierRepository,
	dealerTiers port.DealerTierRepository,
) *ResetPeriodsUseCase {
	return &ResetPeriodsUseCase{
		brokerTiers: brokerTiers,
		dealerTiers: dealerTiers,
	}
}

// ResetMonthly zeroes broker monthly counters and recomputes tiers.
func (uc *ResetPeriodsUseCase) ResetMonthly(ctx context.Context) (dto.ResetPeriodsResponse, error) {
	n, err := uc.brokerTiers.ResetMonthly(ctx)
	if err != nil {
		return dto.ResetPeriodsResponse{}, fmt.Errorf("reset broker tiers: %w", err)
	}
	return dto.ResetPeriodsResponse{BrokersReset: n}, nil
}

// ResetQuarterly rolls dealer quarterly counters and recomputes tiers.
func (uc *ResetPeriodsUseCase) ResetQuarterly(ctx context.Context) (dto.ResetPeriodsResponse, error) {
	n, err := uc.dealerTiers.ResetQuarterly(ctx)
	if err != nil {
		return dto.ResetPeriodsResponse{}, fmt.Errorf("reset dealer tiers: %w", err)
	}
	return dto.ResetPeriodsResponse{DealersReset: n}, nil
}

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/usecase"
	"github.com/anungis437/nzila-eexports-sub001/pkg/clock"
)

// Scheduler runs the periodic maintenance jobs: the daily commission
// auto-approval sweep, the monthly broker tier reset, and the quarterly
// dealer tier reset. It checks boundaries on an hourly tick; each job is
// idempotent, so a missed tick simply runs on the next one.
type Scheduler struct {
	commissions *usecase.UpdateCommissionStatusUseCase
	resets      *usecase.ResetPeriodsUseCase
	clk         clock.Clock
	logger      *slog.Logger

	interval time.Duration
	lastDay  time.Time
	lastMon  time.Month
	lastQtr  int
}

// New creates a scheduler over the given jobs.
func New(
	commissions *usecase.UpdateCommissionStatusUseCase,
	resets *usecase.ResetPeriodsUseCase,
	clk clock.Clock,
	logger *slog.Logger,
) *Scheduler {
	now := clk.Now()
	return &Scheduler{
		commissions: commissions,
		resets:      resets,
		clk:         clk,
		logger:      logger,
		interval:    time.Hour,
		lastDay:     clk.Today(),
		lastMon:     now.Month(),
		lastQtr:     quarterOf(now.Month()),
	}
}

// Run ticks until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler starting", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.clk.Now()
	today := s.clk.Today()

	if today.After(s.lastDay) {
		s.lastDay = today
		if n, err := s.commissions.AutoApprove(ctx); err != nil {
			s.logger.Error("commission auto-approval sweep failed", "error", err)
		} else if n > 0 {
			s.logger.Info("commissions auto-approved", "count", n)
		}
	}

	if now.Month() != s.lastMon {
		s.lastMon = now.Month()
		if resp, err := s.resets.ResetMonthly(ctx); err != nil {
			s.logger.Error("monthly broker tier reset failed", "error", err)
		} else {
			s.logger.Info("broker tiers reset", "count", resp.BrokersReset)
		}
	}

	if q := quarterOf(now.Month()); q != s.lastQtr {
		s.lastQtr = q
		if resp, err := s.resets.ResetQuarterly(ctx); err != nil {
			s.logger.Error("quarterly dealer tier reset failed", "error", err)
		} else {
			s.logger.Info("dealer tiers reset", "count", resp.DealersReset)
		}
	}
}

func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}

// Package jobs runs the background schedules the wallet service needs.
package jobs

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
	"github.com/robfig/cron/v3"
)

const sweepTimeout = 30 * time.Second

// Sweeper periodically reverts expired unclaimed pending funds to their
// senders.
type Sweeper struct {
	cron         *cron.Cron
	pendingFunds portssvc.PendingFundSvcFacade
	schedule     string
	logger       *slog.Logger
}

// NewSweeper creates the sweeper with a panic-recovering cron runner.
func NewSweeper(pendingFunds portssvc.PendingFundSvcFacade, schedule string, logger *slog.Logger) *Sweeper {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))
	return &Sweeper{
		cron:         c,
		pendingFunds: pendingFunds,
		schedule:     schedule,
		logger:       logger,
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("pending fund sweeper started", slog.String("schedule", s.schedule))
	return nil
}

// Stop gracefully stops the scheduler and returns once running jobs finish.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	reverted, err := s.pendingFunds.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("pending fund sweep failed", slog.String("error", err.Error()))
		return
	}
	if reverted > 0 {
		s.logger.Info("pending fund sweep completed", slog.Int("reverted", reverted))
	}
}

/**
 * @description
 * Cron scheduler for the recurring reminder sweep.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the periodic reminder sweep.
type Scheduler struct {
	cron     *cron.Cron
	sweeper  *Sweeper
	logger   *slog.Logger
	schedule string
}

// NewScheduler creates a new scheduler instance. SkipIfStillRunning guarantees
// a sweep runs to completion before the next trigger may fire.
func NewScheduler(sweeper *Sweeper, logger *slog.Logger, schedule string) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger),
		cron.Recover(cronLogger),
	))

	return &Scheduler{
		cron:     c,
		sweeper:  sweeper,
		logger:   logger,
		schedule: schedule,
	}
}

// Start registers the sweep job and starts the cron scheduler. An invalid
// schedule is a configuration error and is returned to the caller.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.sweeper.Run(ctx); err != nil {
			s.logger.Error("scheduled reminder sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduled reminder sweep", "schedule", s.schedule)
	return nil
}

// Stop gracefully stops the cron scheduler. The returned context is done once
// any in-flight sweep has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

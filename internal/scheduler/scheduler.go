// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the console's periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts standard five-field expressions and descriptors
// such as "@every 1m".
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule validates a cron schedule expression.
func ValidateSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// Scheduler handles periodic jobs. Jobs receive a context that is
// canceled when the scheduler stops.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(scheduleParser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job under name. A run still in progress when the next
// one is due causes that next run to be skipped.
func (s *Scheduler) Add(name, schedule string, job func(context.Context)) error {
	if err := ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}
	_, err := s.cron.AddFunc(schedule, func() {
		if s.ctx.Err() != nil {
			return
		}
		s.logger.Debug("running scheduled job", "job", name)
		job(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("adding job %s: %w", name, err)
	}
	return nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", s.Jobs())
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

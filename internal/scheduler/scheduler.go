// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/firmsite/internal/model"
)

// DefaultRetentionSchedule prunes the event log daily at 03:15.
const DefaultRetentionSchedule = "15 3 * * *"

// jobTimeout bounds a single maintenance run.
const jobTimeout = 5 * time.Minute

// EventPruner deletes event log entries older than a duration.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Scheduler handles scheduled maintenance tasks like event log retention.
type Scheduler struct {
	cron      *cron.Cron
	events    EventPruner
	retention time.Duration
	schedule  string
	logger    *slog.Logger
}

// New creates a new scheduler that keeps retentionDays of events.
// A non-positive retention disables pruning.
func New(events EventPruner, retentionDays int, logger *slog.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		events:    events,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		schedule:  DefaultRetentionSchedule,
		logger:    logger,
	}
}

// Start registers the jobs and begins running them.
func (s *Scheduler) Start() error {
	if s.retention > 0 && s.events != nil {
		if _, err := s.cron.AddFunc(s.schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if _, err := s.PruneEvents(ctx); err != nil {
				s.logger.Error("failed to prune event log", "error", err, "category", model.EventCategorySystem)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PruneEvents deletes events past the retention window and reports how many
// were removed.
func (s *Scheduler) PruneEvents(ctx context.Context) (int64, error) {
	if s.retention <= 0 || s.events == nil {
		return 0, errors.New("event retention disabled")
	}
	n, err := s.events.DeleteOldEvents(ctx, s.retention)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned event log", "deleted", n, "retention", s.retention.String(), "category", model.EventCategorySystem)
	}
	return n, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}

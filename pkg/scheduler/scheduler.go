// Package scheduler runs the periodic maintenance sweeps: materializing due
// recurring transactions, retrying recent transient failures, and pruning old
// audit logs.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/finvault/finvault/pkg/config"
	"github.com/finvault/finvault/pkg/repository"
	"github.com/finvault/finvault/pkg/service/processor"
	"github.com/finvault/finvault/pkg/service/recurring"
)

// Scheduler owns the background sweep goroutine.
type Scheduler struct {
	cfg       *config.Scheduler
	uow       repository.UnitOfWork
	recurring *recurring.Service
	processor *processor.Service
	logger    *slog.Logger

	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a scheduler. Call Start to begin sweeping.
func New(cfg *config.Scheduler, uow repository.UnitOfWork, rec *recurring.Service, proc *processor.Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		uow:       uow,
		recurring: rec,
		processor: proc,
		logger:    logger,
		stop:      make(chan struct{}),
	}
}

// Start launches the sweep loop. It returns immediately; Stop shuts the loop
// down and waits for an in-flight sweep to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
	s.logger.Info("scheduler started",
		"sweep_interval", s.cfg.SweepInterval,
		"retry_interval", s.cfg.RetryInterval,
		"cleanup_interval", s.cfg.CleanupInterval,
	)
}

// Stop terminates the loop and blocks until it has exited.
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	sweep := time.NewTicker(s.cfg.SweepInterval)
	retry := time.NewTicker(s.cfg.RetryInterval)
	cleanup := time.NewTicker(s.cfg.CleanupInterval)
	defer sweep.Stop()
	defer retry.Stop()
	defer cleanup.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-sweep.C:
			s.SweepRecurring(ctx)
		case <-retry.C:
			s.RetryFailed(ctx)
		case <-cleanup.C:
			s.CleanupLogs(ctx)
		}
	}
}

// SweepRecurring executes every due recurring definition once.
func (s *Scheduler) SweepRecurring(ctx context.Context) {
	result, err := s.recurring.ExecuteDue(ctx, time.Now(), 0)
	if err != nil {
		s.logger.Error("recurring sweep failed", "error", err)
		return
	}
	if result.Total > 0 {
		s.logger.Info("recurring sweep done",
			"total", result.Total, "processed", result.Processed, "failed", result.Failed)
	}
}

// RetryFailed re-processes recent transient failures, bounded per pass.
func (s *Scheduler) RetryFailed(ctx context.Context) {
	since := time.Now().Add(-s.cfg.RetryWindow)
	retried, err := s.processor.RetryFailed(ctx, since, s.cfg.RetryBatchSize)
	if err != nil {
		s.logger.Error("retry pass failed", "error", err)
		return
	}
	if retried > 0 {
		s.logger.Info("retry pass done", "retried", retried)
	}
}

// CleanupLogs prunes transaction logs older than the retention window.
func (s *Scheduler) CleanupLogs(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.LogRetention)
	deleted, err := s.uow.TransactionLogs().DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("log cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("log cleanup done", "deleted", deleted, "cutoff", cutoff)
	}
}

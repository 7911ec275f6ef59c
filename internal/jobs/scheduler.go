package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/config"
)

// Scheduler drives the periodic scans: expansion and dispatch on every scan
// tick, cleanup on its own slower cadence. A deployment runs one scheduler;
// the queues fan work out to however many workers consume them.
type Scheduler struct {
	expansion *ExpansionJob
	dispatch  *DispatchJob
	cleanup   *CleanupJob

	scanInterval    time.Duration
	cleanupInterval time.Duration
	logger          *zap.Logger
}

func NewScheduler(expansion *ExpansionJob, dispatch *DispatchJob, cleanup *CleanupJob, cfg *config.Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		expansion:       expansion,
		dispatch:        dispatch,
		cleanup:         cleanup,
		scanInterval:    cfg.ScanInterval,
		cleanupInterval: cfg.CleanupInterval,
		logger:          logger,
	}
}

// Start blocks running the periodic scans until ctx is cancelled. An initial
// scan runs immediately so a restart catches up without waiting a full tick.
func (s *Scheduler) Start(ctx context.Context) error {
	scanTicker := time.NewTicker(s.scanInterval)
	defer scanTicker.Stop()
	cleanupTicker := time.NewTicker(s.cleanupInterval)
	defer cleanupTicker.Stop()

	s.logger.Info("scheduler started",
		zap.Duration("scan_interval", s.scanInterval),
		zap.Duration("cleanup_interval", s.cleanupInterval))

	s.runScan(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-scanTicker.C:
			s.runScan(ctx)
		case <-cleanupTicker.C:
			s.runCleanup(ctx)
		}
	}
}

// runScan expands templates first so fresh occurrences can be dispatched in
// the same tick.
func (s *Scheduler) runScan(ctx context.Context) {
	if _, err := s.expansion.ProcessDueTemplates(ctx); err != nil {
		s.logger.Error("expansion scan failed", zap.Error(err))
	}
	if _, err := s.dispatch.ProcessDueReminders(ctx); err != nil {
		s.logger.Error("dispatch scan failed", zap.Error(err))
	}
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	if _, err := s.cleanup.ProcessExpired(ctx); err != nil {
		s.logger.Error("cleanup failed", zap.Error(err))
	}
}

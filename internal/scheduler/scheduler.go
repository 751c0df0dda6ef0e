package scheduler

import (
	"context"
	"log/slog"
	"time"

	"video_notifier/internal/domain"
	"video_notifier/internal/shutdown"
)

// Cycler defines the interface for a single poll cycle.
type Cycler interface {
	Cycle(ctx context.Context) domain.CycleResult
}

// Scheduler drives a Cycler until the shutdown signal is raised. The
// signal is checked before every cycle and wakes the inter-cycle wait.
// An in-flight cycle is never interrupted.
type Scheduler struct {
	cycler   Cycler
	interval time.Duration
	stop     *shutdown.Signal
	logger   *slog.Logger
}

func NewScheduler(cycler Cycler, interval time.Duration, stop *shutdown.Signal, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cycler:   cycler,
		interval: interval,
		stop:     stop,
		logger:   logger,
	}
}

// Run returns only once the shutdown signal has been observed.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started", "interval", s.interval)

	for {
		if s.stop.IsSet() {
			s.logger.Info("scheduler stopped")
			return
		}

		s.runCycle(ctx)

		if !s.wait() {
			s.logger.Info("scheduler stopped during wait")
			return
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	result := s.cycler.Cycle(ctx)
	if result.Err != nil {
		s.logger.Error("cycle failed",
			"item_id", result.ItemID,
			"duration", result.Duration,
			"error", result.Err,
		)
	}
}

// wait blocks for one interval. It reports false if the signal fired.
func (s *Scheduler) wait() bool {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	select {
	case <-s.stop.Done():
		return false
	case <-timer.C:
		return true
	}
}

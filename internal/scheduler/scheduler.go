package scheduler

import (
	"context"
	"log/slog"
	"time"

	"deal_poster/internal/domain"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context) *domain.RunResult
}

// Scheduler triggers pipeline runs on a fixed interval. Runs execute on
// the scheduler goroutine, so at most one run is ever active; concurrent
// runs could double-publish.
type Scheduler struct {
	runner     Runner
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
}

func NewScheduler(runner Runner, interval, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	backoff := s.run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			if backoff {
				s.logger.Warn("skipping tick after rate limit")
				backoff = false
				continue
			}
			backoff = s.run(ctx)
		}
	}
}

// run executes one pipeline invocation and reports whether the next tick
// should be skipped to let the publisher's rate limit clear.
func (s *Scheduler) run(ctx context.Context) bool {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	result := s.runner.Run(runCtx)

	switch result.Outcome {
	case domain.OutcomeRateLimited:
		return true
	case domain.OutcomeFatal:
		s.logger.Error("run failed", "error", result.Err)
	}
	return false
}

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amishk599/autoapply/internal/model"
)

// Runner runs one complete application session.
type Runner interface {
	RunSession(ctx context.Context) error
}

// RunnerFunc adapts a plain function to a Runner.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) RunSession(ctx context.Context) error { return f(ctx) }

// Scheduler owns the watch loop: it runs one session immediately, then one
// more each time the interval elapses after the previous session ended.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that reruns the session at the given interval.
func NewScheduler(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the watch loop. A failed session is logged and the loop keeps
// going; an operator abort ends it. It returns nil when ctx is cancelled
// (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	for round := 1; ; round++ {
		if err := s.runner.RunSession(ctx); err != nil {
			if errors.Is(err, model.ErrOperatorAbort) {
				s.logger.Info("operator ended watch", "round", round)
				return err
			}
			if ctx.Err() == nil {
				s.logger.Error("session failed", "round", round, "error", err)
			}
		}

		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
		}
	}
}

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/poller"
)

// Cycle runs one check-and-send cycle.
type Cycle interface {
	Poll(ctx context.Context) (poller.Report, error)
}

// every is a fixed-interval schedule. Unlike cron.Every it keeps sub-second
// precision.
type every time.Duration

func (e every) Next(t time.Time) time.Time { return t.Add(time.Duration(e)) }

// NewSchedule returns the schedule for a cron expression (standard five-field
// syntax or descriptors such as "@hourly" and "@every 30m"), or a fixed
// interval when expr is empty.
func NewSchedule(expr string, interval time.Duration) (cron.Schedule, error) {
	if expr != "" {
		sched, err := cron.ParseStandard(expr)
		if err != nil {
			return nil, fmt.Errorf("parse schedule %q: %w", expr, err)
		}
		return sched, nil
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %v", interval)
	}
	return every(interval), nil
}

// Scheduler owns the main loop: it runs one cycle at a time, waiting for the
// next activation of the schedule after each cycle finishes. Cycles never overlap.
type Scheduler struct {
	cycle    Cycle
	schedule cron.Schedule
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs cycle on schedule.
func NewScheduler(cycle Cycle, schedule cron.Schedule, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cycle:    cycle,
		schedule: schedule,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then one per schedule
// activation. The next activation is computed from the time the previous cycle
// finished, so a slow cycle delays the next one instead of stacking up.
// It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler")

	s.runCycle(ctx)

	for {
		next := s.schedule.Next(time.Now())
		s.logger.Debug("next cycle scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("shutting down scheduler")
			return nil
		case <-timer.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	report, err := s.cycle.Poll(ctx)
	switch {
	case errors.Is(err, model.ErrCycleInProgress):
		s.logger.Warn("previous cycle still running, skipping")
	case err != nil:
		s.logger.Error("cycle failed",
			"cycle_id", report.CycleID,
			"duration", time.Since(start).String(),
			"error", err,
		)
	default:
		s.logger.Debug("cycle finished", "cycle_id", report.CycleID, "duration", time.Since(start).String())
	}
}

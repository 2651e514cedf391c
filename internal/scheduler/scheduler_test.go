package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/jobwatch/internal/poller"
)

// --- Mock implementations ---

type CountingCycle struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	overlaps atomic.Int32
	duration time.Duration
	err      error
}

func (c *CountingCycle) Poll(_ context.Context) (poller.Report, error) {
	if c.inFlight.Add(1) > 1 {
		c.overlaps.Add(1)
	}
	defer c.inFlight.Add(-1)
	c.calls.Add(1)
	if c.duration > 0 {
		time.Sleep(c.duration)
	}
	return poller.Report{CycleID: "test"}, c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runFor(t *testing.T, s *Scheduler, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(d)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error on cancel, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not return within 2s after cancel")
	}
}

// --- Tests ---

func TestNewSchedule(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 7, 0, 0, time.UTC)

	s, err := NewSchedule("", 30*time.Minute)
	if err != nil {
		t.Fatalf("interval schedule: %v", err)
	}
	if got := s.Next(now); !got.Equal(now.Add(30 * time.Minute)) {
		t.Errorf("interval Next = %v", got)
	}

	s, err = NewSchedule("*/30 * * * *", 0)
	if err != nil {
		t.Fatalf("cron schedule: %v", err)
	}
	if got := s.Next(now); !got.Equal(time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("cron Next = %v", got)
	}

	s, err = NewSchedule("@every 1h", 0)
	if err != nil {
		t.Fatalf("descriptor schedule: %v", err)
	}
	if got := s.Next(now); !got.Equal(now.Add(time.Hour)) {
		t.Errorf("@every Next = %v", got)
	}
}

func TestNewSchedule_Invalid(t *testing.T) {
	if _, err := NewSchedule("not a cron", 0); err == nil {
		t.Error("expected error for invalid expression")
	}
	if _, err := NewSchedule("", 0); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestRun_ImmediateCycleThenCancel(t *testing.T) {
	cycle := &CountingCycle{}
	sched, _ := NewSchedule("", time.Hour)
	runFor(t, NewScheduler(cycle, sched, discardLogger()), 100*time.Millisecond)

	if got := cycle.calls.Load(); got != 1 {
		t.Errorf("cycle calls = %d, want 1", got)
	}
}

func TestRun_RepeatsOnInterval(t *testing.T) {
	cycle := &CountingCycle{}
	sched, _ := NewSchedule("", 100*time.Millisecond)

	// Allow time for at least two full passes (cycle → wait interval → cycle).
	runFor(t, NewScheduler(cycle, sched, discardLogger()), 250*time.Millisecond)

	if got := cycle.calls.Load(); got < 2 {
		t.Errorf("cycle calls = %d, want >= 2", got)
	}
}

func TestRun_ErrorsDoNotStopLoop(t *testing.T) {
	cycle := &CountingCycle{err: errors.New("fetch failed")}
	sched, _ := NewSchedule("", 50*time.Millisecond)

	runFor(t, NewScheduler(cycle, sched, discardLogger()), 220*time.Millisecond)

	if got := cycle.calls.Load(); got < 3 {
		t.Errorf("cycle calls = %d, want >= 3", got)
	}
}

func TestRun_SlowCyclesNeverOverlap(t *testing.T) {
	// Each cycle takes longer than the interval.
	cycle := &CountingCycle{duration: 80 * time.Millisecond}
	sched, _ := NewSchedule("", 10*time.Millisecond)

	runFor(t, NewScheduler(cycle, sched, discardLogger()), 300*time.Millisecond)

	if got := cycle.overlaps.Load(); got != 0 {
		t.Errorf("overlapping cycles = %d, want 0", got)
	}
	if got := cycle.calls.Load(); got < 2 {
		t.Errorf("cycle calls = %d, want >= 2", got)
	}
}

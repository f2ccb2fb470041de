package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/thermostat/internal/logger"
)

func newTestService(t *testing.T, syncFn SyncFunc) *Service {
	t.Helper()
	return New(syncFn, 2*time.Second, 600*time.Second, logger.Get(logger.ErrorLevel))
}

// scriptedSync returns a SyncFunc yielding the given results in order,
// repeating the last one.
func scriptedSync(results []error, offset time.Duration) SyncFunc {
	n := 0
	return func() (time.Duration, error) {
		err := results[n]
		if n < len(results)-1 {
			n++
		}
		if err != nil {
			return 0, err
		}
		return offset, nil
	}
}

func TestNotSynchronizedInitially(t *testing.T) {
	s := newTestService(t, scriptedSync([]error{nil}, 0))
	if s.Synchronized() {
		t.Error("service should not report synchronized before any attempt")
	}
}

func TestAttemptBackoffBeforeFirstSync(t *testing.T) {
	s := newTestService(t, scriptedSync([]error{errors.New("no route")}, 0))

	if wait := s.attempt(); wait != 2*time.Second {
		t.Errorf("pre-sync retry: got %v, want 2s", wait)
	}
	if s.Synchronized() {
		t.Error("failed attempt must not mark the clock synchronized")
	}
}

func TestAttemptIntervalAfterFirstSync(t *testing.T) {
	s := newTestService(t, scriptedSync([]error{nil, errors.New("timeout")}, 0))

	if wait := s.attempt(); wait != 600*time.Second {
		t.Errorf("successful sync: got %v, want 600s", wait)
	}
	if !s.Synchronized() {
		t.Fatal("expected synchronized after success")
	}

	// A later failure keeps the steady-state cadence and the flag.
	if wait := s.attempt(); wait != 600*time.Second {
		t.Errorf("post-sync failure: got %v, want 600s", wait)
	}
	if !s.Synchronized() {
		t.Error("synchronized flag must be monotone")
	}
}

func TestNowAppliesOffset(t *testing.T) {
	s := newTestService(t, scriptedSync([]error{nil}, time.Hour))
	s.attempt()

	got := s.Now()
	want := time.Now().Add(time.Hour)
	if diff := got.Sub(want); diff < -time.Second || diff > time.Second {
		t.Errorf("Now off by %v from expected offset-adjusted time", diff)
	}
	if got.Location() != time.UTC {
		t.Errorf("Now location: got %v, want UTC", got.Location())
	}
}

func TestNowBeforeSyncIsSystemTime(t *testing.T) {
	s := newTestService(t, scriptedSync([]error{errors.New("down")}, 0))

	got := s.Now()
	if diff := time.Since(got); diff < -time.Second || diff > time.Second {
		t.Errorf("unsynced Now off by %v from system time", diff)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	calls := 0
	s := New(func() (time.Duration, error) {
		calls++
		return 0, errors.New("unreachable")
	}, time.Millisecond, time.Millisecond, logger.Get(logger.ErrorLevel))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if calls == 0 {
		t.Error("Run made no sync attempts")
	}
}

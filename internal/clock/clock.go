// Package clock provides UTC time for the schedule computation, kept
// honest by periodic NTP synchronization. The control loop gates on the
// first successful sync before running any decision cycle.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/sweeney/thermostat/internal/logger"
)

// Retry cadence: aggressive until the clock is trusted, then periodic
// refresh.
const (
	DefaultInitialRetry = 2 * time.Second
	DefaultInterval     = 600 * time.Second
)

// SyncFunc measures the local clock's offset from a reference source.
type SyncFunc func() (time.Duration, error)

// Service applies a measured offset to the system clock. Synchronized is
// monotone: once the first sync succeeds it stays true for the process
// lifetime, even if later syncs fail.
type Service struct {
	syncFn       SyncFunc
	initialRetry time.Duration
	interval     time.Duration
	log          *logger.Logger

	mu     sync.RWMutex
	offset time.Duration
	synced bool
}

// New creates a Service around the given sync function.
func New(syncFn SyncFunc, initialRetry, interval time.Duration, log *logger.Logger) *Service {
	return &Service{
		syncFn:       syncFn,
		initialRetry: initialRetry,
		interval:     interval,
		log:          log,
	}
}

// Run keeps the offset fresh until ctx is cancelled: every initialRetry
// until the first success, every interval thereafter regardless of outcome.
func (s *Service) Run(ctx context.Context) {
	for {
		wait := s.attempt()
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// attempt performs one sync and returns how long to wait before the next.
func (s *Service) attempt() time.Duration {
	offset, err := s.syncFn()
	if err != nil {
		if !s.Synchronized() {
			s.log.Warnf("clock sync failed, retrying in %v: %v", s.initialRetry, err)
			return s.initialRetry
		}
		s.log.Warnf("clock re-sync failed, next attempt in %v: %v", s.interval, err)
		return s.interval
	}

	s.mu.Lock()
	s.offset = offset
	first := !s.synced
	s.synced = true
	s.mu.Unlock()

	if first {
		s.log.Infof("clock synchronized, offset %v", offset)
	} else {
		s.log.Debugf("clock offset refreshed: %v", offset)
	}
	return s.interval
}

// Synchronized reports whether at least one sync has succeeded.
func (s *Service) Synchronized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced
}

// Now returns the current UTC time with the measured offset applied.
func (s *Service) Now() time.Time {
	s.mu.RLock()
	off := s.offset
	s.mu.RUnlock()
	return time.Now().Add(off).UTC()
}

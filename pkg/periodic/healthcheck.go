package periodic

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrHealthcheckFailed is returned when the scheduler health check fails.
var ErrHealthcheckFailed = errors.New("periodic: healthcheck failed")

var (
	errSchedulerNil = errors.New("scheduler is nil")
	errNotRunning   = errors.New("scheduler not running")
	errStale        = errors.New("no invocation completed recently")
)

// Healthcheck returns a health check function for the scheduler.
// The check fails if the scheduler is not running. When maxSilence is
// positive it also fails if no invocation has completed within maxSilence.
// Compatible with health.CheckFunc.
//
// Example:
//
//	app.WithReadinessCheck("sla-scheduler", periodic.Healthcheck(sched, 15*time.Minute))
func Healthcheck(s *Scheduler, maxSilence time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if s == nil {
			return errors.Join(ErrHealthcheckFailed, errSchedulerNil)
		}

		s.mu.Lock()
		state := s.state
		finished := s.stats.LastFinishedAt
		startedAt := s.startedAt
		s.mu.Unlock()

		if state != StateRunning {
			return errors.Join(ErrHealthcheckFailed, fmt.Errorf("%w: %s", errNotRunning, state))
		}
		if maxSilence <= 0 {
			return nil
		}

		now := s.clock.Now()
		if finished.IsZero() {
			// The first invocation may still be in flight.
			finished = startedAt
		}
		if silence := now.Sub(finished); silence > maxSilence {
			return errors.Join(ErrHealthcheckFailed, fmt.Errorf("%w: last %s ago", errStale, silence.Round(time.Second)))
		}
		return nil
	}
}

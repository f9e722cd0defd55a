package periodic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/civicpulse/helpdesk/pkg/logger"
)

// CheckFunc is the operation invoked on every tick.
// A non-nil error marks the invocation as failed; it never stops the loop.
type CheckFunc func(ctx context.Context) error

// Scheduler invokes a CheckFunc in a background loop, sleeping for a fixed
// interval after each invocation completes. Configuration is immutable after
// New. A Scheduler runs at most one loop; create a new one to start again.
type Scheduler struct {
	check     CheckFunc
	clock     clockwork.Clock
	logger    *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
	name      string
	hooks     []Hook
	last      Result
	stats     Stats
	startedAt time.Time
	interval  time.Duration
	timeout   time.Duration
	state     State
	mu        sync.Mutex
	hasLast   bool
	busy      bool
}

// New creates a Scheduler that invokes check every interval.
// The interval must be positive and check must not be nil.
func New(check CheckFunc, interval time.Duration, opts ...Option) (*Scheduler, error) {
	if check == nil {
		return nil, ErrNilCheck
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidInterval, interval)
	}

	cfg := newConfig(opts...)

	return &Scheduler{
		check:    check,
		interval: interval,
		timeout:  cfg.timeout,
		clock:    cfg.clock,
		logger:   cfg.logger.With(slog.String("scheduler", cfg.name)),
		name:     cfg.name,
		hooks:    cfg.hooks,
		done:     make(chan struct{}),
	}, nil
}

// Name returns the scheduler name.
func (s *Scheduler) Name() string { return s.name }

// Interval returns the configured spacing between invocations.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Start launches the background loop and returns immediately.
// The first invocation happens right away. The loop runs until ctx is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.state == StateRunning:
		return ErrAlreadyStarted
	case s.state == StateStopped:
		return ErrStopped
	case s.busy:
		return ErrBusy
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateRunning
	s.startedAt = s.clock.Now()

	go s.loop(loopCtx)

	s.logger.InfoContext(ctx, "scheduler started",
		slog.Duration("interval", s.interval),
		slog.Duration("timeout", s.timeout),
	)
	return nil
}

// Stop cancels the loop and waits for it to exit, bounded by ctx.
// An in-flight invocation sees its context cancelled. Stop on an idle
// scheduler moves it straight to StateStopped. Stop is idempotent.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateIdle:
		s.state = StateStopped
		close(s.done)
		s.mu.Unlock()
		return nil
	case StateStopped:
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrStopTimeout, ctx.Err())
	}
}

// Done returns a channel closed once the scheduler is stopped.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Last returns the most recent Result, if any invocation has completed.
func (s *Scheduler) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Stats returns a snapshot of invocation counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// RunOnce performs a single invocation synchronously through the same
// recovery and reporting path as the loop. It is meant for one-shot sweeps
// and must not overlap a running loop: if the loop is running or stopped,
// or another RunOnce is in progress, the returned Result carries the reason.
func (s *Scheduler) RunOnce(ctx context.Context) Result {
	s.mu.Lock()
	var reject error
	switch {
	case s.state == StateRunning:
		reject = ErrAlreadyStarted
	case s.state == StateStopped:
		reject = ErrStopped
	case s.busy:
		reject = ErrBusy
	}
	if reject != nil {
		s.mu.Unlock()
		return Result{StartedAt: s.clock.Now(), Err: reject}
	}
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	res := s.invoke(ctx)
	s.report(ctx, res)
	return res
}

// StartFunc returns a startup hook that starts the scheduler.
func (s *Scheduler) StartFunc() func(context.Context) error {
	return func(ctx context.Context) error {
		return s.Start(ctx)
	}
}

// Shutdown returns a shutdown hook that stops the scheduler.
func (s *Scheduler) Shutdown() func(context.Context) error {
	return func(ctx context.Context) error {
		return s.Stop(ctx)
	}
}

// loop is the body of the background goroutine.
// Cancellation is checked before every invocation and before every sleep.
func (s *Scheduler) loop(ctx context.Context) {
	defer func() {
		s.logger.Info("scheduler stopped")
		// Done must be closed by the time Stop or State can observe StateStopped.
		s.mu.Lock()
		s.state = StateStopped
		close(s.done)
		s.mu.Unlock()
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		res := s.invoke(ctx)
		s.report(ctx, res)

		if ctx.Err() != nil {
			return
		}
		if !s.sleep(ctx) {
			return
		}
	}
}

// sleep waits for one interval. It returns false if ctx is done first.
func (s *Scheduler) sleep(ctx context.Context) bool {
	timer := s.clock.NewTimer(s.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}

// invoke runs the check once and converts its outcome into a Result.
func (s *Scheduler) invoke(ctx context.Context) Result {
	s.mu.Lock()
	s.stats.Invocations++
	seq := s.stats.Invocations
	s.mu.Unlock()

	res := Result{
		Seq:       seq,
		RunID:     uuid.NewString(),
		StartedAt: s.clock.Now(),
	}

	runCtx := logger.WithRunID(ctx, res.RunID)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = clockwork.WithTimeout(runCtx, s.clock, s.timeout)
		defer cancel()
	}

	err := s.call(runCtx)
	res.Duration = s.clock.Since(res.StartedAt)
	if err != nil {
		res.Err = &CheckError{Seq: seq, RunID: res.RunID, Err: err}
	}

	s.mu.Lock()
	s.last = res
	s.hasLast = true
	s.stats.record(res)
	s.mu.Unlock()

	return res
}

// call invokes the check, converting a panic into an error.
func (s *Scheduler) call(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "check panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("%w: %v", ErrCheckPanicked, r)
		}
	}()
	return s.check(ctx)
}

// report logs the outcome and passes it to the hooks.
func (s *Scheduler) report(ctx context.Context, res Result) {
	attrs := []any{
		slog.Uint64("seq", res.Seq),
		slog.String("run_id", res.RunID),
		slog.Duration("duration", res.Duration),
	}

	switch {
	case !res.Failed():
		s.logger.DebugContext(ctx, "check completed", attrs...)
	case ctx.Err() != nil:
		// Interrupted by shutdown.
		s.logger.WarnContext(ctx, "check interrupted", append(attrs, slog.Any("error", res.Err))...)
	default:
		s.logger.ErrorContext(ctx, "check failed", append(attrs, slog.Any("error", res.Err))...)
	}

	for _, h := range s.hooks {
		s.runHook(ctx, h, res)
	}
}

func (s *Scheduler) runHook(ctx context.Context, h Hook, res Result) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "result hook panicked",
				slog.Uint64("seq", res.Seq),
				slog.Any("panic", r),
			)
		}
	}()
	h(res)
}

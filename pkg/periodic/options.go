package periodic

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/civicpulse/helpdesk/pkg/logger"
)

const defaultName = "periodic"

// Hook receives the outcome of every invocation.
// Hooks run sequentially on the scheduler goroutine after the invocation
// completes, so they must not block for long.
type Hook func(Result)

// config holds scheduler configuration.
type config struct {
	clock   clockwork.Clock
	logger  *slog.Logger
	name    string
	hooks   []Hook
	timeout time.Duration
}

// newConfig creates a config with defaults, modified by options.
func newConfig(opts ...Option) *config {
	cfg := &config{
		clock:  clockwork.NewRealClock(),
		logger: logger.NewNope(),
		name:   defaultName,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a Scheduler.
type Option func(*config)

// WithName sets the name used in log records.
// Defaults to "periodic".
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithTimeout bounds every invocation with a context deadline.
// Zero or negative disables the per-invocation timeout (the default).
//
// Example:
//
//	periodic.WithTimeout(2 * time.Minute)
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger for invocation outcomes.
// If not set, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces the clock used for sleeping and timestamps.
// Intended for tests with clockwork.NewFakeClock().
func WithClock(clock clockwork.Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithHook registers a hook called with the Result of each invocation.
// May be given multiple times; hooks are called in registration order.
//
// Example:
//
//	periodic.WithHook(recorder.Observe)
func WithHook(h Hook) Option {
	return func(c *config) {
		if h != nil {
			c.hooks = append(c.hooks, h)
		}
	}
}

package escalation

import (
	"context"

	"github.com/civicpulse/helpdesk/pkg/periodic"
)

// CheckOption configures the CheckFunc built by Check.
type CheckOption func(*checkConfig)

type checkConfig struct {
	guard *Guard
}

// WithGuard serialises sweeps across replicas through g.
// A nil guard is ignored.
func WithGuard(g *Guard) CheckOption {
	return func(c *checkConfig) {
		if g != nil {
			c.guard = g
		}
	}
}

// Check returns a periodic.CheckFunc that triggers one escalation sweep.
// A nil sweeper yields a check that always fails with ErrUnavailable, so the
// scheduler keeps running and reports the missing backend every interval.
func Check(sweeper Sweeper, opts ...CheckOption) periodic.CheckFunc {
	cfg := &checkConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	run := func(ctx context.Context) error {
		if sweeper == nil {
			return ErrUnavailable
		}
		return sweeper.CheckSLAEscalations(ctx)
	}

	if cfg.guard == nil {
		return run
	}
	return func(ctx context.Context) error {
		_, err := cfg.guard.Do(ctx, run)
		return err
	}
}

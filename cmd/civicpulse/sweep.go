package main

import (
	"context"
	"log/slog"

	"github.com/civicpulse/helpdesk/pkg/periodic"
)

// SweepCmd runs one escalation sweep through the same recovery and logging
// path as the scheduler. It exits non-zero if the sweep fails.
type SweepCmd struct{}

// Run performs the sweep.
func (s *SweepCmd) Run(cli *CLI) error {
	ctx := context.Background()

	d, err := setup(ctx, cli.Env)
	if err != nil {
		return err
	}
	defer d.close(ctx)

	check, err := d.checkFunc()
	if err != nil {
		return err
	}

	opts := []periodic.Option{
		periodic.WithName("sla-escalation"),
		periodic.WithLogger(d.log),
		periodic.WithTimeout(d.cfg.SLA.Timeout),
	}

	sched, err := periodic.New(check, d.cfg.SLA.Interval.Duration(), opts...)
	if err != nil {
		return err
	}

	res := sched.RunOnce(ctx)
	if res.Failed() {
		return res.Err
	}
	d.log.Info("sweep completed", slog.String("run_id", res.RunID), slog.Duration("duration", res.Duration))
	return nil
}

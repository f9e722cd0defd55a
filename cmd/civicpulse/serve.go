package main

import (
	"context"
	"log/slog"

	"github.com/civicpulse/helpdesk/internal/app"
	"github.com/civicpulse/helpdesk/internal/metrics"
	"github.com/civicpulse/helpdesk/pkg/db"
	"github.com/civicpulse/helpdesk/pkg/periodic"
	"github.com/civicpulse/helpdesk/pkg/redis"
)

// ServeCmd runs the scheduler until SIGINT or SIGTERM.
type ServeCmd struct{}

// Run wires the scheduler into the app host and blocks.
func (s *ServeCmd) Run(cli *CLI) error {
	ctx := context.Background()

	d, err := setup(ctx, cli.Env)
	if err != nil {
		return err
	}

	check, err := d.checkFunc()
	if err != nil {
		d.close(ctx)
		return err
	}

	recorder := metrics.NewRecorder()
	opts := []periodic.Option{
		periodic.WithName("sla-escalation"),
		periodic.WithLogger(d.log),
		periodic.WithHook(recorder.Observe),
		periodic.WithTimeout(d.cfg.SLA.Timeout),
	}

	sched, err := periodic.New(check, d.cfg.SLA.Interval.Duration(), opts...)
	if err != nil {
		d.close(ctx)
		return err
	}

	appOpts := []app.Option{
		app.WithLogger(d.log),
		app.WithAddress(d.cfg.HTTPAddr),
		app.WithShutdownTimeout(d.cfg.ShutdownTimeout),
		app.WithScheduler(sched),
		app.WithMetricsHandler(recorder.Handler()),
		app.WithReadinessCheck("sla-scheduler", periodic.Healthcheck(sched, d.cfg.SLA.StaleAfterOrDefault())),
	}
	if d.pool != nil {
		appOpts = append(appOpts, app.WithReadinessCheck("database", db.Healthcheck(d.pool)))
	}
	if d.rdb != nil {
		appOpts = append(appOpts, app.WithReadinessCheck("redis", redis.Healthcheck(d.rdb)))
	}
	for _, hook := range d.hooks() {
		appOpts = append(appOpts, app.WithShutdownHook(hook))
	}

	d.log.Info("starting civicpulse",
		slog.String("version", version),
		slog.Duration("sla_interval", d.cfg.SLA.Interval.Duration()),
		slog.Bool("database", d.pool != nil),
		slog.Bool("cluster_lock", d.rdb != nil),
	)

	return app.New(appOpts...).Run()
}

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/civicpulse/helpdesk/internal/config"
	"github.com/civicpulse/helpdesk/internal/escalation"
	"github.com/civicpulse/helpdesk/pkg/db"
	"github.com/civicpulse/helpdesk/pkg/logger"
	"github.com/civicpulse/helpdesk/pkg/periodic"
	"github.com/civicpulse/helpdesk/pkg/redis"
)

// deps holds the connections shared by the commands.
type deps struct {
	cfg    *config.Config
	log    *slog.Logger
	pool   *pgxpool.Pool
	rdb    goredis.UniversalClient
	closer []func(context.Context) error
}

// setup loads configuration and opens the optional backends. A missing or
// unreachable database is not fatal: every sweep then fails with
// escalation.ErrUnavailable and is reported, but the process keeps running.
func setup(ctx context.Context, dotenv []string) (*deps, error) {
	cfg, err := config.Load(dotenv...)
	if err != nil {
		return nil, err
	}

	d := &deps{
		cfg: cfg,
		log: logger.NewWithSentry(cfg.Log, cfg.Sentry),
	}
	d.closer = append(d.closer, logger.Flush)

	pool, err := db.Connect(ctx, cfg.DB)
	switch {
	case errors.Is(err, db.ErrNotConfigured):
		d.log.Warn("case database not configured, SLA sweeps will be skipped")
	case err != nil:
		d.log.Error("case database unavailable, SLA sweeps will be skipped", slog.Any("error", err))
	default:
		d.pool = pool
		d.closer = append(d.closer, db.Shutdown(pool))
	}

	if cfg.RedisURL != "" {
		rdb, err := redis.Open(ctx, cfg.RedisURL)
		if err != nil {
			d.close(ctx)
			return nil, err
		}
		d.rdb = rdb
		d.closer = append(d.closer, redis.Shutdown(rdb))
	}

	return d, nil
}

// checkFunc builds the escalation check, guarded by the Redis lock when
// Redis is configured.
func (d *deps) checkFunc() (periodic.CheckFunc, error) {
	var sweeper escalation.Sweeper
	if d.pool != nil {
		sweeper = escalation.NewPostgresSweeper(d.pool, escalation.WithStatement(d.cfg.SLA.Statement))
	}

	var opts []escalation.CheckOption
	if d.rdb != nil {
		guard, err := escalation.NewGuard(d.rdb, d.cfg.SLA.LockKey, d.cfg.SLA.Interval.Duration(),
			escalation.WithGuardLogger(d.log.With(slog.String("component", "sla-lock"))),
		)
		if err != nil {
			return nil, err
		}
		opts = append(opts, escalation.WithGuard(guard))
	}
	return escalation.Check(sweeper, opts...), nil
}

// close runs the collected closers in reverse order.
func (d *deps) close(ctx context.Context) {
	for i := len(d.closer) - 1; i >= 0; i-- {
		if err := d.closer[i](ctx); err != nil {
			d.log.Error("close failed", slog.Any("error", err))
		}
	}
}

// hooks returns the closers as shutdown hooks, latest opened first.
func (d *deps) hooks() []func(context.Context) error {
	out := make([]func(context.Context) error, 0, len(d.closer))
	for i := len(d.closer) - 1; i >= 0; i-- {
		out = append(out, d.closer[i])
	}
	return out
}

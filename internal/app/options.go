package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/civicpulse/helpdesk/pkg/health"
	"github.com/civicpulse/helpdesk/pkg/periodic"
)

// Option configures the App.
type Option func(*App)

// WithLogger sets the application logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithScheduler hands the scheduler to the App. It is started before the
// HTTP server accepts requests and stopped right after the server closes.
// Registering a second scheduler replaces the first.
func WithScheduler(s *periodic.Scheduler) Option {
	return func(a *App) {
		if s != nil {
			a.scheduler = s
		}
	}
}

// WithAddress sets the HTTP listen address.
// Defaults to ":8080".
func WithAddress(addr string) Option {
	return func(a *App) {
		if addr != "" {
			a.address = addr
		}
	}
}

// WithShutdownTimeout bounds the whole graceful shutdown: HTTP server,
// scheduler and shutdown hooks share one deadline.
// Defaults to 30 seconds.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}

// WithStartupHook registers a function run before the server starts.
// Hooks run in registration order, after the scheduler starts. An error
// aborts Run.
func WithStartupHook(fn func(context.Context) error) Option {
	return func(a *App) {
		if fn != nil {
			a.startupHooks = append(a.startupHooks, fn)
		}
	}
}

// WithShutdownHook registers a cleanup function run after the scheduler
// stops. Hooks run in registration order.
//
// Example:
//
//	app.WithShutdownHook(db.Shutdown(pool))
func WithShutdownHook(fn func(context.Context) error) Option {
	return func(a *App) {
		if fn != nil {
			a.shutdownHooks = append(a.shutdownHooks, fn)
		}
	}
}

// WithReadinessCheck adds a named check to the readiness endpoint.
//
// Example:
//
//	app.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return func(a *App) {
		if name != "" && fn != nil {
			a.checks[name] = fn
		}
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(a *App) {
		if h != nil {
			a.metrics = h
		}
	}
}

// WithContext sets the base context for signal handling.
// Cancelling it triggers a graceful shutdown.
// Defaults to context.Background().
func WithContext(ctx context.Context) Option {
	return func(a *App) {
		if ctx != nil {
			a.baseCtx = ctx
		}
	}
}

package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	Release     string `env:"SENTRY_RELEASE"`
	// MinLevel is the lowest level stored in Sentry as a log entry.
	// Errors always create issues.
	MinLevel slog.Level `env:"SENTRY_MIN_LEVEL" envDefault:"warn"`
}

const defaultFlushTimeout = 2 * time.Second

// NewWithSentry creates a logger that writes to stdout and Sentry.
// With an empty DSN, or if the SDK fails to initialise, it degrades to New.
func NewWithSentry(cfg Config, sc SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	stdout := newStreamHandler(os.Stdout, cfg)

	if sc.DSN == "" {
		return slog.New(NewContextHandler(stdout, withRunID(extractors)...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         sc.DSN,
		Environment: sc.Environment,
		Release:     sc.Release,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("failed to initialize sentry", slog.Any("error", err))
		return slog.New(NewContextHandler(stdout, withRunID(extractors)...))
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   sentryLogLevels(sc.MinLevel),
	}.NewSentryHandler(context.Background())

	return slog.New(NewContextHandler(newFanoutHandler(stdout, sentryHandler), withRunID(extractors)...))
}

// sentryLogLevels lists the levels at or above floor that Sentry stores as logs.
func sentryLogLevels(floor slog.Level) []slog.Level {
	all := []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}
	levels := make([]slog.Level, 0, len(all))
	for _, l := range all {
		if l >= floor {
			levels = append(levels, l)
		}
	}
	return levels
}

// Flush waits for buffered Sentry events to be delivered.
// It is a no-op when Sentry was never initialised.
func Flush(ctx context.Context) error {
	deadline, ok := ctx.Deadline()
	timeout := defaultFlushTimeout
	if ok {
		timeout = max(time.Until(deadline), 0)
	}
	sentry.Flush(timeout)
	return nil
}

// Package logger builds the process-wide *slog.Logger.
//
// Records are written to stdout as JSON (or text, see [Config]) and, when a
// Sentry DSN is configured, also forwarded to Sentry: errors become issues and
// records at or above [SentryConfig.MinLevel] are stored as logs.
//
// # Context Attributes
//
// Handlers built here run a list of [ContextExtractor] functions on every
// record. The run ID extractor is always installed, so anything logged with
// the context passed to a scheduled check carries the run it belongs to:
//
//	ctx = logger.WithRunID(ctx, "6f1c...")
//	log.InfoContext(ctx, "escalated case", slog.String("case_id", id))
//	// {"level":"INFO","msg":"escalated case","case_id":"...","run_id":"6f1c..."}
//
// # Usage
//
//	log := logger.NewWithSentry(cfg.Log, cfg.Sentry)
//	defer logger.Flush(context.Background())
//
// With an empty DSN NewWithSentry behaves exactly like [New], so the same code
// path serves local development and production. [NewNope] discards output and
// is the default for packages that accept an optional logger.
package logger

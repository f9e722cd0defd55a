package logger

import (
	"io"
	"log/slog"
)

// NewNope returns a logger that discards every record.
// Packages use it as their default when no logger is injected.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))
		out = append(out, rec)
	}
	return out
}

func TestContextHandler_AddsRunID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewContextHandler(newStreamHandler(&buf, Config{Level: slog.LevelDebug}), withRunID(nil)...))

	ctx := WithRunID(context.Background(), "run-1")
	log.InfoContext(ctx, "with run")
	log.InfoContext(context.Background(), "without run")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "run-1", recs[0]["run_id"])
	assert.NotContains(t, recs[1], "run_id")
}

func TestContextHandler_SkipsNilExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tenant := func(ctx context.Context) (slog.Attr, bool) {
		return slog.String("tenant", "north"), true
	}
	h := NewContextHandler(newStreamHandler(&buf, Config{}), nil, tenant, nil)

	slog.New(h).With(slog.String("component", "test")).Info("hello")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "north", recs[0]["tenant"])
	assert.Equal(t, "test", recs[0]["component"])
}

func TestWithRunID_Empty(t *testing.T) {
	t.Parallel()

	ctx := WithRunID(context.Background(), "")
	_, ok := RunIDFromContext(ctx)
	assert.False(t, ok)
}

func TestFanoutHandler_RespectsLevels(t *testing.T) {
	t.Parallel()

	var all, errs bytes.Buffer
	h := newFanoutHandler(
		newStreamHandler(&all, Config{Level: slog.LevelDebug}),
		newStreamHandler(&errs, Config{Level: slog.LevelError}),
	)
	log := slog.New(h)

	log.Debug("debug")
	log.Error("boom")

	assert.Len(t, decodeLines(t, &all), 2)
	errRecs := decodeLines(t, &errs)
	require.Len(t, errRecs, 1)
	assert.Equal(t, "boom", errRecs[0]["msg"])
}

func TestNewStreamHandler_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slog.New(newStreamHandler(&buf, Config{Format: "TEXT"})).Info("plain")

	assert.Contains(t, buf.String(), "msg=plain")
}

func TestSentryLogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		floor slog.Level
		want  []slog.Level
	}{
		{name: "warn", floor: slog.LevelWarn, want: []slog.Level{slog.LevelWarn, slog.LevelError}},
		{name: "error", floor: slog.LevelError, want: []slog.Level{slog.LevelError}},
		{name: "debug", floor: slog.LevelDebug, want: []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sentryLogLevels(tt.floor))
		})
	}
}

func TestNewWithSentry_NoDSNFallsBack(t *testing.T) {
	t.Parallel()

	log := NewWithSentry(Config{}, SentryConfig{})
	require.NotNil(t, log)
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}

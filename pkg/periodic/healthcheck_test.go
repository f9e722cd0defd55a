package periodic

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthcheck_NilScheduler(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil, 0)(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHealthcheckFailed)
	assert.ErrorIs(t, err, errSchedulerNil)
}

func TestHealthcheck_NotRunning(t *testing.T) {
	t.Parallel()

	s, err := New(func(context.Context) error { return nil }, time.Minute)
	require.NoError(t, err)

	err = Healthcheck(s, 0)(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHealthcheckFailed)
	assert.ErrorIs(t, err, errNotRunning)
	assert.Contains(t, err.Error(), "idle")
}

func TestHealthcheck_Running(t *testing.T) {
	t.Parallel()

	fc := clockwork.NewFakeClock()
	hook, results := collect()
	s := startScheduler(t, func(context.Context) error { return nil }, time.Hour,
		WithClock(fc), WithHook(hook))
	waitResult(t, results)

	check := Healthcheck(s, 10*time.Minute)
	require.NoError(t, check(context.Background()))

	// Sleeping for an hour: after 11 minutes without a completed
	// invocation the scheduler is reported stale.
	advance(t, fc, 11*time.Minute)
	err := check(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errStale)

	// Without a silence bound only the state matters.
	assert.NoError(t, Healthcheck(s, 0)(context.Background()))
}

func TestHealthcheck_FirstInvocationInFlight(t *testing.T) {
	t.Parallel()

	fc := clockwork.NewFakeClock()
	entered := make(chan struct{})
	check := func(ctx context.Context) error {
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	}
	s := startScheduler(t, check, time.Hour, WithClock(fc))
	<-entered

	hc := Healthcheck(s, 10*time.Minute)
	require.NoError(t, hc(context.Background()))

	fc.Advance(11 * time.Minute)
	assert.ErrorIs(t, hc(context.Background()), errStale)
}

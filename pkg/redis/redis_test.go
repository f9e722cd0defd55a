package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{name: "empty", url: "", wantErr: ErrEmptyConnectionURL},
		{name: "http scheme", url: "http://localhost:6379", wantErr: ErrFailedToParseURL},
		{name: "no scheme", url: "localhost:6379", wantErr: ErrFailedToParseURL},
		{name: "bad db index", url: "redis://localhost:6379/notanumber", wantErr: ErrFailedToParseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := Open(context.Background(), tt.url)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, client)
		})
	}
}

func TestOpen_ContextCancelledDuringRetry(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Nothing listens on port 1.
	_, err := Open(ctx, "redis://127.0.0.1:1/0",
		WithRetry(5, time.Second),
		WithTimeouts(10*time.Millisecond, 10*time.Millisecond),
	)
	require.ErrorIs(t, err, ErrConnectionFailed)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, Healthcheck(nil)(context.Background()), ErrHealthcheckFailed)
}

type closer struct{ err error }

func (c closer) Close() error { return c.err }

func TestShutdown(t *testing.T) {
	t.Parallel()

	errClose := errors.New("close failed")
	assert.ErrorIs(t, Shutdown(closer{err: errClose})(context.Background()), errClose)
	assert.NoError(t, Shutdown(closer{})(context.Background()))
	assert.NoError(t, Shutdown(nil)(context.Background()))
}

func TestOptions(t *testing.T) {
	t.Parallel()

	o := defaultOptions()
	for _, opt := range []Option{
		WithPoolSize(16),
		WithPoolSize(0),
		WithRetry(1, time.Millisecond),
		WithTimeouts(time.Second, 0),
	} {
		opt(o)
	}

	assert.Equal(t, 16, o.poolSize)
	assert.Equal(t, 1, o.retryAttempts)
	assert.Equal(t, time.Millisecond, o.retryInterval)
	assert.Equal(t, time.Second, o.dialTimeout)
	assert.Equal(t, 3*time.Second, o.ioTimeout)
}

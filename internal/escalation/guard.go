package escalation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/civicpulse/helpdesk/pkg/logger"
)

// releaseScript deletes the lock only if it still carries our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Locker is the subset of redis.UniversalClient used by Guard.
type Locker interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithGuardLogger sets the logger used for skip and release messages.
func WithGuardLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// Guard is a cluster-wide lock that allows one successful sweep per TTL.
// The holder keeps the lock after a successful sweep and lets it expire, so
// replicas with staggered schedules skip until the next window. A failed
// sweep releases the lock at once so another replica can retry.
type Guard struct {
	client Locker
	logger *slog.Logger
	key    string
	ttl    time.Duration
}

// NewGuard creates a Guard. The ttl is normally the scheduler interval.
func NewGuard(client Locker, key string, ttl time.Duration, opts ...GuardOption) (*Guard, error) {
	switch {
	case client == nil:
		return nil, ErrNilLocker
	case key == "":
		return nil, ErrEmptyLockKey
	case ttl <= 0:
		return nil, ErrInvalidLockTTL
	}

	g := &Guard{
		client: client,
		key:    key,
		ttl:    ttl,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Do runs fn if the lock is free. If another holder owns it, fn is
// skipped and Do returns nil with ran set to false. The lock is released
// only when fn fails or panics.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) (ran bool, err error) {
	token := uuid.NewString()

	acquired, err := g.client.SetNX(ctx, g.key, token, g.ttl).Result()
	if err != nil {
		return false, errors.Join(ErrLockFailed, err)
	}
	if !acquired {
		g.logger.DebugContext(ctx, "sweep skipped, lock held elsewhere", slog.String("key", g.key))
		return false, nil
	}

	succeeded := false
	defer func() {
		if !succeeded {
			g.release(ctx, token)
		}
	}()

	if err := fn(ctx); err != nil {
		return true, err
	}
	succeeded = true
	return true, nil
}

func (g *Guard) release(ctx context.Context, token string) {
	// The lock must be released even if the sweep was cancelled.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := g.client.Eval(ctx, releaseScript, []string{g.key}, token).Err(); err != nil {
		g.logger.WarnContext(ctx, "failed to release lock",
			slog.String("key", g.key),
			slog.Any("error", err),
		)
	}
}

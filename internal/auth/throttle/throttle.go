package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable wraps Redis failures so callers can tell an infrastructure
// outage apart from a lockout decision.
var ErrUnavailable = errors.New("login throttle unavailable")

// LoginThrottle counts failed logins per identifier in Redis. Counters use a
// fixed window: the TTL is set on the first failure and the key expires as a
// whole, resetting the count to zero. Increments are atomic server-side, so
// concurrent failures for the same identifier never lose a count.
type LoginThrottle struct {
	redis       redis.UniversalClient
	maxAttempts int
	window      time.Duration
}

func NewLoginThrottle(client redis.UniversalClient, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		redis:       client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (t *LoginThrottle) RecordFailure(ctx context.Context, identifier string) error {
	// INCR and the TTL ride one MULTI/EXEC so a failure between them can
	// never leave a counter without an expiry. NX anchors the window to the
	// first failure; later failures do not extend it.
	pipe := t.redis.TxPipeline()
	pipe.Incr(ctx, attemptKey(identifier))
	pipe.ExpireNX(ctx, attemptKey(identifier), t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

func (t *LoginThrottle) IsLockedOut(ctx context.Context, identifier string) (bool, error) {
	count, err := t.redis.Get(ctx, attemptKey(identifier)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return count >= int64(t.maxAttempts), nil
}

// Reset clears the counter, called after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, identifier string) error {
	if err := t.redis.Del(ctx, attemptKey(identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func attemptKey(identifier string) string {
	return "login_attempts:" + identifier
}

package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/velomart/velomart-backend/pkg/config"
)

// ErrLockHeld is returned when a lease could not be acquired within the
// configured number of attempts.
var ErrLockHeld = errors.New("lock already held")

// LeaseLocker provides short-lived mutual exclusion backed by SETNX leases.
// Leases expire on their own, so a crashed holder can never wedge a key.
type LeaseLocker struct {
	client *Client
	cfg    config.LockConfig
}

// NewLeaseLocker builds a locker over the shared redis client.
func NewLeaseLocker(client *Client, cfg config.LockConfig) *LeaseLocker {
	return &LeaseLocker{client: client, cfg: cfg}
}

// Acquire takes a lease for scope/id, retrying briefly when contended. The
// returned release func is safe to call even after the lease expired.
func (l *LeaseLocker) Acquire(ctx context.Context, scope, id string) (func(), error) {
	key := l.client.LockKey(scope, id)
	token := uuid.NewString()

	attempts := l.cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.LeaseTTL)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.cfg.RetryDelay):
		}
	}
	return nil, ErrLockHeld
}

// release drops the lease only if we still own it.
func (l *LeaseLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// goredis.Nil means the lease already expired; nothing to drop.
	current, err := l.client.Get(ctx, key)
	if err != nil || errors.Is(err, goredis.Nil) {
		return
	}
	if current != token {
		return
	}
	_ = l.client.Del(ctx, key)
}

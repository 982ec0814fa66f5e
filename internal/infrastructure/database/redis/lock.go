package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "lock held by another owner")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var extendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// Mutex is a single-owner lock with a TTL. The worker takes one around each
// statistics export so replicas do not write the same snapshot twice.
type Mutex struct {
	client *Client
	key    string
	token  string
	ttl    time.Duration
}

// NewMutex returns an unlocked Mutex named name.
func NewMutex(client *Client, name string, ttl time.Duration) *Mutex {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Mutex{
		client: client,
		key:    client.Prefix() + "lock:" + name,
		token:  uuid.NewString(),
		ttl:    ttl,
	}
}

// Key returns the full redis key of the lock.
func (m *Mutex) Key() string { return m.key }

// TryLock acquires the lock without waiting.
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.key, m.token, m.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "lock acquire failed")
	}
	return ok, nil
}

// Lock retries TryLock every retryDelay until ctx is done.
func (m *Mutex) Lock(ctx context.Context, retryDelay time.Duration) error {
	for {
		ok, err := m.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ErrLockNotAcquired.WithCause(ctx.Err())
		case <-time.After(retryDelay):
		}
	}
}

// Unlock releases the lock if this Mutex still owns it.
func (m *Mutex) Unlock(ctx context.Context) error {
	res, err := unlockScript.Run(ctx, m.client.Underlying(), []string{m.key}, m.token).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "lock release failed")
	}
	if res == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Extend resets the TTL if this Mutex still owns the lock.
func (m *Mutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	res, err := extendScript.Run(ctx, m.client.Underlying(), []string{m.key}, m.token, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "lock extend failed")
	}
	return res == 1, nil
}

//Personal.AI order the ending

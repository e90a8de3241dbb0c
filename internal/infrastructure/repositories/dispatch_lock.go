package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rahulwaghole14/mandap/domain"
)

var (
	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

	extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
)

// RedisDispatchLock implements domain.DispatchLock with SETNX. The value is
// a per-acquire token so a holder whose lock expired cannot release or
// extend the next holder's lock. The TTL releases locks left behind by a
// crashed process.
type RedisDispatchLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewDispatchLock creates a per-session dispatch lock
func NewDispatchLock(client *redis.Client, ttl time.Duration) domain.DispatchLock {
	return &RedisDispatchLock{client: client, prefix: "dispatch:lock:", ttl: ttl}
}

// Acquire reports false when a dispatch already holds the lock
func (l *RedisDispatchLock) Acquire(ctx context.Context, sessionID string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.prefix+sessionID, token, l.ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

// Extend resets the TTL. It reports false once token no longer owns the lock.
func (l *RedisDispatchLock) Extend(ctx context.Context, sessionID, token string) (bool, error) {
	n, err := extendScript.Run(ctx, l.client, []string{l.prefix + sessionID}, token, l.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Release deletes the lock only while token owns it
func (l *RedisDispatchLock) Release(ctx context.Context, sessionID, token string) error {
	return releaseScript.Run(ctx, l.client, []string{l.prefix + sessionID}, token).Err()
}

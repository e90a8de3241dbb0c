package repositories

import (
	"context"
	"testing"
	"time"
)

func TestRedisDispatchLock(t *testing.T) {
	_, client := setupTestRedis(t)
	lock := NewDispatchLock(client, time.Minute)
	ctx := context.Background()

	token, ok, err := lock.Acquire(ctx, "s1")
	if err != nil || !ok || token == "" {
		t.Fatalf("first acquire should succeed: token=%q ok=%v err=%v", token, ok, err)
	}

	_, ok, err = lock.Acquire(ctx, "s1")
	if err != nil || ok {
		t.Fatalf("second acquire should fail: ok=%v err=%v", ok, err)
	}

	_, ok, _ = lock.Acquire(ctx, "s2")
	if !ok {
		t.Error("other sessions should not be blocked")
	}

	if err := lock.Release(ctx, "s1", token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, ok, _ = lock.Acquire(ctx, "s1")
	if !ok {
		t.Error("acquire after release should succeed")
	}
}

func TestRedisDispatchLock_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	lock := NewDispatchLock(client, time.Minute)
	ctx := context.Background()

	_, _, _ = lock.Acquire(ctx, "s1")
	mr.FastForward(2 * time.Minute)

	_, ok, err := lock.Acquire(ctx, "s1")
	if err != nil || !ok {
		t.Errorf("expired lock should be acquirable: ok=%v err=%v", ok, err)
	}
}

func TestRedisDispatchLock_StaleHolderCannotTouchNewLock(t *testing.T) {
	mr, client := setupTestRedis(t)
	lock := NewDispatchLock(client, time.Minute)
	ctx := context.Background()

	first, _, _ := lock.Acquire(ctx, "s1")
	mr.FastForward(2 * time.Minute)
	second, ok, err := lock.Acquire(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("reacquire after expiry failed: ok=%v err=%v", ok, err)
	}

	if err := lock.Release(ctx, "s1", first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := lock.Acquire(ctx, "s1"); ok {
		t.Fatal("stale release removed the new holder's lock")
	}

	extended, err := lock.Extend(ctx, "s1", first)
	if err != nil || extended {
		t.Errorf("stale extend should report false: extended=%v err=%v", extended, err)
	}

	if err := lock.Release(ctx, "s1", second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := lock.Acquire(ctx, "s1"); !ok {
		t.Error("owner release should free the lock")
	}
}

func TestRedisDispatchLock_ExtendResetsTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	lock := NewDispatchLock(client, time.Minute)
	ctx := context.Background()

	token, _, _ := lock.Acquire(ctx, "s1")
	mr.FastForward(50 * time.Second)

	extended, err := lock.Extend(ctx, "s1", token)
	if err != nil || !extended {
		t.Fatalf("owner extend should succeed: extended=%v err=%v", extended, err)
	}
	if ttl := mr.TTL("dispatch:lock:s1"); ttl != time.Minute {
		t.Errorf("expected TTL reset to 1m, got %v", ttl)
	}

	mr.FastForward(50 * time.Second)
	if _, ok, _ := lock.Acquire(ctx, "s1"); ok {
		t.Error("extended lock should still be held")
	}
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SlotLocker holds a booking slot for a short time while an appointment is
// written. Acquire reports false when someone else holds the slot.
type SlotLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisSlotLocker struct {
	client *redis.Client
	prefix string
}

func NewRedisSlotLocker(client *redis.Client) *RedisSlotLocker {
	return &RedisSlotLocker{client: client, prefix: "reliquia:slot:"}
}

func (l *RedisSlotLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	fullKey := l.prefix + key

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("hold slot %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		// only the holder's token may clear the key
		_ = releaseScript.Run(context.Background(), l.client, []string{fullKey}, token).Err()
	}
	return release, true, nil
}

// MemorySlotLocker is the in-process fallback when Redis is not configured.
type MemorySlotLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewMemorySlotLocker() *MemorySlotLocker {
	return &MemorySlotLocker{held: map[string]time.Time{}, clock: time.Now}
}

func (l *MemorySlotLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if expires, ok := l.held[key]; ok && now.Before(expires) {
		return nil, false, nil
	}
	expires := now.Add(ttl)
	l.held[key] = expires

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key] == expires {
			delete(l.held, key)
		}
	}
	return release, true, nil
}

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupStore suppresses redelivery of inbound events that carry the same
// upstream identity. Remember records key -> eventID if the key is unseen;
// for a duplicate it returns the event id recorded the first time.
type DedupStore interface {
	Remember(ctx context.Context, key, eventID string) (existingID string, duplicate bool, err error)
}

// MemoryDedup is the in-process fallback used when no Redis URL is
// configured. Entries live for the process lifetime.
type MemoryDedup struct {
	mu   sync.Mutex
	seen map[string]string
}

func NewMemoryDedup() *MemoryDedup {
	return &MemoryDedup{seen: make(map[string]string)}
}

func (d *MemoryDedup) Remember(_ context.Context, key, eventID string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.seen[key]; ok {
		return existing, true, nil
	}
	d.seen[key] = eventID
	return "", false, nil
}

// RedisDedup stores idempotency keys in Redis with a TTL, so suppression
// survives restarts and multiple instances agree on what was seen.
type RedisDedup struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDedup(ctx context.Context, redisURL string) (*RedisDedup, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisDedup{client: client, ttl: 24 * time.Hour}, nil
}

func (d *RedisDedup) Close() error {
	return d.client.Close()
}

func dedupKey(key string) string {
	return "dedup:" + key
}

func (d *RedisDedup) Remember(ctx context.Context, key, eventID string) (string, bool, error) {
	set, err := d.client.SetNX(ctx, dedupKey(key), eventID, d.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("recording dedup key: %w", err)
	}
	if set {
		return "", false, nil
	}

	existing, err := d.client.Get(ctx, dedupKey(key)).Result()
	if err == redis.Nil {
		// The original entry expired between SetNX and Get. Treat as new.
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading dedup key: %w", err)
	}
	return existing, true, nil
}

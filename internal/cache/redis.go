package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dtek-schedule/internal/schedule"
)

const snapshotKey = "dtek:snapshot"

// RedisStore keeps the snapshot in Redis so a restart can skip the first scrape.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{Client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}

// Save writes snap with ttl as its expiry.
func (s *RedisStore) Save(ctx context.Context, snap *schedule.Snapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.Client.Set(ctx, snapshotKey, raw, ttl).Err()
}

// Load returns the stored snapshot, or nil when the key is absent.
func (s *RedisStore) Load(ctx context.Context) (*schedule.Snapshot, error) {
	raw, err := s.Client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap schedule.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// SharedStore mirrors calibration stats across processes. A miss returns (nil, false, nil).
type SharedStore interface {
	Get(ctx context.Context, key CacheKey) (*models.TeamCalibrationStats, bool, error)
	Set(ctx context.Context, key CacheKey, stats *models.TeamCalibrationStats, ttl time.Duration) error
}

// RedisStore is a SharedStore backed by Redis
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store that writes JSON under "<prefix>:<league>:<teamID>"
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "calibration"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) key(k CacheKey) string {
	return s.prefix + ":" + k.String()
}

// Get reads stats for key
func (s *RedisStore) Get(ctx context.Context, key CacheKey) (*models.TeamCalibrationStats, bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", s.key(key), err)
	}

	var stats models.TeamCalibrationStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false, fmt.Errorf("decode cached stats %s: %w", s.key(key), err)
	}
	if stats.GamesAnalyzed == 0 {
		return nil, false, nil
	}
	return &stats, true, nil
}

// Set writes stats for key with ttl
func (s *RedisStore) Set(ctx context.Context, key CacheKey, stats *models.TeamCalibrationStats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats %s: %w", s.key(key), err)
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key(key), err)
	}
	return nil
}

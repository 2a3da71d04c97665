package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"go-branchpos-ws/internal/repository"
)

type RedisStatsCache struct {
	client *redis.Client
}

func NewRedisStatsCache(addr string, password string, db int) *RedisStatsCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStatsCache{client: client}
}

func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}

func statsKey(branchID string) string {
	return "dashboard:stats:" + branchID
}

func (c *RedisStatsCache) Get(ctx context.Context, branchID string) (*repository.DashboardStats, bool, error) {
	val, err := c.client.Get(ctx, statsKey(branchID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var stats repository.DashboardStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, false, err
	}
	return &stats, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, branchID string, stats *repository.DashboardStats, ttl time.Duration) error {
	if stats == nil {
		return nil
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(branchID), payload, ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, branchID string) error {
	return c.client.Del(ctx, statsKey(branchID)).Err()
}

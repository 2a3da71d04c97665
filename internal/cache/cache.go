// Package cache holds the dashboard stats cache. Stats are cheap to serve
// stale for a few seconds; writes invalidate the branch entry.
package cache

import (
	"context"
	"time"

	"go-branchpos-ws/internal/repository"
)

type StatsCache interface {
	Get(ctx context.Context, branchID string) (*repository.DashboardStats, bool, error)
	Set(ctx context.Context, branchID string, stats *repository.DashboardStats, ttl time.Duration) error
	Invalidate(ctx context.Context, branchID string) error
}

// NoopStatsCache is used when no Redis address is configured.
type NoopStatsCache struct{}

func (NoopStatsCache) Get(ctx context.Context, branchID string) (*repository.DashboardStats, bool, error) {
	return nil, false, nil
}

func (NoopStatsCache) Set(ctx context.Context, branchID string, stats *repository.DashboardStats, ttl time.Duration) error {
	return nil
}

func (NoopStatsCache) Invalidate(ctx context.Context, branchID string) error {
	return nil
}

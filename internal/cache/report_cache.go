// Package cache keeps generated reports in Redis for a bounded time.
// Reports are derived data; the services never read employee state from here.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"timesheet-tracker/internal/metrics"
)

// Report kinds cached per employee and week.
const (
	KindWeekly  = "weekly"
	KindSummary = "summary"
)

var weekKinds = []string{KindWeekly, KindSummary}

// Client is the part of the redis client used by the cache.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ReportCache stores JSON-encoded reports with a TTL.
type ReportCache struct {
	client Client
	ttl    time.Duration
}

func NewReportCache(client Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Key builds the cache key of a report for an employee's week.
func Key(kind, employeeID string, weekStart time.Time) string {
	return fmt.Sprintf("report:%s:%s:%d", kind, employeeID, weekStart.Unix())
}

// Get decodes the cached value into dest. It reports false on a miss.
func (c *ReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ReportCacheTotal.WithLabelValues(metrics.ResultMiss).Inc()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	metrics.ReportCacheTotal.WithLabelValues(metrics.ResultHit).Inc()
	return true, nil
}

// Set stores value under key.
func (c *ReportCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// InvalidateWeek drops every cached report of the employee's week.
func (c *ReportCache) InvalidateWeek(ctx context.Context, employeeID string, weekStart time.Time) error {
	keys := make([]string, 0, len(weekKinds))
	for _, kind := range weekKinds {
		keys = append(keys, Key(kind, employeeID, weekStart))
	}
	return c.client.Del(ctx, keys...).Err()
}

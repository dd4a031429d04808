package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"timesheet-tracker/internal/metrics"
)

// DedupStore is the part of the redis client used for deduplication.
type DedupStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// DedupNotifier sends at most one notification per employee and week within ttl.
// Key format: notify:submitted:<employee_id>:<week_start_unix>
type DedupNotifier struct {
	next  Notifier
	store DedupStore
	ttl   time.Duration
}

func NewDedupNotifier(next Notifier, store DedupStore, ttl time.Duration) *DedupNotifier {
	return &DedupNotifier{next: next, store: store, ttl: ttl}
}

func (n *DedupNotifier) NotifySubmitted(ctx context.Context, s Submission) error {
	key := n.key(s)
	first, err := n.store.SetNX(ctx, key, "1", n.ttl).Result()
	if err != nil {
		return fmt.Errorf("dedup check: %w", err)
	}
	if !first {
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		return nil
	}

	if err := n.next.NotifySubmitted(ctx, s); err != nil {
		// Release the key so a later submission can try again.
		_ = n.store.Del(ctx, key).Err()
		return err
	}
	return nil
}

func (n *DedupNotifier) key(s Submission) string {
	return fmt.Sprintf("notify:submitted:%s:%d", s.EmployeeID, s.WeekStart.Unix())
}

// Package locking serializes work per key. Keys are hashed onto a fixed set of
// shards so one key is always guarded by the same lock.
package locking

import (
	"context"
	"hash/fnv"
	"sort"
	"time"
)

const defaultShards = 64

// KeyedLocker hands out per-key exclusive sections. Two different keys may share
// a shard and wait on each other; the same key never runs concurrently.
type KeyedLocker struct {
	shards []chan struct{}
}

// NewKeyedLocker creates a locker with n shards. If n <= 0, defaultShards is used.
func NewKeyedLocker(n int) *KeyedLocker {
	if n <= 0 {
		n = defaultShards
	}
	l := &KeyedLocker{shards: make([]chan struct{}, n)}
	for i := range l.shards {
		l.shards[i] = make(chan struct{}, 1)
	}
	return l
}

// Lock blocks until key is free or ctx is done. The returned func releases it.
func (l *KeyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	return l.LockAll(ctx, key)
}

// LockAll takes every key at once. Shards are acquired in ascending order and
// each shard only once, so overlapping LockAll calls cannot deadlock. On
// failure nothing stays held.
func (l *KeyedLocker) LockAll(ctx context.Context, keys ...string) (func(), error) {
	indexes := make([]int, 0, len(keys))
	for _, key := range keys {
		indexes = append(indexes, l.shardIndex(key))
	}
	sort.Ints(indexes)

	held := make([]chan struct{}, 0, len(indexes))
	unlock := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}
	for i, idx := range indexes {
		if i > 0 && idx == indexes[i-1] {
			continue
		}
		shard := l.shards[idx]
		select {
		case shard <- struct{}{}:
			held = append(held, shard)
		case <-ctx.Done():
			unlock()
			return nil, ctx.Err()
		}
	}
	return unlock, nil
}

// WithLocks runs fn while holding every key.
func (l *KeyedLocker) WithLocks(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	unlock, err := l.LockAll(ctx, keys...)
	if err != nil {
		return err
	}
	defer unlock()
	return fn(ctx)
}

func (l *KeyedLocker) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(l.shards)))
}

// WeekKey builds the lock key for an employee's week.
func WeekKey(employeeID string, weekStart time.Time) string {
	return employeeID + "|" + weekStart.UTC().Format(time.RFC3339)
}

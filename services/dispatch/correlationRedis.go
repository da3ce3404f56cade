// File: services/dispatch/correlationRedis.go
package dispatch

import (
	"context"
	"errors"
	"time"

	"notifyrelay/utils"

	"github.com/go-redis/redis/v8"
)

// RedisCorrelationTable stores reply correlations in Redis with a native TTL,
// so unanswered questions age out without a sweeper and correlations survive
// process restarts.
type RedisCorrelationTable struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCorrelationTable wraps a Redis client as a CorrelationTable.
func NewRedisCorrelationTable(client *redis.Client, ttl time.Duration) *RedisCorrelationTable {
	return &RedisCorrelationTable{client: client, ttl: ttl}
}

func (t *RedisCorrelationTable) Register(ctx context.Context, handle, notificationID string) error {
	key := utils.CorrelationCachePrefix + handle
	return t.client.Set(ctx, key, notificationID, t.ttl).Err()
}

// Consume resolves and removes an entry in one round trip, keeping the
// at-most-once guarantee under concurrent replies to the same handle.
func (t *RedisCorrelationTable) Consume(ctx context.Context, handle string) (string, bool, error) {
	key := utils.CorrelationCachePrefix + handle
	id, err := t.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (t *RedisCorrelationTable) Len(ctx context.Context) (int64, error) {
	var count int64
	iter := t.client.Scan(ctx, 0, utils.CorrelationCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return count, nil
}

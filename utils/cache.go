// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"notifyrelay/config"

	"github.com/go-redis/redis/v8"
)

// CorrelationCacheClient is the dedicated client for reply-correlation state.
var CorrelationCacheClient *redis.Client

// InitCorrelationCache initializes the Redis client backing the correlation table.
func InitCorrelationCache() {
	CorrelationCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCorrelationDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CorrelationCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Correlation): %v", err)
	}
}

// GetCorrelationCacheClient returns the Redis client for correlation state.
func GetCorrelationCacheClient() *redis.Client {
	if CorrelationCacheClient == nil {
		InitCorrelationCache()
	}
	return CorrelationCacheClient
}

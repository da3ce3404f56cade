package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	Notifier  bool      `json:"notifier"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates in-memory
// state. notifierProbe is called with a bounded context; redisClients may be
// empty when no redis is configured.
func StartHealthMonitor(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client, notifierProbe func(context.Context) bool, probeTimeout time.Duration) {
	pass := func() {
		var redisHealth []bool
		for _, client := range redisClients {
			err := client.Ping(ctx).Err()
			redisHealth = append(redisHealth, err == nil)
		}

		mongoHealthy := mongoClient.Ping(ctx, nil) == nil

		notifierHealthy := false
		if notifierProbe != nil {
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			notifierHealthy = notifierProbe(probeCtx)
			cancel()
		}

		mu.Lock()
		currentHealth = HealthStatus{
			Mongo:     mongoHealthy,
			Redis:     redisHealth,
			Notifier:  notifierHealthy,
			CheckedAt: time.Now(),
		}
		mu.Unlock()
	}

	go func() {
		// First snapshot right away so /health does not report unknown
		// statuses until the first tick.
		pass()

		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pass()
			}
		}
	}()
}

package cron

import (
	"context"
	"log"
	"time"

	"notifyrelay/config"
	"notifyrelay/services/dispatch"
)

// StartDispatchWorker runs the delivery loop in background until ctx is cancelled.
func StartDispatchWorker(ctx context.Context, svc dispatch.DispatchService) {
	interval := config.DispatchInterval()

	go func() {
		log.Printf("[DispatchWorker] 🚀 Starting delivery loop (every %s)...", interval)
		svc.Run(ctx, interval)
		log.Println("[DispatchWorker] 🛑 Delivery loop stopped.")
	}()
}

// StartCorrelationSweeper periodically evicts expired entries from an
// in-memory correlation table. Redis-backed tables expire natively and
// do not need a sweeper.
func StartCorrelationSweeper(ctx context.Context, table *dispatch.MemoryCorrelationTable) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := table.Sweep(); removed > 0 {
					log.Printf("[CorrelationSweeper] 🧹 Evicted %d expired entries", removed)
				}
			}
		}
	}()
}

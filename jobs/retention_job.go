package jobs

import (
	"context"
	"log"
	"time"

	"partflow/services"
)

// StartRetentionSweep runs the retention purge on a fixed cadence. The first
// sweep runs immediately so a restarted process does not wait a full
// interval to catch up.
func StartRetentionSweep(retentionService *services.RetentionService, interval time.Duration) chan struct{} {
	ticker := time.NewTicker(interval)
	quit := make(chan struct{})

	runSweep(retentionService)

	go func() {
		for {
			select {
			case <-ticker.C:
				runSweep(retentionService)
			case <-quit:
				ticker.Stop()
				return
			}
		}
	}()

	return quit
}

func runSweep(retentionService *services.RetentionService) {
	log.Println("Running retention sweep...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	deleted, err := retentionService.PurgeExpiredAggregates(ctx)
	if err != nil {
		log.Printf("Retention sweep failed: %v", err)
		return
	}
	log.Printf("Retention sweep completed, purged %d aggregates", deleted)
}

package lobby

import (
	"context"
	"log"
	"time"

	"github.com/wordclash/wordclash/internal/storage"
)

// Sweeper periodically deletes lobbies older than the configured maximum
// age, oldest first.
type Sweeper struct {
	lobbies   *storage.LobbyStore
	interval  time.Duration
	maxAge    time.Duration
	batchSize int
	now       func() time.Time
}

// NewSweeper creates a sweeper.
func NewSweeper(lobbies *storage.LobbyStore, interval, maxAge time.Duration, batchSize int) *Sweeper {
	return &Sweeper{
		lobbies:   lobbies,
		interval:  interval,
		maxAge:    maxAge,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Run sweeps on a fixed period until ctx is cancelled.
func (sw *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	log.Printf("lobby sweeper running every %s, reclaiming lobbies older than %s", sw.interval, sw.maxAge)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sw.SweepOnce(ctx); err != nil {
				log.Printf("[ERROR] lobby sweep: %v", err)
			}
		}
	}
}

// SweepOnce deletes every lobby past the age cutoff and returns the count.
// The batch is ordered oldest first, so the scan stops at the first lobby
// still young enough. A failed delete is logged and skipped so one bad row
// does not abort the batch.
func (sw *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := sw.now().Add(-sw.maxAge).Unix()

	lobbies, err := sw.lobbies.ListOrderedByCreatedAt(ctx, sw.batchSize)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, lob := range lobbies {
		if lob.CreatedAt >= cutoff {
			break
		}
		if err := sw.lobbies.DeleteByCode(ctx, lob.Code); err != nil {
			log.Printf("[ERROR] reclaim lobby %s: %v", lob.Code, err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		log.Printf("lobby sweep reclaimed %d lobbies", deleted)
	}
	return deleted, nil
}

package app

import (
	"context"
	"log"
	"time"

	"github.com/hodory/beacon/internal/backend"
	"github.com/hodory/beacon/internal/hotspot"
	"github.com/hodory/beacon/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// HotspotStatuser reports the hotspot; *live.Controller implements it.
type HotspotStatuser interface {
	HotspotStatus(ctx context.Context, ifname string) hotspot.Status
}

// StartPoller launches a background goroutine that refreshes the store. The
// delay between polls doubles while the backend is failing, up to 30s. It
// returns immediately.
func StartPoller(ctx context.Context, store *state.Store, hs HotspotStatuser, pinger backend.Pinger, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			refresh(ctx, store, hs, pinger)
			delay := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff returns base for a healthy backend and base*2^failures
// otherwise, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

func refresh(ctx context.Context, store *state.Store, hs HotspotStatuser, pinger backend.Pinger) {
	status := hs.HotspotStatus(ctx, "")
	health, err := pinger.Ping(ctx)
	if err != nil {
		log.Printf("backend ping failed: %v", err)
	}
	store.Update(status, health, err)
}

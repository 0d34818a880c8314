package app

import (
	"context"
	"time"

	"github.com/clarityfi/clarity/internal/models"
)

// startHubScheduler recomputes the hub caches on a fixed interval so the
// dashboard stays warm between requests.
func startHubScheduler(ctx context.Context, a *App, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.Logger.Info().Dur("interval", interval).Msg("Hub scheduler: started")

	for {
		select {
		case <-ctx.Done():
			a.Logger.Info().Msg("Hub scheduler: stopped")
			return
		case <-ticker.C:
			refreshHubs(ctx, a)
		}
	}
}

func refreshHubs(ctx context.Context, a *App) {
	start := time.Now()

	// Drop snapshots first so each Get recomputes instead of serving a
	// still-fresh cache entry.
	for _, hub := range models.AllHubs {
		if err := a.Storage.HubCache().DeleteHub(ctx, hub); err != nil {
			a.Logger.Debug().Err(err).Str("hub", string(hub)).Msg("Hub refresh: cache drop skipped")
		}
	}

	warmHubs(ctx, a)

	a.Logger.Info().Dur("duration", time.Since(start)).Msg("Hub refresh: complete")
}

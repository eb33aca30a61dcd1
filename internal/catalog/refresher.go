package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thejerf/suture/v4"
)

// Refresher is a supervised service that optionally warms the cache at start
// and then reloads it every Interval.
type Refresher struct {
	Cache    *Cache
	Interval time.Duration
	Warm     bool
}

// Serve implements suture.Service. A load failure is logged and retried on the
// next tick; it never stops the service. With no interval the service exits
// after warming and asks not to be restarted.
func (r *Refresher) Serve(ctx context.Context) error {
	if r.Warm {
		if err := r.Cache.Ensure(ctx); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("catalog warm-up failed")
		}
	}
	if r.Interval <= 0 {
		return suture.ErrDoNotRestart
	}

	t := time.NewTicker(r.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := r.Cache.Refresh(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("catalog refresh failed; keeping previous snapshot")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (r *Refresher) String() string { return "catalog-refresher" }

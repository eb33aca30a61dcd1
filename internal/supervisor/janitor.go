package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// PurgeFunc deletes idempotency records that expired at or before now.
type PurgeFunc func(ctx context.Context, now time.Time) (int64, error)

// Janitor periodically purges expired idempotency records. The SQLite store
// needs it; MongoDB expires records with a TTL index instead.
type Janitor struct {
	Purge    PurgeFunc
	Interval time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Serve implements suture.Service. Purge errors are logged and retried on
// the next tick.
func (j *Janitor) Serve(ctx context.Context) error {
	interval := j.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	now := j.Now
	if now == nil {
		now = time.Now
	}

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			n, err := j.Purge(ctx, now().UTC())
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Msg("idempotency purge failed")
				}
				continue
			}
			if n > 0 {
				log.Debug().Int64("purged", n).Msg("expired idempotency records removed")
			}
		}
	}
}

func (j *Janitor) String() string { return "idempotency-janitor" }

package catalog

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher rebuilds catalogs on a cron schedule so renamed or newly
// registered entities show up without a restart.
type Refresher struct {
	catalogs []*Catalog
	cron     *cron.Cron
}

func NewRefresher(catalogs ...*Catalog) *Refresher {
	return &Refresher{
		catalogs: catalogs,
		cron:     cron.New(),
	}
}

// Start schedules the refresh job and begins running it. The context
// carries the logger used by refresh runs.
func (r *Refresher) Start(ctx context.Context, schedule string) error {
	logger := zerolog.Ctx(ctx)

	_, err := r.cron.AddFunc(schedule, func() {
		for _, c := range r.catalogs {
			if err := c.Build(ctx); err != nil {
				logger.Warn().Err(err).
					Str("metric", string(c.metric)).
					Msg("catalog refresh failed, keeping previous mapping")
				continue
			}
			logger.Info().
				Str("metric", string(c.metric)).
				Int("entities", c.Len()).
				Msg("catalog refreshed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	r.cron.Start()
	return nil
}

// Stop halts the schedule; a refresh already running completes.
func (r *Refresher) Stop() {
	r.cron.Stop()
}

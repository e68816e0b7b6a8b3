package xm

import (
	"context"
	"time"

	"github.com/datocol/hidroatlas/pkg/adapters"
	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/datocol/hidroatlas/pkg/models/store"
	"github.com/datocol/hidroatlas/pkg/store/sqlite/cache"
	"github.com/rs/zerolog"
)

// CachedClient reads series through the local cache store and only hits
// the live XM API when a window was never fetched or has gone stale.
// When the live call fails and a stale copy exists, the stale copy is
// served instead; dashboards prefer old numbers over none.
type CachedClient struct {
	live  Client
	store cache.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewCachedClient(live Client, store cache.Store, ttl time.Duration) *CachedClient {
	return &CachedClient{
		live:  live,
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *CachedClient) GetObservations(
	ctx context.Context,
	metric domain.Metric,
	entity domain.Entity,
	start, end time.Time,
) ([]domain.Observation, error) {
	startDate := start.Format(dateLayout)
	endDate := end.Format(dateLayout)

	fresh, cached := c.isFresh(ctx, string(metric), startDate, endDate)
	if fresh {
		return c.cachedObservations(ctx, metric, startDate, endDate)
	}

	obs, err := c.live.GetObservations(ctx, metric, entity, start, end)
	if err != nil {
		if cached {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("metric", string(metric)).
				Msg("upstream unavailable, serving stale cache")
			return c.cachedObservations(ctx, metric, startDate, endDate)
		}
		return nil, err
	}

	rows := make([]store.ObservationRow, len(obs))
	for i, o := range obs {
		rows[i] = adapters.MapDomainObservationToStore(metric, o)
	}
	if err := c.store.ReplaceObservations(ctx, string(metric), startDate, endDate, rows); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to cache observations")
	}
	return obs, nil
}

func (c *CachedClient) GetCatalog(ctx context.Context, metric domain.Metric) ([]domain.CatalogEntry, error) {
	fresh, cached := c.isFresh(ctx, string(metric), "", "")
	if fresh {
		return c.cachedCatalog(ctx, metric)
	}

	entries, err := c.live.GetCatalog(ctx, metric)
	if err != nil {
		if cached {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("metric", string(metric)).
				Msg("upstream unavailable, serving stale catalog")
			return c.cachedCatalog(ctx, metric)
		}
		return nil, err
	}

	rows := make([]store.CatalogRow, len(entries))
	for i, e := range entries {
		rows[i] = adapters.MapDomainCatalogEntryToStore(metric, e)
	}
	if err := c.store.ReplaceCatalog(ctx, string(metric), rows); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to cache catalog")
	}
	return entries, nil
}

func (c *CachedClient) isFresh(ctx context.Context, metric, startDate, endDate string) (fresh, cached bool) {
	fetchedAt, ok, err := c.store.LastFetch(ctx, metric, startDate, endDate)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cache lookup failed, falling through to live")
		return false, false
	}
	if !ok {
		return false, false
	}
	return c.now().Sub(fetchedAt) < c.ttl, true
}

func (c *CachedClient) cachedObservations(ctx context.Context, metric domain.Metric, startDate, endDate string) ([]domain.Observation, error) {
	rows, err := c.store.GetObservations(ctx, string(metric), startDate, endDate)
	if err != nil {
		return nil, err
	}
	obs := make([]domain.Observation, len(rows))
	for i, row := range rows {
		obs[i] = adapters.MapStoreObservationToDomain(row)
	}
	return obs, nil
}

func (c *CachedClient) cachedCatalog(ctx context.Context, metric domain.Metric) ([]domain.CatalogEntry, error) {
	rows, err := c.store.GetCatalog(ctx, string(metric))
	if err != nil {
		return nil, err
	}
	entries := make([]domain.CatalogEntry, len(rows))
	for i, row := range rows {
		entries[i] = adapters.MapStoreCatalogRowToDomain(row)
	}
	return entries, nil
}

package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/datocol/hidroatlas/pkg/services/catalog"
	"github.com/datocol/hidroatlas/pkg/services/hierarchy"
	"github.com/datocol/hidroatlas/pkg/services/share"
	"github.com/datocol/hidroatlas/pkg/services/xm"
)

// Explorer composes the upstream client, the reference catalogs and the
// aggregation core into the queries the dashboard renders. Every method
// runs fetch -> annotate -> aggregate -> reconcile percentages; empty
// upstream results come back as empty row sets, not errors.
type Explorer interface {
	Regions(ctx context.Context) []string
	RegionContributions(ctx context.Context, period domain.TimePeriod) ([]domain.Share, error)
	RiverContributions(ctx context.Context, period domain.TimePeriod, region string) ([]domain.Share, error)
	RiverDaily(ctx context.Context, period domain.TimePeriod, river string) ([]domain.DailyValue, error)
	RegionDaily(ctx context.Context, period domain.TimePeriod, region string) ([]domain.DailyValue, error)
	ReservoirShares(ctx context.Context, region string) ([]domain.Share, error)
	CapacityView(ctx context.Context, expanded hierarchy.Expansion) ([]domain.HierarchyRow, error)
}

type explorer struct {
	client     xm.Client
	rivers     *catalog.Catalog
	reservoirs *catalog.Catalog
	now        func() time.Time
}

func NewExplorer(client xm.Client, rivers, reservoirs *catalog.Catalog) Explorer {
	return &explorer{
		client:     client,
		rivers:     rivers,
		reservoirs: reservoirs,
		now:        time.Now,
	}
}

func (e *explorer) Regions(_ context.Context) []string {
	return e.rivers.Regions()
}

func (e *explorer) RegionContributions(ctx context.Context, period domain.TimePeriod) ([]domain.Share, error) {
	obs, err := e.flow(ctx, period)
	if err != nil {
		return nil, err
	}
	return share.ComputePercentages(share.Aggregate(obs, share.ByRegion)), nil
}

func (e *explorer) RiverContributions(
	ctx context.Context,
	period domain.TimePeriod,
	region string,
) ([]domain.Share, error) {
	obs, err := e.flow(ctx, period)
	if err != nil {
		return nil, err
	}
	if region != "" {
		obs = filterRegion(obs, region)
	}
	return share.ComputePercentages(share.Aggregate(obs, share.ByName)), nil
}

func (e *explorer) RiverDaily(
	ctx context.Context,
	period domain.TimePeriod,
	river string,
) ([]domain.DailyValue, error) {
	obs, err := e.flow(ctx, period)
	if err != nil {
		return nil, err
	}

	name := catalog.NormalizeEntity(river)
	var filtered []domain.Observation
	for _, o := range obs {
		if o.Name == name {
			filtered = append(filtered, o)
		}
	}
	return share.DailyTotals(filtered), nil
}

func (e *explorer) RegionDaily(
	ctx context.Context,
	period domain.TimePeriod,
	region string,
) ([]domain.DailyValue, error) {
	obs, err := e.flow(ctx, period)
	if err != nil {
		return nil, err
	}
	return share.DailyTotals(filterRegion(obs, region)), nil
}

func (e *explorer) ReservoirShares(ctx context.Context, region string) ([]domain.Share, error) {
	obs, err := e.capacity(ctx)
	if err != nil {
		return nil, err
	}
	if region != "" {
		obs = filterRegion(obs, region)
	}
	return share.ComputePercentages(share.Aggregate(obs, share.ByName)), nil
}

func (e *explorer) CapacityView(ctx context.Context, expanded hierarchy.Expansion) ([]domain.HierarchyRow, error) {
	obs, err := e.capacity(ctx)
	if err != nil {
		return nil, err
	}

	regions := share.ComputePercentages(share.Aggregate(obs, share.ByRegion))

	// Item percentages are shares within their own region, so each
	// expanded block reconciles to 100 on its own.
	var items []domain.RegionItem
	for _, region := range regions {
		regionShares := share.ComputePercentages(share.Aggregate(filterRegion(obs, region.Name), share.ByName))
		for _, s := range regionShares {
			items = append(items, domain.RegionItem{Share: s, Region: region.Name})
		}
	}

	view, err := hierarchy.BuildView(regions, items, expanded)
	if err != nil {
		return nil, fmt.Errorf("build capacity view: %w", err)
	}
	return view, nil
}

// flow fetches the river contribution series for the period and
// resolves regions through the river catalog.
func (e *explorer) flow(ctx context.Context, period domain.TimePeriod) ([]domain.Observation, error) {
	obs, err := e.client.GetObservations(ctx, domain.MetricRiverContribution, domain.EntityRiver, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("fetch river contributions: %w", err)
	}
	return e.rivers.Annotate(obs), nil
}

// capacity fetches the latest useful-capacity snapshot. The series is
// published daily, so a one-day lookback always covers the newest value.
func (e *explorer) capacity(ctx context.Context) ([]domain.Observation, error) {
	end := e.now()
	obs, err := e.client.GetObservations(ctx, domain.MetricUsefulCapacity, domain.EntityReservoir, end.AddDate(0, 0, -1), end)
	if err != nil {
		return nil, fmt.Errorf("fetch useful capacity: %w", err)
	}
	return e.reservoirs.Annotate(obs), nil
}

func filterRegion(obs []domain.Observation, region string) []domain.Observation {
	var filtered []domain.Observation
	for _, o := range obs {
		if o.Region == region {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

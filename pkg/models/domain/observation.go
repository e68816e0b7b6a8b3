package domain

import "time"

// Metric identifies an upstream XM data series.
type Metric string

// Entity identifies the granularity a metric is requested at.
type Entity string

const (
	MetricRiverContribution Metric = "AporCaudal"
	MetricUsefulCapacity    Metric = "CapaUtilDiarEner"
	MetricRiverCatalog      Metric = "ListadoRios"
	MetricReservoirCatalog  Metric = "ListadoEmbalses"

	EntityRiver     Entity = "Rio"
	EntityReservoir Entity = "Embalse"
	EntitySystem    Entity = "Sistema"
)

// Observation is a single (entity, date, value) data point from the
// upstream API. Region is resolved through the catalog after fetching
// and stays empty for unmapped entities.
type Observation struct {
	Name   string
	Region string
	Date   time.Time
	Value  float64 // GWh
}

// CatalogEntry relates an entity (river or reservoir) to its
// hydrological region.
type CatalogEntry struct {
	Name   string
	Region string
}

// TimePeriod represents the date range of a query.
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}

// Period builds a TimePeriod from two dates.
func Period(start, end time.Time) TimePeriod {
	return TimePeriod{
		Start:    start,
		End:      end,
		Duration: int(end.Sub(start).Hours() / 24),
	}
}

package store

import "time"

// ObservationRow is one cached data point of an upstream daily series.
type ObservationRow struct {
	Metric string
	Name   string
	Date   time.Time
	Value  float64
}

// CatalogRow is one cached entity-to-region relation from an upstream
// list series.
type CatalogRow struct {
	Metric string
	Name   string
	Region string
}

// FetchRecord marks when a (metric, window) combination was last pulled
// from the upstream API, so empty windows are distinguishable from
// never-fetched ones.
type FetchRecord struct {
	Metric    string
	StartDate string
	EndDate   string
	FetchedAt time.Time
}

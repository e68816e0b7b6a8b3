package domain

// Share is a grouped summary row: a total per entity or region plus its
// percentage of the grand total. Percentages produced by the aggregator
// always sum to exactly 100.00 across one result set.
type Share struct {
	Name       string
	Total      float64
	Percentage float64
}

// RegionItem is a Share tagged with the region it belongs to, used as
// input for the hierarchical capacity view.
type RegionItem struct {
	Share
	Region string
}

// DailyValue is one date of an entity's time series with its
// participation in the period total.
type DailyValue struct {
	Date       string // YYYY-MM-DD
	Value      float64
	Percentage float64
}

package domain

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "info"
	}
}

// Finding is one data-quality problem detected while cross-checking the
// official catalog against the series that actually carry data.
type Finding struct {
	Severity Severity
	Issue    string
	Entities []string
}

// MappingCoverage summarizes how many observations of a series resolved
// to a region through the catalog.
type MappingCoverage struct {
	Mapped   int
	Total    int
	Unmapped []string // entity names without a catalog entry
}

// Ratio returns the mapped fraction in [0, 1]; 1 for an empty series.
func (c MappingCoverage) Ratio() float64 {
	if c.Total == 0 {
		return 1
	}
	return float64(c.Mapped) / float64(c.Total)
}

// RegionBreakdown counts catalog entities and entities with data per region.
type RegionBreakdown struct {
	Region       string
	CatalogCount int
	WithData     int
}

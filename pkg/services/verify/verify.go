package verify

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/datocol/hidroatlas/pkg/services/catalog"
	"github.com/datocol/hidroatlas/pkg/services/xm"
)

// Service cross-checks the official entity catalogs against the series
// that actually carry data and reports coverage gaps. Unmapped entities
// are silently excluded from the dashboard's grouped views; this report
// is where they surface.
type Service struct {
	client     xm.Client
	rivers     *catalog.Catalog
	reservoirs *catalog.Catalog
	now        func() time.Time
}

func NewService(client xm.Client, rivers, reservoirs *catalog.Catalog) *Service {
	return &Service{
		client:     client,
		rivers:     rivers,
		reservoirs: reservoirs,
		now:        time.Now,
	}
}

type seriesCheck struct {
	catalogOnly []string // in the catalog, no data
	dataOnly    []string // carrying data, missing from the catalog
	coverage    domain.MappingCoverage
	withData    map[string]struct{}
}

// Run verifies both relation sets over the trailing 30 days of flow
// data and the latest capacity snapshot.
func (s *Service) Run(ctx context.Context) (*domain.Report, error) {
	end := s.now()
	start := end.AddDate(0, 0, -30)

	flow, err := s.client.GetObservations(ctx, domain.MetricRiverContribution, domain.EntityRiver, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch river contributions: %w", err)
	}
	capacity, err := s.client.GetObservations(ctx, domain.MetricUsefulCapacity, domain.EntityReservoir, end.AddDate(0, 0, -1), end)
	if err != nil {
		return nil, fmt.Errorf("fetch useful capacity: %w", err)
	}

	riverCheck := checkSeries(s.rivers, flow)
	reservoirCheck := checkSeries(s.reservoirs, capacity)

	report := &domain.Report{
		Title:  "Hydrological relation verification",
		Period: domain.Period(start, end),
		Sections: []domain.ReportSection{
			seriesSection("Rivers", s.rivers, riverCheck),
			seriesSection("Reservoirs", s.reservoirs, reservoirCheck),
			s.regionSection(riverCheck),
			problemsSection(riverCheck, reservoirCheck),
		},
	}
	return report, nil
}

func checkSeries(cat *catalog.Catalog, obs []domain.Observation) seriesCheck {
	withData := make(map[string]struct{})
	mapped := 0
	var dataOnly []string
	seenUnmapped := make(map[string]struct{})

	for _, o := range obs {
		name := catalog.NormalizeEntity(o.Name)
		withData[name] = struct{}{}
		if _, ok := cat.Region(name); ok {
			mapped++
			continue
		}
		if _, dup := seenUnmapped[name]; !dup {
			seenUnmapped[name] = struct{}{}
			dataOnly = append(dataOnly, name)
		}
	}

	var catalogOnly []string
	for _, entity := range cat.Entities("") {
		if _, ok := withData[entity]; !ok {
			catalogOnly = append(catalogOnly, entity)
		}
	}
	sort.Strings(dataOnly)

	return seriesCheck{
		catalogOnly: catalogOnly,
		dataOnly:    dataOnly,
		withData:    withData,
		coverage: domain.MappingCoverage{
			Mapped:   mapped,
			Total:    len(obs),
			Unmapped: dataOnly,
		},
	}
}

func seriesSection(title string, cat *catalog.Catalog, check seriesCheck) domain.ReportSection {
	return domain.ReportSection{
		Title: title,
		Summary: map[string]any{
			"catalog entities": cat.Len(),
			"with data":        len(check.withData),
			"mapping coverage": fmt.Sprintf("%d/%d (%.1f%%)", check.coverage.Mapped, check.coverage.Total, check.coverage.Ratio()*100),
		},
		Details: []domain.ReportDetail{
			{
				Name:        "Catalog only",
				Value:       len(check.catalogOnly),
				Description: fmt.Sprintf("%v", check.catalogOnly),
			},
			{
				Name:        "Data only",
				Value:       len(check.dataOnly),
				Description: fmt.Sprintf("%v", check.dataOnly),
			},
		},
	}
}

func (s *Service) regionSection(riverCheck seriesCheck) domain.ReportSection {
	regions := make(map[string]struct{})
	for _, r := range s.rivers.Regions() {
		regions[r] = struct{}{}
	}
	for _, r := range s.reservoirs.Regions() {
		regions[r] = struct{}{}
	}

	names := make([]string, 0, len(regions))
	for r := range regions {
		names = append(names, r)
	}
	sort.Strings(names)

	details := make([]domain.ReportDetail, 0, len(names))
	for _, region := range names {
		breakdown := domain.RegionBreakdown{
			Region:       region,
			CatalogCount: len(s.rivers.Entities(region)),
		}
		for _, entity := range s.rivers.Entities(region) {
			if _, ok := riverCheck.withData[entity]; ok {
				breakdown.WithData++
			}
		}
		details = append(details, domain.ReportDetail{
			Name:  breakdown.Region,
			Value: breakdown.WithData,
			Unit:  "rivers with data",
			Description: fmt.Sprintf("%d catalog rivers, %d reservoirs",
				breakdown.CatalogCount, len(s.reservoirs.Entities(region))),
		})
	}

	return domain.ReportSection{
		Title:   "Regions",
		Summary: map[string]any{"total regions": len(names)},
		Details: details,
	}
}

func problemsSection(riverCheck, reservoirCheck seriesCheck) domain.ReportSection {
	findings := findProblems(riverCheck, reservoirCheck)

	details := make([]domain.ReportDetail, 0, len(findings))
	for _, f := range findings {
		details = append(details, domain.ReportDetail{
			Name:        f.Issue,
			Value:       len(f.Entities),
			Unit:        f.Severity.String(),
			Description: fmt.Sprintf("%v", f.Entities),
		})
	}

	summary := map[string]any{"detected problems": len(findings)}
	if len(findings) == 0 {
		summary["status"] = "no significant problems detected"
	}

	return domain.ReportSection{
		Title:   "Problems",
		Summary: summary,
		Details: details,
	}
}

// findProblems distills the data-quality problems out of the two
// series checks.
func findProblems(riverCheck, reservoirCheck seriesCheck) []domain.Finding {
	var findings []domain.Finding

	if len(riverCheck.catalogOnly) > 0 {
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityWarning,
			Issue:    "catalog rivers without flow data",
			Entities: riverCheck.catalogOnly,
		})
	}
	if len(riverCheck.dataOnly) > 0 {
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityCritical,
			Issue:    "rivers with flow data missing from the catalog",
			Entities: riverCheck.dataOnly,
		})
	}
	if len(reservoirCheck.catalogOnly) > 0 {
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityWarning,
			Issue:    "catalog reservoirs without capacity data",
			Entities: reservoirCheck.catalogOnly,
		})
	}
	if len(reservoirCheck.dataOnly) > 0 {
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityCritical,
			Issue:    "reservoirs with capacity data missing from the catalog",
			Entities: reservoirCheck.dataOnly,
		})
	}

	return findings
}

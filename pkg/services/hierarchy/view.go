package hierarchy

import (
	"fmt"
	"sort"

	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/datocol/hidroatlas/pkg/services/share"
)

// Expansion is the set of region names currently shown expanded.
type Expansion map[string]struct{}

// NewExpansion builds an expansion set from region names.
func NewExpansion(regions ...string) Expansion {
	e := make(Expansion, len(regions))
	for _, r := range regions {
		e[r] = struct{}{}
	}
	return e
}

// Has reports whether a region is expanded.
func (e Expansion) Has(region string) bool {
	_, ok := e[region]
	return ok
}

// Toggle returns a copy of the set with the region flipped: added when
// absent, removed when present. The receiver is left untouched, so a
// view built from the old set stays valid.
func (e Expansion) Toggle(region string) Expansion {
	next := make(Expansion, len(e)+1)
	for r := range e {
		next[r] = struct{}{}
	}
	if next.Has(region) {
		delete(next, region)
	} else {
		next[region] = struct{}{}
	}
	return next
}

// BuildView flattens region summary rows and their items into the
// ordered row list the capacity table renders. Regions are sorted
// descending by total (alphabetical on ties); an expanded region is
// immediately followed by its items, also sorted descending; a single
// Total row closes the view. The output is fully determined by the
// inputs.
//
// An item referencing a region that is not among the region rows is a
// data-integrity bug in the caller and returns an error instead of a
// silently truncated view.
func BuildView(regions []domain.Share, items []domain.RegionItem, expanded Expansion) ([]domain.HierarchyRow, error) {
	known := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		known[r.Name] = struct{}{}
	}

	byRegion := make(map[string][]domain.RegionItem)
	for _, it := range items {
		if _, ok := known[it.Region]; !ok {
			return nil, fmt.Errorf("item %q references unknown region %q", it.Name, it.Region)
		}
		byRegion[it.Region] = append(byRegion[it.Region], it)
	}

	sorted := make([]domain.Share, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Total != sorted[j].Total {
			return sorted[i].Total > sorted[j].Total
		}
		return sorted[i].Name < sorted[j].Name
	})

	rows := make([]domain.HierarchyRow, 0, len(sorted)+len(items)+1)
	for _, region := range sorted {
		open := expanded.Has(region.Name)
		rows = append(rows, domain.HierarchyRow{
			Kind:       domain.RowRegion,
			Name:       region.Name,
			Total:      region.Total,
			Percentage: region.Percentage,
			Expanded:   open,
		})
		if !open {
			continue
		}

		children := byRegion[region.Name]
		sort.Slice(children, func(i, j int) bool {
			if children[i].Total != children[j].Total {
				return children[i].Total > children[j].Total
			}
			return children[i].Name < children[j].Name
		})
		for _, child := range children {
			rows = append(rows, domain.HierarchyRow{
				Kind:       domain.RowItem,
				Name:       child.Name,
				Region:     child.Region,
				Total:      child.Total,
				Percentage: child.Percentage,
			})
		}
	}

	rows = append(rows, domain.HierarchyRow{
		Kind:       domain.RowTotal,
		Total:      share.Sum(regions),
		Percentage: 100,
	})
	return rows, nil
}

package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/datocol/hidroatlas/pkg/services/xm"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Spanish)

// NormalizeEntity canonicalizes an entity name the way the upstream
// daily series spell it: trimmed and upper-cased.
func NormalizeEntity(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NormalizeRegion canonicalizes a hydrological region name: trimmed and
// title-cased.
func NormalizeRegion(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

// Catalog is the read-only entity-to-region reference mapping, built
// from one of the upstream list series (ListadoRios, ListadoEmbalses).
// Lookups for unmapped entities yield "no group", never an error. The
// mapping can be rebuilt in place; readers always see a complete copy.
type Catalog struct {
	client xm.Client
	metric domain.Metric

	mu      sync.RWMutex
	regions map[string]string
}

// New creates an empty catalog for one list series. Call Build before
// first use.
func New(client xm.Client, metric domain.Metric) *Catalog {
	return &Catalog{
		client:  client,
		metric:  metric,
		regions: make(map[string]string),
	}
}

// Build fetches the list series and swaps in the normalized mapping.
// On failure the previous mapping stays in place.
func (c *Catalog) Build(ctx context.Context) error {
	entries, err := c.client.GetCatalog(ctx, c.metric)
	if err != nil {
		return fmt.Errorf("build catalog %s: %w", c.metric, err)
	}

	next := make(map[string]string, len(entries))
	for _, e := range entries {
		next[NormalizeEntity(e.Name)] = NormalizeRegion(e.Region)
	}

	c.mu.Lock()
	c.regions = next
	c.mu.Unlock()
	return nil
}

// Region resolves an entity name to its hydrological region. The second
// return is false for entities absent from the reference mapping.
func (c *Catalog) Region(entity string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	region, ok := c.regions[NormalizeEntity(entity)]
	return region, ok
}

// Regions returns the distinct region names in alphabetical order.
func (c *Catalog) Regions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, region := range c.regions {
		seen[region] = struct{}{}
	}
	regions := make([]string, 0, len(seen))
	for region := range seen {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}

// Entities returns the catalog entities of one region, sorted. An empty
// region returns every entity.
func (c *Catalog) Entities(region string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var entities []string
	for entity, r := range c.regions {
		if region == "" || r == region {
			entities = append(entities, entity)
		}
	}
	sort.Strings(entities)
	return entities
}

// Len reports the number of mapped entities.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.regions)
}

// Annotate returns a copy of the observations with Region resolved
// through the mapping. Unmapped entities keep an empty Region and are
// later dropped by grouped aggregations.
func (c *Catalog) Annotate(obs []domain.Observation) []domain.Observation {
	out := make([]domain.Observation, len(obs))
	for i, o := range obs {
		region, _ := c.Region(o.Name)
		o.Region = region
		out[i] = o
	}
	return out
}

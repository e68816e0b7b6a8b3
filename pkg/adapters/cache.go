package adapters

import (
	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/datocol/hidroatlas/pkg/models/store"
)

func MapStoreObservationToDomain(row store.ObservationRow) domain.Observation {
	return domain.Observation{
		Name:  row.Name,
		Date:  row.Date,
		Value: row.Value,
	}
}

func MapDomainObservationToStore(metric domain.Metric, o domain.Observation) store.ObservationRow {
	return store.ObservationRow{
		Metric: string(metric),
		Name:   o.Name,
		Date:   o.Date,
		Value:  o.Value,
	}
}

func MapStoreCatalogRowToDomain(row store.CatalogRow) domain.CatalogEntry {
	return domain.CatalogEntry{
		Name:   row.Name,
		Region: row.Region,
	}
}

func MapDomainCatalogEntryToStore(metric domain.Metric, e domain.CatalogEntry) store.CatalogRow {
	return store.CatalogRow{
		Metric: string(metric),
		Name:   e.Name,
		Region: e.Region,
	}
}

package adapters

import (
	"github.com/datocol/hidroatlas/pkg/models/api"
	"github.com/datocol/hidroatlas/pkg/models/domain"
)

func MapRowKindDomainToApi(k domain.RowKind) api.RowKind {
	switch k {
	case domain.RowItem:
		return api.RowItem
	case domain.RowTotal:
		return api.RowTotal
	default:
		return api.RowRegion
	}
}

func MapTimePeriodDomainToApi(p domain.TimePeriod) api.TimePeriod {
	return api.TimePeriod{
		Start:    p.Start,
		End:      p.End,
		Duration: p.Duration,
	}
}

func MapShareDomainToApi(s domain.Share) api.Share {
	return api.Share{
		Name:       s.Name,
		Total:      s.Total,
		Percentage: s.Percentage,
	}
}

func MapSharesDomainToApi(shares []domain.Share) []api.Share {
	res := make([]api.Share, 0, len(shares))
	for _, s := range shares {
		res = append(res, MapShareDomainToApi(s))
	}
	return res
}

func MapDailyValueDomainToApi(d domain.DailyValue) api.DailyValue {
	return api.DailyValue{
		Date:       d.Date,
		Value:      d.Value,
		Percentage: d.Percentage,
	}
}

func MapDailyValuesDomainToApi(daily []domain.DailyValue) []api.DailyValue {
	res := make([]api.DailyValue, 0, len(daily))
	for _, d := range daily {
		res = append(res, MapDailyValueDomainToApi(d))
	}
	return res
}

func MapHierarchyRowDomainToApi(r domain.HierarchyRow) api.HierarchyRow {
	return api.HierarchyRow{
		Kind:       MapRowKindDomainToApi(r.Kind),
		Name:       r.Name,
		Region:     r.Region,
		Total:      r.Total,
		Percentage: r.Percentage,
		Expanded:   r.Expanded,
	}
}

func MapHierarchyRowsDomainToApi(rows []domain.HierarchyRow) []api.HierarchyRow {
	res := make([]api.HierarchyRow, 0, len(rows))
	for _, r := range rows {
		res = append(res, MapHierarchyRowDomainToApi(r))
	}
	return res
}

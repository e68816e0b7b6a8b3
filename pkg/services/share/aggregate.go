package share

import (
	"math"
	"sort"

	"github.com/datocol/hidroatlas/pkg/models/domain"
)

// ByName groups observations by entity name.
func ByName(o domain.Observation) string { return o.Name }

// ByRegion groups observations by their resolved region. Unmapped
// observations key to "" and are dropped by Aggregate.
func ByRegion(o domain.Observation) string { return o.Region }

// Aggregate sums observation values per distinct key and returns one
// Share per group, sorted descending by total. Groups whose key is empty
// (entities without a catalog entry) are excluded. Ties are broken
// alphabetically by name so the order is deterministic. An input that is
// empty after filtering yields an empty slice; the caller renders that
// as a "no data" state.
func Aggregate(obs []domain.Observation, keyFn func(domain.Observation) string) []domain.Share {
	totals := make(map[string]float64)
	for _, o := range obs {
		key := keyFn(o)
		if key == "" {
			continue
		}
		totals[key] += o.Value
	}

	rows := make([]domain.Share, 0, len(totals))
	for name, total := range totals {
		rows = append(rows, domain.Share{Name: name, Total: total})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Name < rows[j].Name
	})

	return rows
}

// ComputePercentages fills in the percentage of each row relative to the
// sum of all rows, guaranteeing the returned percentages add up to
// exactly 100.00 at two decimals. Values are rounded half away from zero
// (math.Round); the rounding residual, when any, is folded into the row
// with the largest rounded percentage (first such row on ties) and that
// row is re-rounded. A zero grand total sets every percentage to 0.
// The input is not mutated.
func ComputePercentages(rows []domain.Share) []domain.Share {
	if len(rows) == 0 {
		return nil
	}

	out := make([]domain.Share, len(rows))
	copy(out, rows)

	var grand float64
	for _, r := range out {
		grand += r.Total
	}
	if grand == 0 {
		for i := range out {
			out[i].Percentage = 0
		}
		return out
	}

	var sum float64
	for i := range out {
		out[i].Percentage = round2(out[i].Total / grand * 100)
		sum += out[i].Percentage
	}

	residual := 100 - sum
	if math.Abs(residual) > 0.001 {
		largest := 0
		for i, r := range out {
			if r.Percentage > out[largest].Percentage {
				largest = i
			}
		}
		out[largest].Percentage = round2(out[largest].Percentage + residual)
	}

	return out
}

// DailyTotals collapses observations into one value per calendar date,
// ordered chronologically, with each date's participation in the period
// total reconciled through ComputePercentages.
func DailyTotals(obs []domain.Observation) []domain.DailyValue {
	totals := make(map[string]float64)
	for _, o := range obs {
		totals[o.Date.Format("2006-01-02")] += o.Value
	}

	rows := make([]domain.Share, 0, len(totals))
	for date, total := range totals {
		rows = append(rows, domain.Share{Name: date, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	rows = ComputePercentages(rows)
	daily := make([]domain.DailyValue, len(rows))
	for i, r := range rows {
		daily[i] = domain.DailyValue{Date: r.Name, Value: r.Total, Percentage: r.Percentage}
	}
	return daily
}

// Sum returns the grand total of a result set, rounded to two decimals
// for display alongside the reconciled percentages.
func Sum(rows []domain.Share) float64 {
	var grand float64
	for _, r := range rows {
		grand += r.Total
	}
	return round2(grand)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

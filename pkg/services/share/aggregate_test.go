package share

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obs(name, region string, value float64) domain.Observation {
	return domain.Observation{
		Name:   name,
		Region: region,
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Value:  value,
	}
}

func TestAggregate(t *testing.T) {
	t.Run("groups by region and sorts descending", func(t *testing.T) {
		rows := Aggregate([]domain.Observation{
			obs("RIO A", "Antioquia", 10),
			obs("RIO B", "Antioquia", 10),
			obs("RIO C", "Caribe", 5),
		}, ByRegion)

		require.Len(t, rows, 2)
		assert.Equal(t, domain.Share{Name: "Antioquia", Total: 20}, rows[0])
		assert.Equal(t, domain.Share{Name: "Caribe", Total: 5}, rows[1])
	})

	t.Run("excludes unmapped entities without error", func(t *testing.T) {
		rows := Aggregate([]domain.Observation{
			obs("RIO A", "Antioquia", 10),
			obs("RIO X", "", 99),
		}, ByRegion)

		require.Len(t, rows, 1)
		assert.Equal(t, "Antioquia", rows[0].Name)
	})

	t.Run("ties break alphabetically", func(t *testing.T) {
		rows := Aggregate([]domain.Observation{
			obs("RIO B", "Valle", 7),
			obs("RIO A", "Centro", 7),
		}, ByRegion)

		require.Len(t, rows, 2)
		assert.Equal(t, "Centro", rows[0].Name)
		assert.Equal(t, "Valle", rows[1].Name)
	})

	t.Run("empty input yields empty result", func(t *testing.T) {
		assert.Empty(t, Aggregate(nil, ByRegion))
		assert.Empty(t, Aggregate([]domain.Observation{obs("RIO X", "", 1)}, ByRegion))
	})
}

func TestComputePercentages(t *testing.T) {
	t.Run("simple split", func(t *testing.T) {
		rows := ComputePercentages([]domain.Share{
			{Name: "R1", Total: 20},
			{Name: "R2", Total: 5},
		})

		assert.Equal(t, 80.0, rows[0].Percentage)
		assert.Equal(t, 20.0, rows[1].Percentage)
	})

	t.Run("residual lands on the largest row", func(t *testing.T) {
		// Three equal thirds round to 99.99; the first row absorbs the
		// missing 0.01.
		rows := ComputePercentages([]domain.Share{
			{Name: "A", Total: 1},
			{Name: "B", Total: 1},
			{Name: "C", Total: 1},
		})

		assert.Equal(t, 33.34, rows[0].Percentage)
		assert.Equal(t, 33.33, rows[1].Percentage)
		assert.Equal(t, 33.33, rows[2].Percentage)
	})

	t.Run("zero total yields zero percentages", func(t *testing.T) {
		rows := ComputePercentages([]domain.Share{
			{Name: "A", Total: 0},
			{Name: "B", Total: 0},
		})

		for _, r := range rows {
			assert.Zero(t, r.Percentage)
		}
	})

	t.Run("input is not mutated", func(t *testing.T) {
		in := []domain.Share{{Name: "A", Total: 3}, {Name: "B", Total: 1}}
		ComputePercentages(in)
		assert.Zero(t, in[0].Percentage)
	})

	t.Run("sum is exactly 100 for arbitrary inputs", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		for _, n := range []int{2, 3, 7, 50, 137, 1000} {
			t.Run(fmt.Sprintf("%d rows", n), func(t *testing.T) {
				in := make([]domain.Share, n)
				for i := range in {
					in[i] = domain.Share{
						Name:  fmt.Sprintf("row-%d", i),
						Total: rng.Float64() * 500,
					}
				}

				out := ComputePercentages(in)
				var sum float64
				for _, r := range out {
					sum += r.Percentage
				}
				assert.InDelta(t, 100.0, sum, 1e-9)
			})
		}
	})

	t.Run("nil input", func(t *testing.T) {
		assert.Nil(t, ComputePercentages(nil))
	})
}

func TestDailyTotals(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	t.Run("chronological order with reconciled shares", func(t *testing.T) {
		daily := DailyTotals([]domain.Observation{
			{Name: "RIO A", Date: day(2), Value: 5},
			{Name: "RIO B", Date: day(1), Value: 10},
			{Name: "RIO A", Date: day(1), Value: 5},
		})

		require.Len(t, daily, 2)
		assert.Equal(t, "2024-01-01", daily[0].Date)
		assert.Equal(t, 15.0, daily[0].Value)
		assert.Equal(t, 75.0, daily[0].Percentage)
		assert.Equal(t, "2024-01-02", daily[1].Date)
		assert.Equal(t, 25.0, daily[1].Percentage)
	})

	t.Run("empty series", func(t *testing.T) {
		assert.Empty(t, DailyTotals(nil))
	})
}

func TestSum(t *testing.T) {
	total := Sum([]domain.Share{{Total: 1.239}, {Total: 2.5}})
	assert.InDelta(t, 3.74, total, 1e-9)
	assert.Zero(t, Sum(nil))
}

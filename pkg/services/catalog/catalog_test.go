package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/datocol/hidroatlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) GetObservations(
	ctx context.Context,
	metric domain.Metric,
	entity domain.Entity,
	start, end time.Time,
) ([]domain.Observation, error) {
	args := m.Called(ctx, metric, entity, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Observation), args.Error(1)
}

func (m *mockClient) GetCatalog(ctx context.Context, metric domain.Metric) ([]domain.CatalogEntry, error) {
	args := m.Called(ctx, metric)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogEntry), args.Error(1)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "RIO BOGOTA", NormalizeEntity("  rio bogota "))
	assert.Equal(t, "Antioquia", NormalizeRegion(" ANTIOQUIA "))
	assert.Equal(t, "Valle Del Cauca", NormalizeRegion("valle del cauca"))
}

func TestCatalog(t *testing.T) {
	client := new(mockClient)
	client.On("GetCatalog", mock.Anything, domain.MetricRiverCatalog).
		Return([]domain.CatalogEntry{
			{Name: " rio bogota ", Region: "CENTRO"},
			{Name: "RIO CAUCA", Region: "valle"},
			{Name: "RIO NARE", Region: "Antioquia"},
		}, nil)

	c := New(client, domain.MetricRiverCatalog)
	require.NoError(t, c.Build(context.Background()))

	t.Run("lookup normalizes the entity name", func(t *testing.T) {
		region, ok := c.Region("Rio Bogota")
		assert.True(t, ok)
		assert.Equal(t, "Centro", region)
	})

	t.Run("unmapped entity yields no group", func(t *testing.T) {
		region, ok := c.Region("RIO FANTASMA")
		assert.False(t, ok)
		assert.Empty(t, region)
	})

	t.Run("regions are distinct and sorted", func(t *testing.T) {
		assert.Equal(t, []string{"Antioquia", "Centro", "Valle"}, c.Regions())
	})

	t.Run("entities filtered by region", func(t *testing.T) {
		assert.Equal(t, []string{"RIO NARE"}, c.Entities("Antioquia"))
		assert.Len(t, c.Entities(""), 3)
	})

	t.Run("annotate resolves regions", func(t *testing.T) {
		obs := c.Annotate([]domain.Observation{
			{Name: "RIO CAUCA", Value: 1},
			{Name: "RIO FANTASMA", Value: 2},
		})
		assert.Equal(t, "Valle", obs[0].Region)
		assert.Empty(t, obs[1].Region)
	})
}

func TestCatalog_BuildFailureKeepsMapping(t *testing.T) {
	client := new(mockClient)
	client.On("GetCatalog", mock.Anything, domain.MetricRiverCatalog).
		Return([]domain.CatalogEntry{{Name: "RIO NARE", Region: "Antioquia"}}, nil).Once()
	client.On("GetCatalog", mock.Anything, domain.MetricRiverCatalog).
		Return(nil, assert.AnError).Once()

	c := New(client, domain.MetricRiverCatalog)
	require.NoError(t, c.Build(context.Background()))
	require.Error(t, c.Build(context.Background()))

	region, ok := c.Region("RIO NARE")
	assert.True(t, ok)
	assert.Equal(t, "Antioquia", region)
}

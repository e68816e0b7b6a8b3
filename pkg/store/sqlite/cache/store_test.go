package cache

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/datocol/hidroatlas/pkg/models/store"
	"github.com/datocol/hidroatlas/pkg/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := sqlite.NewDB(sqlite.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: s}
}

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestCacheStore_Observations(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("replace and read back", func(t *testing.T) {
		rows := []store.ObservationRow{
			{Name: "RIO BOGOTA", Date: day(1), Value: 12.5},
			{Name: "RIO CAUCA", Date: day(1), Value: 30.1},
			{Name: "RIO BOGOTA", Date: day(2), Value: 11.0},
		}
		require.NoError(t, f.store.ReplaceObservations(ctx, "AporCaudal", "2024-01-01", "2024-01-02", rows))

		got, err := f.store.GetObservations(ctx, "AporCaudal", "2024-01-01", "2024-01-02")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "RIO BOGOTA", got[0].Name)
		assert.Equal(t, 12.5, got[0].Value)
		assert.Equal(t, day(2), got[2].Date)
	})

	t.Run("replacing a window drops stale rows", func(t *testing.T) {
		require.NoError(t, f.store.ReplaceObservations(ctx, "AporCaudal", "2024-01-01", "2024-01-02",
			[]store.ObservationRow{{Name: "RIO NARE", Date: day(1), Value: 3}}))

		got, err := f.store.GetObservations(ctx, "AporCaudal", "2024-01-01", "2024-01-02")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "RIO NARE", got[0].Name)
	})

	t.Run("window outside cached range is empty", func(t *testing.T) {
		got, err := f.store.GetObservations(ctx, "AporCaudal", "2024-02-01", "2024-02-28")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("metrics do not bleed into each other", func(t *testing.T) {
		require.NoError(t, f.store.ReplaceObservations(ctx, "CapaUtilDiarEner", "2024-01-01", "2024-01-02",
			[]store.ObservationRow{{Name: "PENOL", Date: day(1), Value: 100}}))

		got, err := f.store.GetObservations(ctx, "AporCaudal", "2024-01-01", "2024-01-02")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "RIO NARE", got[0].Name)
	})
}

func TestCacheStore_Catalog(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.ReplaceCatalog(ctx, "ListadoRios", []store.CatalogRow{
		{Name: "RIO BOGOTA", Region: "Centro"},
		{Name: "RIO CAUCA", Region: "Valle"},
	}))

	got, err := f.store.GetCatalog(ctx, "ListadoRios")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Centro", got[0].Region)

	require.NoError(t, f.store.ReplaceCatalog(ctx, "ListadoRios", []store.CatalogRow{
		{Name: "RIO NARE", Region: "Antioquia"},
	}))

	got, err = f.store.GetCatalog(ctx, "ListadoRios")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "RIO NARE", got[0].Name)
}

func TestCacheStore_LastFetch(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, ok, err := f.store.LastFetch(ctx, "AporCaudal", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.store.ReplaceObservations(ctx, "AporCaudal", "2024-01-01", "2024-01-31", nil))

	fetchedAt, ok, err := f.store.LastFetch(ctx, "AporCaudal", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now(), fetchedAt, time.Minute)
}

func TestCacheStore_QueryErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT name, date, value FROM observations").
		WillReturnError(sql.ErrConnDone)

	_, err = s.GetObservations(context.Background(), "AporCaudal", "2024-01-01", "2024-01-31")
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}

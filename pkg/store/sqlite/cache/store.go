package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/datocol/hidroatlas/pkg/models/store"
	"github.com/datocol/hidroatlas/pkg/store/sqlite"
)

const dateLayout = "2006-01-02"

// Store caches upstream series locally so dashboard reloads inside the
// freshness window do not re-hit the XM API. Replace* operations honor
// an ambient transaction placed on the context via sqlite.WithTransaction.
type Store interface {
	ReplaceObservations(ctx context.Context, metric, startDate, endDate string, rows []store.ObservationRow) error
	GetObservations(ctx context.Context, metric, startDate, endDate string) ([]store.ObservationRow, error)
	ReplaceCatalog(ctx context.Context, metric string, rows []store.CatalogRow) error
	GetCatalog(ctx context.Context, metric string) ([]store.CatalogRow, error)
	LastFetch(ctx context.Context, metric, startDate, endDate string) (time.Time, bool, error)
}

type cacheStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &cacheStore{db: db, now: time.Now}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *cacheStore) exec(ctx context.Context) execer {
	if tx := sqlite.GetTransaction(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *cacheStore) ReplaceObservations(
	ctx context.Context,
	metric, startDate, endDate string,
	rows []store.ObservationRow,
) error {
	e := s.exec(ctx)

	_, err := e.ExecContext(ctx,
		`DELETE FROM observations WHERE metric = ? AND date BETWEEN ? AND ?`,
		metric, startDate, endDate)
	if err != nil {
		return fmt.Errorf("clear observation window: %w", err)
	}

	for _, row := range rows {
		_, err = e.ExecContext(ctx,
			`INSERT INTO observations (metric, name, date, value) VALUES (?, ?, ?, ?)
			 ON CONFLICT (metric, name, date) DO UPDATE SET value = excluded.value`,
			metric, row.Name, row.Date.Format(dateLayout), row.Value)
		if err != nil {
			return fmt.Errorf("insert observation: %w", err)
		}
	}

	return s.recordFetch(ctx, metric, startDate, endDate)
}

func (s *cacheStore) GetObservations(
	ctx context.Context,
	metric, startDate, endDate string,
) ([]store.ObservationRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, date, value FROM observations
		 WHERE metric = ? AND date BETWEEN ? AND ?
		 ORDER BY date, name`,
		metric, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var result []store.ObservationRow
	for rows.Next() {
		var (
			row  store.ObservationRow
			date string
		)
		if err := rows.Scan(&row.Name, &date, &row.Value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		row.Metric = metric
		row.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse cached date %q: %w", date, err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (s *cacheStore) ReplaceCatalog(ctx context.Context, metric string, rows []store.CatalogRow) error {
	e := s.exec(ctx)

	if _, err := e.ExecContext(ctx, `DELETE FROM catalog_entries WHERE metric = ?`, metric); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	for _, row := range rows {
		_, err := e.ExecContext(ctx,
			`INSERT INTO catalog_entries (metric, name, region) VALUES (?, ?, ?)
			 ON CONFLICT (metric, name) DO UPDATE SET region = excluded.region`,
			metric, row.Name, row.Region)
		if err != nil {
			return fmt.Errorf("insert catalog entry: %w", err)
		}
	}

	return s.recordFetch(ctx, metric, "", "")
}

func (s *cacheStore) GetCatalog(ctx context.Context, metric string) ([]store.CatalogRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, region FROM catalog_entries WHERE metric = ? ORDER BY name`, metric)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var result []store.CatalogRow
	for rows.Next() {
		var row store.CatalogRow
		if err := rows.Scan(&row.Name, &row.Region); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		row.Metric = metric
		result = append(result, row)
	}
	return result, rows.Err()
}

func (s *cacheStore) LastFetch(ctx context.Context, metric, startDate, endDate string) (time.Time, bool, error) {
	var fetchedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM fetch_log WHERE metric = ? AND start_date = ? AND end_date = ?`,
		metric, startDate, endDate).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query fetch log: %w", err)
	}
	return fetchedAt, true, nil
}

func (s *cacheStore) recordFetch(ctx context.Context, metric, startDate, endDate string) error {
	_, err := s.exec(ctx).ExecContext(ctx,
		`INSERT INTO fetch_log (metric, start_date, end_date, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (metric, start_date, end_date) DO UPDATE SET fetched_at = excluded.fetched_at`,
		metric, startDate, endDate, s.now())
	if err != nil {
		return fmt.Errorf("record fetch: %w", err)
	}
	return nil
}

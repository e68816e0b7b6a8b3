package sqlite

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

const ObservationsSchema = `
	CREATE TABLE IF NOT EXISTS observations (
		metric TEXT NOT NULL,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (metric, name, date)
	);
`

const CatalogSchema = `
	CREATE TABLE IF NOT EXISTS catalog_entries (
		metric TEXT NOT NULL,
		name TEXT NOT NULL,
		region TEXT NOT NULL,
		PRIMARY KEY (metric, name)
	);
`

const FetchLogSchema = `
	CREATE TABLE IF NOT EXISTS fetch_log (
		metric TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		fetched_at TIMESTAMP NOT NULL,
		PRIMARY KEY (metric, start_date, end_date)
	);
`

var bootQueries = []string{
	ObservationsSchema,
	CatalogSchema,
	FetchLogSchema,
}

type Settings struct {
	DbPath string
}

// NewDB opens (or creates) the cache database and bootstraps its schema.
func NewDB(settings Settings) (*sql.DB, error) {
	db, err := sql.Open("sqlite", settings.DbPath)
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer; a second pooled connection would also see
	// a fresh database when DbPath is ":memory:".
	db.SetMaxOpenConns(1)

	for _, query := range bootQueries {
		if _, err := db.Exec(query); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

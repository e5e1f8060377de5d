// Package store persists case records, the geocode cache, and application
// settings in a single SQLite database file.
package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"caselog/internal/logger"
)

func init() {
	// The modernc driver registers as "sqlite"; sqlx needs to know its
	// placeholder style.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS case_log (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		case_number      TEXT NOT NULL UNIQUE,
		examiner         TEXT NOT NULL,
		investigator     TEXT NOT NULL DEFAULT '',
		agency           TEXT NOT NULL DEFAULT '',
		city_of_offense  TEXT NOT NULL DEFAULT '',
		state_of_offense TEXT NOT NULL DEFAULT '',
		start_date       TEXT NOT NULL DEFAULT '',
		end_date         TEXT NOT NULL DEFAULT '',
		volume_size_gb   REAL NOT NULL DEFAULT 0,
		offense_type     TEXT NOT NULL DEFAULT '',
		device_type      TEXT NOT NULL DEFAULT '',
		model            TEXT NOT NULL DEFAULT '',
		os               TEXT NOT NULL DEFAULT '',
		data_recovered   TEXT NOT NULL DEFAULT '',
		fpr_complete     INTEGER NOT NULL DEFAULT 0,
		notes            TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS geocode_cache (
		location_key  TEXT PRIMARY KEY,
		latitude      REAL NOT NULL,
		longitude     REAL NOT NULL,
		last_accessed TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_case_log_start_date ON case_log(start_date)`,
}

// Store wraps the SQLite database behind the record, geocode cache, and
// settings operations. A single connection keeps writes serialized.
type Store struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
	logger  logger.Logger
}

// Open connects to the database at path (":memory:" for tests), creates the
// schema if needed, and returns the store.
func Open(path string, log logger.Logger) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	log.Info("database opened", map[string]interface{}{"path": path})

	return &Store{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger:  log,
	}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Shutdown satisfies the shutdown manager; close errors are logged, not
// propagated.
func (s *Store) Shutdown() {
	if err := s.Close(); err != nil {
		s.logger.Error("database close failed", err, nil)
		return
	}
	s.logger.Info("database closed", nil)
}

// Package sqlstore keeps managers, rosters, shift types and imported reports in
// MySQL, or in SQLite for local runs and tests.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
	"os"
	"path/filepath"
	"shift-metrics/internal/config"
	"shift-metrics/internal/storage"
	"strings"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Storage struct {
	db     *sql.DB
	driver string
}

// New opens the database named by the config, checks the connection and
// creates missing tables.
func New(cfg config.Config) (*Storage, error) {
	const op = "storage.sqlstore.New"

	var dsn string
	switch cfg.DBDriver {
	case DriverMySQL:
		dsn = cfg.MySQLDSN()
	case DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		dsn = cfg.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	default:
		return nil, fmt.Errorf("%s: unknown db driver %q", op, cfg.DBDriver)
	}

	s, err := Open(context.Background(), cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// Open is New for an explicit driver and DSN.
func Open(ctx context.Context, driver, dsn string) (*Storage, error) {
	const op = "storage.sqlstore.Open"

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if driver == DriverSQLite {
		// one writer at a time; also keeps ":memory:" databases on a single connection
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	s := &Storage{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) migrate(ctx context.Context) error {
	const op = "storage.sqlstore.migrate"

	schema := mysqlSchema
	if s.driver == DriverSQLite {
		schema = sqliteSchema
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS managers (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		location VARCHAR(64) NOT NULL,
		UNIQUE KEY uq_managers_location (location)
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		manager_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		FOREIGN KEY (manager_id) REFERENCES managers(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS shift_types (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		manager_id BIGINT NOT NULL,
		type_key VARCHAR(64) NOT NULL,
		label VARCHAR(255) NOT NULL,
		range_start VARCHAR(5) NOT NULL,
		range_end VARCHAR(5) NOT NULL,
		sort_order INT NOT NULL DEFAULT 0,
		FOREIGN KEY (manager_id) REFERENCES managers(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS ingestion_reports (
		manager_id BIGINT NOT NULL,
		report_date VARCHAR(10) NOT NULL,
		file_name VARCHAR(255) NOT NULL,
		imported_at BIGINT NOT NULL,
		payload MEDIUMTEXT NOT NULL,
		PRIMARY KEY (manager_id, report_date)
	)`,
	`CREATE TABLE IF NOT EXISTS hourly_summaries (
		manager_id BIGINT NOT NULL,
		report_date VARCHAR(10) NOT NULL,
		file_name VARCHAR(255) NOT NULL,
		imported_at BIGINT NOT NULL,
		payload MEDIUMTEXT NOT NULL,
		PRIMARY KEY (manager_id, report_date)
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS managers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		location TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		manager_id INTEGER NOT NULL REFERENCES managers(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS shift_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		manager_id INTEGER NOT NULL REFERENCES managers(id) ON DELETE CASCADE,
		type_key TEXT NOT NULL,
		label TEXT NOT NULL,
		range_start TEXT NOT NULL,
		range_end TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS ingestion_reports (
		manager_id INTEGER NOT NULL,
		report_date TEXT NOT NULL,
		file_name TEXT NOT NULL,
		imported_at INTEGER NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (manager_id, report_date)
	)`,
	`CREATE TABLE IF NOT EXISTS hourly_summaries (
		manager_id INTEGER NOT NULL,
		report_date TEXT NOT NULL,
		file_name TEXT NOT NULL,
		imported_at INTEGER NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (manager_id, report_date)
	)`,
}

// classify maps driver constraint errors onto storage errors.
func classify(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return storage.ErrExists
		case 1452:
			return storage.ErrNotFound
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := liteErr.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"), strings.Contains(msg, "PRIMARY KEY"):
			return storage.ErrExists
		case strings.Contains(msg, "FOREIGN KEY"):
			return storage.ErrNotFound
		}
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens a SQLite database, sets file permissions, and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// Set pragmas for performance and safety.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	// Set file permissions to 0600.
	if err := os.Chmod(dsn, 0600); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("setting file permissions: %w", err)
	}

	// Run migrations.
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// DB returns the underlying database connection for migration commands.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) Insert(ctx context.Context, rec *weather.Record) (weather.InsertOutcome, error) {
	return insertRecord(ctx, s.db, insertSQL, rec)
}

func (s *SQLiteStore) Latest(ctx context.Context, location string) (*weather.Record, error) {
	return queryLatest(ctx, s.db, latestSQL, location)
}

func (s *SQLiteStore) DailyGroupedAverage(ctx context.Context, location, sinceDate string) (float64, bool, error) {
	return queryAverage(ctx, s.db, dailyGroupedAverageSQL, location, sinceDate)
}

func (s *SQLiteStore) MonthYearAverage(ctx context.Context, location, month, year string) (float64, bool, error) {
	return queryAverage(ctx, s.db, monthYearAverageSQL, location, month, year)
}

func (s *SQLiteStore) Count(ctx context.Context, location string) (int, error) {
	return queryCount(ctx, s.db, countSQL, location)
}

func (s *SQLiteStore) DataRange(ctx context.Context, location string) (string, string, error) {
	return queryDataRange(ctx, s.db, dataRangeSQL, location)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

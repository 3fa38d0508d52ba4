package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

//go:embed pgmigrations/*.sql
var pgMigrations embed.FS

// PostgresStore implements Store backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a PostgreSQL connection and runs migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	goose.SetBaseFS(pgMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "pgmigrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// DB returns the underlying database connection for migration commands.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Insert(ctx context.Context, rec *weather.Record) (weather.InsertOutcome, error) {
	return insertRecord(ctx, s.db, replacePlaceholders(insertSQL), rec)
}

func (s *PostgresStore) Latest(ctx context.Context, location string) (*weather.Record, error) {
	return queryLatest(ctx, s.db, replacePlaceholders(latestSQL), location)
}

func (s *PostgresStore) DailyGroupedAverage(ctx context.Context, location, sinceDate string) (float64, bool, error) {
	return queryAverage(ctx, s.db, replacePlaceholders(dailyGroupedAverageSQL), location, sinceDate)
}

func (s *PostgresStore) MonthYearAverage(ctx context.Context, location, month, year string) (float64, bool, error) {
	return queryAverage(ctx, s.db, replacePlaceholders(monthYearAverageSQL), location, month, year)
}

func (s *PostgresStore) Count(ctx context.Context, location string) (int, error) {
	return queryCount(ctx, s.db, replacePlaceholders(countSQL), location)
}

func (s *PostgresStore) DataRange(ctx context.Context, location string) (string, string, error) {
	return queryDataRange(ctx, s.db, replacePlaceholders(dataRangeSQL), location)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

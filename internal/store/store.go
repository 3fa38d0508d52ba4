// Package store persists weather observations. Both drivers enforce one
// record per (location, observed_at): a duplicate insert is a no-op, the
// first writer wins.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

// Store defines the interface for observation storage.
// Both SQLite and PostgreSQL implementations satisfy this interface.
type Store interface {
	// Insert stores one observation. Idempotent on (location, observed_at):
	// the second write with the same pair reports AlreadyPresent and leaves
	// the existing row untouched.
	Insert(ctx context.Context, rec *weather.Record) (weather.InsertOutcome, error)

	// Latest returns the record with the maximum observed_at for a
	// location, or nil if the location has no rows.
	Latest(ctx context.Context, location string) (*weather.Record, error)

	// DailyGroupedAverage averages temperature per day-of-month over rows
	// with an observation date >= sinceDate (YYYY-MM-DD), then averages the
	// per-day averages. ok is false when no rows match.
	DailyGroupedAverage(ctx context.Context, location, sinceDate string) (avg float64, ok bool, err error)

	// MonthYearAverage applies the same grouped average restricted to rows
	// in the given month (MM) and year (YYYY). ok is false when no rows
	// match.
	MonthYearAverage(ctx context.Context, location, month, year string) (avg float64, ok bool, err error)

	// Count returns the number of stored observations for a location.
	Count(ctx context.Context, location string) (int, error)

	// DataRange returns the oldest and newest observation timestamps for a
	// location, empty strings if the location has no rows.
	DataRange(ctx context.Context, location string) (oldest, newest string, err error)

	// Close closes the database connection.
	Close() error
}

const insertSQL = `
	INSERT INTO observations (
		location, country, latitude, longitude,
		temperature, humidity, wind_speed, precipitation, observed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (location, observed_at) DO NOTHING`

const latestSQL = `
	SELECT location, country, latitude, longitude,
		temperature, humidity, wind_speed, precipitation, observed_at
	FROM observations
	WHERE location = ?
	ORDER BY observed_at DESC
	LIMIT 1`

// Averaging per day and then across days keeps days with many intraday
// samples from dominating the result. The substr positions rely on the
// fixed YYYY-MM-DD[ HH:MM] timestamp layout and behave identically on
// both dialects.
const dailyGroupedAverageSQL = `
	SELECT AVG(day_avg) FROM (
		SELECT AVG(temperature) AS day_avg
		FROM observations
		WHERE location = ? AND substr(observed_at, 1, 10) >= ?
		GROUP BY substr(observed_at, 9, 2)
	) AS daily`

const monthYearAverageSQL = `
	SELECT AVG(day_avg) FROM (
		SELECT AVG(temperature) AS day_avg
		FROM observations
		WHERE location = ?
			AND substr(observed_at, 6, 2) = ?
			AND substr(observed_at, 1, 4) = ?
		GROUP BY substr(observed_at, 9, 2)
	) AS daily`

const countSQL = `SELECT COUNT(*) FROM observations WHERE location = ?`

const dataRangeSQL = `
	SELECT MIN(observed_at), MAX(observed_at)
	FROM observations
	WHERE location = ?`

// replacePlaceholders converts ? to $1, $2, $3 etc for postgres.
func replacePlaceholders(query string) string {
	result := make([]byte, 0, len(query))
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, fmt.Sprintf("$%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}

// --- Shared query helpers ---

func insertRecord(ctx context.Context, db *sql.DB, query string, rec *weather.Record) (weather.InsertOutcome, error) {
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("rejecting record: %w", err)
	}

	res, err := db.ExecContext(ctx, query,
		rec.Location, rec.Country, rec.Latitude, rec.Longitude,
		rec.Temperature, rec.Humidity, rec.WindSpeed, rec.Precipitation,
		rec.ObservedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting observation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking insert result: %w", err)
	}
	if n == 0 {
		return weather.AlreadyPresent, nil
	}
	return weather.Inserted, nil
}

func queryLatest(ctx context.Context, db *sql.DB, query, location string) (*weather.Record, error) {
	var rec weather.Record
	err := db.QueryRowContext(ctx, query, location).Scan(
		&rec.Location, &rec.Country, &rec.Latitude, &rec.Longitude,
		&rec.Temperature, &rec.Humidity, &rec.WindSpeed, &rec.Precipitation,
		&rec.ObservedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest observation: %w", err)
	}
	return &rec, nil
}

func queryAverage(ctx context.Context, db *sql.DB, query string, args ...any) (float64, bool, error) {
	var avg sql.NullFloat64
	err := db.QueryRowContext(ctx, query, args...).Scan(&avg)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying average: %w", err)
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}

func queryCount(ctx context.Context, db *sql.DB, query, location string) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, query, location).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting observations: %w", err)
	}
	return count, nil
}

func queryDataRange(ctx context.Context, db *sql.DB, query, location string) (string, string, error) {
	var oldest, newest sql.NullString
	err := db.QueryRowContext(ctx, query, location).Scan(&oldest, &newest)
	if err != nil {
		return "", "", fmt.Errorf("querying data range: %w", err)
	}
	return oldest.String, newest.String, nil
}

// Package analytics answers aggregation queries over stored observations.
// Every query is a stateless read over the store's current snapshot.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/syedjakeer1992/weather-cli-app/internal/store"
	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

// Window is a named lookback period for comparison queries.
type Window string

const (
	Week  Window = "week"
	Month Window = "month"
	Year  Window = "year"
)

// Days returns the lookback length of the window in calendar days.
func (w Window) Days() (int, error) {
	switch w {
	case Week:
		return 7, nil
	case Month:
		return 30, nil
	case Year:
		return 365, nil
	default:
		return 0, fmt.Errorf("unknown window %q (want week, month, or year)", string(w))
	}
}

// Trend is the result of comparing a current reading against a baseline.
type Trend int

const (
	Above Trend = iota
	Below
	Equal
)

func (t Trend) String() string {
	switch t {
	case Above:
		return "above"
	case Below:
		return "below"
	case Equal:
		return "equal"
	default:
		return fmt.Sprintf("Trend(%d)", int(t))
	}
}

// Comparison holds a current temperature next to a window baseline.
type Comparison struct {
	Trend    Trend
	Current  float64
	Baseline float64
}

// Engine computes aggregate queries against an observation store.
type Engine struct {
	store store.Store
	now   func() time.Time
}

// NewEngine creates an engine reading from s.
func NewEngine(s store.Store) *Engine {
	return &Engine{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// CompareToWindow compares the latest stored temperature for a location
// against the grouped average over the window's lookback. Returns
// weather.ErrNoData when either the latest reading or the baseline is
// absent. The Equal branch uses exact float equality.
func (e *Engine) CompareToWindow(ctx context.Context, location string, w Window) (*Comparison, error) {
	days, err := w.Days()
	if err != nil {
		return nil, err
	}

	since := e.now().AddDate(0, 0, -days).Format(weather.TimestampDate)
	baseline, ok, err := e.store.DailyGroupedAverage(ctx, location, since)
	if err != nil {
		return nil, fmt.Errorf("computing %s baseline: %w", w, err)
	}
	if !ok {
		return nil, weather.ErrNoData
	}

	latest, err := e.store.Latest(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("getting latest observation: %w", err)
	}
	if latest == nil {
		return nil, weather.ErrNoData
	}

	cmp := &Comparison{Current: latest.Temperature, Baseline: baseline}
	switch {
	case latest.Temperature > baseline:
		cmp.Trend = Above
	case latest.Temperature < baseline:
		cmp.Trend = Below
	default:
		cmp.Trend = Equal
	}
	return cmp, nil
}

// MonthlyAverage returns the grouped average temperature for a month (MM)
// and year (YYYY). Returns weather.ErrNoData when no rows match, never a
// zero value.
func (e *Engine) MonthlyAverage(ctx context.Context, location, month, year string) (float64, error) {
	avg, ok, err := e.store.MonthYearAverage(ctx, location, month, year)
	if err != nil {
		return 0, fmt.Errorf("computing monthly average: %w", err)
	}
	if !ok {
		return 0, weather.ErrNoData
	}
	return avg, nil
}

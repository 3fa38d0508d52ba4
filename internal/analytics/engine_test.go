package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

// mockStore implements store.Store for testing.
type mockStore struct {
	latest     *weather.Record
	latestErr  error
	grouped    float64
	groupedOK  bool
	groupedErr error
	monthAvg   float64
	monthOK    bool

	gotSince string
}

func (m *mockStore) Insert(_ context.Context, _ *weather.Record) (weather.InsertOutcome, error) {
	return weather.Inserted, nil
}

func (m *mockStore) Latest(_ context.Context, _ string) (*weather.Record, error) {
	return m.latest, m.latestErr
}

func (m *mockStore) DailyGroupedAverage(_ context.Context, _ string, sinceDate string) (float64, bool, error) {
	m.gotSince = sinceDate
	return m.grouped, m.groupedOK, m.groupedErr
}

func (m *mockStore) MonthYearAverage(_ context.Context, _, _, _ string) (float64, bool, error) {
	return m.monthAvg, m.monthOK, nil
}

func (m *mockStore) Count(_ context.Context, _ string) (int, error) { return 0, nil }

func (m *mockStore) DataRange(_ context.Context, _ string) (string, string, error) {
	return "", "", nil
}

func (m *mockStore) Close() error { return nil }

func newTestEngine(m *mockStore, now time.Time) *Engine {
	e := NewEngine(m)
	e.now = func() time.Time { return now }
	return e
}

func TestWindow_Days(t *testing.T) {
	tests := []struct {
		window  Window
		want    int
		wantErr bool
	}{
		{Week, 7, false},
		{Month, 30, false},
		{Year, 365, false},
		{Window("fortnight"), 0, true},
		{Window(""), 0, true},
	}
	for _, tt := range tests {
		days, err := tt.window.Days()
		if (err != nil) != tt.wantErr {
			t.Errorf("Window(%q).Days() error = %v, wantErr %v", tt.window, err, tt.wantErr)
		}
		if days != tt.want {
			t.Errorf("Window(%q).Days() = %d, want %d", tt.window, days, tt.want)
		}
	}
}

func TestEngine_CompareToWindow(t *testing.T) {
	now := time.Date(2023, 4, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		current  float64
		baseline float64
		want     Trend
	}{
		{"above", 35.5, 31.5, Above},
		{"below", 20.0, 31.5, Below},
		{"equal", 31.5, 31.5, Equal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockStore{
				latest:    &weather.Record{Location: "Frankfurt", Temperature: tt.current, ObservedAt: "2023-04-15"},
				grouped:   tt.baseline,
				groupedOK: true,
			}
			e := newTestEngine(m, now)

			cmp, err := e.CompareToWindow(context.Background(), "Frankfurt", Week)
			if err != nil {
				t.Fatalf("CompareToWindow: %v", err)
			}
			if cmp.Trend != tt.want {
				t.Errorf("Trend = %v, want %v", cmp.Trend, tt.want)
			}
			if cmp.Current != tt.current {
				t.Errorf("Current = %v, want %v", cmp.Current, tt.current)
			}
			if cmp.Baseline != tt.baseline {
				t.Errorf("Baseline = %v, want %v", cmp.Baseline, tt.baseline)
			}
		})
	}
}

func TestEngine_CompareToWindow_SinceDate(t *testing.T) {
	now := time.Date(2023, 4, 16, 12, 0, 0, 0, time.UTC)
	m := &mockStore{
		latest:    &weather.Record{Location: "Frankfurt", Temperature: 20, ObservedAt: "2023-04-15"},
		grouped:   20,
		groupedOK: true,
	}
	e := newTestEngine(m, now)

	if _, err := e.CompareToWindow(context.Background(), "Frankfurt", Week); err != nil {
		t.Fatal(err)
	}
	if m.gotSince != "2023-04-09" {
		t.Errorf("week since = %q, want 2023-04-09", m.gotSince)
	}

	if _, err := e.CompareToWindow(context.Background(), "Frankfurt", Month); err != nil {
		t.Fatal(err)
	}
	if m.gotSince != "2023-03-17" {
		t.Errorf("month since = %q, want 2023-03-17", m.gotSince)
	}

	if _, err := e.CompareToWindow(context.Background(), "Frankfurt", Year); err != nil {
		t.Fatal(err)
	}
	if m.gotSince != "2022-04-16" {
		t.Errorf("year since = %q, want 2022-04-16", m.gotSince)
	}
}

func TestEngine_CompareToWindow_NoData(t *testing.T) {
	now := time.Date(2023, 4, 16, 12, 0, 0, 0, time.UTC)

	// No baseline.
	e := newTestEngine(&mockStore{
		latest: &weather.Record{Location: "Frankfurt", Temperature: 20, ObservedAt: "2023-04-15"},
	}, now)
	if _, err := e.CompareToWindow(context.Background(), "Frankfurt", Week); !errors.Is(err, weather.ErrNoData) {
		t.Errorf("missing baseline: error = %v, want ErrNoData", err)
	}

	// Baseline but no latest reading.
	e = newTestEngine(&mockStore{grouped: 31.5, groupedOK: true}, now)
	if _, err := e.CompareToWindow(context.Background(), "Frankfurt", Week); !errors.Is(err, weather.ErrNoData) {
		t.Errorf("missing latest: error = %v, want ErrNoData", err)
	}
}

func TestEngine_CompareToWindow_BadWindow(t *testing.T) {
	e := NewEngine(&mockStore{})
	if _, err := e.CompareToWindow(context.Background(), "Frankfurt", Window("decade")); err == nil {
		t.Error("expected error for unknown window")
	}
}

func TestEngine_MonthlyAverage(t *testing.T) {
	e := NewEngine(&mockStore{monthAvg: 31.5, monthOK: true})
	avg, err := e.MonthlyAverage(context.Background(), "Frankfurt", "04", "2023")
	if err != nil {
		t.Fatal(err)
	}
	if avg != 31.5 {
		t.Errorf("average = %v, want 31.5", avg)
	}

	e = NewEngine(&mockStore{})
	if _, err := e.MonthlyAverage(context.Background(), "Frankfurt", "05", "2023"); !errors.Is(err, weather.ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}
}

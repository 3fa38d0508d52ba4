package ingest

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/syedjakeer1992/weather-cli-app/internal/provider"
)

func historyResponse(date string) string {
	return `{
		"location": {"name": "Frankfurt", "country": "Germany", "lat": 50.11, "lon": 8.68},
		"forecast": {"forecastday": [{
			"date": "` + date + `",
			"day": {"avgtemp_c": 27.5, "avghumidity": 71, "maxwind_mph": 15.2, "totalprecip_mm": 1.4}
		}]}
	}`
}

func newTestBackfiller(ms *mockStore, serverURL string) *Backfiller {
	b := NewBackfiller(ms, provider.NewClient(provider.WithBaseURL(serverURL)), slog.Default())
	b.pace = time.Millisecond
	b.now = func() time.Time { return time.Date(2023, 4, 16, 12, 0, 0, 0, time.UTC) }
	return b
}

func TestBackfiller_Backfill(t *testing.T) {
	var mu sync.Mutex
	var gotDates []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("dt")
		mu.Lock()
		gotDates = append(gotDates, date)
		mu.Unlock()
		_, _ = w.Write([]byte(historyResponse(date)))
	}))
	defer server.Close()

	ms := &mockStore{}
	bf := newTestBackfiller(ms, server.URL)

	if err := bf.Backfill(context.Background(), "Frankfurt", "test-key", 3); err != nil {
		t.Fatalf("Backfill: %v", err)
	}

	// The last 3 days before today, oldest first, today excluded.
	want := []string{"2023-04-13", "2023-04-14", "2023-04-15"}
	mu.Lock()
	defer mu.Unlock()
	if len(gotDates) != len(want) {
		t.Fatalf("requested dates = %v, want %v", gotDates, want)
	}
	for i := range want {
		if gotDates[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, gotDates[i], want[i])
		}
	}

	if n := ms.len(); n != 3 {
		t.Errorf("stored rows = %d, want 3", n)
	}
}

func TestBackfiller_DayFailureIsIsolated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("dt")
		if date == "2023-04-14" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(historyResponse(date)))
	}))
	defer server.Close()

	ms := &mockStore{}
	bf := newTestBackfiller(ms, server.URL)

	// A failed day is skipped, not fatal.
	if err := bf.Backfill(context.Background(), "Frankfurt", "test-key", 3); err != nil {
		t.Fatalf("Backfill: %v", err)
	}

	if n := ms.len(); n != 2 {
		t.Errorf("stored rows = %d, want 2 (failed day skipped)", n)
	}
	for _, rec := range ms.records {
		if rec.ObservedAt == "2023-04-14" {
			t.Error("failed day was stored")
		}
	}
}

func TestBackfiller_RerunIsIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(historyResponse(r.URL.Query().Get("dt"))))
	}))
	defer server.Close()

	ms := &mockStore{}
	bf := newTestBackfiller(ms, server.URL)

	if err := bf.Backfill(context.Background(), "Frankfurt", "test-key", 2); err != nil {
		t.Fatal(err)
	}
	if err := bf.Backfill(context.Background(), "Frankfurt", "test-key", 2); err != nil {
		t.Fatal(err)
	}

	if n := ms.len(); n != 2 {
		t.Errorf("stored rows after rerun = %d, want 2", n)
	}
}

func TestBackfiller_CancelStopsLoop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(historyResponse(r.URL.Query().Get("dt"))))
	}))
	defer server.Close()

	ms := &mockStore{}
	bf := newTestBackfiller(ms, server.URL)
	bf.pace = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bf.Backfill(ctx, "Frankfurt", "test-key", 5) }()

	deadline := time.After(5 * time.Second)
	for ms.len() < 1 {
		select {
		case <-deadline:
			t.Fatal("first day never stored")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Backfill returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Backfill did not stop promptly after cancellation")
	}
}

func TestBackfiller_RejectsNonPositiveDays(t *testing.T) {
	ms := &mockStore{}
	bf := NewBackfiller(ms, provider.NewClient(), slog.Default())

	if err := bf.Backfill(context.Background(), "Frankfurt", "k", 0); err == nil {
		t.Error("expected error for days=0")
	}
	if err := bf.Backfill(context.Background(), "Frankfurt", "k", -3); err == nil {
		t.Error("expected error for negative days")
	}
}

package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

const currentBody = `{
	"location": {"name": "Frankfurt", "country": "Germany", "lat": 50.11, "lon": 8.68},
	"current": {
		"temp_c": 25.5,
		"humidity": 60,
		"wind_mph": 10.5,
		"precip_mm": 0.2,
		"last_updated": "2023-04-13 19:45"
	}
}`

const historyBody = `{
	"location": {"name": "Frankfurt", "country": "Germany", "lat": 50.11, "lon": 8.68},
	"forecast": {
		"forecastday": [{
			"date": "2023-04-13",
			"day": {
				"avgtemp_c": 27.5,
				"avghumidity": 71.0,
				"maxwind_mph": 15.2,
				"totalprecip_mm": 1.4
			}
		}]
	}
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(WithBaseURL(server.URL)), server
}

func TestClient_Current(t *testing.T) {
	var gotPath, gotQuery string
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(currentBody))
	})
	defer server.Close()

	rec, err := c.Current(context.Background(), "Frankfurt", "test-key")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}

	if gotPath != "/current.json" {
		t.Errorf("path = %q, want /current.json", gotPath)
	}
	if gotQuery != "key=test-key&q=Frankfurt" {
		t.Errorf("query = %q", gotQuery)
	}

	want := weather.Record{
		Location:      "Frankfurt",
		Country:       "Germany",
		Latitude:      50.11,
		Longitude:     8.68,
		Temperature:   25.5,
		Humidity:      60,
		WindSpeed:     10.5,
		Precipitation: 0.2,
		ObservedAt:    "2023-04-13 19:45",
	}
	if *rec != want {
		t.Errorf("record = %+v, want %+v", *rec, want)
	}
}

func TestClient_History(t *testing.T) {
	var gotQuery string
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history.json" {
			t.Errorf("path = %q, want /history.json", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(historyBody))
	})
	defer server.Close()

	rec, err := c.History(context.Background(), "Frankfurt", "test-key", "2023-04-13")
	if err != nil {
		t.Fatalf("History: %v", err)
	}

	if gotQuery != "dt=2023-04-13&key=test-key&q=Frankfurt" {
		t.Errorf("query = %q", gotQuery)
	}
	if rec.ObservedAt != "2023-04-13" {
		t.Errorf("ObservedAt = %q, want the requested date", rec.ObservedAt)
	}
	if rec.Temperature != 27.5 {
		t.Errorf("Temperature = %v, want 27.5", rec.Temperature)
	}
	if rec.Humidity != 71 {
		t.Errorf("Humidity = %d, want 71", rec.Humidity)
	}
	if rec.WindSpeed != 15.2 {
		t.Errorf("WindSpeed = %v, want 15.2", rec.WindSpeed)
	}
	if rec.Precipitation != 1.4 {
		t.Errorf("Precipitation = %v, want 1.4", rec.Precipitation)
	}
}

func TestClient_NonOKStatus(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":1002,"message":"API key not provided."}}`, http.StatusUnauthorized)
	})
	defer server.Close()

	_, err := c.Current(context.Background(), "Frankfurt", "")
	var unavail *weather.UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("error = %v, want *weather.UnavailableError", err)
	}
	if unavail.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", unavail.StatusCode)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := NewClient(WithBaseURL(server.URL))
	server.Close()

	_, err := c.Current(context.Background(), "Frankfurt", "test-key")
	var unavail *weather.UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("error = %v, want *weather.UnavailableError", err)
	}
	if unavail.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", unavail.StatusCode)
	}
}

func TestClient_MissingFields(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		history   bool
		wantField string
	}{
		{
			name:      "no location block",
			body:      `{"current": {"temp_c": 1, "humidity": 2, "wind_mph": 3, "precip_mm": 4, "last_updated": "2023-04-13 19:45"}}`,
			wantField: "location",
		},
		{
			name:      "missing temp",
			body:      `{"location": {"name": "X", "country": "Y", "lat": 1, "lon": 2}, "current": {"humidity": 2, "wind_mph": 3, "precip_mm": 4, "last_updated": "2023-04-13 19:45"}}`,
			wantField: "current.temp_c",
		},
		{
			name:      "missing last_updated",
			body:      `{"location": {"name": "X", "country": "Y", "lat": 1, "lon": 2}, "current": {"temp_c": 1, "humidity": 2, "wind_mph": 3, "precip_mm": 4}}`,
			wantField: "current.last_updated",
		},
		{
			name:      "not json",
			body:      `<html>rate limited</html>`,
			wantField: "body",
		},
		{
			name:      "history without days",
			body:      `{"location": {"name": "X", "country": "Y", "lat": 1, "lon": 2}, "forecast": {"forecastday": []}}`,
			history:   true,
			wantField: "forecast.forecastday",
		},
		{
			name:      "history missing avgtemp",
			body:      `{"location": {"name": "X", "country": "Y", "lat": 1, "lon": 2}, "forecast": {"forecastday": [{"date": "2023-04-13", "day": {"avghumidity": 1, "maxwind_mph": 2, "totalprecip_mm": 3}}]}}`,
			history:   true,
			wantField: "forecast.forecastday[0].day.avgtemp_c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			defer server.Close()

			var err error
			if tt.history {
				_, err = c.History(context.Background(), "X", "k", "2023-04-13")
			} else {
				_, err = c.Current(context.Background(), "X", "k")
			}

			var malformed *weather.MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("error = %v, want *weather.MalformedResponseError", err)
			}
			if malformed.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", malformed.Field, tt.wantField)
			}
		})
	}
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/syedjakeer1992/weather-cli-app/internal/analytics"
	"github.com/syedjakeer1992/weather-cli-app/internal/ingest"
	"github.com/syedjakeer1992/weather-cli-app/internal/store"
	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Store         store.Store
	Engine        *analytics.Engine
	Scheduler     *ingest.Scheduler
	Logger        *slog.Logger
	StartTime     time.Time
	StorageDriver string
	StoragePath   string
	Version       string
}

// apiError is a JSON error response.
type apiError struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg, Code: status})
}

type observationResponse struct {
	Location      string  `json:"location"`
	Country       string  `json:"country"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Temperature   float64 `json:"temperature_c"`
	Humidity      int     `json:"humidity_pct"`
	WindSpeed     float64 `json:"wind_speed"`
	Precipitation float64 `json:"precipitation_mm"`
	ObservedAt    string  `json:"observed_at"`
}

func toObservationResponse(rec *weather.Record) observationResponse {
	return observationResponse{
		Location:      rec.Location,
		Country:       rec.Country,
		Latitude:      rec.Latitude,
		Longitude:     rec.Longitude,
		Temperature:   rec.Temperature,
		Humidity:      rec.Humidity,
		WindSpeed:     rec.WindSpeed,
		Precipitation: rec.Precipitation,
		ObservedAt:    rec.ObservedAt,
	}
}

// GetLatest handles GET /api/v1/locations/{location}/latest
func (h *Handlers) GetLatest(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}

	rec, err := h.Store.Latest(r.Context(), location)
	if err != nil {
		h.Logger.Error("latest query failed", "location", location, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to query latest observation")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "no data available for "+location)
		return
	}

	writeJSON(w, http.StatusOK, toObservationResponse(rec))
}

// Compare handles GET /api/v1/locations/{location}/compare?window=week|month|year
func (h *Handlers) Compare(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	window := analytics.Window(r.URL.Query().Get("window"))
	if _, err := window.Days(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cmp, err := h.Engine.CompareToWindow(r.Context(), location, window)
	if errors.Is(err, weather.ErrNoData) {
		writeError(w, http.StatusNotFound, "no data available for "+location)
		return
	}
	if err != nil {
		h.Logger.Error("compare query failed", "location", location, "window", string(window), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compare against window")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Location string  `json:"location"`
		Window   string  `json:"window"`
		Trend    string  `json:"trend"`
		Current  float64 `json:"current_c"`
		Baseline float64 `json:"baseline_c"`
	}{
		Location: location,
		Window:   string(window),
		Trend:    cmp.Trend.String(),
		Current:  cmp.Current,
		Baseline: cmp.Baseline,
	})
}

var (
	monthPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
)

// Average handles GET /api/v1/locations/{location}/average?month=MM&year=YYYY
func (h *Handlers) Average(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	month := r.URL.Query().Get("month")
	year := r.URL.Query().Get("year")

	if !monthPattern.MatchString(month) {
		writeError(w, http.StatusBadRequest, "month must be MM (01-12)")
		return
	}
	if !yearPattern.MatchString(year) {
		writeError(w, http.StatusBadRequest, "year must be YYYY")
		return
	}

	avg, err := h.Engine.MonthlyAverage(r.Context(), location, month, year)
	if errors.Is(err, weather.ErrNoData) {
		writeError(w, http.StatusNotFound, "no data available for "+month+"/"+year)
		return
	}
	if err != nil {
		h.Logger.Error("average query failed", "location", location, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute average")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Location string  `json:"location"`
		Month    string  `json:"month"`
		Year     string  `json:"year"`
		Average  float64 `json:"average_c"`
	}{Location: location, Month: month, Year: year, Average: avg})
}

// Health handles GET /api/v1/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	type ingestionHealth struct {
		Location       string `json:"location"`
		CycleCount     int    `json:"cycle_count"`
		ErrorCount     int    `json:"error_count"`
		LastError      string `json:"last_error,omitempty"`
		LastCycleAt    string `json:"last_cycle_at,omitempty"`
		LastOutcome    string `json:"last_outcome,omitempty"`
		LastObservedAt string `json:"last_observed_at,omitempty"`
		Observations   int    `json:"observations"`
		OldestObserved string `json:"oldest_observed,omitempty"`
		NewestObserved string `json:"newest_observed,omitempty"`
	}

	resp := struct {
		Status    string           `json:"status"`
		Version   string           `json:"version,omitempty"`
		Uptime    string           `json:"uptime"`
		Storage   string           `json:"storage"`
		Path      string           `json:"path,omitempty"`
		Ingestion *ingestionHealth `json:"ingestion,omitempty"`
	}{
		Status:  "ok",
		Version: h.Version,
		Uptime:  formatUptime(time.Since(h.StartTime)),
		Storage: h.StorageDriver,
		Path:    h.StoragePath,
	}

	if h.Scheduler != nil {
		st := h.Scheduler.Status()
		ih := &ingestionHealth{
			Location:       st.Location,
			CycleCount:     st.CycleCount,
			ErrorCount:     st.ErrorCount,
			LastError:      st.LastError,
			LastOutcome:    st.LastOutcome,
			LastObservedAt: st.LastObservedAt,
		}
		if !st.LastCycleAt.IsZero() {
			ih.LastCycleAt = st.LastCycleAt.Format(time.RFC3339)
		}

		if count, err := h.Store.Count(r.Context(), st.Location); err == nil {
			ih.Observations = count
		}
		if oldest, newest, err := h.Store.DataRange(r.Context(), st.Location); err == nil {
			ih.OldestObserved = oldest
			ih.NewestObserved = newest
		}
		resp.Ingestion = ih
	}

	writeJSON(w, http.StatusOK, resp)
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

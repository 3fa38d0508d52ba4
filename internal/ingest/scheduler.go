// Package ingest drives the fetch-and-store pipeline: a polling scheduler
// for current conditions and a finite backfill batch for historical days.
package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/syedjakeer1992/weather-cli-app/internal/provider"
	"github.com/syedjakeer1992/weather-cli-app/internal/store"
	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

const (
	defaultCountdownInterval = 30 * time.Second
	cycleTimeout             = 30 * time.Second
)

// Status is a snapshot of the scheduler's ingestion state.
type Status struct {
	Location       string    `json:"location"`
	CycleCount     int       `json:"cycle_count"`
	ErrorCount     int       `json:"error_count"`
	LastError      string    `json:"last_error,omitempty"`
	LastCycleAt    time.Time `json:"last_cycle_at,omitempty"`
	LastOutcome    string    `json:"last_outcome,omitempty"`
	LastObservedAt string    `json:"last_observed_at,omitempty"`
}

// Scheduler fetches current conditions for one location at a fixed cadence
// and stores the result. Each cycle is independent: a failed cycle is
// logged and the loop keeps going.
type Scheduler struct {
	store     store.Store
	client    *provider.Client
	logger    *slog.Logger
	location  string
	apiKey    string
	frequency time.Duration

	// countdownInterval controls how often the time remaining until the
	// next cycle is logged. Tests shorten it.
	countdownInterval time.Duration

	mu     sync.Mutex
	status Status
}

// NewScheduler creates a scheduler that polls every frequency.
func NewScheduler(s store.Store, client *provider.Client, logger *slog.Logger, location, apiKey string, frequency time.Duration) *Scheduler {
	return &Scheduler{
		store:             s,
		client:            client,
		logger:            logger,
		location:          location,
		apiKey:            apiKey,
		frequency:         frequency,
		countdownInterval: defaultCountdownInterval,
		status:            Status{Location: location},
	}
}

// Run performs one immediate cycle, then repeats every frequency until the
// context is cancelled. Cancellation interrupts the inter-cycle wait
// promptly. Returns nil on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler starting",
		"location", s.location,
		"frequency", s.frequency.String(),
	)

	s.runCycle(ctx)
	for {
		next := time.Now().Add(s.frequency)
		if !s.waitUntil(ctx, next) {
			s.logger.Info("scheduler stopped", "location", s.location)
			return nil
		}
		s.runCycle(ctx)
	}
}

// waitUntil blocks until next, logging the remaining time periodically.
// Returns false if the context was cancelled first.
func (s *Scheduler) waitUntil(ctx context.Context, next time.Time) bool {
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()
	ticker := time.NewTicker(s.countdownInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			s.logger.Info("waiting for next update",
				"location", s.location,
				"remaining", time.Until(next).Round(time.Second).String(),
			)
		case <-timer.C:
			return true
		}
	}
}

// runCycle performs one fetch-and-store attempt. Provider and store
// failures are recorded and logged, never propagated.
func (s *Scheduler) runCycle(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()

	rec, err := s.client.Current(cctx, s.location, s.apiKey)
	if err != nil {
		s.recordError(err)
		s.logger.Error("fetch cycle failed", "location", s.location, "error", err)
		return
	}

	outcome, err := s.store.Insert(cctx, rec)
	if err != nil {
		s.recordError(err)
		s.logger.Error("storing observation failed", "location", s.location, "error", err)
		return
	}

	s.mu.Lock()
	s.status.CycleCount++
	s.status.LastCycleAt = time.Now().UTC()
	s.status.LastOutcome = outcome.String()
	s.status.LastObservedAt = rec.ObservedAt
	s.status.LastError = ""
	s.mu.Unlock()

	switch outcome {
	case weather.AlreadyPresent:
		s.logger.Info("store already up to date",
			"location", s.location,
			"observed_at", rec.ObservedAt,
		)
	default:
		s.logger.Info("saved observation",
			"location", s.location,
			"observed_at", rec.ObservedAt,
			"temperature_c", rec.Temperature,
		)
	}
}

func (s *Scheduler) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.CycleCount++
	s.status.ErrorCount++
	s.status.LastError = err.Error()
	s.status.LastCycleAt = time.Now().UTC()
}

// Status returns a snapshot of the scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

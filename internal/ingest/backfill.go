package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/syedjakeer1992/weather-cli-app/internal/provider"
	"github.com/syedjakeer1992/weather-cli-app/internal/store"
	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

const requestPace = 1 * time.Second

// Backfiller loads historical daily aggregates from the provider's history
// endpoint, one calendar day per request.
type Backfiller struct {
	store  store.Store
	client *provider.Client
	logger *slog.Logger

	// pace is the delay between history requests. Tests shorten it.
	pace time.Duration
	now  func() time.Time
}

// NewBackfiller creates a backfiller reading from client and writing to s.
func NewBackfiller(s store.Store, client *provider.Client, logger *slog.Logger) *Backfiller {
	return &Backfiller{
		store:  s,
		client: client,
		logger: logger,
		pace:   requestPace,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Backfill fetches and stores the last days calendar days (excluding
// today) for a location. A failed day is logged and skipped; only
// cancellation stops the loop early.
func (b *Backfiller) Backfill(ctx context.Context, location, apiKey string, days int) error {
	if days <= 0 {
		return fmt.Errorf("days must be positive, got %d", days)
	}

	end := b.now().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -days)

	b.logger.Info("backfill starting",
		"location", location,
		"days", days,
		"from", start.Format(weather.TimestampDate),
	)

	var inserted, present, failed int
	dayNum := 0
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		dayNum++
		date := day.Format(weather.TimestampDate)

		outcome, err := b.backfillDay(ctx, location, apiKey, date)
		if err != nil {
			failed++
			b.logger.Error("backfill day failed",
				"location", location,
				"date", date,
				"day", fmt.Sprintf("%d/%d", dayNum, days),
				"error", err,
			)
		} else {
			switch outcome {
			case weather.AlreadyPresent:
				present++
			default:
				inserted++
			}
			b.logger.Info("backfilled day",
				"location", location,
				"date", date,
				"day", fmt.Sprintf("%d/%d", dayNum, days),
				"outcome", outcome.String(),
			)
		}

		// Pace requests to avoid rate limiting.
		if dayNum < days {
			timer := time.NewTimer(b.pace)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	b.logger.Info("backfill complete",
		"location", location,
		"inserted", inserted,
		"already_present", present,
		"failed", failed,
	)
	return nil
}

func (b *Backfiller) backfillDay(ctx context.Context, location, apiKey, date string) (weather.InsertOutcome, error) {
	cctx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()

	rec, err := b.client.History(cctx, location, apiKey, date)
	if err != nil {
		return 0, err
	}
	return b.store.Insert(cctx, rec)
}

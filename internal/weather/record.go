// Package weather defines the canonical observation record shared by the
// provider client, the observation store, and the query engine.
package weather

import (
	"fmt"
	"time"
)

// Timestamp layouts used by the provider. The current-conditions endpoint
// reports minute granularity, the history endpoint reports whole days.
// Both sort chronologically as plain strings, which the store relies on.
const (
	TimestampDate     = "2006-01-02"
	TimestampDateTime = "2006-01-02 15:04"
)

// Record is one normalized weather observation for a location at a point
// in time. Records are immutable once stored; the (Location, ObservedAt)
// pair is unique across the store.
type Record struct {
	Location  string
	Country   string
	Latitude  float64
	Longitude float64

	// Temperature is in degrees Celsius.
	Temperature float64

	// Humidity is a percentage.
	Humidity int

	// WindSpeed is stored verbatim in the unit the endpoint returned
	// (mph for both endpoints currently consumed).
	WindSpeed float64

	// Precipitation is in millimeters.
	Precipitation float64

	// ObservedAt is the provider's own timestamp, either TimestampDate
	// or TimestampDateTime, never local wall-clock time.
	ObservedAt string
}

// Validate checks the fields the rest of the pipeline depends on.
func (r *Record) Validate() error {
	if r.Location == "" {
		return fmt.Errorf("record has empty location")
	}
	if _, err := ParseObservedAt(r.ObservedAt); err != nil {
		return err
	}
	return nil
}

// ObservedDate returns the date part of ObservedAt.
func (r *Record) ObservedDate() string {
	if len(r.ObservedAt) >= len(TimestampDate) {
		return r.ObservedAt[:len(TimestampDate)]
	}
	return r.ObservedAt
}

// ParseObservedAt parses a timestamp in either accepted layout.
func ParseObservedAt(s string) (time.Time, error) {
	for _, layout := range []string{TimestampDateTime, TimestampDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized observation timestamp %q", s)
}

// InsertOutcome reports what an idempotent store insert did.
type InsertOutcome int

const (
	// Inserted means a new row was written.
	Inserted InsertOutcome = iota
	// AlreadyPresent means a row with the same (location, observedAt)
	// already existed and the write was a no-op. This is the expected
	// dedup signal, not an error.
	AlreadyPresent
)

func (o InsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case AlreadyPresent:
		return "already_present"
	default:
		return fmt.Sprintf("InsertOutcome(%d)", int(o))
	}
}

package weather

import (
	"errors"
	"fmt"
)

// ErrNoData is returned by query operations when no rows match. Callers
// must treat it as "no data", never as a zero value.
var ErrNoData = errors.New("no data available")

// UnavailableError reports a transport or HTTP failure talking to the
// weather provider. StatusCode is zero when the request never produced a
// response (connection refused, timeout, open circuit).
type UnavailableError struct {
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("weather provider unavailable: status %d", e.StatusCode)
	}
	return fmt.Sprintf("weather provider unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// MalformedResponseError reports a provider payload missing an expected
// field. Field is the JSON path of the first missing field.
type MalformedResponseError struct {
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed provider response: missing field %q", e.Field)
}

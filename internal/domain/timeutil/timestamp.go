// Package timeutil provides the timestamp type used in persisted documents.
// Timestamps serialize to ISO-8601 strings with second precision; in memory
// they keep full precision so sub-second ordering and intervals survive,
// and truncation happens only in the JSON codec.
package timeutil

import (
	"encoding/json"
	"time"
)

// TimeStamp is a UTC timestamp. Full precision in memory, second precision
// on the wire.
type TimeStamp struct {
	t time.Time
}

// At builds a TimeStamp from t in UTC.
func At(t time.Time) TimeStamp {
	return TimeStamp{t: t.UTC()}
}

// Time returns the underlying time value.
func (ts TimeStamp) Time() time.Time {
	return ts.t
}

// IsZero returns true if the timestamp is unset.
func (ts TimeStamp) IsZero() bool {
	return ts.t.IsZero()
}

// Before reports whether ts is before other.
func (ts TimeStamp) Before(other TimeStamp) bool {
	return ts.t.Before(other.t)
}

// After reports whether ts is after other.
func (ts TimeStamp) After(other TimeStamp) bool {
	return ts.t.After(other.t)
}

// Equal reports whether two timestamps represent the same instant.
func (ts TimeStamp) Equal(other TimeStamp) bool {
	return ts.t.Equal(other.t)
}

// Add returns the timestamp shifted by d.
func (ts TimeStamp) Add(d time.Duration) TimeStamp {
	return At(ts.t.Add(d))
}

// String returns the RFC 3339 representation.
func (ts TimeStamp) String() string {
	return ts.t.Format(time.RFC3339)
}

// MarshalJSON encodes the timestamp as an RFC 3339 string, truncated to
// the second.
func (ts TimeStamp) MarshalJSON() ([]byte, error) {
	if ts.t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(ts.t.Truncate(time.Second).Format(time.RFC3339))
}

// UnmarshalJSON decodes an RFC 3339 string. An empty string yields the
// zero timestamp.
func (ts *TimeStamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		ts.t = time.Time{}
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	ts.t = t.UTC()
	return nil
}

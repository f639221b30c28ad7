package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// dateLayouts are the string forms accepted for calendar dates, tried in order.
// Browsers send Date values through toISOString(), which is RFC 3339 with
// milliseconds; form inputs send the bare date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
}

// Epoch milliseconds are accepted only for years 0001 through 9999.
var (
	minEpochMilli = float64(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	maxEpochMilli = float64(time.Date(9999, 12, 31, 23, 59, 59, 999e6, time.UTC).UnixMilli())
)

// DateField is a request field holding a calendar date.
// Decoding never fails: malformed values are recorded and reported by
// validation, so every field of a request is checked in one pass.
type DateField struct {
	set   bool
	valid bool
	t     time.Time
}

// NewDateField returns a set, valid DateField for d. Used by tests and callers
// that build requests in code rather than from JSON.
func NewDateField(d time.Time) *DateField {
	return &DateField{set: true, valid: true, t: CalendarDate(d)}
}

// UnmarshalJSON accepts a date string in one of dateLayouts or a number of
// milliseconds since the Unix epoch.
func (f *DateField) UnmarshalJSON(b []byte) error {
	f.set = true
	f.valid = false

	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		f.set = false
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				f.t, f.valid = CalendarDate(t), true
				return nil
			}
		}
		return nil
	}

	var ms float64
	if err := json.Unmarshal(b, &ms); err == nil && ms >= minEpochMilli && ms <= maxEpochMilli {
		f.t, f.valid = CalendarDate(time.UnixMilli(int64(ms))), true
	}
	return nil
}

// Set reports whether the field was present in the request.
func (f *DateField) Set() bool { return f != nil && f.set }

// Valid reports whether the field was present and parsed as a date.
func (f *DateField) Valid() bool { return f.Set() && f.valid }

// Time returns the parsed calendar date, or the zero time if invalid.
func (f *DateField) Time() time.Time {
	if !f.Valid() {
		return time.Time{}
	}
	return f.t
}

// CalendarDate truncates t to midnight UTC of its UTC calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

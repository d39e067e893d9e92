// Package timestamp handles the API's date-time strings, which are ISO-8601
// with or without a zone offset. Values without an offset are read as UTC.
package timestamp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Layout is the zone-less form the API writes, e.g. 2024-05-01T10:00:00.123456.
const Layout = "2006-01-02T15:04:05.999999"

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.DateOnly,
}

type Time struct {
	time.Time
}

func New(t time.Time) Time {
	return Time{Time: t}
}

// Ptr is a convenience for optional fields.
func Ptr(t time.Time) *Time {
	return &Time{Time: t}
}

// Parse accepts RFC 3339 and the zone-less forms in layouts.
func Parse(s string) (Time, error) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Time{Time: t}, nil
		}
	}
	return Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// String renders t in UTC without an offset.
func (t Time) String() string {
	return t.UTC().Format(Layout)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

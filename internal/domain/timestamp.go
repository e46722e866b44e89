package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is the on-disk form of every instant. It is fixed width
// and always UTC, so comparing two stored strings orders them the same way
// as the instants they encode.
const TimestampLayout = "2006-01-02T15:04:05Z"

// TruncateTimestamp converts t to UTC at the precision stored on disk.
func TruncateTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a stored instant. Rows written by older builds used
// RFC 3339 with a numeric offset and fractional seconds; those are accepted
// and normalized to UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

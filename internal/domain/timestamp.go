package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is the storage format for event timestamps: UTC wall time
// at second precision. Lexicographic order on this layout equals
// chronological order, which the store's MIN/MAX queries rely on.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t in the storage layout, in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a stored timestamp. Failures wrap
// ErrMalformedTimestamp; callers decide whether to skip the event or surface
// the error.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

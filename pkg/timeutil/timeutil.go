package timeutil

import (
	"fmt"
	"time"
)

// NextOccurrence returns the next time at the given local hour:minute that is
// strictly after now. If hour:minute today is already at or before now, it
// rolls over to tomorrow. Seconds and sub-seconds are floored to zero.
func NextOccurrence(hour, minute int, now time.Time) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// AddMinutes returns t shifted forward by n minutes.
func AddMinutes(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * time.Minute)
}

// DateKey formats a time as a zero-padded YYYY-MM-DD calendar date key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDateKey parses a YYYY-MM-DD date key back into a local midnight time.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// FormatClock formats a time as a display clock string with no leading zero
// on the hour, e.g. "7:05".
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}

// ClampToMinute rounds a time down to the nearest minute.
func ClampToMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// StartOfDay returns local midnight for t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

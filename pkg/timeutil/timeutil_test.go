package timeutil

import (
	"testing"
	"time"
)

func TestNextOccurrenceLaterToday(t *testing.T) {
	now := time.Date(2025, 6, 10, 6, 0, 0, 0, time.Local)
	got := NextOccurrence(7, 30, now)
	want := time.Date(2025, 6, 10, 7, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNextOccurrenceRollsToTomorrow(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.Local)
	got := NextOccurrence(7, 30, now)
	want := time.Date(2025, 6, 11, 7, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNextOccurrenceExactNowRollsOver(t *testing.T) {
	// hour:minute equal to now is not strictly after now
	now := time.Date(2025, 6, 10, 7, 30, 0, 0, time.Local)
	got := NextOccurrence(7, 30, now)
	want := time.Date(2025, 6, 11, 7, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNextOccurrenceFloorsSeconds(t *testing.T) {
	now := time.Date(2025, 6, 10, 6, 0, 45, 123456, time.Local)
	got := NextOccurrence(7, 0, now)
	if got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("Expected seconds floored, got %v", got)
	}
}

func TestAddMinutes(t *testing.T) {
	start := time.Date(2025, 6, 10, 7, 0, 0, 0, time.Local)
	got := AddMinutes(start, 60)
	want := time.Date(2025, 6, 10, 8, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDateKeyZeroPadded(t *testing.T) {
	got := DateKey(time.Date(2025, 1, 5, 23, 59, 0, 0, time.Local))
	if got != "2025-01-05" {
		t.Errorf("Expected 2025-01-05, got %q", got)
	}
}

func TestParseDateKey(t *testing.T) {
	got, err := ParseDateKey("2025-06-10")
	if err != nil {
		t.Fatalf("ParseDateKey failed: %v", err)
	}
	if DateKey(got) != "2025-06-10" {
		t.Errorf("Round trip mismatch: %v", got)
	}

	if _, err := ParseDateKey("June 10"); err == nil {
		t.Error("Expected error for malformed key")
	}
}

func TestFormatClockNoLeadingZero(t *testing.T) {
	cases := []struct {
		hour, minute int
		want         string
	}{
		{7, 5, "7:05"},
		{0, 0, "0:00"},
		{23, 59, "23:59"},
		{12, 30, "12:30"},
	}
	for _, c := range cases {
		ts := time.Date(2025, 6, 10, c.hour, c.minute, 0, 0, time.Local)
		if got := FormatClock(ts); got != c.want {
			t.Errorf("FormatClock(%d:%d) = %q, want %q", c.hour, c.minute, got, c.want)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2025, 6, 10, 18, 45, 12, 99, time.Local))
	want := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

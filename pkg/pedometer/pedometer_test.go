package pedometer

import (
	"testing"
	"time"
)

func TestManualWindowedCount(t *testing.T) {
	m := NewManual()
	current := time.Date(2025, 6, 10, 7, 0, 0, 0, time.Local)
	m.SetClock(func() time.Time { return current })

	m.Add(10) // 7:00, before the window

	current = current.Add(10 * time.Minute)
	m.Add(50) // 7:10

	current = current.Add(10 * time.Minute)
	m.Add(70) // 7:20

	current = current.Add(time.Hour)
	m.Add(5) // 8:20, after the window

	start := time.Date(2025, 6, 10, 7, 5, 0, 0, time.Local)
	end := time.Date(2025, 6, 10, 8, 0, 0, 0, time.Local)
	got, err := m.StepCount(start, end)
	if err != nil {
		t.Fatalf("StepCount failed: %v", err)
	}
	if got != 120 {
		t.Errorf("Expected 120 steps in window, got %d", got)
	}
}

func TestManualIgnoresNonPositive(t *testing.T) {
	m := NewManual()
	m.Add(0)
	m.Add(-5)

	got, err := m.StepCount(time.Time{}, time.Now())
	if err != nil {
		t.Fatalf("StepCount failed: %v", err)
	}
	if got != 0 {
		t.Errorf("Expected 0 steps, got %d", got)
	}
}

func TestManualBoundariesInclusive(t *testing.T) {
	m := NewManual()
	start := time.Date(2025, 6, 10, 7, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)

	m.SetClock(func() time.Time { return start })
	m.Add(1)
	m.SetClock(func() time.Time { return end })
	m.Add(2)

	got, _ := m.StepCount(start, end)
	if got != 3 {
		t.Errorf("Expected steps at both boundaries counted, got %d", got)
	}
}

func TestUnavailableStub(t *testing.T) {
	var p Pedometer = Unavailable{}
	if p.IsAvailable() {
		t.Error("Unavailable must report no sensor")
	}
	if p.RequestPermission() {
		t.Error("Unavailable must not grant permission")
	}
}

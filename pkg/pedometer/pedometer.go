package pedometer

import (
	"sort"
	"sync"
	"time"
)

// Pedometer is the step-sensing capability the walk tracker polls. A host
// without a sensor reports unavailable; the tracker treats that day as
// missed rather than blocking.
type Pedometer interface {
	// IsAvailable reports whether step counting works on this host
	IsAvailable() bool
	// RequestPermission asks for motion access and reports whether it was granted
	RequestPermission() bool
	// StepCount returns the cumulative steps taken between start and end
	StepCount(start, end time.Time) (int, error)
}

// Unavailable is the pedometer for hosts without any step sensor
type Unavailable struct{}

func (Unavailable) IsAvailable() bool                     { return false }
func (Unavailable) RequestPermission() bool               { return false }
func (Unavailable) StepCount(_, _ time.Time) (int, error) { return 0, nil }

// Manual counts steps reported by the user, timestamped at report time.
// It stands in for a hardware pedometer on desktop hosts: the CLI's
// "walk N" command feeds it.
type Manual struct {
	mu      sync.Mutex
	entries []entry
	now     func() time.Time
}

type entry struct {
	at    time.Time
	steps int
}

func NewManual() *Manual {
	return &Manual{now: time.Now}
}

// SetClock overrides the clock used to timestamp reported steps
func (m *Manual) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Add records steps walked at the current time
func (m *Manual) Add(steps int) {
	if steps <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry{at: m.now(), steps: steps})
}

func (m *Manual) IsAvailable() bool       { return true }
func (m *Manual) RequestPermission() bool { return true }

func (m *Manual) StepCount(start, end time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Entries are appended in time order under normal use, but a scripted
	// clock in tests may interleave; search from the first in-window entry.
	idx := sort.Search(len(m.entries), func(i int) bool {
		return !m.entries[i].at.Before(start)
	})

	total := 0
	for _, e := range m.entries[idx:] {
		if e.at.After(end) {
			continue
		}
		if !e.at.Before(start) {
			total += e.steps
		}
	}
	return total, nil
}

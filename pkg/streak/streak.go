package streak

import (
	"sort"
	"time"

	"github.com/borgmon/wakewalk/pkg/models"
	"github.com/borgmon/wakewalk/pkg/timeutil"
)

// Span is a run of consecutive commit days
type Span struct {
	Length int
	Start  time.Time
	End    time.Time
}

// Streaks summarizes the commit history for display
type Streaks struct {
	Current Span
	Longest Span
}

// ComputeStreaks folds the outcome history into the current and longest
// runs of consecutive commit days. The current streak counts backwards
// from today and is zero unless today itself is a commit. Nap records and
// failed days never contribute.
func ComputeStreaks(outcomes models.DailyOutcomeMap, today time.Time) Streaks {
	days := commitDays(outcomes)
	if len(days) == 0 {
		return Streaks{}
	}

	var s Streaks

	run := Span{Length: 1, Start: days[0], End: days[0]}
	s.Longest = run
	for _, d := range days[1:] {
		// calendar-day adjacency, not a fixed 24h offset, so streaks survive
		// DST transitions
		if run.End.AddDate(0, 0, 1).Equal(d) {
			run.Length++
			run.End = d
		} else {
			run = Span{Length: 1, Start: d, End: d}
		}
		if run.Length > s.Longest.Length {
			s.Longest = run
		}
	}

	// run now ends at the most recent commit day; it counts as the current
	// streak only when that day is today
	if timeutil.DateKey(run.End) == timeutil.DateKey(today) {
		s.Current = run
	}
	return s
}

// commitDays returns the start-of-day timestamps of every commit, sorted
// ascending. Records with unparseable keys are skipped.
func commitDays(outcomes models.DailyOutcomeMap) []time.Time {
	days := make([]time.Time, 0, len(outcomes))
	for key, rec := range outcomes {
		if !rec.IsCommit() {
			continue
		}
		d, err := timeutil.ParseDateKey(key)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

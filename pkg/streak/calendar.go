package streak

import (
	"time"

	"github.com/borgmon/wakewalk/pkg/models"
	"github.com/borgmon/wakewalk/pkg/timeutil"
)

// DayStatus classifies one calendar cell
type DayStatus string

const (
	DaySuccess DayStatus = "success"
	DayFail    DayStatus = "fail"
	DayEmpty   DayStatus = "empty"
	DayFuture  DayStatus = "future"
)

// Day is one calendar cell
type Day struct {
	Date   time.Time
	Key    string
	Status DayStatus
}

// Month is one month bucket: weeks of seven cells starting on Sunday, with
// nil padding before the first and after the last day of the month
type Month struct {
	Year  int
	Month time.Month
	Weeks [][]*Day
}

// BuildCalendar renders the trailing twelve months of outcome history,
// oldest month first and ending with the month containing today. Nap
// records and missing records classify as empty; dates after today are
// future.
func BuildCalendar(outcomes models.DailyOutcomeMap, today time.Time) []Month {
	today = timeutil.StartOfDay(today)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -11, 0)

	months := make([]Month, 0, 12)
	for i := 0; i < 12; i++ {
		start := first.AddDate(0, i, 0)
		months = append(months, buildMonth(outcomes, start, today))
	}
	return months
}

func buildMonth(outcomes models.DailyOutcomeMap, start, today time.Time) Month {
	m := Month{Year: start.Year(), Month: start.Month()}

	week := make([]*Day, 0, 7)
	for i := 0; i < int(start.Weekday()); i++ {
		week = append(week, nil)
	}

	for d := start; d.Month() == start.Month(); d = d.AddDate(0, 0, 1) {
		key := timeutil.DateKey(d)
		rec, ok := outcomes[key]
		week = append(week, &Day{
			Date:   d,
			Key:    key,
			Status: classify(rec, ok, d, today),
		})
		if len(week) == 7 {
			m.Weeks = append(m.Weeks, week)
			week = make([]*Day, 0, 7)
		}
	}

	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		m.Weeks = append(m.Weeks, week)
	}
	return m
}

func classify(rec models.DailyOutcome, ok bool, day, today time.Time) DayStatus {
	if day.After(today) {
		return DayFuture
	}
	if !ok || rec.Mode == models.ModeNap {
		return DayEmpty
	}
	switch rec.Outcome {
	case models.OutcomeSuccess:
		return DaySuccess
	case models.OutcomeFail:
		return DayFail
	default:
		return DayEmpty
	}
}

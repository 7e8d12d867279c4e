package streak

import (
	"testing"
	"time"

	"github.com/borgmon/wakewalk/pkg/models"
)

func commit(dateKey string) models.DailyOutcome {
	return models.DailyOutcome{
		DateKey: dateKey,
		Mode:    models.ModeAlarm,
		Outcome: models.OutcomeSuccess,
	}
}

func miss(dateKey string) models.DailyOutcome {
	return models.DailyOutcome{
		DateKey: dateKey,
		Mode:    models.ModeAlarm,
		Outcome: models.OutcomeFail,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.Local)
}

func TestComputeStreaksEmpty(t *testing.T) {
	s := ComputeStreaks(models.DailyOutcomeMap{}, day(2025, 6, 10))
	if s.Current.Length != 0 || s.Longest.Length != 0 {
		t.Errorf("Expected zero streaks, got %+v", s)
	}
}

func TestCurrentStreakEndsToday(t *testing.T) {
	outcomes := models.DailyOutcomeMap{
		"2025-06-08": commit("2025-06-08"),
		"2025-06-09": commit("2025-06-09"),
		"2025-06-10": commit("2025-06-10"),
	}

	s := ComputeStreaks(outcomes, day(2025, 6, 10))
	if s.Current.Length != 3 {
		t.Errorf("Expected current streak 3, got %d", s.Current.Length)
	}
	if got := s.Current.Start.Format("2006-01-02"); got != "2025-06-08" {
		t.Errorf("Expected streak start 2025-06-08, got %s", got)
	}
}

func TestCurrentStreakZeroWithoutToday(t *testing.T) {
	outcomes := models.DailyOutcomeMap{
		"2025-06-08": commit("2025-06-08"),
		"2025-06-09": commit("2025-06-09"),
	}

	s := ComputeStreaks(outcomes, day(2025, 6, 10))
	if s.Current.Length != 0 {
		t.Errorf("Current streak must be zero when today is not a commit, got %d", s.Current.Length)
	}
	if s.Longest.Length != 2 {
		t.Errorf("Expected longest streak 2, got %d", s.Longest.Length)
	}
}

func TestLongestStreakIgnoresToday(t *testing.T) {
	outcomes := models.DailyOutcomeMap{
		"2025-05-01": commit("2025-05-01"),
		"2025-05-02": commit("2025-05-02"),
		"2025-05-03": commit("2025-05-03"),
		"2025-05-04": commit("2025-05-04"),
		"2025-06-09": commit("2025-06-09"),
		"2025-06-10": commit("2025-06-10"),
	}

	s := ComputeStreaks(outcomes, day(2025, 6, 10))
	if s.Longest.Length != 4 {
		t.Errorf("Expected longest streak 4, got %d", s.Longest.Length)
	}
	if got := s.Longest.End.Format("2006-01-02"); got != "2025-05-04" {
		t.Errorf("Expected longest end 2025-05-04, got %s", got)
	}
	if s.Current.Length != 2 {
		t.Errorf("Expected current streak 2, got %d", s.Current.Length)
	}
}

func TestGapBreaksStreak(t *testing.T) {
	outcomes := models.DailyOutcomeMap{
		"2025-06-07": commit("2025-06-07"),
		"2025-06-08": commit("2025-06-08"),
		// 06-09 missing
		"2025-06-10": commit("2025-06-10"),
	}

	s := ComputeStreaks(outcomes, day(2025, 6, 10))
	if s.Current.Length != 1 {
		t.Errorf("Expected current streak 1 after a gap, got %d", s.Current.Length)
	}
	if s.Longest.Length != 2 {
		t.Errorf("Expected longest streak 2, got %d", s.Longest.Length)
	}
}

func TestNapsAndFailsNeverCount(t *testing.T) {
	nap := commit("2025-06-09")
	nap.Mode = models.ModeNap

	outcomes := models.DailyOutcomeMap{
		"2025-06-08": commit("2025-06-08"),
		"2025-06-09": nap,
		"2025-06-10": miss("2025-06-10"),
	}

	s := ComputeStreaks(outcomes, day(2025, 6, 10))
	if s.Current.Length != 0 {
		t.Errorf("Fail today must not count, got current %d", s.Current.Length)
	}
	if s.Longest.Length != 1 {
		t.Errorf("Nap must not extend a streak, got longest %d", s.Longest.Length)
	}
}

func TestBuildCalendarTwelveMonths(t *testing.T) {
	today := day(2025, 6, 10)
	months := BuildCalendar(models.DailyOutcomeMap{}, today)

	if len(months) != 12 {
		t.Fatalf("Expected 12 months, got %d", len(months))
	}
	if months[0].Year != 2024 || months[0].Month != time.July {
		t.Errorf("Expected first month July 2024, got %s %d", months[0].Month, months[0].Year)
	}
	if months[11].Year != 2025 || months[11].Month != time.June {
		t.Errorf("Expected last month June 2025, got %s %d", months[11].Month, months[11].Year)
	}
}

func TestCalendarCellStatuses(t *testing.T) {
	nap := commit("2025-06-05")
	nap.Mode = models.ModeNap

	outcomes := models.DailyOutcomeMap{
		"2025-06-08": commit("2025-06-08"),
		"2025-06-09": miss("2025-06-09"),
		"2025-06-05": nap,
	}
	months := BuildCalendar(outcomes, day(2025, 6, 10))
	june := months[11]

	status := map[string]DayStatus{}
	for _, week := range june.Weeks {
		for _, cell := range week {
			if cell != nil {
				status[cell.Key] = cell.Status
			}
		}
	}

	if status["2025-06-08"] != DaySuccess {
		t.Errorf("Expected 06-08 success, got %s", status["2025-06-08"])
	}
	if status["2025-06-09"] != DayFail {
		t.Errorf("Expected 06-09 fail, got %s", status["2025-06-09"])
	}
	if status["2025-06-05"] != DayEmpty {
		t.Errorf("Nap day must be empty, got %s", status["2025-06-05"])
	}
	if status["2025-06-07"] != DayEmpty {
		t.Errorf("Missing record must be empty, got %s", status["2025-06-07"])
	}
	if status["2025-06-11"] != DayFuture {
		t.Errorf("Tomorrow must be future, got %s", status["2025-06-11"])
	}
	if status["2025-06-10"] == DayFuture {
		t.Error("Today must not be future")
	}
}

func TestCalendarWeeksStartOnSunday(t *testing.T) {
	months := BuildCalendar(models.DailyOutcomeMap{}, day(2025, 6, 10))
	june := months[11]

	// June 1st 2025 is a Sunday, so the first week has no leading padding
	if june.Weeks[0][0] == nil {
		t.Fatal("Expected June 2025 to start flush on Sunday")
	}
	if got := june.Weeks[0][0].Date.Weekday(); got != time.Sunday {
		t.Errorf("Expected first cell on Sunday, got %s", got)
	}
	for _, week := range june.Weeks {
		if len(week) != 7 {
			t.Errorf("Every week must hold 7 cells, got %d", len(week))
		}
	}

	// May 2025 starts on a Thursday: four leading nil cells
	may := months[10]
	for i := 0; i < 4; i++ {
		if may.Weeks[0][i] != nil {
			t.Errorf("Expected leading padding at cell %d of May 2025", i)
		}
	}
	if may.Weeks[0][4] == nil || may.Weeks[0][4].Date.Day() != 1 {
		t.Error("Expected May 1st in the fifth cell")
	}
}

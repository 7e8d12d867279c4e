package streak

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/emersion/go-ical"

	"github.com/borgmon/wakewalk/pkg/models"
	"github.com/borgmon/wakewalk/pkg/timeutil"
)

// ExportICS writes the commit history as an iCalendar feed, one event per
// commit day, so the streak can be overlaid on an external calendar.
func ExportICS(w io.Writer, outcomes models.DailyOutcomeMap, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//wakewalk//streak export//EN")

	keys := make([]string, 0, len(outcomes))
	for key, rec := range outcomes {
		if rec.IsCommit() {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		day, err := timeutil.ParseDateKey(key)
		if err != nil {
			continue
		}
		rec := outcomes[key]

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, "wakewalk-"+key)
		event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, day)
		event.Props.SetDateTime(ical.PropDateTimeEnd, day.AddDate(0, 0, 1))
		event.Props.SetText(ical.PropSummary, commitSummary(rec))
		cal.Children = append(cal.Children, event.Component)
	}

	return ical.NewEncoder(w).Encode(cal)
}

func commitSummary(rec models.DailyOutcome) string {
	if rec.StepsInWindow != nil {
		return fmt.Sprintf("Wake walk: %d steps", *rec.StepsInWindow)
	}
	return "Wake walk completed"
}

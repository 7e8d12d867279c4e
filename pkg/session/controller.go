package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/borgmon/wakewalk/pkg/alarm"
	"github.com/borgmon/wakewalk/pkg/models"
	"github.com/borgmon/wakewalk/pkg/store"
	"github.com/borgmon/wakewalk/pkg/timeutil"
	"github.com/borgmon/wakewalk/pkg/walk"
)

// Wake walk rules. RuleVersion stamps persisted outcomes so a future rule
// change can re-interpret old records.
const (
	WalkGoalMinutes = 60
	WalkGoalSteps   = 100
	RuleVersion     = 1
)

// armedSession remembers what was armed so a later stop can be attributed
// to the right day and goal window
type armedSession struct {
	dateKey  string
	target   time.Time
	wakeGoal time.Time
	mode     models.SessionMode
}

// Controller binds the alarm scheduler, walk tracker and outcome store into
// one arm/stop/snooze surface. It owns the arm-time outcome record and the
// handoff from a genuine alarm stop into walk tracking.
type Controller struct {
	sched    *alarm.Scheduler
	tracker  *walk.Tracker
	outcomes *store.OutcomeStore
	now      func() time.Time

	goalSteps       int
	walkGoalMinutes int

	mu      sync.Mutex
	current *armedSession
}

func NewController(sched *alarm.Scheduler, tracker *walk.Tracker, outcomes *store.OutcomeStore) *Controller {
	c := &Controller{
		sched:           sched,
		tracker:         tracker,
		outcomes:        outcomes,
		now:             time.Now,
		goalSteps:       WalkGoalSteps,
		walkGoalMinutes: WalkGoalMinutes,
	}
	sched.SetStopHandler(c.handleStop)
	return c
}

// SetClock overrides the controller clock, used in tests
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// SetGoal overrides the wake walk rules, from daemon config
func (c *Controller) SetGoal(steps, minutes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if steps > 0 {
		c.goalSteps = steps
	}
	if minutes > 0 {
		c.walkGoalMinutes = minutes
	}
}

// Arm schedules an alarm or nap for the next occurrence of hour:minute.
// For alarm mode the day's outcome record is fully replaced, clearing any
// stale resolution left under the same date key from a previous year's
// collision. Naps never touch the outcome history.
func (c *Controller) Arm(hour, minute int, mode models.SessionMode) (time.Time, error) {
	c.tracker.Reset()

	target, err := c.sched.Schedule(hour, minute)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to arm: %w", err)
	}

	c.mu.Lock()
	wakeGoal := timeutil.AddMinutes(target, c.walkGoalMinutes)
	sess := &armedSession{
		dateKey:  timeutil.DateKey(target),
		target:   target,
		wakeGoal: wakeGoal,
		mode:     mode,
	}
	c.current = sess
	goalSteps := c.goalSteps
	c.mu.Unlock()

	if mode == models.ModeAlarm {
		alarmAt := target
		wakeAt := wakeGoal
		c.outcomes.Overwrite(sess.dateKey, models.DailyOutcome{
			DateKey:      sess.dateKey,
			Mode:         models.ModeAlarm,
			AlarmTime:    &alarmAt,
			WakeGoalTime: &wakeAt,
			GoalSteps:    goalSteps,
			RuleVersion:  RuleVersion,
		})
	}

	log.Printf("Armed %s for %s (wake goal %s)", mode, target.Format(time.RFC3339), wakeGoal.Format(time.RFC3339))
	return target, nil
}

// Stop cancels or silences the alarm on the user's behalf
func (c *Controller) Stop() {
	c.sched.Stop()
	c.handleStop(false)
}

// Snooze re-arms for a short delay, consuming one snooze. Returns nil when
// snoozing is disabled or the budget is spent.
func (c *Controller) Snooze() (*time.Time, error) {
	next, err := c.sched.Snooze()
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, nil
	}

	c.mu.Lock()
	if c.current != nil {
		c.current.target = *next
		c.current.wakeGoal = timeutil.AddMinutes(*next, c.walkGoalMinutes)
	}
	c.mu.Unlock()
	return next, nil
}

// handleStop runs after a genuine alarm stop, whether from the user or the
// ring-duration auto-stop. It owns the walk tracking handoff.
func (c *Controller) handleStop(auto bool) {
	c.mu.Lock()
	sess := c.current
	c.current = nil
	goalSteps := c.goalSteps
	now := c.now()
	c.mu.Unlock()

	if sess == nil {
		return
	}
	if sess.mode == models.ModeNap {
		log.Println("Nap finished")
		return
	}

	// Ringing straight through the walk window leaves no time to walk, so
	// the day resolves immediately
	if !now.Before(sess.wakeGoal) {
		zero := 0
		c.outcomes.Upsert(store.UpsertParams{
			DateKey: sess.dateKey,
			Patch: store.OutcomePatch{
				StopAt:        &now,
				StepsInWindow: &zero,
				AchievedAt:    nil,
				SetAchievedAt: true,
				Outcome:       models.OutcomeFail,
			},
		})
		log.Printf("Alarm stopped after the wake goal deadline; %s recorded as missed", sess.dateKey)
		return
	}

	c.outcomes.Upsert(store.UpsertParams{
		DateKey: sess.dateKey,
		Patch:   store.OutcomePatch{StopAt: &now},
	})

	err := c.tracker.Start(walk.Params{
		DateKey:   sess.dateKey,
		StopAt:    now,
		WakeGoal:  sess.wakeGoal,
		GoalSteps: goalSteps,
	})
	if err != nil {
		log.Printf("Walk tracking could not start: %v", err)
	}
}

// Session returns the walk session state for display, or nil when none
func (c *Controller) Session() *walk.Session {
	return c.tracker.Session()
}

// Dismiss clears a resolved walk session from display
func (c *Controller) Dismiss() {
	c.tracker.Reset()
}

package walk

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/borgmon/wakewalk/pkg/models"
	"github.com/borgmon/wakewalk/pkg/pedometer"
	"github.com/borgmon/wakewalk/pkg/store"
)

// Status is the wake walk session state
type Status string

const (
	StatusTracking Status = "tracking"
	StatusSuccess  Status = "success"
	StatusFail     Status = "fail"
)

// DefaultPollInterval is how often accumulated steps are re-read. The
// deadline is enforced by polling rather than one long timer so a suspended
// and resumed process still resolves correctly.
const DefaultPollInterval = 15 * time.Second

var (
	// ErrUnavailable means the host has no step sensor; the day is recorded
	// as missed rather than blocking the app
	ErrUnavailable = errors.New("step tracking unavailable on this device")
	// ErrPermissionDenied means motion access was refused
	ErrPermissionDenied = errors.New("motion permission is required to track steps")
)

// Params describes one wake walk challenge: reach GoalSteps between StopAt
// and WakeGoal
type Params struct {
	DateKey   string
	StopAt    time.Time
	WakeGoal  time.Time
	GoalSteps int
}

// Session is the observable state of a walk in progress or just resolved
type Session struct {
	DateKey    string
	Steps      int
	GoalSteps  int
	Remaining  time.Duration
	Status     Status
	StopAt     time.Time
	WakeGoal   time.Time
	AchievedAt *time.Time
}

// Tracker polls accumulated steps after a genuine alarm stop and resolves
// the session to success or fail, persisting the resolution through the
// outcome store. A terminal session stays visible until Reset; the tracker
// never clears it on its own.
type Tracker struct {
	ped      pedometer.Pedometer
	outcomes *store.OutcomeStore
	now      func() time.Time
	interval time.Duration
	onUpdate func(Session)

	mu      sync.Mutex
	gen     int
	timer   *time.Timer
	active  *Params
	session *Session
}

func NewTracker(ped pedometer.Pedometer, outcomes *store.OutcomeStore) *Tracker {
	return &Tracker{
		ped:      ped,
		outcomes: outcomes,
		now:      time.Now,
		interval: DefaultPollInterval,
	}
}

// SetClock overrides the tracker clock, used in tests
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// SetPollInterval overrides the poll cadence, used in tests
func (t *Tracker) SetPollInterval(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interval = d
}

// OnUpdate registers an observer called after every poll and resolution
func (t *Tracker) OnUpdate(fn func(Session)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUpdate = fn
}

// Session returns a copy of the current session state, or nil when none
func (t *Tracker) Session() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return nil
	}
	s := *t.session
	return &s
}

// Start begins tracking a wake walk. When the pedometer is missing or
// motion permission is refused, the day is immediately persisted as a fail
// and the matching sentinel error is returned without entering tracking.
func (t *Tracker) Start(p Params) error {
	t.Reset()

	if !t.ped.IsAvailable() {
		t.persistFail(p)
		return ErrUnavailable
	}
	if !t.ped.RequestPermission() {
		t.persistFail(p)
		return ErrPermissionDenied
	}

	t.mu.Lock()
	t.gen++
	gen := t.gen
	params := p
	t.active = &params
	remaining := p.WakeGoal.Sub(t.now())
	if remaining < 0 {
		remaining = 0
	}
	t.session = &Session{
		DateKey:   p.DateKey,
		Steps:     0,
		GoalSteps: p.GoalSteps,
		Remaining: remaining,
		Status:    StatusTracking,
		StopAt:    p.StopAt,
		WakeGoal:  p.WakeGoal,
	}
	t.mu.Unlock()

	log.Printf("Wake walk started for %s: %d steps by %s", p.DateKey, p.GoalSteps, p.WakeGoal.Format(time.RFC3339))
	t.poll(gen)
	return nil
}

// Reset cancels any pending poll and clears the session. Safe to call at
// any time, from any state, repeatedly.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.active = nil
	t.session = nil
}

func (t *Tracker) poll(gen int) {
	t.mu.Lock()
	if gen != t.gen || t.active == nil {
		t.mu.Unlock()
		return
	}
	p := *t.active
	now := t.now()
	t.mu.Unlock()

	steps, err := t.ped.StepCount(p.StopAt, now)
	if err != nil {
		log.Printf("Failed to read step count: %v", err)
		steps = 0
	}

	remaining := p.WakeGoal.Sub(now)
	if remaining < 0 {
		remaining = 0
	}

	t.mu.Lock()
	if gen != t.gen || t.active == nil {
		t.mu.Unlock()
		return
	}

	t.session = &Session{
		DateKey:   p.DateKey,
		Steps:     steps,
		GoalSteps: p.GoalSteps,
		Remaining: remaining,
		Status:    StatusTracking,
		StopAt:    p.StopAt,
		WakeGoal:  p.WakeGoal,
	}

	// Goal is evaluated before the deadline: reaching the step goal at the
	// exact expiry moment still counts as a success
	switch {
	case steps >= p.GoalSteps:
		achieved := now
		t.resolveLocked(p, models.OutcomeSuccess, steps, &achieved)
		t.notifyLocked()
		t.mu.Unlock()
	case remaining <= 0:
		t.resolveLocked(p, models.OutcomeFail, steps, nil)
		t.notifyLocked()
		t.mu.Unlock()
	default:
		t.timer = time.AfterFunc(t.interval, func() {
			t.poll(gen)
		})
		t.notifyLocked()
		t.mu.Unlock()
	}
}

// resolveLocked persists the terminal outcome and marks the session
// terminal, leaving it in place for display until Reset
func (t *Tracker) resolveLocked(p Params, outcome models.OutcomeResult, steps int, achievedAt *time.Time) {
	stepsInWindow := steps
	t.outcomes.Upsert(store.UpsertParams{
		DateKey: p.DateKey,
		Patch: store.OutcomePatch{
			StepsInWindow: &stepsInWindow,
			AchievedAt:    achievedAt,
			SetAchievedAt: true,
			Outcome:       outcome,
		},
	})

	status := StatusFail
	if outcome == models.OutcomeSuccess {
		status = StatusSuccess
	}
	t.session.Status = status
	t.session.AchievedAt = achievedAt

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.active = nil
	log.Printf("Wake walk resolved %s for %s: %d/%d steps", outcome, p.DateKey, steps, p.GoalSteps)
}

func (t *Tracker) notifyLocked() {
	if t.onUpdate == nil || t.session == nil {
		return
	}
	fn := t.onUpdate
	s := *t.session
	go fn(s)
}

// persistFail records a missed day for hosts that cannot track steps
func (t *Tracker) persistFail(p Params) {
	zero := 0
	t.outcomes.Upsert(store.UpsertParams{
		DateKey: p.DateKey,
		Patch: store.OutcomePatch{
			StepsInWindow: &zero,
			AchievedAt:    nil,
			SetAchievedAt: true,
			Outcome:       models.OutcomeFail,
		},
	})
}

package alarm

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/borgmon/wakewalk/pkg/bridge"
	"github.com/borgmon/wakewalk/pkg/models"
	"github.com/borgmon/wakewalk/pkg/notify"
	"github.com/borgmon/wakewalk/pkg/sounds"
	"github.com/borgmon/wakewalk/pkg/timeutil"
)

// Status is the alarm lifecycle state owned exclusively by the Scheduler
type Status string

const (
	StatusIdle    Status = "idle"
	StatusArmed   Status = "armed"
	StatusRinging Status = "ringing"
)

const (
	notificationTitle = "Alarm"
	notificationBody  = "Time to wake up!"
)

// SettingsProvider supplies the current alarm settings at arm time
type SettingsProvider interface {
	AlarmSettings() models.AlarmSettings
}

// StopHandler observes genuine alarm stops. auto is true when the ring
// ended on its own (ring duration elapsed or the native side stopped it)
// rather than through an explicit stop call.
type StopHandler func(auto bool)

// Scheduler owns the alarm state machine. It arms and disarms the
// notification gateway and the native bridge in tandem, reconciles their
// asynchronous events with its in-memory status, and implements snooze as a
// bounded re-arming cycle.
//
// All mutations are serialized through one mutex. The bridge acknowledges
// every Stop call with an asynchronous Stopped event, including the
// defensive disarm at the front of a fresh Schedule; a pending-ack flag
// swallows those acknowledgments, duplicates included, until the bridge
// confirms the next schedule with Armed. This is the guard that keeps a
// fresh arm or a snooze from collapsing back to idle.
type Scheduler struct {
	gateway  notify.Gateway
	bridge   bridge.Bridge
	settings SettingsProvider
	now      func() time.Time

	mu               sync.Mutex
	status           Status
	scheduledAt      *time.Time
	notifHandle      string
	nativeArmed      bool
	remainingSnoozes int
	stopAckPending   bool

	onStopped StopHandler

	reconcileCh chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
}

func NewScheduler(gw notify.Gateway, br bridge.Bridge, settings SettingsProvider) *Scheduler {
	s := &Scheduler{
		gateway:     gw,
		bridge:      br,
		settings:    settings,
		now:         time.Now,
		status:      StatusIdle,
		reconcileCh: make(chan struct{}, 8),
		done:        make(chan struct{}),
	}

	gw.OnReceived(s.handleNotificationReceived)
	gw.OnAction(s.handleNotificationAction)
	return s
}

// SetClock overrides the scheduler clock, used in tests
func (s *Scheduler) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetStopHandler registers the genuine-stop handoff, normally the session
// controller starting the wake walk
func (s *Scheduler) SetStopHandler(h StopHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStopped = h
}

// Start begins consuming bridge events and reconciliation requests
func (s *Scheduler) Start() {
	go func() {
		for {
			select {
			case <-s.done:
				return
			case ev := <-s.bridge.Events():
				s.HandleEvent(ev)
			}
		}
	}()
	go func() {
		for {
			select {
			case <-s.done:
				return
			case <-s.reconcileCh:
				s.reconcile()
			}
		}
	}()
}

// Close stops the event and reconciliation loops
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Schedule arms an alarm at the next occurrence of hour:minute. Any alarm
// already in flight is fully disarmed first, so re-arming never leaks a
// second notification or bridge schedule. Returns notify.ErrPermissionDenied
// (wrapped) without arming when notification permission is refused.
func (s *Scheduler) Schedule(hour, minute int) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	if err := s.gateway.EnsureSetup(); err != nil {
		return time.Time{}, fmt.Errorf("notification setup: %w", err)
	}
	if err := s.gateway.RequestPermission(); err != nil {
		return time.Time{}, err
	}

	target := timeutil.NextOccurrence(hour, minute, s.now())
	if err := s.armLocked(target); err != nil {
		return time.Time{}, err
	}

	settings := s.settings.AlarmSettings()
	s.remainingSnoozes = settings.SnoozeRepeatCount
	log.Printf("Alarm armed for %s", target.Format(time.RFC3339))
	return target, nil
}

// armLocked schedules the notification and starts the bridge for target,
// then marks the scheduler armed
func (s *Scheduler) armLocked(target time.Time) error {
	settings := s.settings.AlarmSettings()

	content := notify.Content{
		Title:    notificationTitle,
		Body:     notificationBody,
		Category: notify.AlarmCategory,
		Data:     map[string]string{"scheduledAt": target.Format(time.RFC3339)},
	}
	handle, err := s.gateway.ScheduleAt(target, content)
	if err != nil {
		// The bridge remains the source of truth for ringing, so a failed
		// notification schedule is logged and the arm continues
		log.Printf("Failed to schedule alarm notification: %v", err)
	} else {
		s.notifHandle = handle
	}

	err = s.bridge.Start(
		target,
		sounds.FileName(settings.SoundID),
		time.Duration(settings.RingDurationMinutes)*time.Minute,
		settings.VibrationEnabled,
		settings.SoundEnabled,
	)
	if err != nil {
		s.cancelNotificationLocked()
		s.scheduledAt = nil
		s.status = StatusIdle
		return fmt.Errorf("start native alarm: %w", err)
	}

	s.nativeArmed = true
	t := target
	s.scheduledAt = &t
	s.status = StatusArmed
	return nil
}

// Stop disarms everything and returns to idle. It always succeeds locally:
// gateway or bridge failures are logged, never surfaced, so stopping can
// never leave the alarm stuck.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	s.cancelNotificationLocked()
	s.disarmBridgeLocked()
	s.scheduledAt = nil
	s.remainingSnoozes = 0
	s.status = StatusIdle
}

// disarmBridgeLocked stops the bridge. The bridge acknowledges every Stop
// with an asynchronous Stopped event whether or not it held a schedule, so
// each successful call opens the ack window.
func (s *Scheduler) disarmBridgeLocked() {
	s.nativeArmed = false
	if err := s.bridge.Stop(); err != nil {
		log.Printf("Failed to stop native alarm: %v", err)
		return
	}
	s.stopAckPending = true
}

func (s *Scheduler) cancelNotificationLocked() {
	if s.notifHandle == "" {
		return
	}
	if err := s.gateway.Cancel(s.notifHandle); err != nil {
		log.Printf("Failed to cancel scheduled notification: %v", err)
	}
	s.notifHandle = ""
}

// Snooze re-arms the alarm snoozeDurationMinutes from now, consuming one
// unit of the snooze budget. Returns nil with no side effects when snooze
// is disabled or the budget is exhausted.
func (s *Scheduler) Snooze() (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.settings.AlarmSettings()
	if !settings.SnoozeEnabled || s.remainingSnoozes == 0 {
		return nil, nil
	}

	next := timeutil.ClampToMinute(s.now().Add(time.Duration(settings.SnoozeDurationMinutes) * time.Minute))

	s.cancelNotificationLocked()
	s.disarmBridgeLocked()

	if err := s.armLocked(next); err != nil {
		return nil, fmt.Errorf("snooze re-arm: %w", err)
	}

	s.remainingSnoozes--
	log.Printf("Alarm snoozed until %s (%d snoozes left)", next.Format(time.RFC3339), s.remainingSnoozes)
	return &next, nil
}

// SettingsChanged reacts to a settings update: while armed the bridge is
// transparently re-armed at the same target time through the serialized
// reconciliation queue; while idle only the snooze budget follows the new
// repeat count.
func (s *Scheduler) SettingsChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusIdle:
		s.remainingSnoozes = s.settings.AlarmSettings().SnoozeRepeatCount
	case StatusArmed:
		select {
		case s.reconcileCh <- struct{}{}:
		default:
			// Queue full; a pending reconciliation will pick up the
			// latest settings anyway
		}
	}
}

// reconcile disarms and re-arms the bridge at the unchanged target time so
// new ring settings take effect before the alarm fires. Skipped when the
// target has already passed.
func (s *Scheduler) reconcile() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusArmed || s.scheduledAt == nil {
		return
	}
	target := *s.scheduledAt
	if !target.After(s.now()) {
		return
	}

	settings := s.settings.AlarmSettings()
	s.disarmBridgeLocked()
	err := s.bridge.Start(
		target,
		sounds.FileName(settings.SoundID),
		time.Duration(settings.RingDurationMinutes)*time.Minute,
		settings.VibrationEnabled,
		settings.SoundEnabled,
	)
	if err != nil {
		log.Printf("Failed to re-arm native alarm after settings change: %v", err)
		return
	}
	s.nativeArmed = true
	log.Printf("Native alarm re-armed at %s with updated settings", target.Format(time.RFC3339))
}

// HandleEvent reconciles one asynchronous bridge event with the scheduler
// state. Events may arrive in any order and duplicated; every branch is
// idempotent.
func (s *Scheduler) HandleEvent(ev bridge.Event) {
	var handoff StopHandler
	auto := false

	s.mu.Lock()
	switch e := ev.(type) {
	case bridge.Armed:
		// The bridge confirming a live schedule settles any acknowledgments
		// still owed for earlier disarms
		s.stopAckPending = false

		// Adopt schedules the bridge knows about that we do not; this is
		// how an armed alarm survives a process restart
		if s.status != StatusArmed || s.scheduledAt == nil || !s.scheduledAt.Equal(e.ScheduledAt) {
			t := e.ScheduledAt
			s.scheduledAt = &t
			s.nativeArmed = true
			s.status = StatusArmed
		}

	case bridge.Triggered:
		if s.status != StatusRinging {
			// Cancel the redundant notification so the user is not alerted twice
			s.cancelNotificationLocked()
			s.scheduledAt = nil
			s.status = StatusRinging
			if s.settings.AlarmSettings().VibrationEnabled {
				log.Println("Haptic pulse on alarm trigger")
			}
		}

	case bridge.Stopped:
		if s.stopAckPending {
			// Acknowledgment of our own disarm during arm, snooze or settings
			// reconciliation; not a user stop. The flag stays up so a
			// duplicated acknowledgment is swallowed too.
			break
		}
		prior := s.status
		s.cancelNotificationLocked()
		s.scheduledAt = nil
		s.nativeArmed = false
		s.remainingSnoozes = 0
		s.status = StatusIdle
		if prior == StatusRinging {
			handoff = s.onStopped
			auto = true
		}

	case bridge.Error:
		if !e.Fatal() {
			log.Printf("Ignoring non-fatal alarm error [%s]: %s", e.Code, e.Message)
			break
		}
		log.Printf("Alarm error [%s]: %s", e.Code, e.Message)
		s.scheduledAt = nil
		s.nativeArmed = false
		s.remainingSnoozes = 0
		s.status = StatusIdle
	}
	s.mu.Unlock()

	if handoff != nil {
		handoff(auto)
	}
}

func (s *Scheduler) handleNotificationReceived(n notify.Notification) {
	if n.Content.Category != notify.AlarmCategory {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusRinging {
		s.scheduledAt = nil
		s.status = StatusRinging
	}
}

func (s *Scheduler) handleNotificationAction(actionID string, n notify.Notification) {
	if n.Content.Category != notify.AlarmCategory || actionID != notify.StopActionID {
		return
	}

	s.mu.Lock()
	prior := s.status
	if prior == StatusIdle {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	handoff := s.onStopped
	s.mu.Unlock()

	if prior == StatusRinging && handoff != nil {
		handoff(false)
	}
}

// Status returns the current alarm status
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ScheduledAt returns the armed target time, or nil when no alarm is armed
func (s *Scheduler) ScheduledAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduledAt == nil {
		return nil
	}
	t := *s.scheduledAt
	return &t
}

// RemainingSnoozes returns the snooze budget left for the armed alarm
func (s *Scheduler) RemainingSnoozes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingSnoozes
}

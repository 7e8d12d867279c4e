package bridge

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/borgmon/wakewalk/pkg/audio"
	"github.com/borgmon/wakewalk/pkg/sounds"
)

const vibrationInterval = 1500 * time.Millisecond

// LocalBridge rings alarms in-process: a trigger timer starts a looping
// alarm sound and a vibration pulse, and an auto-stop timer silences the
// ring after the configured duration. While armed it keeps a near-silent
// audio loop running; losing that loop degrades battery behavior but never
// the alarm itself.
type LocalBridge struct {
	soundDir string
	now      func() time.Time
	events   chan Event

	mu            sync.Mutex
	triggerTimer  *time.Timer
	stopTimer     *time.Timer
	silentLoop    *audio.Loop
	alarmLoop     *audio.Loop
	vibrationStop chan struct{}
}

func NewLocalBridge(soundDir string) *LocalBridge {
	return &LocalBridge{
		soundDir: soundDir,
		now:      time.Now,
		events:   make(chan Event, 16),
	}
}

// SetClock overrides the bridge clock, used in tests
func (b *LocalBridge) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

func (b *LocalBridge) Events() <-chan Event {
	return b.events
}

func (b *LocalBridge) Start(target time.Time, soundFile string, ringDuration time.Duration, vibrationEnabled, soundEnabled bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if target.IsZero() {
		b.emit(Error{Code: CodeInvalidTime, Message: "target time is zero"})
		return nil
	}

	b.invalidateTimersLocked()
	b.startSilentLoopLocked()

	delay := target.Sub(b.now())
	if delay > 0 {
		b.triggerTimer = time.AfterFunc(delay, func() {
			b.trigger(soundFile, vibrationEnabled, soundEnabled)
		})
	}

	// The auto-stop covers both the future ring and a target already in the
	// past whose ring window is still open
	if stopDelay := delay + ringDuration; stopDelay > 0 {
		b.stopTimer = time.AfterFunc(stopDelay, func() {
			b.Stop()
		})
	}

	b.emit(Armed{ScheduledAt: target})
	return nil
}

func (b *LocalBridge) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.invalidateTimersLocked()
	b.stopSilentLoopLocked()
	b.stopAlarmLoopLocked()
	b.stopVibrationLocked()
	b.emit(Stopped{})
	return nil
}

func (b *LocalBridge) trigger(soundFile string, vibrationEnabled, soundEnabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if soundEnabled {
		b.stopSilentLoopLocked()
		b.startAlarmLoopLocked(soundFile)
	} else if vibrationEnabled {
		// Keep the silent loop alive so the vibration pulse keeps running
		// in the background
		b.startSilentLoopLocked()
	} else {
		b.stopSilentLoopLocked()
	}

	if vibrationEnabled {
		b.startVibrationLocked()
	}

	b.emit(Triggered{TriggeredAt: b.now()})
}

func (b *LocalBridge) startSilentLoopLocked() {
	if b.silentLoop != nil {
		return
	}
	loop, err := audio.PlayLoopFile(filepath.Join(b.soundDir, sounds.SilentLoopFile))
	if err != nil {
		b.emit(Error{Code: CodeSilentLoopAsset, Message: err.Error()})
		return
	}
	b.silentLoop = loop
}

func (b *LocalBridge) stopSilentLoopLocked() {
	b.silentLoop.Stop()
	b.silentLoop = nil
}

func (b *LocalBridge) startAlarmLoopLocked(soundFile string) {
	if b.alarmLoop != nil {
		return
	}
	loop, err := audio.PlayLoopFile(filepath.Join(b.soundDir, soundFile))
	if err != nil {
		b.emit(Error{Code: CodeMissingSound, Message: err.Error()})
		return
	}
	b.alarmLoop = loop
}

func (b *LocalBridge) stopAlarmLoopLocked() {
	b.alarmLoop.Stop()
	b.alarmLoop = nil
}

func (b *LocalBridge) startVibrationLocked() {
	if b.vibrationStop != nil {
		return
	}
	stop := make(chan struct{})
	b.vibrationStop = stop
	go func() {
		ticker := time.NewTicker(vibrationInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// Desktop hosts have no vibration motor; pulse the log so
				// the ring is observable without audio
				log.Println("Alarm vibration pulse")
			}
		}
	}()
}

func (b *LocalBridge) stopVibrationLocked() {
	if b.vibrationStop != nil {
		close(b.vibrationStop)
		b.vibrationStop = nil
	}
}

func (b *LocalBridge) invalidateTimersLocked() {
	if b.triggerTimer != nil {
		b.triggerTimer.Stop()
		b.triggerTimer = nil
	}
	if b.stopTimer != nil {
		b.stopTimer.Stop()
		b.stopTimer = nil
	}
}

func (b *LocalBridge) emit(ev Event) {
	select {
	case b.events <- ev:
	default:
		log.Printf("Bridge event dropped, consumer not keeping up: %T", ev)
	}
}

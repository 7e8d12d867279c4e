package bridge

import "time"

// ErrorCode classifies bridge failures so consumers never have to sniff
// message strings. Only CodeSilentLoopAsset is non-fatal: the silent lead
// loop is a best-effort battery keep-alive, the alarm still fires without it.
type ErrorCode string

const (
	CodeSilentLoopAsset ErrorCode = "silent_loop_asset"
	CodeInvalidTime     ErrorCode = "invalid_time"
	CodeMissingSound    ErrorCode = "missing_sound"
	CodeAudioSession    ErrorCode = "audio_session"
)

// Event is the closed set of asynchronous bridge lifecycle events. They may
// arrive in any order and duplicated; consumers must handle them
// idempotently.
type Event interface {
	bridgeEvent()
}

// Armed reports the bridge accepted a schedule
type Armed struct {
	ScheduledAt time.Time
}

// Triggered reports the alarm started ringing
type Triggered struct {
	TriggeredAt time.Time
}

// Stopped reports the alarm was disarmed or finished ringing
type Stopped struct{}

// Error reports a bridge failure
type Error struct {
	Code    ErrorCode
	Message string
}

func (Armed) bridgeEvent()     {}
func (Triggered) bridgeEvent() {}
func (Stopped) bridgeEvent()   {}
func (Error) bridgeEvent()     {}

// Fatal reports whether this error must force the alarm back to idle
func (e Error) Fatal() bool {
	return e.Code != CodeSilentLoopAsset
}

// Bridge is the OS-level redundant alarm trigger: an audio/vibration loop
// armed independently of the notification so the alarm rings even when
// notifications are dropped.
type Bridge interface {
	// Start arms the bridge for the target time with the given sound file,
	// ring duration and vibration/sound switches. Re-starting replaces any
	// prior schedule.
	Start(target time.Time, soundFile string, ringDuration time.Duration, vibrationEnabled, soundEnabled bool) error
	// Stop disarms the bridge and silences any ringing. Emits Stopped.
	Stop() error
	// Events is the stream of lifecycle events
	Events() <-chan Event
}

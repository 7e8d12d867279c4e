package models

// AlarmSettings holds the user-tunable alarm behavior
type AlarmSettings struct {
	RingDurationMinutes   int    `json:"ring_duration_minutes"`   // how long the alarm rings before auto-stop
	SoundID               string `json:"sound_id"`                // built-in alarm sound identifier
	VibrationEnabled      bool   `json:"vibration_enabled"`       // pulse vibration while ringing
	SoundEnabled          bool   `json:"sound_enabled"`           // play the alarm sound loop
	SnoozeEnabled         bool   `json:"snooze_enabled"`          // allow snoozing at all
	SnoozeDurationMinutes int    `json:"snooze_duration_minutes"` // delay per snooze
	SnoozeRepeatCount     int    `json:"snooze_repeat_count"`     // snooze budget per armed alarm
}

// RingDurationOptions are the selectable ring durations in minutes
var RingDurationOptions = []int{1, 3, 5}

const (
	DefaultRingDurationMinutes   = 3
	DefaultVibrationEnabled      = true
	DefaultSoundEnabled          = true
	DefaultSnoozeEnabled         = false
	DefaultSnoozeDurationMinutes = 3
	DefaultSnoozeRepeatCount     = 3
)

// ValidRingDuration returns true if minutes is one of the selectable durations
func ValidRingDuration(minutes int) bool {
	for _, m := range RingDurationOptions {
		if m == minutes {
			return true
		}
	}
	return false
}

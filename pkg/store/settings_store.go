package store

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/borgmon/wakewalk/pkg/models"
	"github.com/borgmon/wakewalk/pkg/sounds"
)

const settingsKey = "wakewalk:alarm-settings"

// SettingsStore hydrates and persists the user's alarm settings. A stored
// record that fails validation is replaced with defaults rather than
// breaking startup.
type SettingsStore struct {
	kv     KV
	mu     sync.Mutex
	cached *models.AlarmSettings
}

func NewSettingsStore(kv KV) *SettingsStore {
	return &SettingsStore{kv: kv}
}

// DefaultSettings returns the out-of-box alarm settings
func DefaultSettings() models.AlarmSettings {
	return models.AlarmSettings{
		RingDurationMinutes:   models.DefaultRingDurationMinutes,
		SoundID:               sounds.DefaultID(),
		VibrationEnabled:      models.DefaultVibrationEnabled,
		SoundEnabled:          models.DefaultSoundEnabled,
		SnoozeEnabled:         models.DefaultSnoozeEnabled,
		SnoozeDurationMinutes: models.DefaultSnoozeDurationMinutes,
		SnoozeRepeatCount:     models.DefaultSnoozeRepeatCount,
	}
}

func validSettings(s models.AlarmSettings) bool {
	return models.ValidRingDuration(s.RingDurationMinutes) &&
		sounds.ValidID(s.SoundID) &&
		s.SnoozeDurationMinutes > 0 &&
		s.SnoozeRepeatCount >= 0
}

// Load returns the stored settings, falling back to defaults when nothing
// is stored or the stored value does not validate
func (s *SettingsStore) Load() models.AlarmSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached
	}

	settings := DefaultSettings()
	raw, err := s.kv.GetItem(settingsKey)
	if err != nil {
		log.Printf("Failed to read alarm settings: %v", err)
	} else if raw != nil {
		var stored models.AlarmSettings
		if err := json.Unmarshal(raw, &stored); err != nil {
			log.Printf("Failed to decode alarm settings: %v", err)
		} else if validSettings(stored) {
			settings = stored
		} else {
			log.Printf("Stored alarm settings failed validation, using defaults")
		}
	}

	s.cached = &settings
	return settings
}

// Save persists new settings. Write failures are logged; the in-memory
// settings still take effect for the running process.
func (s *SettingsStore) Save(settings models.AlarmSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = &settings
	raw, err := json.Marshal(settings)
	if err != nil {
		log.Printf("Failed to encode alarm settings: %v", err)
		return
	}
	if err := s.kv.SetItem(settingsKey, raw); err != nil {
		log.Printf("Failed to write alarm settings: %v", err)
	}
}

// Update applies fn to the current settings and persists the result,
// returning the new settings
func (s *SettingsStore) Update(fn func(*models.AlarmSettings)) models.AlarmSettings {
	settings := s.Load()
	fn(&settings)
	s.Save(settings)
	return settings
}

// AlarmSettings implements the scheduler's settings source
func (s *SettingsStore) AlarmSettings() models.AlarmSettings {
	return s.Load()
}

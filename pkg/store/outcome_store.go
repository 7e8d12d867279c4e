package store

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/borgmon/wakewalk/pkg/models"
)

const outcomesKey = "wakewalk:daily-outcomes"

// OutcomePatch is a partial update to a DailyOutcome record. Nil and zero
// fields are left untouched by Apply. AchievedAt is only written when
// SetAchievedAt is true, so a resolution can explicitly clear it.
type OutcomePatch struct {
	Mode          models.SessionMode
	AlarmTime     *time.Time
	WakeGoalTime  *time.Time
	GoalSteps     int
	StopAt        *time.Time
	StepsInWindow *int
	Outcome       models.OutcomeResult
	AchievedAt    *time.Time
	SetAchievedAt bool
	RuleVersion   int
}

func (p OutcomePatch) apply(rec *models.DailyOutcome) {
	if p.Mode != "" {
		rec.Mode = p.Mode
	}
	if p.AlarmTime != nil {
		rec.AlarmTime = p.AlarmTime
	}
	if p.WakeGoalTime != nil {
		rec.WakeGoalTime = p.WakeGoalTime
	}
	if p.GoalSteps > 0 {
		rec.GoalSteps = p.GoalSteps
	}
	if p.StopAt != nil {
		rec.StopAt = p.StopAt
	}
	if p.StepsInWindow != nil {
		rec.StepsInWindow = p.StepsInWindow
	}
	if p.Outcome != "" {
		rec.Outcome = p.Outcome
	}
	if p.SetAchievedAt {
		rec.AchievedAt = p.AchievedAt
	}
}

// applyDefaults fills only fields the record does not already carry, so an
// existing record's fields win over defaults
func (p OutcomePatch) applyDefaults(rec *models.DailyOutcome) {
	if p.Mode != "" && rec.Mode == "" {
		rec.Mode = p.Mode
	}
	if p.AlarmTime != nil && rec.AlarmTime == nil {
		rec.AlarmTime = p.AlarmTime
	}
	if p.WakeGoalTime != nil && rec.WakeGoalTime == nil {
		rec.WakeGoalTime = p.WakeGoalTime
	}
	if p.GoalSteps > 0 && rec.GoalSteps == 0 {
		rec.GoalSteps = p.GoalSteps
	}
	if p.StopAt != nil && rec.StopAt == nil {
		rec.StopAt = p.StopAt
	}
	if p.StepsInWindow != nil && rec.StepsInWindow == nil {
		rec.StepsInWindow = p.StepsInWindow
	}
	if p.Outcome != "" && rec.Outcome == "" {
		rec.Outcome = p.Outcome
	}
	if p.SetAchievedAt && rec.AchievedAt == nil {
		rec.AchievedAt = p.AchievedAt
	}
}

// UpsertParams describes an incremental update for one date key. Defaults
// seed fields on a brand-new record; the existing record's fields win over
// defaults but lose to the patch.
type UpsertParams struct {
	DateKey  string
	Patch    OutcomePatch
	Defaults *OutcomePatch
}

// OutcomeStore is the sole writer of persisted DailyOutcome records.
// Storage failures are logged and degrade gracefully: reads fall back to an
// empty map and failed writes are dropped, so the alarm flow never crashes
// on storage trouble.
type OutcomeStore struct {
	kv  KV
	now func() time.Time
	mu  sync.Mutex
}

func NewOutcomeStore(kv KV) *OutcomeStore {
	return &OutcomeStore{kv: kv, now: time.Now}
}

// SetClock overrides the store's clock, used in tests
func (s *OutcomeStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *OutcomeStore) readMap() models.DailyOutcomeMap {
	raw, err := s.kv.GetItem(outcomesKey)
	if err != nil {
		log.Printf("Failed to read daily outcomes: %v", err)
		return models.DailyOutcomeMap{}
	}
	if raw == nil {
		return models.DailyOutcomeMap{}
	}
	var m models.DailyOutcomeMap
	if err := json.Unmarshal(raw, &m); err != nil {
		log.Printf("Failed to decode daily outcomes: %v", err)
		return models.DailyOutcomeMap{}
	}
	if m == nil {
		return models.DailyOutcomeMap{}
	}
	return m
}

func (s *OutcomeStore) writeMap(m models.DailyOutcomeMap) {
	raw, err := json.Marshal(m)
	if err != nil {
		log.Printf("Failed to encode daily outcomes: %v", err)
		return
	}
	if err := s.kv.SetItem(outcomesKey, raw); err != nil {
		log.Printf("Failed to write daily outcomes: %v", err)
	}
}

// Upsert shallow-merges defaults, then the existing record, then the patch
// for the given date key. RuleVersion is carried forward from the existing
// record, seeded from defaults or 1 otherwise, and never reset by a patch.
// Returns the merged record.
func (s *OutcomeStore) Upsert(params UpsertParams) models.DailyOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.readMap()
	existing, exists := m[params.DateKey]

	rec := models.DailyOutcome{DateKey: params.DateKey}
	if exists {
		rec = existing
	}
	if params.Defaults != nil {
		params.Defaults.applyDefaults(&rec)
	}

	ruleVersion := 0
	if exists && existing.RuleVersion > 0 {
		ruleVersion = existing.RuleVersion
	} else if params.Defaults != nil && params.Defaults.RuleVersion > 0 {
		ruleVersion = params.Defaults.RuleVersion
	} else if params.Patch.RuleVersion > 0 {
		ruleVersion = params.Patch.RuleVersion
	} else {
		ruleVersion = 1
	}

	params.Patch.apply(&rec)
	rec.DateKey = params.DateKey
	rec.RuleVersion = ruleVersion
	rec.UpdatedAt = s.now()

	m[params.DateKey] = rec
	s.writeMap(m)
	return rec
}

// Overwrite fully replaces the stored record for dateKey. Only UpdatedAt is
// recomputed; used when arming a fresh alarm-mode session so stale outcome
// fields from a prior episode under the same key are cleared.
func (s *OutcomeStore) Overwrite(dateKey string, outcome models.DailyOutcome) models.DailyOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome.DateKey = dateKey
	outcome.UpdatedAt = s.now()

	m := s.readMap()
	m[dateKey] = outcome
	s.writeMap(m)
	return outcome
}

// Get returns the record for dateKey, or nil when absent
func (s *OutcomeStore) Get(dateKey string) *models.DailyOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.readMap()
	if rec, ok := m[dateKey]; ok {
		return &rec
	}
	return nil
}

// GetAll returns every stored record keyed by date
func (s *OutcomeStore) GetAll() models.DailyOutcomeMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readMap()
}

// Remove deletes the record for dateKey if present
func (s *OutcomeStore) Remove(dateKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.readMap()
	if _, ok := m[dateKey]; !ok {
		return
	}
	delete(m, dateKey)
	s.writeMap(m)
}

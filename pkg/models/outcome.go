package models

import "time"

// SessionMode distinguishes a morning alarm from a nap timer
type SessionMode string

const (
	ModeAlarm SessionMode = "alarm"
	ModeNap   SessionMode = "nap"
)

// OutcomeResult is the resolution of a day's wake walk
type OutcomeResult string

const (
	OutcomeSuccess OutcomeResult = "success"
	OutcomeFail    OutcomeResult = "fail"
)

// DailyOutcome is the persisted record of one calendar day's alarm episode.
// The DateKey is fixed at arm time from the target alarm time and is never
// recomputed, even when the walk crosses midnight.
type DailyOutcome struct {
	DateKey       string        `json:"dateKey"`
	Mode          SessionMode   `json:"mode"`
	AlarmTime     *time.Time    `json:"alarmTime,omitempty"`
	WakeGoalTime  *time.Time    `json:"wakeGoalTime,omitempty"`
	GoalSteps     int           `json:"goalSteps,omitempty"`
	StopAt        *time.Time    `json:"stopAt"`
	AchievedAt    *time.Time    `json:"achievedAt"`
	StepsInWindow *int          `json:"stepsInWindow"`
	Outcome       OutcomeResult `json:"outcome,omitempty"`
	RuleVersion   int           `json:"ruleVersion"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// DailyOutcomeMap keys outcome records by their date key
type DailyOutcomeMap map[string]DailyOutcome

// IsCommit reports whether this record counts toward the streak graph.
// Naps never count, regardless of stored outcome.
func (o DailyOutcome) IsCommit() bool {
	return o.Mode != ModeNap && o.Outcome == OutcomeSuccess
}

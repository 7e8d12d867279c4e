package notify

import (
	"errors"
	"time"
)

const (
	// AlarmCategory tags alarm notifications so handlers can recognize them
	AlarmCategory = "alarm-category"
	// StopActionID is the category action that stops a ringing alarm
	StopActionID = "STOP_ALARM"
)

// ErrPermissionDenied is returned when the user refuses notification
// delivery; arming does not proceed without it.
var ErrPermissionDenied = errors.New("alarm notifications are required to keep alarms reliable")

// Content is the visible payload of a scheduled notification
type Content struct {
	Title    string
	Body     string
	Category string
	Data     map[string]string
}

// Notification is a delivered (or pending) notification with its handle
type Notification struct {
	Handle  string
	FireAt  time.Time
	Content Content
}

// ReceivedHandler observes notifications as they fire
type ReceivedHandler func(n Notification)

// ActionHandler observes user responses to notification actions
type ActionHandler func(actionID string, n Notification)

// Gateway wraps platform local-notification scheduling. Implementations
// must make EnsureSetup idempotent and cheap to call repeatedly.
type Gateway interface {
	// EnsureSetup registers the alarm category and its Stop action once
	EnsureSetup() error
	// RequestPermission asks for notification delivery, returning
	// ErrPermissionDenied if refused
	RequestPermission() error
	// ScheduleAt schedules a notification for time t and returns its handle
	ScheduleAt(t time.Time, content Content) (string, error)
	// Cancel drops a pending notification; canceling an unknown or already
	// fired handle is not an error
	Cancel(handle string) error
	// OnReceived registers a handler for fired notifications
	OnReceived(h ReceivedHandler)
	// OnAction registers a handler for action responses
	OnAction(h ActionHandler)
}

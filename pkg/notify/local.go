package notify

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// minLead keeps notifications from being scheduled in the past, which
// platforms either drop or fire immediately. A target already behind the
// clock is clamped this far into the future.
const minLead = time.Second

// LocalGateway delivers notifications in-process with timers. It is the
// daemon's stand-in for a platform notification center: fired notifications
// go to the registered handlers and the log.
type LocalGateway struct {
	mu       sync.Mutex
	setup    sync.Once
	now      func() time.Time
	pending  map[string]*pendingNotification
	received []ReceivedHandler
	actions  []ActionHandler
}

type pendingNotification struct {
	notification Notification
	timer        *time.Timer
}

func NewLocalGateway() *LocalGateway {
	return &LocalGateway{
		now:     time.Now,
		pending: make(map[string]*pendingNotification),
	}
}

// SetClock overrides the gateway clock, used in tests
func (g *LocalGateway) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

func (g *LocalGateway) EnsureSetup() error {
	g.setup.Do(func() {
		log.Printf("Notification category %q registered with action %q", AlarmCategory, StopActionID)
	})
	return nil
}

// RequestPermission always grants for in-process delivery
func (g *LocalGateway) RequestPermission() error {
	return nil
}

func (g *LocalGateway) ScheduleAt(t time.Time, content Content) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delay := t.Sub(g.now())
	if delay < minLead {
		delay = minLead
	}

	handle := uuid.New().String()
	n := Notification{Handle: handle, FireAt: t, Content: content}
	p := &pendingNotification{notification: n}
	p.timer = time.AfterFunc(delay, func() {
		g.fire(handle)
	})
	g.pending[handle] = p
	return handle, nil
}

func (g *LocalGateway) Cancel(handle string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.pending[handle]; ok {
		p.timer.Stop()
		delete(g.pending, handle)
	}
	return nil
}

func (g *LocalGateway) OnReceived(h ReceivedHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.received = append(g.received, h)
}

func (g *LocalGateway) OnAction(h ActionHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.actions = append(g.actions, h)
}

// RespondAction simulates the user pressing a notification action, e.g.
// the CLI driving the Stop button
func (g *LocalGateway) RespondAction(actionID string, n Notification) {
	g.mu.Lock()
	handlers := append([]ActionHandler(nil), g.actions...)
	g.mu.Unlock()

	for _, h := range handlers {
		h(actionID, n)
	}
}

func (g *LocalGateway) fire(handle string) {
	g.mu.Lock()
	p, ok := g.pending[handle]
	if !ok {
		g.mu.Unlock()
		return
	}
	delete(g.pending, handle)
	handlers := append([]ReceivedHandler(nil), g.received...)
	g.mu.Unlock()

	log.Printf("Notification fired: %s: %s", p.notification.Content.Title, p.notification.Content.Body)
	for _, h := range handlers {
		h(p.notification)
	}
}

// PendingCount reports how many notifications are still scheduled
func (g *LocalGateway) PendingCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

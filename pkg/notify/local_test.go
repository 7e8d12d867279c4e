package notify

import (
	"testing"
	"time"
)

func TestScheduleAndFire(t *testing.T) {
	g := NewLocalGateway()
	fired := make(chan Notification, 1)
	g.OnReceived(func(n Notification) { fired <- n })

	// Target in the past is clamped to the minimum lead instead of dropped
	handle, err := g.ScheduleAt(time.Now().Add(-time.Minute), Content{
		Title:    "Alarm",
		Category: AlarmCategory,
	})
	if err != nil {
		t.Fatalf("ScheduleAt failed: %v", err)
	}
	if handle == "" {
		t.Fatal("Expected a handle")
	}

	select {
	case n := <-fired:
		if n.Handle != handle {
			t.Errorf("Fired handle %q != scheduled %q", n.Handle, handle)
		}
		if n.Content.Category != AlarmCategory {
			t.Errorf("Category lost: %q", n.Content.Category)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Notification never fired")
	}

	if g.PendingCount() != 0 {
		t.Errorf("Expected no pending after fire, got %d", g.PendingCount())
	}
}

func TestCancelPreventsFire(t *testing.T) {
	g := NewLocalGateway()
	fired := make(chan Notification, 1)
	g.OnReceived(func(n Notification) { fired <- n })

	handle, err := g.ScheduleAt(time.Now().Add(time.Hour), Content{Title: "Alarm"})
	if err != nil {
		t.Fatalf("ScheduleAt failed: %v", err)
	}
	if err := g.Cancel(handle); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if g.PendingCount() != 0 {
		t.Errorf("Expected no pending after cancel, got %d", g.PendingCount())
	}

	// Cancelling twice or cancelling garbage is not an error
	if err := g.Cancel(handle); err != nil {
		t.Errorf("Second cancel errored: %v", err)
	}
	if err := g.Cancel("no-such-handle"); err != nil {
		t.Errorf("Unknown handle cancel errored: %v", err)
	}
}

func TestRespondActionReachesHandlers(t *testing.T) {
	g := NewLocalGateway()
	got := make(chan string, 1)
	g.OnAction(func(actionID string, n Notification) { got <- actionID })

	g.RespondAction(StopActionID, Notification{Content: Content{Category: AlarmCategory}})

	select {
	case id := <-got:
		if id != StopActionID {
			t.Errorf("Expected %q, got %q", StopActionID, id)
		}
	default:
		t.Fatal("Action handler not invoked")
	}
}

func TestEnsureSetupIdempotent(t *testing.T) {
	g := NewLocalGateway()
	for i := 0; i < 3; i++ {
		if err := g.EnsureSetup(); err != nil {
			t.Fatalf("EnsureSetup call %d failed: %v", i+1, err)
		}
	}
}

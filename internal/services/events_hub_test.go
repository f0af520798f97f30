package services

import (
	"testing"

	"github.com/errwatch/errwatch/internal/models"
)

func TestEventsHubBroadcast(t *testing.T) {
	hub := NewEventsHub()

	a := hub.Subscribe("a")
	b := hub.Subscribe("b")
	defer hub.Unsubscribe("a")
	defer hub.Unsubscribe("b")

	hub.Publish(models.ErrorEvent{ID: 1, Message: "boom"})

	for name, ch := range map[string]<-chan models.ErrorEvent{"a": a, "b": b} {
		select {
		case got := <-ch:
			if got.ID != 1 {
				t.Errorf("client %s got event %d, want 1", name, got.ID)
			}
		default:
			t.Errorf("client %s received nothing", name)
		}
	}
}

func TestEventsHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewEventsHub()

	ch := hub.Subscribe("a")
	hub.Unsubscribe("a")

	if _, open := <-ch; open {
		t.Error("channel must be closed after Unsubscribe")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", hub.ClientCount())
	}

	// Publishing with no subscribers must not panic.
	hub.Publish(models.ErrorEvent{ID: 2})
}

func TestEventsHubSlowClientDropsEvents(t *testing.T) {
	hub := NewEventsHub()

	ch := hub.Subscribe("slow")
	defer hub.Unsubscribe("slow")

	// Fill the buffer past capacity; extra events are dropped, not blocked on.
	for i := 0; i < 150; i++ {
		hub.Publish(models.ErrorEvent{ID: uint(i + 1)})
	}

	if got := len(ch); got != 100 {
		t.Errorf("buffered events = %d, want buffer capacity 100", got)
	}
}

package services

import (
	"sync"

	"github.com/errwatch/errwatch/internal/models"
)

// EventsHub manages SSE client connections and broadcasts newly inserted
// error events to the dashboard without polling.
type EventsHub struct {
	clients map[string]chan models.ErrorEvent
	mu      sync.RWMutex
}

// NewEventsHub creates a new hub instance
func NewEventsHub() *EventsHub {
	return &EventsHub{
		clients: make(map[string]chan models.ErrorEvent),
	}
}

// Subscribe registers a new client and returns a channel for receiving events
func (h *EventsHub) Subscribe(clientID string) <-chan models.ErrorEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Create buffered channel to prevent blocking
	ch := make(chan models.ErrorEvent, 100)
	h.clients[clientID] = ch
	return ch
}

// Unsubscribe removes a client from the hub
func (h *EventsHub) Unsubscribe(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[clientID]; ok {
		close(ch)
		delete(h.clients, clientID)
	}
}

// Publish broadcasts an inserted event to all connected clients
func (h *EventsHub) Publish(event models.ErrorEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.clients {
		// Non-blocking send - drop event if client buffer is full
		select {
		case ch <- event:
		default:
			// Client is slow, skip this event
		}
	}
}

// ClientCount returns the number of connected clients
func (h *EventsHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Global hub instance
var globalEventsHub *EventsHub
var eventsHubOnce sync.Once

// GetEventsHub returns the global events hub singleton
func GetEventsHub() *EventsHub {
	eventsHubOnce.Do(func() {
		globalEventsHub = NewEventsHub()
	})
	return globalEventsHub
}

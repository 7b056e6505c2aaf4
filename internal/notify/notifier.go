// Package notify is the publish layer that fans mutation events out to
// real-time dashboard subscribers.
//
// Delivery is at-most-once and fire-and-forget: publishing never blocks
// or fails the mutation it follows, and events are dropped when no
// subscriber can take them. A dashboard that was offline must re-fetch
// state on reconnect; the periodic stats backstop covers that.
package notify

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Entity names used in event naming.
const (
	EntityReport    = "report"
	EntityInventory = "inventory"
	EntityToolbox   = "toolbox"
	EntityTask      = "task"
	EntityUser      = "user"
)

// Action names used in event naming.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event is one typed change notification. Name follows the
// <entity>:<action> convention, with a parallel admin:<entity>:<action>
// copy published for admin-panel-only widgets.
type Event struct {
	Name      string         `json:"event"`
	EntityID  int64          `json:"entity_id"`
	OwnerID   int64          `json:"owner_user_id"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Subscriber receives events over a buffered channel. A subscriber that
// stops draining loses events rather than stalling publishers.
type Subscriber struct {
	ch  chan Event
	hub *Hub
}

// Events returns the subscriber's receive channel. It is closed when
// the subscriber or the hub closes.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Close detaches the subscriber from the hub.
func (s *Subscriber) Close() {
	s.hub.unsubscribe(s)
}

// Hub fans events out to all attached subscribers. Subscribers receive
// every event published after they attach; there is no replay.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscriber]struct{}
	closed bool
	logger *log.Logger
}

// NewHub creates an event hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		subs:   make(map[*Subscriber]struct{}),
		logger: logger,
	}
}

// Subscribe attaches a new subscriber with the given channel buffer.
func (h *Hub) Subscribe(buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = 64
	}
	s := &Subscriber{ch: make(chan Event, buffer), hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(s.ch)
		return s
	}
	h.subs[s] = struct{}{}
	return s
}

func (h *Hub) unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.ch)
	}
}

// SubscriberCount returns the number of attached subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish delivers the event to every subscriber without blocking.
// A subscriber whose buffer is full misses the event; the drop is
// logged and the publisher returns immediately either way.
func (h *Hub) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for s := range h.subs {
		select {
		case s.ch <- ev:
		default:
			h.logger.Printf("Warning: subscriber buffer full, dropping %s", ev.Name)
		}
	}
}

// Emit publishes <entity>:<action> and its admin:<entity>:<action>
// twin for a completed mutation. data carries optional denormalized
// fields (a title, a status) so dashboards can render without a
// follow-up fetch.
func (h *Hub) Emit(entity, action string, entityID, ownerID int64, data map[string]any) {
	now := time.Now()
	base := Event{
		Name:      fmt.Sprintf("%s:%s", entity, action),
		EntityID:  entityID,
		OwnerID:   ownerID,
		Timestamp: now,
		Data:      data,
	}
	h.Publish(base)

	admin := base
	admin.Name = "admin:" + base.Name
	h.Publish(admin)
}

// Close detaches every subscriber and stops further publishing.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for s := range h.subs {
		delete(h.subs, s)
		close(s.ch)
	}
}
